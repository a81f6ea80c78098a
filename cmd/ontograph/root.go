package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/config"
	"github.com/ontograph/ontograph/internal/genesis"
	"github.com/ontograph/ontograph/internal/store"
	"github.com/ontograph/ontograph/internal/telemetry"
)

var (
	cfgFile string
	actor   string
	session string
	jsonOut bool

	cfg      config.Config
	theStore *store.Store
)

var rootCmd = &cobra.Command{
	Use:   "ontograph",
	Short: "Inspect and drive an event-graph engine store",
	Long: `ontograph loads the genesis ontology and any configured BSL files
into an in-memory event store, then exposes append/query/recalc/validate/
watch over it.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if _, err := telemetry.Init(cmd.Context(), cfg.ServiceName); err != nil {
			return fmt.Errorf("telemetry init: %w", err)
		}

		theStore = store.New(nil)
		theStore.SetLogger(newLogger())
		n, err := genesis.LoadIfEmpty(theStore)
		if err != nil {
			return fmt.Errorf("genesis load: %w", err)
		}
		if n > 0 && !jsonOut {
			fmt.Fprintf(cmd.ErrOrStderr(), "loaded %d genesis events\n", n)
		}
		for _, path := range bslPaths() {
			if path == "" {
				continue
			}
			if _, err := loadBSLFile(theStore, path); err != nil {
				return fmt.Errorf("load %s: %w", path, err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return telemetry.Shutdown(context.Background())
	},
}

// newLogger builds the process-wide structured logger: JSON under --json
// (for piping into a log aggregator), text otherwise — constructed once
// here and handed to the store rather than left at a package-level
// global (cmd/bd/daemon_event_loop.go's *slog.Logger-as-parameter style).
func newLogger() *slog.Logger {
	opts := &slog.HandlerOptions{Level: slog.LevelInfo}
	if jsonOut {
		return slog.New(slog.NewJSONHandler(os.Stderr, opts))
	}
	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}

// bslPaths lists the configured files loaded on top of the embedded
// genesis table, in order. GenesisPath is included here (rather than
// replacing the embedded table, which is fixed per spec.md section 4.2)
// as a supplemental hand-authored file loaded immediately after it.
func bslPaths() []string {
	return []string{cfg.GenesisPath, cfg.BootstrapPath, cfg.ThesaurusPath}
}

// Execute runs the root command, exiting the process with status 1 on
// error the way the teacher's own cmd/bd/main.go does.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "path to a YAML/TOML config file ({genesisPath, bootstrapPath, thesaurusPath, serviceName, watchPaths})")
	rootCmd.PersistentFlags().StringVar(&actor, "actor", "cli", "actor recorded on events this invocation appends")
	rootCmd.PersistentFlags().StringVar(&session, "session", "", "session id recorded on events this invocation appends")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "emit machine-readable JSON output")
}
