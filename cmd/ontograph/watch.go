package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/ontograph/ontograph/internal/dataflow"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Reload configured BSL files on change and drive the dataflow driver to fixpoint",
	Long: `watch follows the teacher's own "watch" posture (cmd/bd/list.go's
watchIssues): an fsnotify watcher over the configured paths, debounced
reloads, and Ctrl+C to exit. Each reload re-parses the changed BSL file,
enqueues every base it touched, and runs the Dataflow Driver to fixpoint.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runWatch(cmd.Context(), cmd)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}

func runWatch(ctx context.Context, cmd *cobra.Command) error {
	paths := cfg.WatchPaths
	if len(paths) == 0 {
		return fmt.Errorf("watch: no watchPaths configured")
	}

	var watcher *fsnotify.Watcher
	setup := func() error {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		for _, p := range paths {
			if err := w.Add(p); err != nil {
				_ = w.Close()
				return err
			}
		}
		watcher = w
		return nil
	}
	if err := backoff.Retry(setup, backoff.WithMaxRetries(backoff.NewExponentialBackOff(), 5)); err != nil {
		return fmt.Errorf("watch: start watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	driver := dataflow.NewQueueDriver(theStore, actor, 0)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	fmt.Fprintf(cmd.ErrOrStderr(), "watching %s for changes... (Ctrl+C to exit)\n", strings.Join(paths, ", "))

	var debounceTimer *time.Timer
	const debounceDelay = 500 * time.Millisecond

	reload := func(path string) {
		loaded, err := loadBSLFile(theStore, path)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "reload %s: %v\n", path, err)
			return
		}
		for _, ev := range loaded {
			driver.Enqueue(ev.Base)
		}
		iters, events, err := driver.ToFixpoint(ctx, 0)
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "dataflow: %v\n", err)
			return
		}
		fmt.Fprintf(cmd.ErrOrStderr(), "reloaded %s: %d new events over %d pass(es)\n", path, len(events), iters)
	}

	for {
		select {
		case <-sigChan:
			fmt.Fprintln(cmd.ErrOrStderr(), "stopped watching.")
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !event.Has(fsnotify.Write) {
				continue
			}
			base := filepath.Base(event.Name)
			if !strings.HasSuffix(base, ".bsl") {
				continue
			}
			name := event.Name
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			debounceTimer = time.AfterFunc(debounceDelay, func() { reload(name) })
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "watcher error: %v\n", err)
		}
	}
}
