package main

import (
	"fmt"
	"os"

	"github.com/ontograph/ontograph/internal/bsl"
	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

// loadBSLFile reads path as the generic BSL dialect and appends every
// resulting draft to s, printing (but not failing on) parser diagnostics —
// a malformed line is reported, not fatal (spec.md section 7). It returns
// the appended events so callers (watch's reload, in particular) can
// enqueue their bases with a Dataflow Driver.
func loadBSLFile(s *store.Store, path string) ([]evgraph.Event, error) {
	raw, err := os.ReadFile(path) // #nosec G304 -- path comes from operator config, not request input
	if err != nil {
		return nil, err
	}
	res := bsl.ParseGeneric(string(raw))
	for _, diag := range res.Diagnostics {
		fmt.Fprintf(os.Stderr, "%s:%d: %s: %q\n", path, diag.Line, diag.Message, diag.Text)
	}
	events := make([]evgraph.Event, 0, len(res.Drafts))
	for _, d := range res.Drafts {
		if d.Actor == "" {
			d.Actor = actor
		}
		if d.Session == "" {
			d.Session = session
		}
		ev, err := s.Append(d)
		if err != nil {
			return events, fmt.Errorf("append from %s: %w", path, err)
		}
		events = append(events, ev)
	}
	return events, nil
}
