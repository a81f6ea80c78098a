package genesis

import (
	"embed"
	"fmt"
	"time"

	"github.com/ontograph/ontograph/internal/bsl"
	"github.com/ontograph/ontograph/internal/evgraph"
	"github.com/ontograph/ontograph/internal/store"
)

//go:embed bootstrap.bsl thesaurus.bsl
var bulkFiles embed.FS

// millisClock assigns monotonically increasing 1ms-step timestamps during
// genesis load, so lexicographic ordering matches insertion order without
// depending on wall-clock resolution (spec.md section 4.2's genesis
// timestamp rule).
type millisClock struct{ ms int64 }

func (c *millisClock) next() string {
	ts := c.ms
	c.ms++
	return time.UnixMilli(ts).UTC().Format("2006-01-02T15:04:05.000000000Z07:00")
}

// LoadIfEmpty populates an empty store with the fixed genesis table
// followed by the embedded bootstrap and thesaurus BSL files. It is a
// no-op when the store already holds any events. Returns the number of
// events written.
func LoadIfEmpty(s *store.Store) (int, error) {
	if s.Count() != 0 {
		return 0, nil
	}

	clock := &millisClock{}
	count := 0

	root := Table[0]
	rootEvent := evgraph.Event{
		ID: root.id, Base: root.base, Type: root.typ, Value: root.value,
		Model: root.model, Cause: root.cause, Date: clock.next(), Actor: evgraph.ActorGenesis,
	}
	if _, err := s.AppendGenesisRoot(rootEvent); err != nil {
		return count, fmt.Errorf("genesis root: %w", err)
	}
	count++

	for _, e := range Table[1:] {
		d := evgraph.Draft{
			ID: e.id, Base: e.base, Type: e.typ, Value: e.value,
			Model: e.model, Cause: e.cause, Actor: evgraph.ActorGenesis, Date: clock.next(),
		}
		if _, err := s.Append(d); err != nil {
			return count, fmt.Errorf("genesis entry %s: %w", e.id, err)
		}
		count++
	}
	s.MarkGenesis(root.id)
	for _, e := range Table[1:] {
		s.MarkGenesis(e.id)
	}

	n, err := loadBulkFile(s, clock, "bootstrap.bsl", "boot")
	count += n
	if err != nil {
		return count, err
	}
	n, err = loadBulkFile(s, clock, "thesaurus.bsl", "thes")
	count += n
	if err != nil {
		return count, err
	}

	return count, nil
}

// loadBulkFile parses name through the BSL genesis dialect and appends
// every resulting draft, marking each written id as a system id. Parser
// diagnostics are tolerated (spec.md section 7: a bad line is skipped, not
// fatal); append errors abort the file since a failure here indicates a
// corrupt embedded asset rather than user input.
func loadBulkFile(s *store.Store, clock *millisClock, name, idPrefix string) (int, error) {
	raw, err := bulkFiles.ReadFile(name)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", name, err)
	}
	res := bsl.ParseGenesis(string(raw), idPrefix)

	count := 0
	for _, d := range res.Drafts {
		d.Actor = evgraph.ActorGenesis
		d.Date = clock.next()
		ev, err := s.Append(d)
		if err != nil {
			return count, fmt.Errorf("append from %s: %w", name, err)
		}
		s.MarkSystem(ev.ID)
		count++
	}
	return count, nil
}
