package pipeline

import (
	"github.com/mandelsoft/logging"
	"k8s.io/apimachinery/pkg/util/sets"

	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/materializer"
)

// Batch accumulates materialized entries per target entity
// for one sweep and remembers the source nodes to mark.
type Batch struct {
	targets []ecs.Entity
	entries map[ecs.Entity][]materializer.Entry
	sources sets.Set[ecs.Entity]
}

func NewBatch() *Batch {
	return &Batch{
		entries: map[ecs.Entity][]materializer.Entry{},
		sources: sets.New[ecs.Entity](),
	}
}

// Add records the entries of a source node for the given target.
// A source without entries is still marked on injection.
func (b *Batch) Add(source, target ecs.Entity, entries ...materializer.Entry) {
	b.sources.Insert(source)
	if len(entries) == 0 {
		return
	}
	if _, ok := b.entries[target]; !ok {
		b.targets = append(b.targets, target)
	}
	b.entries[target] = append(b.entries[target], entries...)
}

// Targets returns the targets in the order they were first seen.
func (b *Batch) Targets() []ecs.Entity {
	return b.targets
}

func (b *Batch) Entries(target ecs.Entity) []materializer.Entry {
	return b.entries[target]
}

func (b *Batch) Sources() []ecs.Entity {
	return sets.List(b.sources)
}

func (b *Batch) IsSource(e ecs.Entity) bool {
	return b.sources.Has(e)
}

// Injection is the outcome of a batch injection.
type Injection struct {
	Inserted int
	Targets  map[ecs.Entity]int
	Skipped  []error
}

// Inject inserts all accumulated entries into the world and marks
// all source nodes as processed. Entries which cannot be inserted
// are skipped.
func (b *Batch) Inject(log logging.Logger, w *ecs.World) *Injection {
	r := &Injection{Targets: map[ecs.Entity]int{}}

	for _, t := range b.targets {
		for _, e := range b.entries[t] {
			if err := e.Descriptor.Insert(w, t, e.Instance); err != nil {
				log.LogError(err, "cannot insert {{type}} into {{entity}}", "type", e.Descriptor.TypePath(), "entity", t)
				r.Skipped = append(r.Skipped, err)
				continue
			}
			r.Inserted++
			r.Targets[t]++
		}
	}
	for _, s := range sets.List(b.sources) {
		if err := w.Insert(s, ecs.Processed{}); err != nil {
			log.LogError(err, "cannot mark node {{node}}", "node", s)
			r.Skipped = append(r.Skipped, err)
		}
	}
	return r
}
