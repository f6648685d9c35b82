package pipeline

import (
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/mandelsoft/logging"
	"k8s.io/client-go/util/workqueue"

	"github.com/mandelsoft/scenecomponents/pkg/catalog"
	"github.com/mandelsoft/scenecomponents/pkg/ecs"
	"github.com/mandelsoft/scenecomponents/pkg/materializer"
	"github.com/mandelsoft/scenecomponents/pkg/utils"
)

// Report describes the outcome of a sweep.
type Report struct {
	RunId    string
	Started  utils.Timestamp
	Nodes    []ecs.Entity
	Inserted int
	Targets  map[ecs.Entity]int
	Skipped  []error
}

func (r *Report) String() string {
	return fmt.Sprintf("run %s: %d nodes, %d components inserted into %d entities, %d skipped",
		r.RunId, len(r.Nodes), r.Inserted, len(r.Targets), len(r.Skipped))
}

type Option func(p *Pipeline)

// WithWorkers sets the number of workers materializing
// nodes in parallel.
func WithWorkers(n int) Option {
	return func(p *Pipeline) {
		if n > 0 {
			p.workers = n
		}
	}
}

func WithLogContext(lctx logging.Context) Option {
	return func(p *Pipeline) {
		if lctx != nil {
			p.lctx = lctx
		}
	}
}

// Pipeline materializes the metadata of newly imported
// scene nodes into components of a world.
type Pipeline struct {
	lock         sync.Mutex
	catalog      *catalog.Catalog
	world        *ecs.World
	materializer *materializer.Materializer
	workers      int
	lctx         logging.Context
}

func New(c *catalog.Catalog, w *ecs.World, opts ...Option) *Pipeline {
	p := &Pipeline{
		catalog:      c,
		world:        w,
		materializer: materializer.New(c),
		workers:      1,
		lctx:         logging.DefaultContext(),
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

func (p *Pipeline) Workers() int {
	return p.workers
}

type nodeResult struct {
	target ecs.Entity
	result *materializer.Result
	err    error
}

// Sweep processes all nodes carrying extras, which are not yet
// marked as processed. Sweeps are executed sequentially.
func (p *Pipeline) Sweep() (*Report, error) {
	p.lock.Lock()
	defer p.lock.Unlock()

	report := &Report{
		RunId:   uuid.New().String(),
		Started: utils.NewTimestamp(),
		Targets: map[ecs.Entity]int{},
	}
	log := p.lctx.Logger(REALM, logging.NewAttribute("runid", report.RunId))

	if err := p.catalog.EnsureRegistered(); err != nil {
		return nil, err
	}

	report.Nodes = p.world.Query(ecs.With[ecs.Extras](), ecs.Without[ecs.Processed]())
	if len(report.Nodes) == 0 {
		log.Debug("no unprocessed nodes found")
		return report, nil
	}
	log.Info("sweeping {{count}} nodes", "count", len(report.Nodes))

	results := p.materialize(log, report.Nodes)

	batch := NewBatch()
	for i, n := range report.Nodes {
		r := results[i]
		if r.err != nil {
			report.Skipped = append(report.Skipped, fmt.Errorf("node %s: %w", n, r.err))
			batch.Add(n, n)
			continue
		}
		for _, err := range r.result.Skipped {
			report.Skipped = append(report.Skipped, fmt.Errorf("node %s: %w", n, err))
		}
		batch.Add(n, r.target, r.result.Entries...)
	}

	inj := batch.Inject(log, p.world)
	report.Inserted = inj.Inserted
	report.Targets = inj.Targets
	report.Skipped = append(report.Skipped, inj.Skipped...)
	log.Info("sweep done: {{inserted}} components inserted, {{skipped}} skipped", "inserted", report.Inserted, "skipped", len(report.Skipped))
	return report, nil
}

// materialize processes the nodes by a set of workers. The results
// are indexed like the given node list.
func (p *Pipeline) materialize(log logging.Logger, nodes []ecs.Entity) []nodeResult {
	results := make([]nodeResult, len(nodes))

	queue := workqueue.New()
	for i := range nodes {
		queue.Add(i)
	}
	// queued items are still delivered after shutdown
	queue.ShutDown()

	workers := p.workers
	if workers > len(nodes) {
		workers = len(nodes)
	}
	wg := &sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		wlog := log.WithName(fmt.Sprintf("worker %d", i))
		go func() {
			defer wg.Done()
			for {
				obj, shutdown := queue.Get()
				if shutdown {
					return
				}
				idx := obj.(int)
				results[idx] = p.materializeNode(wlog, nodes[idx])
				queue.Done(obj)
			}
		}()
	}
	wg.Wait()
	return results
}

func (p *Pipeline) materializeNode(log logging.Logger, node ecs.Entity) nodeResult {
	extras, ok := ecs.Get[ecs.Extras](p.world, node)
	if !ok {
		return nodeResult{target: node, result: &materializer.Result{}}
	}
	log.Info("materializing node {{node}} ({{name}})", "node", node, "name", ecs.NameOf(p.world, node))
	r, err := p.materializer.Materialize(extras.Value)
	if err != nil {
		log.LogError(err, "skipping metadata of node {{node}}", "node", node)
		return nodeResult{target: node, err: err}
	}
	return nodeResult{target: ResolveTarget(log, p.world, node), result: r}
}
