package tracer

import (
	"sync"
	"time"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/log"
	"github.com/benpm/opengl-lens-flare/types"
)

// Per-worker counters, merged after the pool drains.
type workerStat struct {
	ghosts uint64
	rays   uint64
	dead   uint64
}

// A CPU bundle tracer. Each Trace call fans the ghost list out to a fixed
// pool of workers over a channel; ghosts write to disjoint buffer ranges so
// the pass needs no locking and its output is independent of scheduling
// order.
type cpuTracer struct {
	logger log.Logger
	sync.Mutex

	id     string
	sys    *lens.System
	ghosts []lens.Ghost
	opts   Options
	stats  *Stats
}

// Create a new CPU bundle tracer.
func NewCPU(id string) Tracer {
	return &cpuTracer{
		logger: log.New("cpu tracer"),
		id:     id,
		stats:  &Stats{},
	}
}

// Get tracer id.
func (tr *cpuTracer) Id() string {
	return tr.id
}

// Bind a compiled lens system and normalize the bundle options.
func (tr *cpuTracer) Init(sys *lens.System, opts Options) error {
	if sys == nil {
		return ErrNotInitialized
	}
	opts = opts.WithDefaults()
	if opts.GridRes < 2 {
		return ErrInvalidOptions
	}

	tr.Lock()
	defer tr.Unlock()

	tr.sys = sys
	tr.ghosts = lens.EnumerateGhosts(len(sys.Interfaces))
	tr.opts = opts

	tr.logger.Infof("bound %s: %d ghosts, %dx%d rays per ghost, %d workers",
		sys.Name, len(tr.ghosts), opts.GridRes, opts.GridRes, opts.Workers)
	return nil
}

// Trace one frame bundle into req.Out. The call returns only after every
// worker has drained, so the buffer is safe to read afterwards.
func (tr *cpuTracer) Trace(req *BundleRequest) (time.Duration, error) {
	tr.Lock()
	defer tr.Unlock()

	if tr.sys == nil {
		return 0, ErrNotInitialized
	}

	start := time.Now()

	// The supplied light vector points towards the light; rays propagate
	// the opposite way. A degenerate light vector normalizes to zero and
	// every unit of the frame comes out dead rather than NaN.
	dir := req.Globals.LightDir.Mul(-1).Normalize()

	ghostChan := make(chan int, len(tr.ghosts))
	for g := range tr.ghosts {
		ghostChan <- g
	}
	close(ghostChan)

	stats := make([]workerStat, tr.opts.Workers)
	var wg sync.WaitGroup
	wg.Add(tr.opts.Workers)
	for w := 0; w < tr.opts.Workers; w++ {
		go func(st *workerStat) {
			defer wg.Done()
			for g := range ghostChan {
				tr.traceGhost(g, req, dir, st)
			}
		}(&stats[w])
	}
	wg.Wait()

	*tr.stats = Stats{}
	for _, st := range stats {
		tr.stats.GhostsTraced += st.ghosts
		tr.stats.RaysTraced += st.rays
		tr.stats.RaysDead += st.dead
	}
	tr.stats.TraceTime = time.Since(start)

	return tr.stats.TraceTime, nil
}

// Trace every cell of one ghost's bundle. Bounce indices that escape the
// stack are skipped without touching the buffer; cell writes that would
// overrun the buffer are silently discarded.
func (tr *cpuTracer) traceGhost(g int, req *BundleRequest, dir types.Vec3, st *workerStat) {
	ghost := tr.ghosts[g]
	stack := tr.sys.Interfaces

	b1 := int(ghost.Bounce1)
	b2 := int(ghost.Bounce2)
	if b1 < 1 || b1 >= len(stack) || b2 < 0 || b2 >= len(stack) {
		return
	}

	res := tr.opts.GridRes
	for y := 0; y < res; y++ {
		for x := 0; x < res; x++ {
			vert, alive := traceCell(stack, ghost, &req.Globals, dir, x, y, res)
			st.rays++
			if !alive {
				st.dead++
			}

			idx := vertexIndex(g, res, x, y)
			if idx >= len(req.Out) {
				continue
			}
			req.Out[idx] = vert
		}
	}
	st.ghosts++
}

// Retrieve statistics for the last bundle pass.
func (tr *cpuTracer) Stats() *Stats {
	return tr.stats
}

// Shutdown and cleanup tracer.
func (tr *cpuTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.sys = nil
	tr.ghosts = nil
}
