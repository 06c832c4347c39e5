package opencl

import (
	"fmt"
	"sync"
	"time"
	"unsafe"

	"github.com/achilleasa/gopencl/v1.2/cl"
	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/log"
	"github.com/benpm/opengl-lens-flare/tracer"
	"github.com/benpm/opengl-lens-flare/tracer/opencl/device"
)

// A bundle tracer that offloads the ghost walk to an opencl device. The
// interface stack and ghost list are uploaded once at Init; each Trace
// call writes the frame globals, runs one work item per grid cell and
// reads the whole bundle back.
type clTracer struct {
	logger log.Logger
	sync.Mutex

	id     string
	device *device.Device
	kernel *device.Kernel

	// Device-resident bundle state.
	ifaceBuf   *device.Buffer
	ghostBuf   *device.Buffer
	globalsBuf *device.Buffer
	vertexBuf  *device.Buffer

	// Host copies backing the device buffers. The packed slices must
	// stay reachable while the buffers exist as the device may read
	// through the host pointer.
	ifaceData []lens.InterfaceData
	ghostData []lens.GhostData

	sys    *lens.System
	ghosts []lens.Ghost
	opts   tracer.Options
	stats  *tracer.Stats

	// Staging area for reading back the device bundle.
	scratch []tracer.Vertex
	globals [1]tracer.Globals
}

// Create a new opencl bundle tracer for the given device.
func NewTracer(id string, dev *device.Device) tracer.Tracer {
	return &clTracer{
		logger: log.New(fmt.Sprintf("opencl tracer (%s)", dev.Name)),
		id:     id,
		device: dev,
		stats:  &tracer.Stats{},
	}
}

// Get tracer id.
func (tr *clTracer) Id() string {
	return tr.id
}

// Compile the bundle program on the device and upload the static bundle
// inputs for the given lens system.
func (tr *clTracer) Init(sys *lens.System, opts tracer.Options) error {
	if sys == nil {
		return tracer.ErrNotInitialized
	}
	opts = opts.WithDefaults()
	if opts.GridRes < 2 {
		return tracer.ErrInvalidOptions
	}

	tr.Lock()
	defer tr.Unlock()

	start := time.Now()
	if err := tr.device.Init(programSource); err != nil {
		return err
	}

	kernel, err := tr.device.Kernel(bundleKernelName)
	if err != nil {
		tr.cleanup()
		return err
	}
	tr.kernel = kernel

	tr.sys = sys
	tr.ghosts = lens.EnumerateGhosts(len(sys.Interfaces))
	tr.opts = opts
	tr.ifaceData = sys.InterfaceData()
	tr.ghostData = lens.PackGhosts(tr.ghosts)

	tr.ifaceBuf = tr.device.Buffer("interfaces")
	if err = tr.ifaceBuf.AllocateAndWriteData(tr.ifaceData, cl.MEM_READ_ONLY); err != nil {
		tr.cleanup()
		return err
	}

	tr.ghostBuf = tr.device.Buffer("ghosts")
	if err = tr.ghostBuf.AllocateAndWriteData(tr.ghostData, cl.MEM_READ_ONLY); err != nil {
		tr.cleanup()
		return err
	}

	tr.globalsBuf = tr.device.Buffer("globals")
	if err = tr.globalsBuf.Allocate(int(unsafe.Sizeof(tracer.Globals{})), cl.MEM_READ_ONLY); err != nil {
		tr.cleanup()
		return err
	}

	bufLen := tracer.BufferLen(len(tr.ghosts), opts.GridRes)
	tr.vertexBuf = tr.device.Buffer("vertices")
	if err = tr.vertexBuf.Allocate(bufLen*int(unsafe.Sizeof(tracer.Vertex{})), cl.MEM_READ_WRITE); err != nil {
		tr.cleanup()
		return err
	}
	tr.scratch = make([]tracer.Vertex, bufLen)

	tr.logger.Noticef("bound %s: uploaded %d interfaces and %d ghosts in %d ms",
		sys.Name, len(tr.ifaceData), len(tr.ghostData), time.Since(start).Nanoseconds()/1000000)
	return nil
}

// Trace one frame bundle into req.Out. The device pass is synchronous; the
// buffer is safe to read once the call returns.
func (tr *clTracer) Trace(req *tracer.BundleRequest) (time.Duration, error) {
	tr.Lock()
	defer tr.Unlock()

	if tr.sys == nil || tr.kernel == nil {
		return 0, tracer.ErrNotInitialized
	}

	start := time.Now()

	tr.globals[0] = req.Globals
	if err := tr.globalsBuf.WriteData(tr.globals[:], 0); err != nil {
		return 0, err
	}

	res := tr.opts.GridRes
	cells := res * res
	err := tr.kernel.SetArgs(
		tr.ifaceBuf,
		tr.ghostBuf,
		tr.globalsBuf,
		tr.vertexBuf,
		uint32(len(tr.ghosts)),
		uint32(res),
	)
	if err != nil {
		return 0, err
	}

	if _, err = tr.kernel.Exec1D(0, len(tr.ghosts)*cells, 0); err != nil {
		return 0, err
	}

	if err = tr.vertexBuf.ReadData(0, 0, 0, tr.scratch); err != nil {
		return 0, err
	}
	copy(req.Out, tr.scratch)

	// Rebuild the pass statistics host-side. Dead rays write an exact
	// zero intensity; surviving rays always carry some reflectance.
	*tr.stats = tracer.Stats{}
	for g, ghost := range tr.ghosts {
		b1 := int(ghost.Bounce1)
		b2 := int(ghost.Bounce2)
		if b1 < 1 || b1 >= len(tr.sys.Interfaces) || b2 < 0 || b2 >= len(tr.sys.Interfaces) {
			continue
		}

		tr.stats.GhostsTraced++
		tr.stats.RaysTraced += uint64(cells)
		for i := g * cells; i < (g+1)*cells; i++ {
			if tr.scratch[i].Intensity == 0 {
				tr.stats.RaysDead++
			}
		}
	}
	tr.stats.TraceTime = time.Since(start)

	return tr.stats.TraceTime, nil
}

// Retrieve statistics for the last bundle pass.
func (tr *clTracer) Stats() *tracer.Stats {
	return tr.stats
}

// Shutdown and cleanup tracer.
func (tr *clTracer) Close() {
	tr.Lock()
	defer tr.Unlock()

	tr.cleanup()
}

func (tr *clTracer) cleanup() {
	for _, buf := range []*device.Buffer{tr.ifaceBuf, tr.ghostBuf, tr.globalsBuf, tr.vertexBuf} {
		if buf != nil {
			buf.Release()
		}
	}
	tr.ifaceBuf, tr.ghostBuf, tr.globalsBuf, tr.vertexBuf = nil, nil, nil, nil

	if tr.kernel != nil {
		tr.kernel.Release()
		tr.kernel = nil
	}
	tr.device.Close()

	tr.sys = nil
	tr.ghosts = nil
	tr.ifaceData = nil
	tr.ghostData = nil
	tr.scratch = nil
}
