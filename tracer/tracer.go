package tracer

import (
	"errors"
	"runtime"
	"time"

	"github.com/benpm/opengl-lens-flare/lens"
)

var (
	ErrNotInitialized = errors.New("tracer: no lens system bound")
	ErrInvalidOptions = errors.New("tracer: invalid options")
)

// Default bundle parameters matching the reference rig.
const (
	DefaultGridRes        = 32
	DefaultPlateSize      = 10.0
	DefaultCoatingQuality = 1.25
)

// CoatingSuppression scales the Fresnel reflectance of every bounce. The
// fixed factor stands in for a real anti-reflective coating response and is
// the main tuning knob for overall ghost brightness.
const CoatingSuppression = 0.1

// Bundle tracing options.
type Options struct {
	// Rays per ghost bundle axis. Each ghost traces GridRes^2 rays.
	GridRes int

	// Half-extent of the entry plane in lens units.
	PlateSize float32

	// Coating quality factor carried into the frame globals.
	CoatingQuality float32

	// Number of worker goroutines. Defaults to the CPU count.
	Workers int
}

// Fill in defaults for unset option fields.
func (o Options) WithDefaults() Options {
	if o.GridRes == 0 {
		o.GridRes = DefaultGridRes
	}
	if o.PlateSize <= 0 {
		o.PlateSize = DefaultPlateSize
	}
	if o.CoatingQuality <= 0 {
		o.CoatingQuality = DefaultCoatingQuality
	}
	if o.Workers <= 0 {
		o.Workers = runtime.NumCPU()
	}
	return o
}

// The 16-byte vertex record a bundle unit writes: the projected screen
// position, the surviving ray intensity and a reserved slot.
type Vertex struct {
	X         float32
	Y         float32
	Intensity float32
	Reserved  float32
}

// A unit of work for a tracer: one frame's bundle pass over every ghost of
// the bound lens system. Out must hold one vertex per ghost grid cell; see
// BufferLen.
type BundleRequest struct {
	Globals Globals
	Out     []Vertex
}

// Tracer statistics for the last completed bundle pass.
type Stats struct {
	GhostsTraced uint64
	RaysTraced   uint64
	RaysDead     uint64
	TraceTime    time.Duration
}

type Tracer interface {
	// Get tracer id.
	Id() string

	// Bind a compiled lens system to the tracer.
	Init(sys *lens.System, opts Options) error

	// Trace one frame bundle into req.Out. Trace returns only after every
	// worker write has completed, so the caller may read the buffer
	// directly afterwards.
	Trace(req *BundleRequest) (time.Duration, error)

	// Retrieve statistics for the last bundle pass.
	Stats() *Stats

	// Shutdown and cleanup tracer.
	Close()
}

// The vertex buffer length required for a frame bundle: one record per
// ghost grid cell.
func BufferLen(ghostCount, gridRes int) int {
	return ghostCount * gridRes * gridRes
}

// Flatten (ghost, x, y) into the frame vertex buffer. The raster-side grid
// expansion uses the same formula to locate its source records.
func vertexIndex(ghost, gridRes, x, y int) int {
	return ghost*gridRes*gridRes + y*gridRes + x
}
