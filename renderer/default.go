package renderer

import (
	"image"
	"time"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/log"
	"github.com/benpm/opengl-lens-flare/tracer"
	"github.com/benpm/opengl-lens-flare/types"
)

// The CPU lens-flare pipeline: bundle trace, ghost rasterization,
// starburst composite and tonemap, in that order, into an RGBA frame.
type defaultRenderer struct {
	logger  log.Logger
	options Options

	sys    *lens.System
	tracer tracer.Tracer

	globals    tracer.Globals
	ghostCount int

	film      *Film
	frame     *image.RGBA
	aperture  *Mask
	starburst *Mask

	// Reused bundle and triangle scratch buffers.
	verts []tracer.Vertex
	tris  []tracer.TriVertex

	time     float32
	lightDir types.Vec3

	stats FrameStats
}

// Create a new lens-flare renderer that renders frames of the given lens
// system with the supplied tracer.
func NewDefault(sys *lens.System, tr tracer.Tracer, opts Options) (Renderer, error) {
	if sys == nil {
		return nil, ErrSystemNotDefined
	}
	if tr == nil {
		return nil, ErrNoTracer
	}
	if (opts.FrameW == 0) != (opts.FrameH == 0) {
		return nil, ErrInvalidFrameDims
	}
	if opts.FrameW == 0 {
		opts.FrameW = uint32(tracer.DefaultBackbufferW)
		opts.FrameH = uint32(tracer.DefaultBackbufferH)
	}
	if opts.GridRes == 0 {
		opts.GridRes = tracer.DefaultGridRes
	}
	if opts.Exposure <= 0 {
		opts.Exposure = 1
	}
	if opts.ApertureRes == 0 {
		opts.ApertureRes = uint32(tracer.DefaultApertureRes)
	}
	if opts.StarburstRes == 0 {
		opts.StarburstRes = uint32(tracer.DefaultStarburstRes)
	}
	if opts.LightDir == (types.Vec3{}) {
		opts.LightDir = types.XYZ(0, 0, -1)
	}

	topts := tracer.Options{GridRes: int(opts.GridRes)}
	if err := tr.Init(sys, topts); err != nil {
		return nil, err
	}

	globals := tracer.NewGlobals(sys, topts)
	globals.BackbufferSize = types.XY(float32(opts.FrameW), float32(opts.FrameH))
	globals.ApertureRes = float32(opts.ApertureRes)
	globals.StarburstRes = float32(opts.StarburstRes)

	ghostCount := lens.GhostCount(len(sys.Interfaces))

	r := &defaultRenderer{
		logger:     log.New("renderer"),
		options:    opts,
		sys:        sys,
		tracer:     tr,
		globals:    globals,
		ghostCount: ghostCount,
		film:       NewFilm(int(opts.FrameW), int(opts.FrameH)),
		frame:      image.NewRGBA(image.Rect(0, 0, int(opts.FrameW), int(opts.FrameH))),
		verts:      make([]tracer.Vertex, tracer.BufferLen(ghostCount, int(opts.GridRes))),
		lightDir:   opts.LightDir,
	}

	start := time.Now()
	r.aperture = NewApertureMask(int(opts.ApertureRes), globals.ApertureOpening, globals.BladeCount)
	r.starburst = NewStarburstMask(int(opts.StarburstRes), globals.BladeCount)
	r.logger.Noticef("generated %dx%d aperture and %dx%d starburst masks in %d ms",
		opts.ApertureRes, opts.ApertureRes, opts.StarburstRes, opts.StarburstRes,
		time.Since(start).Nanoseconds()/1000000)

	return r, nil
}

// Render frame.
func (r *defaultRenderer) Render() error {
	if err := r.renderFrame(); err != nil {
		return err
	}

	if r.options.OutFile != "" {
		start := time.Now()
		if err := WritePNG(r.frame, r.options.OutFile); err != nil {
			return err
		}
		r.logger.Noticef("wrote frame to %s in %d ms", r.options.OutFile, time.Since(start).Nanoseconds()/1000000)
	}
	return nil
}

// Run the pipeline stages for the current time and light direction.
func (r *defaultRenderer) renderFrame() error {
	start := time.Now()
	r.stats = FrameStats{TracerId: r.tracer.Id()}

	r.globals.Time = r.time
	r.globals.LightDir = r.lightDir

	stageStart := time.Now()
	if _, err := r.tracer.Trace(&tracer.BundleRequest{Globals: r.globals, Out: r.verts}); err != nil {
		return err
	}
	tstats := r.tracer.Stats()
	r.stats.RaysTraced = tstats.RaysTraced
	r.stats.RaysDead = tstats.RaysDead
	r.addStage("trace", time.Since(stageStart))

	stageStart = time.Now()
	r.film.Clear()
	gridRes := int(r.options.GridRes)
	limit := r.ghostCount
	if r.options.MaxGhosts != 0 && int(r.options.MaxGhosts) < limit {
		limit = int(r.options.MaxGhosts)
	}
	for g := 0; g < limit; g++ {
		r.tris = tracer.GhostTriangles(r.verts, g, gridRes, r.tris[:0])
		rasterGhost(r.film, r.aperture, r.tris, ghostColor(g))
		r.stats.Triangles += len(r.tris) / 3
	}
	r.stats.GhostsDrawn = limit
	r.addStage("raster", time.Since(stageStart))

	stageStart = time.Now()
	compositeStarburst(r.film, r.starburst, r.lightDir, r.time)
	r.addStage("composite", time.Since(stageStart))

	stageStart = time.Now()
	Tonemap(r.film, r.options.Exposure, r.frame)
	r.addStage("tonemap", time.Since(stageStart))

	r.stats.RenderTime = time.Since(start)
	return nil
}

func (r *defaultRenderer) addStage(name string, d time.Duration) {
	r.stats.Stages = append(r.stats.Stages, StageStat{Name: name, Time: d})
}

// Get render statistics.
func (r *defaultRenderer) Stats() FrameStats {
	return r.stats
}

// Shutdown renderer and any attached tracer.
func (r *defaultRenderer) Close() {
	if r.tracer != nil {
		r.tracer.Close()
	}
}
