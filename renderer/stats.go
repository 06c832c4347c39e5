package renderer

import "time"

type StageStat struct {
	// The pipeline stage name.
	Name string

	// Time spent in this stage.
	Time time.Duration
}

type FrameStats struct {
	// The id of the attached tracer.
	TracerId string

	// Per-stage timings in pipeline order.
	Stages []StageStat

	// Ghost and triangle counts for the rasterized frame.
	GhostsDrawn int
	Triangles   int

	// Bundle counters reported by the tracer.
	RaysTraced uint64
	RaysDead   uint64

	// Total render time for entire frame.
	RenderTime time.Duration
}
