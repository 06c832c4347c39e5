package renderer

import "errors"

var (
	ErrNoTracer         = errors.New("renderer: no tracer attached")
	ErrSystemNotDefined = errors.New("renderer: no lens system defined")
	ErrInvalidFrameDims = errors.New("renderer: invalid frame dimensions")
)
