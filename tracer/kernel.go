package tracer

import (
	"math"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/types"
)

// traceSegment advances a ray through the half-open interface range
// [start, end): every interface before end passes the ray through (the
// origin moves to the hit point, the direction is kept) and the returned
// intersection is the one at end itself. The walk direction follows the
// sign of end-start. A miss anywhere kills the segment.
func traceSegment(stack []lens.Interface, start, end int, r ray) (ray, intersection, bool) {
	step := 1
	if end < start {
		step = -1
	}

	for i := start; i != end; i += step {
		isect := testInterface(r, &stack[i])
		if !isect.hit {
			return r, intersection{}, false
		}
		r.pos = isect.pos
	}

	isect := testInterface(r, &stack[end])
	if !isect.hit {
		return r, intersection{}, false
	}
	r.pos = isect.pos
	return r, isect, true
}

// Reflect the ray off the interface it just hit and attenuate its energy by
// the coated Fresnel reflectance.
func bounce(r ray, isect intersection, iface *lens.Interface, intensity float32) (ray, float32) {
	refl := fresnelSchlick(incidenceCos(r.dir, isect.norm), iface.N[0], iface.N[2])
	r.dir = r.dir.Reflect(isect.norm)
	return r, intensity * refl * CoatingSuppression
}

// traceCell runs the two-phase bounce walk for one bundle unit: entry at
// the cell's plate coordinate, pass up the stack to the first bounce, back
// down to the second, then projection to the screen plane. The returned
// flag is false for dead rays, which still produce a valid
// zero-contribution record.
func traceCell(stack []lens.Interface, ghost lens.Ghost, globals *Globals, dir types.Vec3, x, y, res int) (Vertex, bool) {
	b1 := int(ghost.Bounce1)
	b2 := int(ghost.Bounce2)

	u := 2*float32(x)/float32(res-1) - 1
	v := 2*float32(y)/float32(res-1) - 1

	r := ray{
		pos: types.XYZ(u*globals.PlateSize, v*globals.PlateSize, 0),
		dir: dir,
	}
	intensity := float32(1.0)

	r, isect, ok := traceSegment(stack, 0, b1, r)
	if !ok {
		return Vertex{Reserved: 1}, false
	}
	r, intensity = bounce(r, isect, &stack[b1], intensity)

	r, isect, ok = traceSegment(stack, b1-1, b2, r)
	if !ok {
		return Vertex{Reserved: 1}, false
	}
	r, intensity = bounce(r, isect, &stack[b2], intensity)

	sx := r.pos[0] / globals.BackbufferSize[0] * 2
	sy := r.pos[1] / globals.BackbufferSize[1] * 2
	return Vertex{
		X:         clampFinite(sx),
		Y:         clampFinite(sy),
		Intensity: clampFinite(intensity),
		Reserved:  1,
	}, true
}

// Clamp non-finite values to zero before they can reach the output buffer.
func clampFinite(v float32) float32 {
	f := float64(v)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return v
}
