package tracer

import (
	"math"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/types"
)

// A ray inside a trace. Directions stay unit length so the sphere quadratic
// can assume a coefficient of 1.
type ray struct {
	pos types.Vec3
	dir types.Vec3
}

type intersection struct {
	pos  types.Vec3
	norm types.Vec3
	hit  bool
}

// Threshold below which a ray counts as parallel to a plane.
const parallelEpsilon = 1e-5

// Intersect a ray with a planar interface. The solve is deliberately
// unsigned: a plane behind the ray origin still reports a hit, matching the
// reference trace. The hit normal is the axis normal facing against the
// ray.
func testPlanar(r ray, iface *lens.Interface) intersection {
	var isect intersection

	if float32(math.Abs(float64(r.dir[2]))) < parallelEpsilon {
		return isect
	}

	t := (iface.Pos - r.pos[2]) / r.dir[2]
	isect.pos = r.pos.Add(r.dir.Mul(t))
	if r.dir[2] > 0 {
		isect.norm = types.XYZ(0, 0, -1)
	} else {
		isect.norm = types.XYZ(0, 0, 1)
	}
	isect.hit = true
	return isect
}

// Intersect a ray with a spherical interface. Selects the smaller strictly
// positive root, falling back to the larger one so a ray starting inside
// the sphere still hits the far shell. The hit normal points from the hit
// towards the sphere center.
func testSpherical(r ray, iface *lens.Interface) intersection {
	var isect intersection

	oc := r.pos.Sub(iface.Center)
	b := oc.Dot(r.dir)
	c := oc.Dot(oc) - iface.Surface.Radius*iface.Surface.Radius
	disc := b*b - c
	if disc < 0 {
		return isect
	}

	sq := float32(math.Sqrt(float64(disc)))
	t := -b - sq
	if t <= 0 {
		t = -b + sq
	}
	if t <= 0 {
		return isect
	}

	isect.pos = r.pos.Add(r.dir.Mul(t))
	isect.norm = iface.Center.Sub(isect.pos).Normalize()
	isect.hit = true
	return isect
}

// Dispatch an intersection test on the surface variant.
func testInterface(r ray, iface *lens.Interface) intersection {
	switch iface.Surface.Kind {
	case lens.Planar:
		return testPlanar(r, iface)
	case lens.Spherical:
		return testSpherical(r, iface)
	}
	return intersection{}
}
