package tracer

import (
	"math"
	"testing"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/types"
)

func planarAt(pos float32) lens.Interface {
	return lens.Interface{
		Surface: lens.PlanarSurface(),
		N:       types.XYZ(1, 1, 1),
		Pos:     pos,
	}
}

func sphericalAt(pos, radius float32) lens.Interface {
	return lens.Interface{
		Center:  types.XYZ(0, 0, pos-radius),
		Surface: lens.SphericalSurface(radius),
		N:       types.XYZ(1, 1, 1),
		Pos:     pos,
	}
}

func TestPlanarIntersection(t *testing.T) {
	iface := planarAt(5)

	type spec struct {
		r        ray
		expHit   bool
		expZ     float32
		expNormZ float32
	}
	specs := []spec{
		// Straight hit from below.
		spec{ray{types.XYZ(1, 2, 0), types.XYZ(0, 0, 1)}, true, 5, -1},
		// Hit from above flips the normal.
		spec{ray{types.XYZ(0, 0, 9), types.XYZ(0, 0, -1)}, true, 5, 1},
		// A plane behind the origin still reports a hit.
		spec{ray{types.XYZ(0, 0, 9), types.XYZ(0, 0, 1)}, true, 5, -1},
		// Parallel rays miss.
		spec{ray{types.XYZ(0, 0, 0), types.XYZ(1, 0, 0)}, false, 0, 0},
	}

	for index, s := range specs {
		isect := testPlanar(s.r, &iface)
		if isect.hit != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, isect.hit)
		}
		if !isect.hit {
			continue
		}
		if math.Abs(float64(isect.pos[2]-s.expZ)) > 1e-5 {
			t.Fatalf("[spec %d] expected hit at z=%f; got %f", index, s.expZ, isect.pos[2])
		}
		if isect.norm[2] != s.expNormZ {
			t.Fatalf("[spec %d] expected normal z=%f; got %f", index, s.expNormZ, isect.norm[2])
		}
	}
}

func TestSphericalIntersection(t *testing.T) {
	// Vertex at z=10, center at z=30, shell spanning [10, 50].
	iface := sphericalAt(10, -20)

	type spec struct {
		r      ray
		expHit bool
		expZ   float32
	}
	specs := []spec{
		// From below the near shell: smaller positive root.
		spec{ray{types.XYZ(0, 0, 0), types.XYZ(0, 0, 1)}, true, 10},
		// From inside: falls back to the far root.
		spec{ray{types.XYZ(0, 0, 30), types.XYZ(0, 0, 1)}, true, 50},
		// Sphere entirely behind the ray: miss.
		spec{ray{types.XYZ(0, 0, 60), types.XYZ(0, 0, 1)}, false, 0},
		// Transverse ray outside the shell: no real roots.
		spec{ray{types.XYZ(0, 25, 0), types.XYZ(0, 0, 1)}, false, 0},
	}

	for index, s := range specs {
		isect := testSpherical(s.r, &iface)
		if isect.hit != s.expHit {
			t.Fatalf("[spec %d] expected hit=%t; got %t", index, s.expHit, isect.hit)
		}
		if !isect.hit {
			continue
		}
		if math.Abs(float64(isect.pos[2]-s.expZ)) > 1e-4 {
			t.Fatalf("[spec %d] expected hit at z=%f; got %f", index, s.expZ, isect.pos[2])
		}

		// The normal points from the hit towards the center.
		toCenter := iface.Center.Sub(isect.pos).Normalize()
		if isect.norm.Sub(toCenter).Len() > 1e-5 {
			t.Fatalf("[spec %d] expected normal towards the center; got %v", index, isect.norm)
		}
	}
}

func TestInterfaceDispatch(t *testing.T) {
	r := ray{types.XYZ(0, 0, 0), types.XYZ(0, 0, 1)}

	planar := planarAt(5)
	if isect := testInterface(r, &planar); !isect.hit || isect.pos[2] != 5 {
		t.Fatalf("expected planar dispatch to hit at z=5; got %+v", isect)
	}

	spherical := sphericalAt(10, -20)
	if isect := testInterface(r, &spherical); !isect.hit || math.Abs(float64(isect.pos[2]-10)) > 1e-4 {
		t.Fatalf("expected spherical dispatch to hit at z=10; got %+v", isect)
	}
}
