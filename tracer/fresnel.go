package tracer

import (
	"math"

	"github.com/benpm/opengl-lens-flare/types"
)

// Schlick's approximation of the Fresnel reflectance for unpolarized light
// hitting the boundary between indices n1 and n2 at the given incidence
// cosine. A matched boundary (n1 == n2) reflects nothing at any incidence,
// so it never reaches the grazing interpolation term, and a degenerate
// n1+n2 == 0 pair takes the same zero path instead of dividing by zero.
// The approximation is otherwise uncalibrated on purpose: out-of-range
// indices produce reflectance above 1 rather than being clamped.
func fresnelSchlick(cosTheta, n1, n2 float32) float32 {
	if n1 == n2 || n1+n2 == 0 {
		return 0
	}

	r0 := (n1 - n2) / (n1 + n2)
	r0 *= r0

	m := 1 - cosTheta
	return r0 + (1-r0)*m*m*m*m*m
}

// The incidence cosine between a ray direction and a surface normal,
// independent of the normal's orientation.
func incidenceCos(dir, norm types.Vec3) float32 {
	cos := float32(math.Abs(float64(dir.Dot(norm))))
	if cos > 1 {
		cos = 1
	}
	return cos
}
