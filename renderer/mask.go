package renderer

// A square single-channel texture generated by the aperture and starburst
// stages and sampled during rasterization and compositing.
type Mask struct {
	Res int
	Pix []float32
}

func NewMask(res int) *Mask {
	return &Mask{
		Res: res,
		Pix: make([]float32, res*res),
	}
}

func (m *Mask) at(x, y int) float32 {
	if x < 0 {
		x = 0
	}
	if x >= m.Res {
		x = m.Res - 1
	}
	if y < 0 {
		y = 0
	}
	if y >= m.Res {
		y = m.Res - 1
	}
	return m.Pix[y*m.Res+x]
}

// Sample the mask at normalized (u, v) with bilinear filtering and
// clamp-to-edge addressing.
func (m *Mask) Sample(u, v float32) float32 {
	fx := u*float32(m.Res) - 0.5
	fy := v*float32(m.Res) - 0.5

	x0 := int(floor32(fx))
	y0 := int(floor32(fy))
	tx := fx - float32(x0)
	ty := fy - float32(y0)

	s00 := m.at(x0, y0)
	s10 := m.at(x0+1, y0)
	s01 := m.at(x0, y0+1)
	s11 := m.at(x0+1, y0+1)

	top := s00 + (s10-s00)*tx
	bot := s01 + (s11-s01)*tx
	return top + (bot-top)*ty
}

func floor32(v float32) float32 {
	i := float32(int(v))
	if v < 0 && v != i {
		i--
	}
	return i
}

func clamp32(v, lo, hi float32) float32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// Hermite interpolation between two edges, matching the GLSL builtin.
func smoothstep(edge0, edge1, v float32) float32 {
	t := clamp32((v-edge0)/(edge1-edge0), 0, 1)
	return t * t * (3 - 2*t)
}
