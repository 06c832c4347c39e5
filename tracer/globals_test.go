package tracer

import (
	"testing"
	"unsafe"

	"github.com/benpm/opengl-lens-flare/types"
)

// The parameter block crosses into the display path as raw bytes; its size
// and field offsets must match the std140 uniform block layout.
func TestGlobalsLayout(t *testing.T) {
	var g Globals

	if size := unsafe.Sizeof(g); size != 64 {
		t.Fatalf("expected a 64 byte parameter block; got %d", size)
	}

	type spec struct {
		name     string
		offset   uintptr
		expected uintptr
	}
	specs := []spec{
		spec{"Time", unsafe.Offsetof(g.Time), 0},
		spec{"Spread", unsafe.Offsetof(g.Spread), 4},
		spec{"PlateSize", unsafe.Offsetof(g.PlateSize), 8},
		spec{"ApertureID", unsafe.Offsetof(g.ApertureID), 12},
		spec{"InterfaceCount", unsafe.Offsetof(g.InterfaceCount), 16},
		spec{"CoatingQuality", unsafe.Offsetof(g.CoatingQuality), 20},
		spec{"BackbufferSize", unsafe.Offsetof(g.BackbufferSize), 24},
		spec{"LightDir", unsafe.Offsetof(g.LightDir), 32},
		spec{"ApertureRes", unsafe.Offsetof(g.ApertureRes), 44},
		spec{"ApertureOpening", unsafe.Offsetof(g.ApertureOpening), 48},
		spec{"BladeCount", unsafe.Offsetof(g.BladeCount), 52},
		spec{"StarburstRes", unsafe.Offsetof(g.StarburstRes), 56},
		spec{"Padding", unsafe.Offsetof(g.Padding), 60},
	}

	for index, s := range specs {
		if s.offset != s.expected {
			t.Fatalf("[spec %d] expected %s at offset %d; got %d", index, s.name, s.expected, s.offset)
		}
	}
}

func TestVertexLayout(t *testing.T) {
	var v Vertex

	if size := unsafe.Sizeof(v); size != 16 {
		t.Fatalf("expected a 16 byte vertex record; got %d", size)
	}
	if off := unsafe.Offsetof(v.Intensity); off != 8 {
		t.Fatalf("expected Intensity at offset 8; got %d", off)
	}
}

func TestNewGlobals(t *testing.T) {
	system := nikonSystem(t)

	g := NewGlobals(system, Options{})
	if g.Spread != DefaultSpread {
		t.Fatalf("expected spread %f; got %f", float32(DefaultSpread), g.Spread)
	}
	if g.PlateSize != DefaultPlateSize {
		t.Fatalf("expected plate size %f; got %f", float32(DefaultPlateSize), g.PlateSize)
	}
	if g.ApertureID != 14 {
		t.Fatalf("expected the iris at stack index 14; got %f", g.ApertureID)
	}
	if g.InterfaceCount != 29 {
		t.Fatalf("expected 29 interfaces; got %f", g.InterfaceCount)
	}
	if g.CoatingQuality != DefaultCoatingQuality {
		t.Fatalf("expected coating quality %f; got %f", float32(DefaultCoatingQuality), g.CoatingQuality)
	}
	if g.BackbufferSize[0] != DefaultBackbufferW || g.BackbufferSize[1] != DefaultBackbufferH {
		t.Fatalf("expected the %gx%g backbuffer; got %v", float32(DefaultBackbufferW), float32(DefaultBackbufferH), g.BackbufferSize)
	}
	if g.Time != 0 || g.LightDir != (types.Vec3{}) {
		t.Fatal("expected per-frame fields to start zeroed")
	}

	// Option overrides flow through.
	g = NewGlobals(system, Options{PlateSize: 12.5, CoatingQuality: 2})
	if g.PlateSize != 12.5 || g.CoatingQuality != 2 {
		t.Fatalf("expected option overrides in the parameter block; got plate %f quality %f", g.PlateSize, g.CoatingQuality)
	}
}
