package tracer

import (
	"testing"
)

func TestTriangleVertexCount(t *testing.T) {
	type spec struct {
		gridRes  int
		expected int
	}
	specs := []spec{
		spec{2, 6},
		spec{3, 24},
		spec{4, 54},
		spec{32, 5766},
	}

	for index, s := range specs {
		if got := TriangleVertexCount(s.gridRes); got != s.expected {
			t.Fatalf("[spec %d] expected %d vertices; got %d", index, s.expected, got)
		}
	}
}

// Encode each record's own buffer index as its intensity, expand, and check
// that every emitted vertex pulled from the slot the writer-side formula
// assigns to its corner.
func TestGhostTrianglesIndexAgreement(t *testing.T) {
	const gridRes = 4
	const ghosts = 3

	buf := make([]Vertex, BufferLen(ghosts, gridRes))
	for i := range buf {
		buf[i].Intensity = float32(i)
	}

	for ghost := 0; ghost < ghosts; ghost++ {
		tris := GhostTriangles(buf, ghost, gridRes, nil)
		if len(tris) != TriangleVertexCount(gridRes) {
			t.Fatalf("expected %d vertices for ghost %d; got %d", TriangleVertexCount(gridRes), ghost, len(tris))
		}

		cursor := 0
		for y := 0; y < gridRes-1; y++ {
			for x := 0; x < gridRes-1; x++ {
				for _, off := range quadOffsets {
					expected := float32(vertexIndex(ghost, gridRes, x+off[0], y+off[1]))
					if got := tris[cursor].Intensity; got != expected {
						t.Fatalf("ghost %d cell (%d,%d): expected source record %f; got %f", ghost, x, y, expected, got)
					}
					cursor++
				}
			}
		}
	}
}

func TestGhostTrianglesOffsetPattern(t *testing.T) {
	const gridRes = 3

	buf := make([]Vertex, BufferLen(1, gridRes))
	tris := GhostTriangles(buf, 0, gridRes, nil)

	// First quad: triangles {(0,0),(1,0),(0,1)} and {(1,0),(1,1),(0,1)} in
	// cell-local UV space.
	expected := [6][2]float32{
		{0, 0}, {0.5, 0}, {0, 0.5},
		{0.5, 0}, {0.5, 0.5}, {0, 0.5},
	}
	for i, uv := range expected {
		if tris[i].U != uv[0] || tris[i].V != uv[1] {
			t.Fatalf("vertex %d: expected uv (%f,%f); got (%f,%f)", i, uv[0], uv[1], tris[i].U, tris[i].V)
		}
	}

	// The far corner of the last quad reaches uv (1,1).
	last := tris[len(tris)-2]
	if last.U != 1 || last.V != 1 {
		t.Fatalf("expected the final quad to reach uv (1,1); got (%f,%f)", last.U, last.V)
	}
}

func TestGhostTrianglesSentinel(t *testing.T) {
	const gridRes = 4

	// A buffer truncated mid-ghost: indexes past the end yield sentinels.
	full := BufferLen(1, gridRes)
	buf := make([]Vertex, full/2)
	for i := range buf {
		buf[i].Intensity = 1
	}

	tris := GhostTriangles(buf, 0, gridRes, nil)
	sentinels := 0
	for _, tv := range tris {
		if tv.X == sentinelCoord && tv.Y == sentinelCoord {
			if tv.Intensity != 0 {
				t.Fatalf("expected sentinel vertices to carry no intensity; got %f", tv.Intensity)
			}
			sentinels++
		}
	}
	if sentinels == 0 {
		t.Fatal("expected sentinel vertices for records past the buffer end")
	}

	// A complete buffer produces none.
	buf = make([]Vertex, full)
	for i := range buf {
		buf[i].X = 0.25
	}
	for _, tv := range GhostTriangles(buf, 0, gridRes, nil) {
		if tv.X == sentinelCoord {
			t.Fatal("expected no sentinels for a complete buffer")
		}
	}
}

func TestGhostTrianglesAppend(t *testing.T) {
	const gridRes = 2

	buf := make([]Vertex, BufferLen(2, gridRes))
	out := GhostTriangles(buf, 0, gridRes, nil)
	out = GhostTriangles(buf, 1, gridRes, out)

	if expected := 2 * TriangleVertexCount(gridRes); len(out) != expected {
		t.Fatalf("expected %d vertices after two appends; got %d", expected, len(out))
	}
}
