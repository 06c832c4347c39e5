package tracer

// Each grid cell of a traced ghost expands into two triangles with a fixed
// winding. This offset table is the contract between the bundle writer and
// the raster stage; the six entries are cell-corner offsets for the two
// triangles of one quad.
var quadOffsets = [6][2]int{
	{0, 0}, {1, 0}, {0, 1},
	{1, 0}, {1, 1}, {0, 1},
}

// Position far outside the visible volume used for sentinel vertices.
const sentinelCoord = -4.0

// A raster-ready vertex: the traced record plus the cell-local UV the
// raster stage samples the aperture mask with.
type TriVertex struct {
	Vertex
	U float32
	V float32
}

// The triangle-list length GhostTriangles emits for one ghost:
// two triangles per interior grid cell.
func TriangleVertexCount(gridRes int) int {
	return 6 * (gridRes - 1) * (gridRes - 1)
}

// GhostTriangles expands one ghost's traced grid into a triangle list,
// appending to out and returning the extended slice. Source records are
// located with the same flattening formula the bundle writer uses. A source
// index outside buf produces a degenerate sentinel (outside the visible
// volume, zero intensity) so triangles at a damaged edge collapse instead
// of aliasing onto unrelated data. The expansion is deterministic: the same
// buffer always produces the same triangle stream.
func GhostTriangles(buf []Vertex, ghost, gridRes int, out []TriVertex) []TriVertex {
	for y := 0; y < gridRes-1; y++ {
		for x := 0; x < gridRes-1; x++ {
			for _, off := range quadOffsets {
				cx := x + off[0]
				cy := y + off[1]

				vert := Vertex{X: sentinelCoord, Y: sentinelCoord}
				if idx := vertexIndex(ghost, gridRes, cx, cy); idx >= 0 && idx < len(buf) {
					vert = buf[idx]
				}

				out = append(out, TriVertex{
					Vertex: vert,
					U:      float32(cx) / float32(gridRes-1),
					V:      float32(cy) / float32(gridRes-1),
				})
			}
		}
	}
	return out
}
