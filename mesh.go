package canopy

import "math"

// UIVertex is a single mesh vertex in the graphic's local space.
// UV is normalized: (0,0) is the texture's top-left, (1,1) its bottom-right.
type UIVertex struct {
	Position Vec2
	Color    Color
	UV       Vec2
}

// Mesh is finished geometry: vertices plus a triangle index list.
type Mesh struct {
	Vertices []UIVertex
	Indices  []uint16
}

// Clear empties the mesh, keeping its backing arrays.
func (m *Mesh) Clear() {
	m.Vertices = m.Vertices[:0]
	m.Indices = m.Indices[:0]
}

// CopyFrom replaces m's contents with a copy of src's, reusing m's arrays
// when they are large enough.
func (m *Mesh) CopyFrom(src *Mesh) {
	m.Vertices = append(m.Vertices[:0], src.Vertices...)
	m.Indices = append(m.Indices[:0], src.Indices...)
}

// Bounds returns the local-space AABB of the mesh vertices.
func (m *Mesh) Bounds() Rect {
	if len(m.Vertices) == 0 {
		return Rect{}
	}
	minX := m.Vertices[0].Position.X
	minY := m.Vertices[0].Position.Y
	maxX, maxY := minX, minY
	for i := 1; i < len(m.Vertices); i++ {
		p := m.Vertices[i].Position
		minX = math.Min(minX, p.X)
		minY = math.Min(minY, p.Y)
		maxX = math.Max(maxX, p.X)
		maxY = math.Max(maxY, p.Y)
	}
	return Rect{X: minX, Y: minY, Width: maxX - minX, Height: maxY - minY}
}

// VertexHelper accumulates vertices and triangles while a mesh is generated
// and handed through the mesh modifier chain.
type VertexHelper struct {
	verts   []UIVertex
	indices []uint16
}

// NewVertexHelperFromMesh creates a helper pre-filled with a copy of m.
func NewVertexHelperFromMesh(m *Mesh) *VertexHelper {
	vh := &VertexHelper{}
	vh.verts = append(vh.verts, m.Vertices...)
	vh.indices = append(vh.indices, m.Indices...)
	return vh
}

// Clear drops all vertices and indices.
func (vh *VertexHelper) Clear() {
	vh.verts = vh.verts[:0]
	vh.indices = vh.indices[:0]
}

// CurrentVertCount returns the number of vertices added so far.
func (vh *VertexHelper) CurrentVertCount() int { return len(vh.verts) }

// CurrentIndexCount returns the number of indices added so far.
func (vh *VertexHelper) CurrentIndexCount() int { return len(vh.indices) }

// AddVert appends a vertex.
func (vh *VertexHelper) AddVert(pos Vec2, c Color, uv Vec2) {
	vh.verts = append(vh.verts, UIVertex{Position: pos, Color: c, UV: uv})
}

// AddUIVertex appends a prepared vertex.
func (vh *VertexHelper) AddUIVertex(v UIVertex) {
	vh.verts = append(vh.verts, v)
}

// maxMeshVertices is the vertex count addressable by uint16 indices.
const maxMeshVertices = math.MaxUint16 + 1

// AddTriangle appends one triangle by vertex index. Triangles referencing an
// index outside the uint16 range are dropped.
func (vh *VertexHelper) AddTriangle(i0, i1, i2 int) {
	if !validIndex(i0) || !validIndex(i1) || !validIndex(i2) {
		debugf("dropping triangle (%d, %d, %d): index out of uint16 range", i0, i1, i2)
		return
	}
	vh.indices = append(vh.indices, uint16(i0), uint16(i1), uint16(i2))
}

func validIndex(i int) bool { return i >= 0 && i < maxMeshVertices }

// Vertex returns the vertex at index i.
func (vh *VertexHelper) Vertex(i int) UIVertex { return vh.verts[i] }

// SetVertex replaces the vertex at index i.
func (vh *VertexHelper) SetVertex(i int, v UIVertex) { vh.verts[i] = v }

// Index returns the i-th index of the triangle list.
func (vh *VertexHelper) Index(i int) int { return int(vh.indices[i]) }

// FillMesh writes the accumulated geometry into m, replacing its contents.
func (vh *VertexHelper) FillMesh(m *Mesh) {
	m.Vertices = append(m.Vertices[:0], vh.verts...)
	m.Indices = append(m.Indices[:0], vh.indices...)
}

// --- Shared worker buffers (no locking; canopy is single-threaded) ---
//
// Every graphic without UsePrivateMesh generates into these. They are only
// touched inside one Rebuild call and never retained afterwards: the sink
// copies the mesh in SetMesh.

var (
	workerMesh         Mesh
	sharedVertexHelper VertexHelper
)
