package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
)

// Attribute locations used by Mesh. Shaders declare
// layout(location = 0) for positions and layout(location = 1) for colors.
const (
	PositionLocation = 0
	ColorLocation    = 1
)

const floatSize = 4

// Mesh is a vertex array with a position buffer, an optional color buffer
// and an optional index buffer. The slices passed in are copied to the GPU
// and may be reused by the caller.
type Mesh struct {
	vao      uint32
	vbo      uint32
	cbo      uint32
	ebo      uint32
	vertices int32
	indices  int32
}

// NewMesh uploads positions with size components per vertex (2 to 4).
// When indices is non-empty the mesh draws indexed triangles.
func NewMesh(positions []float32, size int32, indices []uint32) (*Mesh, error) {
	if size < 2 || size > 4 {
		return nil, fmt.Errorf("position size %d out of range [2,4]", size)
	}
	if len(positions) == 0 || len(positions)%int(size) != 0 {
		return nil, fmt.Errorf("%d position floats do not form whole %d-component vertices", len(positions), size)
	}

	m := &Mesh{
		vertices: int32(len(positions)) / size,
		indices:  int32(len(indices)),
	}
	for _, idx := range indices {
		if int32(idx) >= m.vertices {
			return nil, fmt.Errorf("index %d out of range for %d vertices", idx, m.vertices)
		}
	}

	// Create VAO
	gl.GenVertexArrays(1, &m.vao)
	gl.BindVertexArray(m.vao)

	// Create VBO
	gl.GenBuffers(1, &m.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, m.vbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(positions)*floatSize, gl.Ptr(positions), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(PositionLocation, size, gl.FLOAT, false, size*floatSize, 0)
	gl.EnableVertexAttribArray(PositionLocation)

	// Create EBO; the binding is recorded in the VAO.
	if len(indices) > 0 {
		gl.GenBuffers(1, &m.ebo)
		gl.BindBuffer(gl.ELEMENT_ARRAY_BUFFER, m.ebo)
		gl.BufferData(gl.ELEMENT_ARRAY_BUFFER, len(indices)*4, gl.Ptr(indices), gl.STATIC_DRAW)
	}

	gl.BindVertexArray(0)

	return m, nil
}

// SetColors uploads one color of size components (3 or 4) per vertex.
// Calling it again replaces the previous colors.
func (m *Mesh) SetColors(colors []float32, size int32) error {
	if size != 3 && size != 4 {
		return fmt.Errorf("color size %d must be 3 or 4", size)
	}
	if int32(len(colors)) != m.vertices*size {
		return fmt.Errorf("got %d color floats, want %d", len(colors), m.vertices*size)
	}

	gl.BindVertexArray(m.vao)
	if m.cbo == 0 {
		gl.GenBuffers(1, &m.cbo)
	}
	gl.BindBuffer(gl.ARRAY_BUFFER, m.cbo)
	gl.BufferData(gl.ARRAY_BUFFER, len(colors)*floatSize, gl.Ptr(colors), gl.STATIC_DRAW)
	gl.VertexAttribPointerWithOffset(ColorLocation, size, gl.FLOAT, false, size*floatSize, 0)
	gl.EnableVertexAttribArray(ColorLocation)
	gl.BindVertexArray(0)

	return nil
}

// VertexCount returns the number of vertices uploaded.
func (m *Mesh) VertexCount() int {
	return int(m.vertices)
}

// Draw issues a triangle draw with whatever program is current.
func (m *Mesh) Draw() {
	gl.BindVertexArray(m.vao)
	if m.indices > 0 {
		gl.DrawElementsWithOffset(gl.TRIANGLES, m.indices, gl.UNSIGNED_INT, 0)
	} else {
		gl.DrawArrays(gl.TRIANGLES, 0, m.vertices)
	}
	gl.BindVertexArray(0)
}

// Delete releases OpenGL resources.
func (m *Mesh) Delete() {
	if m.ebo != 0 {
		gl.DeleteBuffers(1, &m.ebo)
	}
	if m.cbo != 0 {
		gl.DeleteBuffers(1, &m.cbo)
	}
	if m.vbo != 0 {
		gl.DeleteBuffers(1, &m.vbo)
	}
	if m.vao != 0 {
		gl.DeleteVertexArrays(1, &m.vao)
	}
}

// Bind binds the mesh's vertex array, e.g. before Program.Validate.
func (m *Mesh) Bind() {
	gl.BindVertexArray(m.vao)
}
