// Package geometry builds small vertex sets in normalized device coordinates.
// Every function returns freshly allocated slices owned by the caller.
package geometry

import "math/rand/v2"

// Triangle returns three vec3 positions: (-0.5,-0.5,0), (0.5,-0.5,0), (0,0.5,0).
func Triangle() []float32 {
	return []float32{
		-0.5, -0.5, 0.0,
		0.5, -0.5, 0.0,
		0.0, 0.5, 0.0,
	}
}

// Quad returns four vec2 corners of a centered square and the six indices
// of its two triangles.
func Quad() ([]float32, []uint32) {
	positions := []float32{
		-0.5, -0.5,
		0.5, -0.5,
		0.5, 0.5,
		-0.5, 0.5,
	}
	indices := []uint32{
		0, 1, 2,
		2, 3, 0,
	}
	return positions, indices
}

// RandomTriangles returns n triangles (3n vec3 positions) with x and y
// drawn uniformly from [-1, 1) and z = 0.
func RandomTriangles(rng *rand.Rand, n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, 0, n*9)
	for range n * 3 {
		out = append(out, rng.Float32()*2-1, rng.Float32()*2-1, 0)
	}
	return out
}

// RandomColors returns n opaque RGBA colors with channels in [0, 1).
func RandomColors(rng *rand.Rand, n int) []float32 {
	if n <= 0 {
		return nil
	}
	out := make([]float32, 0, n*4)
	for range n {
		out = append(out, rng.Float32(), rng.Float32(), rng.Float32(), 1)
	}
	return out
}

// Solid returns n copies of one RGBA color.
func Solid(r, g, b, a float32, n int) []float32 {
	out := make([]float32, 0, n*4)
	for range n {
		out = append(out, r, g, b, a)
	}
	return out
}
