package geometry_test

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/go-theft-auto/glshader/geometry"
)

func TestTriangle(t *testing.T) {
	tri := geometry.Triangle()
	require.Len(t, tri, 9)
	assert.Equal(t, []float32{0, 0.5, 0}, tri[6:])

	// Each call hands out a new slice.
	tri[0] = 42
	assert.Equal(t, float32(-0.5), geometry.Triangle()[0])
}

func TestQuadIndicesInRange(t *testing.T) {
	pos, idx := geometry.Quad()
	require.Len(t, pos, 8)
	require.Len(t, idx, 6)
	for _, i := range idx {
		assert.Less(t, int(i), len(pos)/2)
	}
}

func TestRandomTrianglesDeterministicPerSeed(t *testing.T) {
	a := geometry.RandomTriangles(rand.New(rand.NewPCG(1, 2)), 4)
	b := geometry.RandomTriangles(rand.New(rand.NewPCG(1, 2)), 4)
	c := geometry.RandomTriangles(rand.New(rand.NewPCG(3, 4)), 4)

	require.Len(t, a, 4*9)
	assert.Equal(t, a, b)
	assert.NotEqual(t, a, c)

	for i, v := range a {
		if i%3 == 2 {
			assert.Zero(t, v)
			continue
		}
		assert.GreaterOrEqual(t, v, float32(-1))
		assert.Less(t, v, float32(1))
	}
}

func TestRandomColors(t *testing.T) {
	colors := geometry.RandomColors(rand.New(rand.NewPCG(7, 7)), 3)
	require.Len(t, colors, 12)
	for i := 3; i < len(colors); i += 4 {
		assert.Equal(t, float32(1), colors[i])
	}

	assert.Nil(t, geometry.RandomColors(rand.New(rand.NewPCG(7, 7)), 0))
	assert.Nil(t, geometry.RandomTriangles(rand.New(rand.NewPCG(7, 7)), -1))
}

func TestSolid(t *testing.T) {
	assert.Equal(t, []float32{1, 0, 0, 1, 1, 0, 0, 1}, geometry.Solid(1, 0, 0, 1, 2))
}
