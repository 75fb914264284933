package opengl

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ErikLambrechts/fishpond"
)

func TestViewportZoom(t *testing.T) {
	conf := &Config{Xmin: 0, Ymin: 0, Xmax: 100, Ymax: 200}
	vp := newViewport(conf)

	// zoom in around the center
	vp.zoom(0.5, 0.5, 0.1)
	assert.InDelta(t, 5, vp[0].X, 1e-4)
	assert.InDelta(t, 10, vp[0].Y, 1e-4)
	assert.InDelta(t, 95, vp[1].X, 1e-4)
	assert.InDelta(t, 190, vp[1].Y, 1e-4)

	// zooming around a corner keeps it fixed
	vp = newViewport(conf)
	vp.zoom(0, 0, 0.5)
	assert.Equal(t, float32(0), vp[0].X)
	assert.Equal(t, float32(0), vp[0].Y)
	assert.InDelta(t, 50, vp[1].X, 1e-4)
	assert.InDelta(t, 100, vp[1].Y, 1e-4)

	// zoom out
	vp = newViewport(conf)
	vp.zoom(1, 1, -1)
	assert.InDelta(t, -100, vp[0].X, 1e-4)
	assert.InDelta(t, -200, vp[0].Y, 1e-4)
	assert.InDelta(t, 100, vp[1].X, 1e-4)
	assert.InDelta(t, 200, vp[1].Y, 1e-4)
}

func school(n int) *fishpond.Simulation {
	s := new(fishpond.Simulation)
	for i := 0; i < n; i++ {
		spine := make([]fishpond.Vec2, 4)
		width := make([]float64, 4)
		for j := range spine {
			spine[j] = fishpond.Vec2{X: float64(-j), Y: float64(10 * i)}
			width[j] = 1
		}
		s.School = append(s.School, fishpond.NewFish(spine, width, 9))
	}
	return s
}

func TestGeometry(t *testing.T) {
	s := school(3)

	var g geometry
	g.build(s, true)
	require.Len(t, g.spines, 3)
	require.Len(t, g.sides, 6)
	assert.Len(t, g.verts, 2*3*3*4)

	var first int32
	for i := range s.School {
		assert.Equal(t, strip{first, 4}, g.spines[i])
		first += 4
		assert.Equal(t, strip{first, 4}, g.sides[2*i])
		first += 4
		assert.Equal(t, strip{first, 4}, g.sides[2*i+1])
		first += 4
	}

	// second fish spine starts at vertex 12
	assert.Equal(t, []float32{0, 10, -1, 10}, g.verts[24:28])

	// rebuilding without spines reuses the buffers
	g.build(s, false)
	assert.Empty(t, g.spines)
	require.Len(t, g.sides, 6)
	assert.Len(t, g.verts, 2*3*2*4)
	assert.Equal(t, strip{0, 4}, g.sides[0])
	assert.Equal(t, strip{4, 4}, g.sides[1])

	// sides are named walking from head to tail, so the left side of a
	// fish facing +x is below its spine
	assert.InDelta(t, 0, g.verts[0], 1e-6)
	assert.InDelta(t, -1, g.verts[1], 1e-6)
}
