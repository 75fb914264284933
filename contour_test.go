package fishpond

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContourStraight(t *testing.T) {
	spine := []Vec2{{0, 0}, {1, 0}, {2, 0}, {3, 0}}
	width := []float64{1, 2, 3, 0.5}
	left, right := Contour(spine, width)

	approx := cmpopts.EquateApprox(0, 1e-9)
	wantLeft := []Vec2{{0, 1}, {1, 2}, {2, 3}, {3, 0.5}}
	wantRight := []Vec2{{0, -1}, {1, -2}, {2, -3}, {3, -0.5}}
	if diff := cmp.Diff(wantLeft, left, approx); diff != "" {
		t.Errorf("left side mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantRight, right, approx); diff != "" {
		t.Errorf("right side mismatch (-want +got):\n%s", diff)
	}
}

func TestContourWidth(t *testing.T) {
	src := NewRand(5)
	for k := 0; k < 20; k++ {
		f := RandomFish(src)
		f.Relax()
		left, right := f.Contour()
		require.Len(t, left, SpinePoints)
		require.Len(t, right, SpinePoints)
		for i, p := range f.Spine() {
			// both sides are mirrored around the spine at the local half width
			mid := left[i].Add(right[i]).Scale(0.5)
			assert.InDelta(t, p.X, mid.X, 1e-9, "point %d", i)
			assert.InDelta(t, p.Y, mid.Y, 1e-9, "point %d", i)
			assert.InDelta(t, 2*f.Width()[i], left[i].Dist(right[i]), 1e-9, "point %d", i)
		}
	}
}

func TestContourBend(t *testing.T) {
	// right angle turn to the left at (1,0)
	spine := []Vec2{{0, 0}, {1, 0}, {1, 1}}
	left, right := Contour(spine, []float64{1, 1, 1})

	// offset along the bisector of the joint, left side inside the turn
	s := math.Sqrt2 / 2
	assert.InDelta(t, 1-s, left[1].X, 1e-9)
	assert.InDelta(t, s, left[1].Y, 1e-9)
	assert.InDelta(t, 1+s, right[1].X, 1e-9)
	assert.InDelta(t, -s, right[1].Y, 1e-9)

	// straight tail: offset along the last segment's left normal
	assert.InDelta(t, 0, left[2].X, 1e-9)
	assert.InDelta(t, 1, left[2].Y, 1e-9)
}

func TestContourPanics(t *testing.T) {
	assert.Panics(t, func() { Contour([]Vec2{{0, 0}}, []float64{1}) })
	assert.Panics(t, func() { Contour([]Vec2{{0, 0}, {1, 0}}, []float64{1}) })
}
