package fishpond

import (
	"math"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// straightFish returns a relaxed fish with n points starting at head
// and extending in direction dir, so that it faces -dir.
func straightFish(n int, weight float64, head, dir Vec2) *Fish {
	seg := weight / 9
	dir = dir.Normalize()
	spine := make([]Vec2, n)
	width := make([]float64, n)
	for i := range spine {
		spine[i] = head.Add(dir.Scale(seg * float64(i)))
		width[i] = 1
	}
	return NewFish(spine, width, weight)
}

// requireChain checks segment lengths and bend limits of a spine.
func requireChain(t *testing.T, f *Fish, checkBend bool) {
	t.Helper()
	s := f.Spine()
	for i := 1; i < len(s); i++ {
		d := s[i].Dist(s[i-1])
		require.InEpsilon(t, f.SegmentLength(), d, 1e-9, "segment %d", i)
	}
	if !checkBend {
		return
	}
	for i := 1; i < len(s)-1; i++ {
		θ := s[i-1].Sub(s[i]).Angle(s[i+1].Sub(s[i]))
		require.GreaterOrEqual(t, math.Abs(θ), MinBend-1e-6, "joint %d", i)
	}
}

func TestNewFishPanics(t *testing.T) {
	assert.Panics(t, func() { NewFish([]Vec2{{0, 0}}, []float64{1}, 1) })
	assert.Panics(t, func() { NewFish([]Vec2{{0, 0}, {1, 0}}, []float64{1}, 1) })
	assert.Panics(t, func() { NewFish([]Vec2{{0, 0}, {1, 0}}, []float64{1, 1}, 0) })
	assert.Panics(t, func() { NewFish([]Vec2{{0, 0}, {1, 0}}, []float64{1, 1}, math.NaN()) })
	assert.NotPanics(t, func() { NewFish([]Vec2{{0, 0}, {1, 0}}, []float64{1, 1}, 1) })
}

func TestRandomFish(t *testing.T) {
	src := NewRand(42)
	for k := 0; k < 50; k++ {
		f := RandomFish(src)
		require.Len(t, f.Spine(), SpinePoints)
		require.Len(t, f.Width(), SpinePoints)
		w := f.Weight()
		require.GreaterOrEqual(t, w, 1.0)
		require.Less(t, w, 10.0)
		assert.InDelta(t, w/9, f.SegmentLength(), tol)
		for _, p := range f.Spine() {
			assert.True(t, p.X >= 0 && p.X < 100 && p.Y >= 0 && p.Y < 100, "%v", p)
		}
		for _, x := range f.Width() {
			assert.True(t, x >= w/6 && x < 10*w/6, "width %v for weight %v", x, w)
		}
	}
}

func TestSetHead(t *testing.T) {
	f := straightFish(5, 1, Vec2{}, Vec2{1, 0})
	f.SetHead(Vec2{3, 4})
	assert.Equal(t, Vec2{3, 4}, f.Head())
	assert.InDelta(t, 5, f.Distance(), tol)
	f.SetHead(Vec2{3, 0})
	assert.InDelta(t, 9, f.Distance(), tol)
	f.SetHead(Vec2{3, 0})
	assert.InDelta(t, 9, f.Distance(), tol)
}

func TestCenter(t *testing.T) {
	f := straightFish(3, 9, Vec2{1, 1}, Vec2{0, 1})
	c := f.Center()
	assert.InDelta(t, 1, c.X, tol)
	assert.InDelta(t, 2, c.Y, tol)
}

func TestMaxSpeed(t *testing.T) {
	light := straightFish(3, 1, Vec2{}, Vec2{1, 0})
	heavy := straightFish(3, 8, Vec2{}, Vec2{1, 0})
	assert.InDelta(t, 20*10/3.0, light.MaxSpeed(20), tol)
	assert.InDelta(t, 20*10/10.0, heavy.MaxSpeed(20), tol)
	assert.Less(t, heavy.MaxSpeed(20), light.MaxSpeed(20))
}

func TestRelaxRandomSpines(t *testing.T) {
	src := NewRand(7)
	for k := 0; k < 100; k++ {
		f := RandomFish(src)
		f.Relax()
		requireChain(t, f, true)
	}
}

func TestRelaxWhileAccelerating(t *testing.T) {
	src := NewRand(11)
	for k := 0; k < 100; k++ {
		f := RandomFish(src)
		f.Vel = Vec2{src.Uniform(-50, 50), src.Uniform(-50, 50)}
		f.Acc = f.Vel.Scale(src.Uniform(0.01, 3))
		f.SetHead(f.Head().Add(Vec2{src.Uniform(-5, 5), src.Uniform(-5, 5)}))
		f.Relax()
		requireChain(t, f, false)
	}
}

func TestRelaxHeadJump(t *testing.T) {
	f := straightFish(SpinePoints, 1, Vec2{}, Vec2{1, 0})
	f.SetHead(Vec2{0, 1000})
	f.Relax()
	requireChain(t, f, true)
	assert.Equal(t, Vec2{0, 1000}, f.Head())
}

func TestRelaxFoldedSpine(t *testing.T) {
	// zig-zag spine folded back on itself at every joint
	spine := make([]Vec2, 10)
	width := make([]float64, 10)
	for i := range spine {
		spine[i] = Vec2{float64(i % 2), 0.01 * float64(i)}
		width[i] = 1
	}
	f := NewFish(spine, width, 2)
	f.Relax()
	requireChain(t, f, true)
}

func TestRelaxCoincidentPoints(t *testing.T) {
	spine := []Vec2{{0, 0}, {0, 0}, {0, 0}}
	f := NewFish(spine, []float64{1, 1, 1}, 1)
	f.Relax()
	for _, p := range f.Spine() {
		assert.False(t, math.IsNaN(p.X) || math.IsNaN(p.Y), "%v", p)
		assert.Equal(t, Vec2{}, p)
	}
}

func TestNoUndulationAtRest(t *testing.T) {
	tests := []struct {
		name     string
		vel, acc Vec2
	}{
		{"still", Vec2{}, Vec2{}},
		{"cruising", Vec2{-10, 0}, Vec2{}},
		{"braking", Vec2{-10, 0}, Vec2{5, 0}},
		{"sideways", Vec2{-10, 0}, Vec2{0, 3}},
	}
	approx := cmpopts.EquateApprox(0, 1e-9)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := straightFish(SpinePoints, 1, Vec2{}, Vec2{1, 0})
			f.Vel, f.Acc = tt.vel, tt.acc
			f.SetHead(Vec2{-0.5, 0})
			want := make([]Vec2, SpinePoints)
			for i := range want {
				want[i] = Vec2{-0.5 + f.SegmentLength()*float64(i), 0}
			}
			f.Relax()
			if diff := cmp.Diff(want, f.Spine(), approx); diff != "" {
				t.Errorf("spine mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestUndulationWhenAccelerating(t *testing.T) {
	f := straightFish(SpinePoints, 1, Vec2{}, Vec2{1, 0})
	f.Vel, f.Acc = Vec2{-10, 0}, Vec2{-2, 0}
	f.SetHead(Vec2{-0.5, 0})
	f.Relax()
	requireChain(t, f, false)

	s := f.Spine()
	var sway float64
	for i, p := range s {
		if i < SpinePoints-TailPoints {
			assert.InDelta(t, 0, p.Y, 1e-12, "point %d before the tail", i)
		}
		sway = math.Max(sway, math.Abs(p.Y))
	}
	assert.Greater(t, sway, 0.0)
}
