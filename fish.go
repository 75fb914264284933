package fishpond

import (
	"fmt"
	"math"
)

const (
	// SpinePoints is the number of points in the spine of a random fish.
	SpinePoints = 30

	// TailPoints is the number of spine points at the end of the body
	// that undulate while the fish accelerates.
	TailPoints = 15

	// MinBend is the smallest angle allowed between two consecutive
	// segments, i.e. the body never folds by more than 20° at a joint.
	MinBend = 160.0 / 180.0 * math.Pi
)

// A Fish is a flexible body made of a chain of points, head first.
// The distance between consecutive points is fixed and the chain
// cannot fold sharper than MinBend at any joint.
type Fish struct {
	Vel Vec2 // velocity of the head
	Acc Vec2 // acceleration of the head during the last step

	spine    []Vec2    // head to tail
	width    []float64 // half width of the body at each spine point
	weight   float64   // mass-like scalar
	segment  float64   // distance between consecutive spine points
	distance float64   // distance travelled by the head
}

// NewFish returns a fish with the given spine, widths and weight.
// The spine and width slices are owned by the fish afterwards.
// It panics if the fish is malformed.
func NewFish(spine []Vec2, width []float64, weight float64) *Fish {
	if len(spine) < 2 {
		panic(fmt.Sprintf("fishpond: spine needs at least 2 points, got %d", len(spine)))
	}
	if len(width) != len(spine) {
		panic(fmt.Sprintf("fishpond: %d widths for %d spine points", len(width), len(spine)))
	}
	if !(weight > 0) {
		panic(fmt.Sprintf("fishpond: weight must be positive, got %v", weight))
	}
	return &Fish{
		spine:   spine,
		width:   width,
		weight:  weight,
		segment: weight / 9,
	}
}

// RandomFish draws a fish whose spine points are scattered in a 100×100 square.
// The spine straightens out after the first call to Relax.
func RandomFish(src Source) *Fish {
	spine := make([]Vec2, SpinePoints)
	for i := range spine {
		spine[i] = Vec2{src.Uniform(0, 100), src.Uniform(0, 100)}
	}
	w := src.Uniform(-1, 3)
	weight := w*w + 1
	width := make([]float64, SpinePoints)
	for i := range width {
		width[i] = src.Uniform(1, 10) * weight / 6
	}
	return NewFish(spine, width, weight)
}

// Head returns the position of the head.
func (f *Fish) Head() Vec2 {
	return f.spine[0]
}

// SetHead moves the head to p and accumulates the distance travelled.
func (f *Fish) SetHead(p Vec2) {
	f.distance += p.Dist(f.spine[0])
	f.spine[0] = p
}

// Weight returns the weight of the fish.
func (f *Fish) Weight() float64 {
	return f.weight
}

// SegmentLength returns the fixed distance between consecutive spine points.
func (f *Fish) SegmentLength() float64 {
	return f.segment
}

// Distance returns the total distance travelled by the head.
func (f *Fish) Distance() float64 {
	return f.distance
}

// Spine returns the spine points, head first.
// The returned slice must not be modified.
func (f *Fish) Spine() []Vec2 {
	return f.spine
}

// Width returns the half width of the body at each spine point.
// The returned slice must not be modified.
func (f *Fish) Width() []float64 {
	return f.width
}

// Center returns the centroid of the spine points.
func (f *Fish) Center() Vec2 {
	var c Vec2
	for _, p := range f.spine {
		c = c.Add(p)
	}
	return c.Div(float64(len(f.spine)))
}

// MaxSpeed returns the speed limit of the fish for a given speed parameter.
// Heavier fish are slower.
func (f *Fish) MaxSpeed(param float64) float64 {
	return param * 10 / (f.weight + 2)
}

// Relax drags the spine behind the head, enforcing segment lengths and
// bend limits, then lets the tail undulate and restores the segment lengths.
func (f *Fish) Relax() {
	for i := 1; i < len(f.spine); i++ {
		f.constrainLength(i)
		f.constrainBend(i)
	}
	f.undulate()
	for i := 1; i < len(f.spine); i++ {
		f.constrainLength(i)
	}
}

// constrainLength puts point i at segment distance from point i-1.
// Coincident points collapse onto point i-1 until they separate again.
func (f *Fish) constrainLength(i int) {
	d := f.spine[i].Sub(f.spine[i-1]).Normalize()
	f.spine[i] = f.spine[i-1].Add(d.Scale(f.segment))
}

// constrainBend rotates the segment after point i if the joint at i is too sharp.
func (f *Fish) constrainBend(i int) {
	if i >= len(f.spine)-1 {
		return
	}
	u := f.spine[i-1].Sub(f.spine[i])
	v := f.spine[i+1].Sub(f.spine[i])
	θ := u.Angle(v)
	if math.Abs(θ) < MinBend {
		f.spine[i+1] = f.spine[i].Add(u.Rotate(math.Copysign(MinBend, θ)))
	}
}

// undulate pushes the tail points sideways along a wave that travels down
// the body. The wave is phased by the distance travelled rather than time,
// and only moves while the fish accelerates forward.
func (f *Fish) undulate() {
	n := TailPoints
	if n > len(f.spine)-1 {
		n = len(f.spine) - 1
	}
	if n < 2 {
		return
	}
	var boost float64
	if f.Vel.Dot(f.Acc) > 0 {
		boost = math.Max(f.Acc.Len(), 0.1)
	}
	if boost == 0 {
		return
	}
	speed := f.Vel.Len()
	offset := len(f.spine) - n
	for i := 0; i < n; i++ {
		ramp := (math.Exp(float64(i)/(float64(n-1)*10)) - 1) / math.E
		phase := math.Cos((-float64(i)*f.segment - f.distance) * math.Pi * speed / 10 / (f.segment * float64(n)))
		stride := ramp * boost * phase

		k := offset + i
		normal := f.spine[k].Sub(f.spine[k-1]).Rotate(math.Pi / 2).Normalize()
		f.spine[k] = f.spine[k].Add(normal.Scale(stride * 0.01))
	}
}
