package fishpond

import "math"

// Contour returns the outline of the fish, see Contour.
func (f *Fish) Contour() (left, right []Vec2) {
	return Contour(f.spine, f.width)
}

// Contour offsets a centerline on both sides by the local half width.
//
// The head is offset along the normal of the first segment. Every other
// point is offset along the previous segment rotated by half the bend
// angle at that point, where the bend angle is measured between the
// incoming segment and the reversed outgoing one (π when straight).
// The offset is flipped with the sign of the bend so that the sides do
// not cross on concave turns, which leaves a visible jump in width at
// inflection points. The tail uses a straight bend.
//
// It panics if the slices have different lengths or fewer than 2 points.
func Contour(spine []Vec2, width []float64) (left, right []Vec2) {
	n := len(spine)
	if n < 2 || len(width) != n {
		panic("fishpond: contour needs matching spine and widths of at least 2 points")
	}
	left = make([]Vec2, n)
	right = make([]Vec2, n)

	normal := spine[1].Sub(spine[0]).Rotate(math.Pi / 2).Normalize()
	left[0] = spine[0].Add(normal.Scale(width[0]))
	right[0] = spine[0].Sub(normal.Scale(width[0]))

	for i := 1; i < n; i++ {
		in := spine[i].Sub(spine[i-1])
		bend := math.Pi
		if i < n-1 {
			bend = in.Angle(spine[i].Sub(spine[i+1]))
		}
		normal := in.Rotate(bend / 2).Normalize()
		offset := normal.Scale(width[i] * math.Copysign(1, bend))
		left[i] = spine[i].Add(offset)
		right[i] = spine[i].Sub(offset)
	}
	return left, right
}
