package fishpond

// Polarization returns the norm of the mean heading of the fish, between 0
// (headings cancel out) and 1 (all fish swim in the same direction).
// Fish at rest are ignored.
func Polarization(states []State) float64 {
	var sum Vec2
	var n int
	for _, s := range states {
		if s.Vel == (Vec2{}) {
			continue
		}
		sum = sum.Add(s.Vel.Normalize())
		n++
	}
	if n == 0 {
		return 0
	}
	return sum.Len() / float64(n)
}

// MeanSpeed returns the mean speed of the fish.
func MeanSpeed(states []State) float64 {
	if len(states) == 0 {
		return 0
	}
	var sum float64
	for _, s := range states {
		sum += s.Vel.Len()
	}
	return sum / float64(len(states))
}

// Centroid returns the weighted mean of the head positions.
func Centroid(states []State) Vec2 {
	var c Vec2
	var w float64
	for _, s := range states {
		c = c.Add(s.Pos.Scale(s.Weight))
		w += s.Weight
	}
	if w == 0 {
		return Vec2{}
	}
	return c.Div(w)
}
