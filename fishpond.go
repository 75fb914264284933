// Package fishpond animates a school of flexible fish.
//
// Each fish is a chain of points that keeps its segment lengths,
// cannot fold sharper than a fixed angle, and wiggles its tail when
// it accelerates. The school follows the classic boids rules
// (alignment, cohesion, separation) and is pushed back from the
// edges of a rectangular world.
package fishpond

// An Environment contains all the parameters relative to the environment.
type Environment struct {
	Width  float64 // width of the world
	Height float64 // height of the world
}

// Behavior contains all the parameters of the steering rules followed by fish.
type Behavior struct {
	MatchingFactor   float64 // strength of velocity alignment
	CenteringFactor  float64 // strength of cohesion
	SeparationFactor float64 // strength of separation
	VisualRange      float64 // range of sight for alignment and cohesion
	MinDistance      float64 // range of separation
	MaxSpeed         float64 // speed parameter, see Fish.MaxSpeed
	RepellingFactor  float64 // strength of edge repulsion
	RepellingMargin  float64 // distance to the edges where repulsion starts

	// Weighted selects the aggregation where neighbors count in
	// proportion to their weight.
	Weighted bool
}

// A Simulation contains all the state and parameters of a simulation.
type Simulation struct {
	School   []*Fish
	Env      Environment
	Behavior Behavior

	// Workers is the number of goroutines computing steering forces.
	// Values below 2 compute them sequentially.
	Workers int
}

// Step runs a single simulation step of duration dt.
// Steering is computed for every fish from the state at the start of the
// step and committed afterwards, then every spine is relaxed behind its head.
func (s *Simulation) Step(dt float64) {
	next := s.steer(dt)
	for i, f := range s.School {
		f.SetHead(next[i].Pos)
		f.Vel = next[i].Vel
		f.Acc = next[i].Acc
	}
	for _, f := range s.School {
		f.Relax()
	}
}

// Relax relaxes every spine without moving the heads.
// It is useful to straighten freshly drawn random fish.
func (s *Simulation) Relax() {
	for _, f := range s.School {
		f.Relax()
	}
}

// State contains the kinematic state of a fish.
type State struct {
	Pos    Vec2    // head position
	Vel    Vec2    // velocity
	Acc    Vec2    // acceleration
	Weight float64 // weight
}

// States returns the current state of every fish.
func (s *Simulation) States() []State {
	st := make([]State, len(s.School))
	for i, f := range s.School {
		st[i] = State{Pos: f.Head(), Vel: f.Vel, Acc: f.Acc, Weight: f.weight}
	}
	return st
}

// Outline contains the two sides of a fish body.
type Outline struct {
	Left  []Vec2
	Right []Vec2
}

// Outlines returns the contour of every fish.
func (s *Simulation) Outlines() []Outline {
	o := make([]Outline, len(s.School))
	for i, f := range s.School {
		o[i].Left, o[i].Right = f.Contour()
	}
	return o
}
