package fishpond

import (
	"golang.org/x/sync/errgroup"
)

// A snapshot is a read-only copy of the school used during a step,
// so that no fish sees the updated state of another one.
type snapshot struct {
	head   []Vec2
	vel    []Vec2
	center []Vec2
	weight []float64
	total  float64 // sum of all weights
}

func newSnapshot(school []*Fish) *snapshot {
	n := len(school)
	s := &snapshot{
		head:   make([]Vec2, n),
		vel:    make([]Vec2, n),
		center: make([]Vec2, n),
		weight: make([]float64, n),
	}
	for i, f := range school {
		s.head[i] = f.Head()
		s.vel[i] = f.Vel
		s.center[i] = f.Center()
		s.weight[i] = f.weight
		s.total += f.weight
	}
	return s
}

// A neighborhood accumulates what fish i perceives of the others,
// both plain and weighted by the weight of each neighbor.
type neighborhood struct {
	count  int     // number of neighbors in sight
	weight float64 // total weight of neighbors in sight

	vel, velW Vec2 // sum of velocities of neighbors in sight
	pos, posW Vec2 // sum of head positions of neighbors in sight
	sep, sepW Vec2 // sum of vectors pointing away from close fish
}

// scan visits every other fish. A fish is in sight if its head is within
// the visual range and ahead of the focal fish. A fish is too close if
// its centroid is within the minimum distance, in which case both its
// centroid and its head push the focal fish away.
func (s *snapshot) scan(i int, b *Behavior) neighborhood {
	var nb neighborhood
	p, v := s.head[i], s.vel[i]
	for j := range s.head {
		if j == i {
			continue
		}
		q, w := s.head[j], s.weight[j]
		if p.Dist(q) < b.VisualRange && v.Dot(q.Sub(p)) > 0 {
			nb.count++
			nb.weight += w
			nb.vel = nb.vel.Add(s.vel[j])
			nb.pos = nb.pos.Add(q)
			nb.velW = nb.velW.Add(s.vel[j].Scale(w))
			nb.posW = nb.posW.Add(q.Scale(w))
		}
		if p.Dist(s.center[j]) < b.MinDistance {
			away := p.Sub(s.center[j]).Add(p.Sub(q))
			nb.sep = nb.sep.Add(away)
			nb.sepW = nb.sepW.Add(away.Scale(w))
		}
	}
	return nb
}

// steering returns the alignment, cohesion and separation forces on fish i.
type steering func(s *snapshot, i int, nb neighborhood, b *Behavior) (align, cohere, separate Vec2)

// plain averages neighbors by count.
func plain(s *snapshot, i int, nb neighborhood, b *Behavior) (align, cohere, separate Vec2) {
	if nb.count > 0 {
		n := float64(nb.count)
		align = nb.vel.Div(n).Sub(s.vel[i]).Scale(b.MatchingFactor)
		cohere = nb.pos.Div(n).Sub(s.head[i]).Scale(b.CenteringFactor)
	}
	separate = nb.sep.Scale(b.SeparationFactor)
	return align, cohere, separate
}

// weighted averages neighbors by weight. Separation is normalized
// by the weight of the whole school, not only of the neighbors in sight.
func weighted(s *snapshot, i int, nb neighborhood, b *Behavior) (align, cohere, separate Vec2) {
	if nb.weight > 0 {
		align = nb.velW.Div(nb.weight).Sub(s.vel[i]).Scale(b.MatchingFactor)
		cohere = nb.posW.Div(nb.weight).Sub(s.head[i]).Scale(b.CenteringFactor)
	}
	if s.total > 0 {
		separate = nb.sepW.Div(s.total).Scale(b.SeparationFactor)
	}
	return align, cohere, separate
}

// Repulsion returns the force pushing a fish at p away from the edges.
// It grows linearly from zero at margin distance to factor at the edge,
// independently along each axis.
func (e Environment) Repulsion(p Vec2, factor, margin float64) Vec2 {
	var r Vec2
	if margin <= 0 {
		return r
	}
	if p.X < margin {
		r.X = factor * (1 - p.X/margin)
	}
	if p.X > e.Width-margin {
		r.X = -factor * (1 - (e.Width-p.X)/margin)
	}
	if p.Y < margin {
		r.Y = factor * (1 - p.Y/margin)
	}
	if p.Y > e.Height-margin {
		r.Y = -factor * (1 - (e.Height-p.Y)/margin)
	}
	return r
}

// steer computes the next state of every fish without modifying the school.
func (s *Simulation) steer(dt float64) []State {
	snap := newSnapshot(s.School)
	rule := steering(plain)
	if s.Behavior.Weighted {
		rule = weighted
	}

	next := make([]State, len(s.School))
	update := func(i int) {
		next[i] = s.integrate(snap, i, rule, dt)
	}

	if s.Workers < 2 {
		for i := range next {
			update(i)
		}
		return next
	}

	var g errgroup.Group
	g.SetLimit(s.Workers)
	for i := range next {
		i := i
		g.Go(func() error {
			update(i)
			return nil
		})
	}
	_ = g.Wait() // update never fails
	return next
}

// integrate sums the forces on fish i and advances it by dt.
func (s *Simulation) integrate(snap *snapshot, i int, rule steering, dt float64) State {
	b := &s.Behavior
	nb := snap.scan(i, b)
	align, cohere, separate := rule(snap, i, nb, b)
	edge := s.Env.Repulsion(snap.head[i], b.RepellingFactor, b.RepellingMargin)

	acc := align.Add(cohere).Add(separate).Add(edge)
	vel := snap.vel[i].Add(acc.Scale(dt))

	// limit speed
	limit := s.School[i].MaxSpeed(b.MaxSpeed)
	if n := vel.Len(); n > limit {
		vel = vel.Scale(limit / n)
	}

	return State{
		Pos:    snap.head[i].Add(vel.Scale(dt)),
		Vel:    vel,
		Acc:    acc,
		Weight: snap.weight[i],
	}
}
