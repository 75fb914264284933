package main

import (
	"github.com/ErikLambrechts/fishpond"
	"github.com/ErikLambrechts/fishpond/hdf5"
	"github.com/ErikLambrechts/fishpond/internal/config"
)

// setup draws a random school scattered over the world, at rest.
func setup(conf *config.Config, src fishpond.Source) *fishpond.Simulation {
	s := &fishpond.Simulation{
		School: make([]*fishpond.Fish, conf.SchoolSize),
		Env: fishpond.Environment{
			Width:  conf.Width,
			Height: conf.Height,
		},
		Behavior: conf.Behavior,
		Workers:  conf.Workers,
	}
	for i := range s.School {
		f := fishpond.RandomFish(src)
		f.SetHead(fishpond.Vec2{X: src.Uniform(0, conf.Width), Y: src.Uniform(0, conf.Height)})
		s.School[i] = f
	}
	// pull the random spines into shape behind their heads
	s.Relax()
	return s
}

// datasets lists the data recorded at every step.
func datasets(size int) []*hdf5.Dataset {
	return []*hdf5.Dataset{
		{
			Name: "fish",
			Val:  fishpond.State{},
			Dims: []int{size},
			Data: func(s *fishpond.Simulation) interface{} {
				p := s.States()
				return &p
			},
		},
		{
			Name: "spines",
			Val:  fishpond.Vec2{},
			Dims: []int{size, fishpond.SpinePoints},
			Data: func(s *fishpond.Simulation) interface{} {
				p := spines(s)
				return &p
			},
		},
		{
			Name: "contours",
			Val:  fishpond.Vec2{},
			Dims: []int{size, 2, fishpond.SpinePoints},
			Data: func(s *fishpond.Simulation) interface{} {
				p := contours(s)
				return &p
			},
		},
	}
}

// spines flattens the spines of the school in fish, point order.
func spines(s *fishpond.Simulation) []fishpond.Vec2 {
	p := make([]fishpond.Vec2, 0, len(s.School)*fishpond.SpinePoints)
	for _, f := range s.School {
		p = append(p, f.Spine()...)
	}
	return p
}

// contours flattens the outlines of the school in fish, side, point order
// with the left side first.
func contours(s *fishpond.Simulation) []fishpond.Vec2 {
	p := make([]fishpond.Vec2, 0, 2*len(s.School)*fishpond.SpinePoints)
	for _, o := range s.Outlines() {
		p = append(p, o.Left...)
		p = append(p, o.Right...)
	}
	return p
}
