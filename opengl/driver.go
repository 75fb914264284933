// Package opengl runs interactive fishpond simulations in an OpenGL window.
//
// Build with the nogl tag to leave out OpenGL support.
package opengl

import (
	"go.uber.org/zap"

	"github.com/ErikLambrechts/fishpond"
)

// Config holds the parameters of the OpenGL driver.
type Config struct {
	Step       func(dt float64) // go to next step
	ForcePause bool             // step manually only?

	// bounds of default viewport
	Xmin float64
	Ymin float64
	Xmax float64
	Ymax float64

	WindowSize int  // side of the square window in pixels
	ShowSpine  bool // draw spines at start

	// RGBA colors
	Spine      [4]float32
	Outline    [4]float32
	Background [4]float32

	Logger *zap.Logger
}

// maxFrame bounds the wall clock time fed to a single step, so that a
// stalled window does not send fish across the world.
const maxFrame = 0.1

// manualStep is the duration of a step taken with the right arrow key.
const manualStep = 1.0 / 60

// A viewport is a rectangle delimiting the area of simulation space shown on screen.
// The first point is the bottom left corner, the second point is the top right corner.
type viewport [2]struct{ X, Y float32 }

func newViewport(conf *Config) viewport {
	var vp viewport
	vp[0].X, vp[0].Y = float32(conf.Xmin), float32(conf.Ymin)
	vp[1].X, vp[1].Y = float32(conf.Xmax), float32(conf.Ymax)
	return vp
}

// zoom scales the viewport by a factor 1-z around the point at relative
// position (x, y) in the window, with (0, 0) the bottom left corner.
func (vp *viewport) zoom(x, y, z float32) {
	dx, dy := vp[1].X-vp[0].X, vp[1].Y-vp[0].Y
	vp[0].X += z * (x * dx)
	vp[0].Y += z * (y * dy)
	vp[1].X -= z * (1 - x) * dx
	vp[1].Y -= z * (1 - y) * dy
}

// A strip is a range of vertices drawn as a single line strip.
type strip struct {
	first int32
	count int32
}

// geometry holds the vertices of every line strip of a frame.
type geometry struct {
	verts  []float32 // x, y pairs
	spines []strip
	sides  []strip
}

// build fills g with the outlines, and the spines if requested, of the school.
// Buffers are reused between frames.
func (g *geometry) build(s *fishpond.Simulation, spines bool) {
	g.verts = g.verts[:0]
	g.spines = g.spines[:0]
	g.sides = g.sides[:0]
	for _, f := range s.School {
		if spines {
			g.spines = append(g.spines, g.add(f.Spine()))
		}
		left, right := f.Contour()
		g.sides = append(g.sides, g.add(left), g.add(right))
	}
}

func (g *geometry) add(pts []fishpond.Vec2) strip {
	st := strip{first: int32(len(g.verts) / 2), count: int32(len(pts))}
	for _, p := range pts {
		g.verts = append(g.verts, float32(p.X), float32(p.Y))
	}
	return st
}
