//go:build !nogl

package opengl

import (
	"fmt"
	"strings"
	"unsafe"

	"github.com/go-gl/gl/v3.3-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
	"go.uber.org/zap"

	"github.com/ErikLambrechts/fishpond"
)

// Run runs an interactive simulation in an OpenGL window.
// It must be called from the main thread.
func Run(s *fishpond.Simulation, conf *Config) error {
	log := conf.Logger
	if log == nil {
		log = zap.NewNop()
	}

	// init GLFW and OpenGL
	if err := glfw.Init(); err != nil {
		return err
	}
	defer glfw.Terminate()

	glfw.WindowHint(glfw.Samples, 4)
	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 3)
	glfw.WindowHint(glfw.ContextVersionMinor, 3)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)

	// create OpenGL window
	const title = "Fishpond"
	size := conf.WindowSize
	if size <= 0 {
		size = 800
	}
	w, err := glfw.CreateWindow(size, size, title, nil, nil)
	if err != nil {
		return err
	}
	defer w.Destroy()
	w.MakeContextCurrent()
	glfw.SwapInterval(1)

	if err := gl.Init(); err != nil {
		return err
	}
	log.Info("OpenGL ready", zap.String("version", gl.GoStr(gl.GetString(gl.VERSION))))

	// set background color and enable alpha blending
	bg := conf.Background
	gl.Enable(gl.BLEND)
	gl.Enable(gl.MULTISAMPLE)
	gl.BlendFunc(gl.SRC_ALPHA, gl.ONE_MINUS_SRC_ALPHA)
	gl.ClearColor(bg[0], bg[1], bg[2], bg[3])
	gl.Clear(gl.COLOR_BUFFER_BIT)
	w.SwapBuffers()

	// initialize OpenGL objects
	d, err := newDisplay()
	if err != nil {
		return err
	}
	defer d.delete()
	d.colors.spine = conf.Spine
	d.colors.outline = conf.Outline

	spines := conf.ShowSpine
	vp := newViewport(conf)
	redraw := func() {
		d.draw(s, spines, vp)
		w.SwapBuffers()
	}

	// handle scrolling zoom
	w.SetScrollCallback(func(w *glfw.Window, xo, yo float64) {
		xc, yc := w.GetCursorPos()
		xs, ys := w.GetSize()
		x, y := float32(xc)/float32(xs), (float32(ys)-float32(yc))/float32(ys)
		vp.zoom(x, y, 0.05*float32(yo))
		redraw()
	})

	var quit, step bool
	pause := conf.ForcePause
	w.SetKeyCallback(func(w *glfw.Window, key glfw.Key, _ int, action glfw.Action, _ glfw.ModifierKey) {
		if action != glfw.Press && !(key == glfw.KeyRight && action == glfw.Repeat) {
			return
		}
		switch key {
		case glfw.KeyEscape:
			quit = true
		case glfw.KeySpace:
			if !conf.ForcePause {
				pause = !pause
			}
		case glfw.KeyRight:
			if pause {
				step = true
			}
		case glfw.KeyR:
			vp = newViewport(conf)
			redraw()
		case glfw.KeyS:
			spines = !spines
			redraw()
		case glfw.KeyW:
			s.Behavior.Weighted = !s.Behavior.Weighted
			log.Info("Aggregation changed", zap.Bool("weighted", s.Behavior.Weighted))
		}
	})

	last := glfw.GetTime()
	for !(quit || w.ShouldClose()) {
		now := glfw.GetTime()
		dt := now - last
		last = now
		switch {
		case step:
			step = false
			conf.Step(manualStep)
		case !pause:
			if dt > maxFrame {
				log.Debug("Slow frame", zap.Float64("dt", dt))
				dt = maxFrame
			}
			conf.Step(dt)
		}
		redraw()
		glfw.PollEvents()
	}
	return nil
}

// display contains all the OpenGL objects required to display the simulation.
type display struct {
	vao  uint32 // vertex array object
	vbo  uint32 // vertex buffer object
	cap  int    // capacity of vbo in floats
	prog uint32
	uni  struct {
		vp    int32 // viewport
		color int32 // line color
	}
	colors struct {
		spine   [4]float32
		outline [4]float32
	}
	geom geometry
}

// draw updates the OpenGL buffer and draws the fish on screen.
func (d *display) draw(s *fishpond.Simulation, spines bool, vp viewport) {
	d.geom.build(s, spines)
	d.upload(d.geom.verts)

	gl.Clear(gl.COLOR_BUFFER_BIT)
	gl.UseProgram(d.prog)
	gl.Uniform2fv(d.uni.vp, 2, &vp[0].X)
	gl.BindVertexArray(d.vao)

	gl.Uniform4fv(d.uni.color, 1, &d.colors.outline[0])
	for _, st := range d.geom.sides {
		gl.DrawArrays(gl.LINE_STRIP, st.first, st.count)
	}
	gl.Uniform4fv(d.uni.color, 1, &d.colors.spine[0])
	for _, st := range d.geom.spines {
		gl.DrawArrays(gl.LINE_STRIP, st.first, st.count)
	}
}

// upload sends the vertices to the vertex buffer, growing it when needed.
func (d *display) upload(v []float32) {
	if len(v) == 0 {
		return
	}
	const n = int(unsafe.Sizeof(float32(0)))
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)
	if len(v) > d.cap {
		d.cap = 2 * len(v)
		gl.BufferData(gl.ARRAY_BUFFER, d.cap*n, nil, gl.STREAM_DRAW)
	}
	gl.BufferSubData(gl.ARRAY_BUFFER, 0, len(v)*n, gl.Ptr(v))
}

// delete releases the OpenGL objects.
func (d *display) delete() {
	gl.DeleteBuffers(1, &d.vbo)
	gl.DeleteVertexArrays(1, &d.vao)
	gl.DeleteProgram(d.prog)
}

// newDisplay compiles shaders and initializes a display.
func newDisplay() (*display, error) {
	d := new(display)

	var err error
	d.prog, err = makeProg([]shader{
		{"Vertex", vertexShader, gl.VERTEX_SHADER},
		{"Fragment", fragmentShader, gl.FRAGMENT_SHADER},
	})
	if err != nil {
		return nil, err
	}

	// uniform location cannot be specified in the shaders in OpenGL 3.3 core
	d.uni.vp = gl.GetUniformLocation(d.prog, gl.Str("vp\x00"))
	d.uni.color = gl.GetUniformLocation(d.prog, gl.Str("color\x00"))

	gl.GenVertexArrays(1, &d.vao)
	gl.BindVertexArray(d.vao)

	gl.GenBuffers(1, &d.vbo)
	gl.BindBuffer(gl.ARRAY_BUFFER, d.vbo)

	// attribute location is specified in the shader with layout(location=0)
	gl.EnableVertexAttribArray(0)
	gl.VertexAttribPointer(0, 2, gl.FLOAT, false, 0, nil)

	gl.BindBuffer(gl.ARRAY_BUFFER, 0)

	return d, nil
}

const vertexShader = `
#version 330 core

layout(location = 0) in vec2 pos;

uniform vec2 vp[2]; // bottom left and top right corners

void main() {
	gl_Position = vec4(2 * (pos - vp[0]) / (vp[1] - vp[0]) - 1, 0, 1);
}
`

const fragmentShader = `
#version 330 core

uniform vec4 color;

out vec4 frag;

void main() {
	frag = color;
}
`

// A shader is the source of an OpenGL shader.
type shader struct {
	name string
	src  string
	kind uint32
}

// makeProg builds OpenGL programs.
func makeProg(shaders []shader) (uint32, error) {
	var errs []string
	ids := make([]uint32, len(shaders))
	for i, s := range shaders {
		id := gl.CreateShader(s.kind)
		str, free := gl.Strs(s.src + "\x00")
		gl.ShaderSource(id, 1, str, nil)
		free()
		gl.CompileShader(id)
		var status int32
		gl.GetShaderiv(id, gl.COMPILE_STATUS, &status)
		if status != gl.TRUE {
			var n int32
			gl.GetShaderiv(id, gl.INFO_LOG_LENGTH, &n)
			log := strings.Repeat("\x00", int(n+1))
			gl.GetShaderInfoLog(id, n, nil, gl.Str(log))
			errs = append(errs, fmt.Sprintf("%s shader: %s", s.name, strings.TrimRight(log, "\x00")))
			gl.DeleteShader(id)
			continue
		}
		ids[i] = id
	}
	if len(errs) > 0 {
		for _, id := range ids {
			if id != 0 {
				gl.DeleteShader(id)
			}
		}
		return 0, fmt.Errorf("opengl: GLSL errors:\n%s", strings.Join(errs, "\n"))
	}

	prog := gl.CreateProgram()
	for _, id := range ids {
		gl.AttachShader(prog, id)
	}
	gl.LinkProgram(prog)
	for _, id := range ids {
		gl.DeleteShader(id)
	}

	var status int32
	gl.GetProgramiv(prog, gl.LINK_STATUS, &status)
	if status != gl.TRUE {
		var n int32
		gl.GetProgramiv(prog, gl.INFO_LOG_LENGTH, &n)
		log := strings.Repeat("\x00", int(n+1))
		gl.GetProgramInfoLog(prog, n, nil, gl.Str(log))
		gl.DeleteProgram(prog)
		return 0, fmt.Errorf("opengl: link error: %s", strings.TrimRight(log, "\x00"))
	}
	return prog, nil
}
