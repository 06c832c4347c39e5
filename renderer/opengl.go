package renderer

import (
	"fmt"
	"sync"
	"unsafe"

	"github.com/benpm/opengl-lens-flare/lens"
	"github.com/benpm/opengl-lens-flare/tracer"
	"github.com/benpm/opengl-lens-flare/types"
	"github.com/go-gl/gl/v2.1/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

const (
	// Simulation time added per frame, assuming a 60Hz swap.
	frameStep float32 = 0.016

	// Scale applied to the normalized cursor offset when steering the light.
	cursorLightScale float32 = 0.2
)

// An interactive opengl-based renderer.
type interactiveGLRenderer struct {
	*defaultRenderer

	// opengl handles
	window *glfw.Window
	texFbo uint32

	// mutex for synchronizing light updates with the render loop
	sync.Mutex
}

// Create a new interactive opengl renderer that displays the flare for a
// cursor-steered light. The calling goroutine must be locked to the OS
// thread for the lifetime of the renderer.
func NewInteractive(sys *lens.System, tr tracer.Tracer, opts Options) (Renderer, error) {
	base, err := NewDefault(sys, tr, opts)
	if err != nil {
		return nil, err
	}

	r := &interactiveGLRenderer{
		defaultRenderer: base.(*defaultRenderer),
	}

	if err = r.initGL(); err != nil {
		r.Close()
		return nil, err
	}

	return r, nil
}

func (r *interactiveGLRenderer) Close() {
	if r.window != nil {
		r.window.SetShouldClose(true)
	}
	r.defaultRenderer.Close()
}

func (r *interactiveGLRenderer) initGL() error {
	var err error
	if err = glfw.Init(); err != nil {
		return fmt.Errorf("renderer: failed to initialize glfw: %s", err.Error())
	}

	w := int(r.options.FrameW)
	h := int(r.options.FrameH)

	glfw.WindowHint(glfw.Resizable, glfw.False)
	glfw.WindowHint(glfw.ContextVersionMajor, 2)
	glfw.WindowHint(glfw.ContextVersionMinor, 1)
	r.window, err = glfw.CreateWindow(w, h, "lens flare", nil, nil)
	if err != nil {
		return fmt.Errorf("renderer: could not create opengl window: %s", err.Error())
	}
	r.window.MakeContextCurrent()

	if err = gl.Init(); err != nil {
		return fmt.Errorf("renderer: could not init opengl: %s", err.Error())
	}

	// Setup texture for frame data
	var fbTexture uint32
	gl.GenTextures(1, &fbTexture)
	gl.ActiveTexture(gl.TEXTURE0)
	gl.BindTexture(gl.TEXTURE_2D, fbTexture)
	gl.TexImage2D(gl.TEXTURE_2D, 0, gl.RGBA8, int32(w), int32(h), 0, gl.RGBA, gl.UNSIGNED_BYTE, nil)

	// Attach texture to FBO
	gl.GenFramebuffers(1, &r.texFbo)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
	gl.FramebufferTexture2D(gl.READ_FRAMEBUFFER, gl.COLOR_ATTACHMENT0, gl.TEXTURE_2D, fbTexture, 0)
	gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

	// Bind event callbacks
	r.window.SetInputMode(glfw.CursorMode, glfw.CursorNormal)
	r.window.SetKeyCallback(r.onKeyEvent)
	r.window.SetCursorPosCallback(r.onCursorPosEvent)

	return nil
}

// Render frames until the window closes, advancing the simulation clock by
// a fixed step per frame.
func (r *interactiveGLRenderer) Render() error {
	w := int32(r.options.FrameW)
	h := int32(r.options.FrameH)

	for !r.window.ShouldClose() {
		glfw.PollEvents()

		r.Lock()
		r.time += frameStep
		err := r.renderFrame()
		if err != nil {
			r.Unlock()
			return err
		}

		// Upload the frame and blit it to the window. The destination
		// rectangle is flipped so frame row zero lands at the top.
		gl.TexSubImage2D(gl.TEXTURE_2D, 0, 0, 0, w, h, gl.RGBA, gl.UNSIGNED_BYTE, unsafe.Pointer(&r.frame.Pix[0]))
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, r.texFbo)
		gl.BlitFramebuffer(0, 0, w, h, 0, h, w, 0, gl.COLOR_BUFFER_BIT, gl.LINEAR)
		gl.BindFramebuffer(gl.READ_FRAMEBUFFER, 0)

		r.window.SwapBuffers()
		r.Unlock()
	}
	return nil
}

func (r *interactiveGLRenderer) onKeyEvent(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if key == glfw.KeyEscape && action == glfw.Press {
		r.window.SetShouldClose(true)
	}
}

// Steer the light with the cursor: the normalized window offset becomes a
// small transverse tilt on a light that always points into the lens.
func (r *interactiveGLRenderer) onCursorPosEvent(w *glfw.Window, xPos, yPos float64) {
	width, height := w.GetSize()
	nx := float32(xPos)/float32(width)*2 - 1
	ny := float32(yPos)/float32(height)*2 - 1

	r.Lock()
	defer r.Unlock()
	r.lightDir = types.XYZ(nx*cursorLightScale, -ny*cursorLightScale, -1).Normalize()
}
