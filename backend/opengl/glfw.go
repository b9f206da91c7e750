package opengl

import (
	"fmt"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"
)

// WindowOptions describes the window and context OpenWindow creates.
type WindowOptions struct {
	Width, Height int
	Title         string
	Major, Minor  int
	Hidden        bool
	VSync         bool
}

// OpenWindow creates a core-profile GLFW window, makes its context current
// and loads the GL function pointers. glfw.Init must have succeeded and the
// caller must be on the locked main thread.
func OpenWindow(o WindowOptions) (*glfw.Window, error) {
	glfw.WindowHint(glfw.ContextVersionMajor, o.Major)
	glfw.WindowHint(glfw.ContextVersionMinor, o.Minor)
	glfw.WindowHint(glfw.OpenGLProfile, glfw.OpenGLCoreProfile)
	glfw.WindowHint(glfw.OpenGLForwardCompatible, glfw.True)
	if o.Hidden {
		glfw.WindowHint(glfw.Visible, glfw.False)
	}

	window, err := glfw.CreateWindow(o.Width, o.Height, o.Title, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("create window: %w", err)
	}
	window.MakeContextCurrent()
	if o.VSync {
		glfw.SwapInterval(1)
	}

	if err := gl.Init(); err != nil {
		window.Destroy()
		return nil, fmt.Errorf("gl init: %w", err)
	}

	return window, nil
}

// WindowAdapter wires GLFW callbacks to the GL viewport and to a shader
// reload request.
type WindowAdapter struct {
	window        *glfw.Window
	width, height int
	reload        bool
}

// NewWindowAdapter installs the adapter's callbacks on window and sets the
// initial viewport.
func NewWindowAdapter(window *glfw.Window) *WindowAdapter {
	a := &WindowAdapter{window: window}

	// Setup callbacks
	window.SetFramebufferSizeCallback(a.framebufferSizeCallback)
	window.SetKeyCallback(a.keyCallback)

	w, h := window.GetFramebufferSize()
	a.framebufferSizeCallback(window, w, h)

	return a
}

// Size returns the current framebuffer size.
func (a *WindowAdapter) Size() (int, int) {
	return a.width, a.height
}

// ReloadRequested reports whether R was pressed since the last call and
// clears the request.
func (a *WindowAdapter) ReloadRequested() bool {
	r := a.reload
	a.reload = false
	return r
}

func (a *WindowAdapter) framebufferSizeCallback(w *glfw.Window, width, height int) {
	a.width, a.height = width, height
	gl.Viewport(0, 0, int32(width), int32(height))
}

func (a *WindowAdapter) keyCallback(w *glfw.Window, key glfw.Key, scancode int, action glfw.Action, mods glfw.ModifierKey) {
	if action != glfw.Press {
		return
	}
	switch key {
	case glfw.KeyEscape:
		w.SetShouldClose(true)
	case glfw.KeyR:
		a.reload = true
	}
}
