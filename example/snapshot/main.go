// Command snapshot renders the reference triangle in a hidden window, checks
// that the driver raised no error and saves the framebuffer as a JPEG.
//
// Usage:
//
//	devbox shell
//	go run ./example/snapshot/ -out triangle.jpg
package main

import (
	"errors"
	"flag"
	"fmt"
	"image"
	"image/jpeg"
	"log/slog"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/glshader"
	"github.com/go-theft-auto/glshader/backend/opengl"
	"github.com/go-theft-auto/glshader/geometry"
)

const (
	width  = 320
	height = 240
)

const vertexShaderSource = "#version 410 core\n" +
	"layout (location = 0) in vec3 aPos;\n" +
	"void main() {\n" +
	"    gl_Position = vec4(aPos.x, aPos.y, aPos.z, 1.0);\n" +
	"}\n"

const fragmentShaderSource = "#version 410 core\n" +
	"out vec4 FragColor;\n" +
	"void main() {\n" +
	"    FragColor = vec4(1.0f, 0.5f, 0.2f, 1.0f);\n" +
	"}\n"

func init() {
	runtime.LockOSThread()
}

func main() {
	out := flag.String("out", "triangle.jpg", "output JPEG path")
	flag.Parse()

	if err := run(*out); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(out string) error {
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := opengl.OpenWindow(opengl.WindowOptions{
		Width: width, Height: height, Title: "snapshot", Major: 4, Minor: 1, Hidden: true,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	drv := opengl.NewDriver()
	builder := glshader.New(drv, glshader.WithLogger(logger), glshader.WithValidation(false))

	program, err := builder.Build(vertexShaderSource, fragmentShaderSource)
	if err != nil {
		var ce *glshader.CompileError
		if errors.As(err, &ce) {
			return fmt.Errorf("%s stage: %w", ce.Stage, err)
		}
		return err
	}
	defer program.Delete()

	mesh, err := opengl.NewMesh(geometry.Triangle(), 3, nil)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	defer mesh.Delete()

	mesh.Bind()
	if err := program.Validate(); err != nil {
		return err
	}

	gl.Viewport(0, 0, width, height)
	gl.ClearColor(0, 0, 0, 1)
	gl.Clear(gl.COLOR_BUFFER_BIT)
	program.Use()
	mesh.Draw()
	gl.Finish()

	if err := glshader.CheckError(drv); err != nil {
		return fmt.Errorf("draw: %w", err)
	}

	img := readFramebuffer(width, height)
	if c := img.RGBAAt(width/2, height/2); c.R == 0 && c.G == 0 && c.B == 0 {
		logger.Warn("triangle not visible at framebuffer center")
	}

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	defer f.Close()
	if err := jpeg.Encode(f, img, &jpeg.Options{Quality: 90}); err != nil {
		return fmt.Errorf("encode %s: %w", out, err)
	}

	logger.Info("snapshot written", "path", out, "program", program.ID)
	return nil
}

// readFramebuffer reads the back buffer into an image with a top-left origin.
func readFramebuffer(w, h int) *image.RGBA {
	pixels := make([]byte, w*h*4)
	gl.ReadPixels(0, 0, int32(w), int32(h), gl.RGBA, gl.UNSIGNED_BYTE, gl.Ptr(pixels))

	// Flip vertically (OpenGL origin is bottom-left)
	rowLen := w * 4
	tmp := make([]byte, rowLen)
	for y := 0; y < h/2; y++ {
		top := y * rowLen
		bot := (h - 1 - y) * rowLen
		copy(tmp, pixels[top:top+rowLen])
		copy(pixels[top:top+rowLen], pixels[bot:bot+rowLen])
		copy(pixels[bot:bot+rowLen], tmp)
	}

	img := image.NewRGBA(image.Rect(0, 0, w, h))
	copy(img.Pix, pixels)
	return img
}
