// Example opens a window and draws geometry with a shader program loaded
// from disk. Editing either shader file (or pressing R) rebuilds the
// program; a broken edit is reported and the previous program keeps drawing.
//
// Prerequisites:
//
//	Install devbox: https://www.jetify.com/devbox
//	devbox shell                                     # provides Go + OpenGL/X11 headers
//	go run ./example/ -config example/glshader.toml
package main

import (
	"flag"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"os"
	"runtime"

	"github.com/go-gl/gl/v4.1-core/gl"
	"github.com/go-gl/glfw/v3.3/glfw"

	"github.com/go-theft-auto/glshader"
	"github.com/go-theft-auto/glshader/backend/opengl"
	"github.com/go-theft-auto/glshader/geometry"
	"github.com/go-theft-auto/glshader/internal/config"
	"github.com/go-theft-auto/glshader/reload"
)

func init() {
	// GLFW must run on the main thread.
	runtime.LockOSThread()
}

func main() {
	configPath := flag.String("config", "", "TOML settings file (defaults built in)")
	verbose := flag.Bool("v", false, "debug logging")
	flag.Parse()

	if err := run(*configPath, *verbose); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(configPath string, verbose bool) error {
	cfg := config.Default()
	if configPath != "" {
		var err error
		if cfg, err = config.Load(configPath); err != nil {
			return err
		}
	}

	level := new(slog.LevelVar)
	if cfg.Verbose || verbose {
		level.Set(slog.LevelDebug)
		glshader.SetVerbose(true)
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	// Initialize GLFW.
	if err := glfw.Init(); err != nil {
		return fmt.Errorf("glfw init: %w", err)
	}
	defer glfw.Terminate()

	window, err := opengl.OpenWindow(opengl.WindowOptions{
		Width:  cfg.Window.Width,
		Height: cfg.Window.Height,
		Title:  cfg.Window.Title,
		Major:  cfg.Window.Major,
		Minor:  cfg.Window.Minor,
		VSync:  cfg.Window.VSync,
	})
	if err != nil {
		return err
	}
	defer window.Destroy()

	logger.Info("video driver", "version", gl.GoStr(gl.GetString(gl.VERSION)))

	adapter := opengl.NewWindowAdapter(window)

	mesh, err := newMesh(cfg.Geometry)
	if err != nil {
		return fmt.Errorf("mesh: %w", err)
	}
	defer mesh.Delete()

	// Validation needs the mesh's vertex array bound, so it runs after the build.
	builder := glshader.New(opengl.NewDriver(), glshader.WithLogger(logger), glshader.WithValidation(false))
	program, err := loadProgram(builder, mesh, cfg.Shaders)
	if err != nil {
		return err
	}
	defer func() { program.Delete() }()

	var watcher *reload.Watcher
	if cfg.Shaders.Watch {
		watcher, err = reload.New(logger, cfg.Shaders.Vertex, cfg.Shaders.Fragment)
		if err != nil {
			return err
		}
		defer watcher.Close()
	}

	c := cfg.ClearColor
	for !window.ShouldClose() {
		glfw.PollEvents()

		if adapter.ReloadRequested() || (watcher != nil && watcher.Pending()) {
			next, err := loadProgram(builder, mesh, cfg.Shaders)
			if err != nil {
				logger.Error("shader reload failed, keeping previous program", "err", err)
			} else {
				program.Delete()
				program = next
				logger.Info("shader program reloaded", "id", program.ID)
			}
		}

		gl.ClearColor(c[0], c[1], c[2], c[3])
		gl.Clear(gl.COLOR_BUFFER_BIT)

		program.Use()
		mesh.Draw()

		if err := glshader.CheckError(builder.Driver()); err != nil {
			return fmt.Errorf("draw: %w", err)
		}

		window.SwapBuffers()
	}

	return nil
}

func loadProgram(b *glshader.Builder, mesh *opengl.Mesh, s config.Shaders) (glshader.Program, error) {
	program, err := glshader.LoadProgram(b, s.Vertex, s.Fragment)
	if err != nil {
		return glshader.Program{}, err
	}
	if s.Validate {
		mesh.Bind()
		err := program.Validate()
		gl.BindVertexArray(0)
		if err != nil {
			program.Delete()
			return glshader.Program{}, err
		}
	}
	return program, nil
}

func newMesh(g config.Geometry) (*opengl.Mesh, error) {
	var (
		mesh   *opengl.Mesh
		colors []float32
		err    error
	)

	switch g.Kind {
	case config.GeometryQuad:
		positions, indices := geometry.Quad()
		mesh, err = opengl.NewMesh(positions, 2, indices)
	case config.GeometryRandom:
		rng := rand.New(rand.NewPCG(g.Seed, g.Seed))
		mesh, err = opengl.NewMesh(geometry.RandomTriangles(rng, g.Count), 3, nil)
		colors = geometry.RandomColors(rng, g.Count*3)
	default:
		mesh, err = opengl.NewMesh(geometry.Triangle(), 3, nil)
	}
	if err != nil {
		return nil, err
	}

	if colors == nil {
		colors = geometry.Solid(1.0, 0.5, 0.2, 1.0, mesh.VertexCount())
	}
	if err := mesh.SetColors(colors, 4); err != nil {
		mesh.Delete()
		return nil, err
	}
	return mesh, nil
}
