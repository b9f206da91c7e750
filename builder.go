package glshader

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
)

// noDiagnostic stands in for an empty info log so a failure never carries
// blank diagnostics.
const noDiagnostic = "(driver reported no diagnostic)"

// Shader is a compiled shader object. ID is 0 when compilation failed.
type Shader struct {
	ID    uint32
	Stage Stage
}

// Builder compiles, links and validates shader programs on one driver.
type Builder struct {
	drv      Driver
	logger   *slog.Logger
	validate bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithLogger sets the logger used for build diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(b *Builder) { b.logger = l }
}

// WithValidation enables or disables the validate step after linking.
// Validation is on by default. Some core-profile drivers fail validation
// when no vertex array is bound, so callers building programs at startup
// may turn it off and validate later with Program.Validate.
func WithValidation(enabled bool) Option {
	return func(b *Builder) { b.validate = enabled }
}

// New creates a Builder that issues every call through drv.
func New(drv Driver, opts ...Option) *Builder {
	b := &Builder{
		drv:      drv,
		logger:   defaultLogger,
		validate: true,
	}

	for _, opt := range opts {
		opt(b)
	}

	return b
}

// Driver returns the driver the builder was created with.
func (b *Builder) Driver() Driver {
	return b.drv
}

// Compile creates a shader object for stage and compiles source into it.
// On failure the object is deleted and a zero Shader is returned together
// with a *CompileError carrying the full driver log.
func (b *Builder) Compile(stage Stage, source string) (Shader, error) {
	id := b.drv.CreateShader(stage)
	if id == 0 {
		return Shader{Stage: stage}, &CompileError{Stage: stage, Log: "driver could not create a shader object"}
	}

	b.drv.ShaderSource(id, source)
	b.drv.CompileShader(id)

	if b.drv.ShaderParam(id, ParamCompileStatus) != 0 {
		b.logger.Debug("shader compiled", "stage", stage, "id", id)
		return Shader{ID: id, Stage: stage}, nil
	}

	log := readInfoLog(b.drv.ShaderParam(id, ParamInfoLogLength), func(buf []byte) int {
		return b.drv.ShaderInfoLog(id, buf)
	})
	b.drv.DeleteShader(id)

	b.logger.Debug("shader compile failed", "stage", stage, "log", log)
	return Shader{Stage: stage}, &CompileError{Stage: stage, Log: log}
}

// DeleteShader releases a shader returned by Compile. Zero shaders are ignored.
func (b *Builder) DeleteShader(s *Shader) {
	if s.ID == 0 {
		return
	}
	b.drv.DeleteShader(s.ID)
	s.ID = 0
}

// Build compiles vertex and fragment, links them into a program and
// validates it.
//
// The result is either a linked, validated program with a non-zero ID or an
// error. Compile failures of both stages are joined, so errors.As finds a
// *CompileError per failing stage. Link and validate failures are reported
// as *LinkError and *ValidateError. Every driver object created by a failed
// call is released before it returns.
func (b *Builder) Build(vertex, fragment string) (Program, error) {
	program := b.drv.CreateProgram()
	if program == 0 {
		return Program{}, errors.New("driver could not create a program object")
	}

	vs, vsErr := b.Compile(StageVertex, vertex)
	fs, fsErr := b.Compile(StageFragment, fragment)
	shaders := [2]Shader{vs, fs}

	// Failed stages come back with ID 0 and are never attached.
	for _, s := range shaders {
		if s.ID != 0 {
			b.drv.AttachShader(program, s.ID)
		}
	}

	if err := errors.Join(vsErr, fsErr); err != nil {
		b.releaseShaders(program, shaders)
		b.drv.DeleteProgram(program)
		b.logger.Warn("shader program build failed", "err", err)
		return Program{}, err
	}

	b.drv.LinkProgram(program)
	if b.validate {
		b.drv.ValidateProgram(program)
	}

	// The program keeps the linked binary; the shader objects are no longer needed.
	b.releaseShaders(program, shaders)

	if b.drv.ProgramParam(program, ParamLinkStatus) == 0 {
		err := &LinkError{Log: b.programLog(program)}
		b.drv.DeleteProgram(program)
		b.logger.Warn("shader program build failed", "err", err)
		return Program{}, err
	}

	if b.validate && b.drv.ProgramParam(program, ParamValidateStatus) == 0 {
		err := &ValidateError{Log: b.programLog(program)}
		b.drv.DeleteProgram(program)
		b.logger.Warn("shader program build failed", "err", err)
		return Program{}, err
	}

	b.logger.Debug("shader program built", "id", program)
	return Program{ID: program, drv: b.drv}, nil
}

// BuildSources is Build for tagged sources. It rejects sources whose stage
// tag does not match the slot they are passed in.
func (b *Builder) BuildSources(vertex, fragment Source) (Program, error) {
	if vertex.Stage != StageVertex {
		return Program{}, fmt.Errorf("vertex slot got a %s source", vertex.Stage)
	}
	if fragment.Stage != StageFragment {
		return Program{}, fmt.Errorf("fragment slot got a %s source", fragment.Stage)
	}
	return b.Build(vertex.Text, fragment.Text)
}

func (b *Builder) releaseShaders(program uint32, shaders [2]Shader) {
	for _, s := range shaders {
		if s.ID == 0 {
			continue
		}
		b.drv.DetachShader(program, s.ID)
		b.drv.DeleteShader(s.ID)
	}
}

func (b *Builder) programLog(program uint32) string {
	return readInfoLog(b.drv.ProgramParam(program, ParamInfoLogLength), func(buf []byte) int {
		return b.drv.ProgramInfoLog(program, buf)
	})
}

// readInfoLog fetches a log of the driver-reported length into a buffer of
// exactly that size.
func readInfoLog(length int32, fetch func(buf []byte) int) string {
	if length <= 0 {
		return noDiagnostic
	}

	buf := make([]byte, length)
	n := fetch(buf)
	if n < 0 {
		n = 0
	}
	if n > len(buf) {
		n = len(buf)
	}

	log := strings.TrimRight(string(buf[:n]), "\x00\r\n ")
	if log == "" {
		return noDiagnostic
	}
	return log
}
