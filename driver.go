package glshader

// Stage identifies a programmable pipeline stage.
type Stage int

const (
	StageVertex Stage = iota
	StageFragment
)

// String returns the lowercase stage name used in diagnostics.
func (s Stage) String() string {
	switch s {
	case StageVertex:
		return "vertex"
	case StageFragment:
		return "fragment"
	default:
		return "unknown"
	}
}

// Param names an integer object parameter queried from the driver.
type Param int

const (
	ParamCompileStatus Param = iota
	ParamLinkStatus
	ParamValidateStatus
	ParamInfoLogLength
)

// Driver is the rendering context the builder talks to.
// Implementations wrap a single current GL context and must only be used
// from the thread that owns it.
//
// The info-log methods fill buf with at most len(buf) bytes and return the
// number of bytes written, excluding any terminating NUL.
type Driver interface {
	CreateShader(stage Stage) uint32
	ShaderSource(shader uint32, source string)
	CompileShader(shader uint32)
	ShaderParam(shader uint32, p Param) int32
	ShaderInfoLog(shader uint32, buf []byte) int
	DeleteShader(shader uint32)

	CreateProgram() uint32
	AttachShader(program, shader uint32)
	DetachShader(program, shader uint32)
	LinkProgram(program uint32)
	ValidateProgram(program uint32)
	ProgramParam(program uint32, p Param) int32
	ProgramInfoLog(program uint32, buf []byte) int
	DeleteProgram(program uint32)
	UseProgram(program uint32)

	// Error pops one error code from the driver error queue, 0 when empty.
	Error() uint32
}
