// Package opengl provides the OpenGL 4.1 core backend for glshader: a
// Driver over go-gl, a Mesh uploader and GLFW window glue.
//
// gl.Init must have been called with a context current on the calling
// thread before any of these types are used.
package opengl

import (
	"strings"

	"github.com/go-gl/gl/v4.1-core/gl"

	"github.com/go-theft-auto/glshader"
)

// Driver implements glshader.Driver on the current OpenGL context.
type Driver struct{}

// NewDriver returns a driver for the context current on this thread.
func NewDriver() *Driver {
	return &Driver{}
}

var _ glshader.Driver = (*Driver)(nil)

func stageEnum(s glshader.Stage) uint32 {
	switch s {
	case glshader.StageFragment:
		return gl.FRAGMENT_SHADER
	default:
		return gl.VERTEX_SHADER
	}
}

func paramEnum(p glshader.Param) uint32 {
	switch p {
	case glshader.ParamCompileStatus:
		return gl.COMPILE_STATUS
	case glshader.ParamLinkStatus:
		return gl.LINK_STATUS
	case glshader.ParamValidateStatus:
		return gl.VALIDATE_STATUS
	default:
		return gl.INFO_LOG_LENGTH
	}
}

func (d *Driver) CreateShader(stage glshader.Stage) uint32 {
	return gl.CreateShader(stageEnum(stage))
}

// ShaderSource passes the source with an explicit length, so the text does
// not need to be NUL-terminated.
func (d *Driver) ShaderSource(shader uint32, source string) {
	source = strings.TrimRight(source, "\x00")
	csource, free := gl.Strs(source)
	length := int32(len(source))
	gl.ShaderSource(shader, 1, csource, &length)
	free()
}

func (d *Driver) CompileShader(shader uint32) {
	gl.CompileShader(shader)
}

func (d *Driver) ShaderParam(shader uint32, p glshader.Param) int32 {
	var v int32
	gl.GetShaderiv(shader, paramEnum(p), &v)
	return v
}

func (d *Driver) ShaderInfoLog(shader uint32, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetShaderInfoLog(shader, int32(len(buf)), &written, &buf[0])
	return int(written)
}

func (d *Driver) DeleteShader(shader uint32) {
	gl.DeleteShader(shader)
}

func (d *Driver) CreateProgram() uint32 {
	return gl.CreateProgram()
}

func (d *Driver) AttachShader(program, shader uint32) {
	gl.AttachShader(program, shader)
}

func (d *Driver) DetachShader(program, shader uint32) {
	gl.DetachShader(program, shader)
}

func (d *Driver) LinkProgram(program uint32) {
	gl.LinkProgram(program)
}

func (d *Driver) ValidateProgram(program uint32) {
	gl.ValidateProgram(program)
}

func (d *Driver) ProgramParam(program uint32, p glshader.Param) int32 {
	var v int32
	gl.GetProgramiv(program, paramEnum(p), &v)
	return v
}

func (d *Driver) ProgramInfoLog(program uint32, buf []byte) int {
	if len(buf) == 0 {
		return 0
	}
	var written int32
	gl.GetProgramInfoLog(program, int32(len(buf)), &written, &buf[0])
	return int(written)
}

func (d *Driver) DeleteProgram(program uint32) {
	gl.DeleteProgram(program)
}

func (d *Driver) UseProgram(program uint32) {
	gl.UseProgram(program)
}

func (d *Driver) Error() uint32 {
	return gl.GetError()
}
