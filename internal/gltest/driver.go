// Package gltest provides an in-memory glshader.Driver for tests.
//
// The fake follows GL object semantics closely enough to catch leaks and
// misuse: deleting an attached shader only flags it, info-log lengths include
// the terminating NUL, and invalid handles push GL error codes.
package gltest

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/go-theft-auto/glshader"
)

// GL error codes pushed by the fake.
const (
	InvalidValue     uint32 = 0x0501
	InvalidOperation uint32 = 0x0502
)

type shaderObject struct {
	stage    glshader.Stage
	source   string
	compiled bool
	log      string
	flagged  bool // deleted while still attached
	attached int
}

type programObject struct {
	shaders   map[uint32]bool
	linked    bool
	validated bool
	log       string
}

// Driver is a fake GL context. The zero value is not usable; call NewDriver.
type Driver struct {
	// FailLink forces every link to fail with LinkLog.
	FailLink bool
	LinkLog  string
	// FailValidate forces every validation to fail with ValidateLog.
	FailValidate bool
	ValidateLog  string

	// Calls records the name of every driver call in order.
	Calls []string

	next     uint32
	shaders  map[uint32]*shaderObject
	programs map[uint32]*programObject
	errs     []uint32
	current  uint32
}

// NewDriver returns an empty fake context.
func NewDriver() *Driver {
	return &Driver{
		shaders:  make(map[uint32]*shaderObject),
		programs: make(map[uint32]*programObject),
	}
}

// LiveShaders returns the number of shader objects not yet freed.
func (d *Driver) LiveShaders() int { return len(d.shaders) }

// LivePrograms returns the number of program objects not yet deleted.
func (d *Driver) LivePrograms() int { return len(d.programs) }

// LiveObjects returns the total number of driver objects alive.
func (d *Driver) LiveObjects() int { return len(d.shaders) + len(d.programs) }

// IsProgram reports whether id names a live program.
func (d *Driver) IsProgram(id uint32) bool {
	_, ok := d.programs[id]
	return ok
}

// Current returns the program made current by UseProgram.
func (d *Driver) Current() uint32 { return d.current }

// PushError queues a GL error code as if a previous call had raised it.
func (d *Driver) PushError(code uint32) { d.errs = append(d.errs, code) }

// Called reports whether name appears in Calls.
func (d *Driver) Called(name string) bool {
	for _, c := range d.Calls {
		if c == name {
			return true
		}
	}
	return false
}

func (d *Driver) record(format string, args ...any) {
	d.Calls = append(d.Calls, fmt.Sprintf(format, args...))
}

func (d *Driver) alloc() uint32 {
	d.next++
	return d.next
}

func (d *Driver) CreateShader(stage glshader.Stage) uint32 {
	d.record("CreateShader(%s)", stage)
	id := d.alloc()
	d.shaders[id] = &shaderObject{stage: stage}
	return id
}

func (d *Driver) ShaderSource(shader uint32, source string) {
	d.record("ShaderSource")
	s, ok := d.shaders[shader]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	s.source = source
}

func (d *Driver) CompileShader(shader uint32) {
	d.record("CompileShader")
	s, ok := d.shaders[shader]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	s.log = compileLog(s.source)
	s.compiled = s.log == ""
}

func (d *Driver) ShaderParam(shader uint32, p glshader.Param) int32 {
	s, ok := d.shaders[shader]
	if !ok {
		d.PushError(InvalidValue)
		return 0
	}
	switch p {
	case glshader.ParamCompileStatus:
		return boolParam(s.compiled)
	case glshader.ParamInfoLogLength:
		return logLength(s.log)
	default:
		d.PushError(0x0500)
		return 0
	}
}

func (d *Driver) ShaderInfoLog(shader uint32, buf []byte) int {
	s, ok := d.shaders[shader]
	if !ok {
		d.PushError(InvalidValue)
		return 0
	}
	return copyLog(buf, s.log)
}

func (d *Driver) DeleteShader(shader uint32) {
	d.record("DeleteShader")
	if shader == 0 {
		return
	}
	s, ok := d.shaders[shader]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	if s.attached > 0 {
		s.flagged = true
		return
	}
	delete(d.shaders, shader)
}

func (d *Driver) CreateProgram() uint32 {
	d.record("CreateProgram")
	id := d.alloc()
	d.programs[id] = &programObject{shaders: make(map[uint32]bool)}
	return id
}

func (d *Driver) AttachShader(program, shader uint32) {
	d.record("AttachShader")
	p, ok := d.programs[program]
	s, sok := d.shaders[shader]
	if !ok || !sok {
		d.PushError(InvalidValue)
		return
	}
	if p.shaders[shader] {
		d.PushError(InvalidOperation)
		return
	}
	p.shaders[shader] = true
	s.attached++
}

func (d *Driver) DetachShader(program, shader uint32) {
	d.record("DetachShader")
	p, ok := d.programs[program]
	if !ok || !p.shaders[shader] {
		d.PushError(InvalidOperation)
		return
	}
	d.detach(p, shader)
}

func (d *Driver) detach(p *programObject, shader uint32) {
	delete(p.shaders, shader)
	s := d.shaders[shader]
	s.attached--
	if s.attached == 0 && s.flagged {
		delete(d.shaders, shader)
	}
}

func (d *Driver) LinkProgram(program uint32) {
	d.record("LinkProgram")
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return
	}

	p.linked, p.validated, p.log = false, false, ""
	if d.FailLink {
		p.log = d.LinkLog
		return
	}

	var vs, fs *shaderObject
	for id := range p.shaders {
		s := d.shaders[id]
		if !s.compiled {
			p.log = "error: linking with uncompiled shader"
			return
		}
		switch s.stage {
		case glshader.StageVertex:
			vs = s
		case glshader.StageFragment:
			fs = s
		}
	}
	if vs == nil || fs == nil {
		p.log = "error: program lacks a vertex or fragment shader"
		return
	}
	if missing := unmatchedInputs(vs.source, fs.source); len(missing) > 0 {
		p.log = fmt.Sprintf("error: fragment shader input `%s' has no matching vertex shader output", strings.Join(missing, "', `"))
		return
	}
	p.linked = true
}

func (d *Driver) ValidateProgram(program uint32) {
	d.record("ValidateProgram")
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	switch {
	case !p.linked:
		p.validated = false
		if p.log == "" {
			p.log = "error: program not linked"
		}
	case d.FailValidate:
		p.validated = false
		p.log = d.ValidateLog
	default:
		p.validated = true
	}
}

func (d *Driver) ProgramParam(program uint32, param glshader.Param) int32 {
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return 0
	}
	switch param {
	case glshader.ParamLinkStatus:
		return boolParam(p.linked)
	case glshader.ParamValidateStatus:
		return boolParam(p.validated)
	case glshader.ParamInfoLogLength:
		return logLength(p.log)
	default:
		d.PushError(0x0500)
		return 0
	}
}

func (d *Driver) ProgramInfoLog(program uint32, buf []byte) int {
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return 0
	}
	return copyLog(buf, p.log)
}

func (d *Driver) DeleteProgram(program uint32) {
	d.record("DeleteProgram")
	if program == 0 {
		return
	}
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	for id := range p.shaders {
		d.detach(p, id)
	}
	delete(d.programs, program)
	if d.current == program {
		d.current = 0
	}
}

func (d *Driver) UseProgram(program uint32) {
	d.record("UseProgram")
	if program == 0 {
		d.current = 0
		return
	}
	p, ok := d.programs[program]
	if !ok {
		d.PushError(InvalidValue)
		return
	}
	if !p.linked {
		d.PushError(InvalidOperation)
		return
	}
	d.current = program
}

func (d *Driver) Error() uint32 {
	if len(d.errs) == 0 {
		return 0
	}
	code := d.errs[0]
	d.errs = d.errs[1:]
	return code
}

var (
	fragInput   = regexp.MustCompile(`(?m)^\s*(?:flat\s+|smooth\s+)?in\s+\w+\s+(\w+)\s*;`)
	vertexOutput = regexp.MustCompile(`(?m)^\s*(?:flat\s+|smooth\s+)?out\s+\w+\s+(\w+)\s*;`)
	errorLine   = regexp.MustCompile(`(?m)^\s*#error\s*(.*)$`)
)

// compileLog returns the diagnostic a driver would print, or "" on success.
func compileLog(src string) string {
	if strings.TrimSpace(src) == "" {
		return "0:1(1): error: syntax error, unexpected end of file"
	}
	if m := errorLine.FindStringSubmatch(src); m != nil {
		return "0:1(1): error: #error " + m[1]
	}
	if line, ok := unbalanced(src); !ok {
		return fmt.Sprintf("0:%d(1): error: syntax error, unbalanced brackets", line)
	}
	if !strings.Contains(src, "void main(") && !strings.Contains(src, "void main (") {
		return "0:1(1): error: no function with name 'main'"
	}
	return ""
}

// unbalanced checks bracket nesting and returns the offending line.
func unbalanced(src string) (int, bool) {
	var stack []rune
	line := 1
	pairs := map[rune]rune{')': '(', '}': '{', ']': '['}
	for _, r := range src {
		switch r {
		case '\n':
			line++
		case '(', '{', '[':
			stack = append(stack, r)
		case ')', '}', ']':
			if len(stack) == 0 || stack[len(stack)-1] != pairs[r] {
				return line, false
			}
			stack = stack[:len(stack)-1]
		}
	}
	return line, len(stack) == 0
}

func unmatchedInputs(vertex, fragment string) []string {
	outs := make(map[string]bool)
	for _, m := range vertexOutput.FindAllStringSubmatch(vertex, -1) {
		outs[m[1]] = true
	}
	var missing []string
	for _, m := range fragInput.FindAllStringSubmatch(fragment, -1) {
		if !outs[m[1]] {
			missing = append(missing, m[1])
		}
	}
	return missing
}

func boolParam(b bool) int32 {
	if b {
		return 1
	}
	return 0
}

// logLength includes the terminating NUL, as GL reports it.
func logLength(log string) int32 {
	if log == "" {
		return 0
	}
	return int32(len(log) + 1)
}

// copyLog writes at most len(buf)-1 bytes plus a NUL and returns the number
// of bytes written without the NUL.
func copyLog(buf []byte, log string) int {
	if len(buf) == 0 {
		return 0
	}
	n := copy(buf[:len(buf)-1], log)
	buf[n] = 0
	return n
}
