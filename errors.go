package glshader

import (
	"fmt"
	"strings"
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%s shader compilation failed: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link, usually because the
// stage interfaces do not match or an entry point is missing.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return "shader program linking failed: " + e.Log
}

// ValidateError reports a linked program that the driver considers
// unusable with the current pipeline state.
type ValidateError struct {
	Log string
}

func (e *ValidateError) Error() string {
	return "shader program validation failed: " + e.Log
}

// DriverError holds the codes drained from the driver error queue.
type DriverError struct {
	Codes []uint32
}

func (e *DriverError) Error() string {
	names := make([]string, len(e.Codes))
	for i, c := range e.Codes {
		names[i] = ErrorCodeName(c)
	}
	return "gl error: " + strings.Join(names, ", ")
}

// ErrorCodeName returns the symbolic name of a GL error code.
func ErrorCodeName(code uint32) string {
	switch code {
	case 0x0500:
		return "GL_INVALID_ENUM"
	case 0x0501:
		return "GL_INVALID_VALUE"
	case 0x0502:
		return "GL_INVALID_OPERATION"
	case 0x0503:
		return "GL_STACK_OVERFLOW"
	case 0x0504:
		return "GL_STACK_UNDERFLOW"
	case 0x0505:
		return "GL_OUT_OF_MEMORY"
	case 0x0506:
		return "GL_INVALID_FRAMEBUFFER_OPERATION"
	default:
		return fmt.Sprintf("0x%04X", code)
	}
}

// maxDrainedErrors bounds CheckError on drivers that never clear the queue,
// such as a lost context.
const maxDrainedErrors = 32

// CheckError drains the driver error queue and returns a *DriverError if
// any code was pending.
func CheckError(drv Driver) error {
	var codes []uint32
	for len(codes) < maxDrainedErrors {
		code := drv.Error()
		if code == 0 {
			break
		}
		codes = append(codes, code)
	}
	if len(codes) == 0 {
		return nil
	}
	return &DriverError{Codes: codes}
}
