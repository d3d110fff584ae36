package graphics

import (
	"errors"
	"fmt"
)

var (
	// ErrUnknownUniform is returned for uniforms the compiler dropped or never saw.
	ErrUnknownUniform   = errors.New("unknown uniform")
	ErrUnknownAttribute = errors.New("unknown attribute")
	// ErrIndexOverflow is returned when a mesh does not fit 16-bit indices.
	ErrIndexOverflow = errors.New("index overflow")
)

// CompileError reports a shader stage that failed to compile.
type CompileError struct {
	Stage Stage
	Log   string
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("failed to compile %s shader: %s", e.Stage, e.Log)
}

// LinkError reports a program that failed to link.
type LinkError struct {
	Log string
}

func (e *LinkError) Error() string {
	return fmt.Sprintf("failed to link program: %s", e.Log)
}
