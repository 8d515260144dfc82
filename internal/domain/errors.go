package domain

import (
	"errors"
	"fmt"
)

// Reasons a compile step can fail to produce an artifact.
var (
	ErrCompilerNotFound = errors.New("compiler not found")
	ErrCompileTimeout   = errors.New("compiler timed out")
	ErrNoArtifact       = errors.New("compiler produced no output")
)

// CompilationError describes a failed compile. Cause is one of the sentinel
// reasons above, possibly wrapping the underlying process error.
type CompilationError struct {
	Message   string
	LogOutput string
	Cause     error
}

func (e *CompilationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("compilation error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("compilation error: %s", e.Message)
}

func (e *CompilationError) Unwrap() error {
	return e.Cause
}
