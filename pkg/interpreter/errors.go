package interpreter

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrUndefined        = errors.New("variable not defined")
	ErrRedeclared       = errors.New("variable already defined")
	ErrConstant         = errors.New("cannot assign to constant")
	ErrType             = errors.New("type mismatch")
	ErrCondition        = errors.New("condition must be a boolean")
	ErrNotCallable      = errors.New("cannot call non-function")
	ErrArity            = errors.New("wrong number of arguments")
	ErrIndexOutOfBounds = errors.New("array index out of bounds")
	ErrNotIndexable     = errors.New("cannot index non-array")
	ErrMissingProperty  = errors.New("no such property")
	ErrAssignTarget     = errors.New("invalid assignment target")
	ErrZeroStep         = errors.New("loop step must not be zero")
	ErrLoopSignal       = errors.New("loop control outside of loop")
	ErrCallDepth        = errors.New("maximum call depth exceeded")
)

type FileError struct {
	File string
	Err  error
}

func (e FileError) Error() string {
	return fmt.Sprintf("%s: %v", e.File, e.Err)
}

func (e FileError) Unwrap() error {
	return e.Err
}

// ConfigError lists every problem Config.Validate found, one per line.
type ConfigError struct {
	Problems []error
}

func (e *ConfigError) problemf(format string, args ...any) {
	e.Problems = append(e.Problems, fmt.Errorf(format, args...))
}

func (e *ConfigError) Error() string {
	var b strings.Builder
	b.WriteString("invalid interpreter config:")
	for _, problem := range e.Problems {
		b.WriteString("\n- ")
		b.WriteString(problem.Error())
	}

	return b.String()
}

func (e *ConfigError) Unwrap() []error {
	return e.Problems
}

func (e *ConfigError) orNil() error {
	if len(e.Problems) == 0 {
		return nil
	}

	return e
}
