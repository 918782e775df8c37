// Package errors defines the interpreter's error taxonomy. Every error the
// lexer, evaluator, program store or controller can produce carries one of a
// closed set of kinds plus the offending program line number, so the shell
// can report failures uniformly and tests can assert on the kind.
package errors

import "fmt"

// Kind classifies an interpreter error.
type Kind int

const (
	// SyntaxError covers unterminated strings, unexpected tokens and bad
	// statement grammar.
	SyntaxError Kind = iota
	// NameError is an undefined variable or array reference.
	NameError
	// TypeError is a suffix mismatch, non-numeric input to a numeric
	// variable, or a wrong argument type to a builtin.
	TypeError
	// IndexError is an array index out of bounds or wrong index arity.
	IndexError
	// ValueError is an invalid builtin argument value, a zero FOR step, or
	// non-numeric DATA read into a numeric variable.
	ValueError
	// IOError is a file open, read, seek or close failure.
	IOError
	// RuntimeError covers unknown jump targets, RETURN without GOSUB, NEXT
	// without FOR, READ past the end of DATA and GOSUB at program end.
	RuntimeError
)

var kindNames = [...]string{
	SyntaxError:  "Syntax error",
	NameError:    "Name error",
	TypeError:    "Type error",
	IndexError:   "Index error",
	ValueError:   "Value error",
	IOError:      "IO error",
	RuntimeError: "Runtime error",
}

// String returns the printable name of the kind.
func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Error"
}

// Error is an interpreter error with a kind, a message and the program line
// it occurred on. Line 0 means no line is associated (immediate mode).
type Error struct {
	Kind    Kind
	Message string
	Line    int
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s: %s in line %d", e.Kind, e.Message, e.Line)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

// Is reports whether target is an *Error of the same kind, enabling
// errors.Is against sentinel kinds.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	return ok && t.Kind == e.Kind
}

// New creates an error of the given kind.
func New(kind Kind, msg string, line int) *Error {
	return &Error{Kind: kind, Message: msg, Line: line}
}

// Newf creates an error of the given kind with a formatted message.
func Newf(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Message: fmt.Sprintf(format, args...), Line: line}
}

// Syntax creates a SyntaxError.
func Syntax(msg string, line int) *Error { return New(SyntaxError, msg, line) }

// Name creates a NameError.
func Name(msg string, line int) *Error { return New(NameError, msg, line) }

// Type creates a TypeError.
func Type(msg string, line int) *Error { return New(TypeError, msg, line) }

// Index creates an IndexError.
func Index(msg string, line int) *Error { return New(IndexError, msg, line) }

// Value creates a ValueError.
func Value(msg string, line int) *Error { return New(ValueError, msg, line) }

// IO creates an IOError.
func IO(msg string, line int) *Error { return New(IOError, msg, line) }

// Runtime creates a RuntimeError.
func Runtime(msg string, line int) *Error { return New(RuntimeError, msg, line) }

// KindOf returns the kind of err if it is an interpreter error, and whether
// it was one.
func KindOf(err error) (Kind, bool) {
	if e, ok := err.(*Error); ok {
		return e.Kind, true
	}
	return 0, false
}

// WithLine returns a copy of err annotated with the given line number if err
// is an interpreter error without one; other errors are wrapped as
// RuntimeError. Errors that already carry a line keep it.
func WithLine(err error, line int) error {
	if err == nil {
		return nil
	}
	if e, ok := err.(*Error); ok {
		if e.Line == 0 {
			return &Error{Kind: e.Kind, Message: e.Message, Line: line}
		}
		return e
	}
	return &Error{Kind: RuntimeError, Message: err.Error(), Line: line}
}
