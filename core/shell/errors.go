package shell

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCommand is returned when a command expands to no words.
	ErrNoCommand = errors.New("no command")
	// ErrNoLine is returned when evaluating a session with no settled line.
	ErrNoLine = errors.New("no line to evaluate")
	// ErrNotSuspended is returned when resuming a session that isn't waiting
	// for a late result.
	ErrNotSuspended = &ProtocolError{Msg: "nothing is suspended"}
	// ErrResumedTwice is returned by a continuation invoked more than once.
	ErrResumedTwice = &ProtocolError{Msg: "continuation invoked twice"}
	// ErrSuspendedTwice is returned when a listener suspends while another
	// suspension is outstanding.
	ErrSuspendedTwice = &ProtocolError{Msg: "a suspension is already outstanding"}
)

// SyntaxError is raised by the tokenizer, splitter and tree builder before any
// evaluation happens.
type SyntaxError struct {
	Msg string
	// Offset is the byte offset into the text where the error was detected.
	Offset int
}

func (e *SyntaxError) Error() string {
	return e.Msg
}

func syntaxErrorf(offset int, format string, a ...interface{}) *SyntaxError {
	return &SyntaxError{Msg: fmt.Sprintf(format, a...), Offset: offset}
}

// UnknownCommandError is returned when no listener claims a command.
type UnknownCommandError struct {
	Name string
}

func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("Unknown command %s", e.Name)
}

// CommandError wraps a failure signalled by a listener.
type CommandError struct {
	Command []string
	Err     error
}

func (e *CommandError) Error() string {
	return e.Err.Error()
}

func (e *CommandError) Unwrap() error {
	return e.Err
}

// ProtocolError signals a listener that broke the suspend/resume contract:
// resuming something that isn't suspended, or invoking a continuation twice.
type ProtocolError struct {
	Msg string
}

func (e *ProtocolError) Error() string {
	return "listener protocol violation: " + e.Msg
}
