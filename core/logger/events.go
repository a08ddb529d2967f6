package logger

// LogType is implemented by every event that can be recorded.
type LogType interface {
	isLogType()
}

// LogEntry is a single recorded event. Exactly one of the event fields is set.
type LogEntry struct {
	TimestampMicros int64  `json:"timestamp_micros"`
	SessionID       string `json:"session_id,omitempty"`

	RunLine        *RunLine        `json:"run_line,omitempty"`
	SyntaxError    *SyntaxError    `json:"syntax_error,omitempty"`
	UnknownCommand *UnknownCommand `json:"unknown_command,omitempty"`
	CommandError   *CommandError   `json:"command_error,omitempty"`
	Suspend        *Suspend        `json:"suspend,omitempty"`
	Resume         *Resume         `json:"resume,omitempty"`
	Completion     *Completion     `json:"completion,omitempty"`
	LoginAttempt   *LoginAttempt   `json:"login_attempt,omitempty"`
}

// GetLogType returns the event held by the entry, nil if there is none.
func (le *LogEntry) GetLogType() LogType {
	switch {
	case le.RunLine != nil:
		return le.RunLine
	case le.SyntaxError != nil:
		return le.SyntaxError
	case le.UnknownCommand != nil:
		return le.UnknownCommand
	case le.CommandError != nil:
		return le.CommandError
	case le.Suspend != nil:
		return le.Suspend
	case le.Resume != nil:
		return le.Resume
	case le.Completion != nil:
		return le.Completion
	case le.LoginAttempt != nil:
		return le.LoginAttempt
	default:
		return nil
	}
}

// SetLogType stores event in the matching field of the entry.
func (le *LogEntry) SetLogType(event LogType) {
	switch event := event.(type) {
	case *RunLine:
		le.RunLine = event
	case *SyntaxError:
		le.SyntaxError = event
	case *UnknownCommand:
		le.UnknownCommand = event
	case *CommandError:
		le.CommandError = event
	case *Suspend:
		le.Suspend = event
	case *Resume:
		le.Resume = event
	case *Completion:
		le.Completion = event
	case *LoginAttempt:
		le.LoginAttempt = event
	}
}

// RunLine is recorded for every line submitted to a session.
type RunLine struct {
	Line string `json:"line"`
}

// SyntaxError is recorded when a line can't be parsed.
type SyntaxError struct {
	Line  string `json:"line"`
	Error string `json:"error"`
}

// UnknownCommand is recorded when no listener claims a command.
type UnknownCommand struct {
	Command []string `json:"command"`
}

// CommandError is recorded when a listener fails a command.
type CommandError struct {
	Command []string `json:"command"`
	Error   string   `json:"error"`
}

// Suspend is recorded when a listener defers its answer.
type Suspend struct {
	Command []string `json:"command"`
}

// Resume is recorded when a deferred answer is delivered.
type Resume struct {
	Values int    `json:"values"`
	Error  string `json:"error,omitempty"`
}

// Completion is recorded for every completion request that settles, including
// those without candidates.
type Completion struct {
	Line       string   `json:"line"`
	Candidates []string `json:"candidates"`
}

// OperationResult is the outcome of an operation like a login.
type OperationResult string

const (
	OperationResultSuccess OperationResult = "SUCCESS"
	OperationResultFailure OperationResult = "FAILURE"
)

// LoginAttempt is recorded by the SSH server.
type LoginAttempt struct {
	Username   string          `json:"username"`
	RemoteAddr string          `json:"remote_addr,omitempty"`
	Result     OperationResult `json:"result"`
}

func (*RunLine) isLogType()        {}
func (*SyntaxError) isLogType()    {}
func (*UnknownCommand) isLogType() {}
func (*CommandError) isLogType()   {}
func (*Suspend) isLogType()        {}
func (*Resume) isLogType()         {}
func (*Completion) isLogType()     {}
func (*LoginAttempt) isLogType()   {}
