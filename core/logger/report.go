package logger

import (
	"encoding/json"
	"io"
	"sort"
)

// ReadJSONLinesLog parses a newline delimited JSON log.
func ReadJSONLinesLog(r io.Reader, handler func(le *LogEntry)) error {
	decoder := json.NewDecoder(r)
	for decoder.More() {
		var logEntry LogEntry
		if err := decoder.Decode(&logEntry); err != nil {
			return err
		}

		handler(&logEntry)
	}
	return nil
}

// NewBugReport creates an empty BugReport.
func NewBugReport() *BugReport {
	return &BugReport{
		CommandErrors:   NewPathCounter("command", "error"),
		UnknownCommands: NewPathCounter("command"),
	}
}

// BugReport pulls events that are likely missing or broken commands.
type BugReport struct {
	LogEntries int `json:"log_entries"`

	CommandErrors   *PathCounter `json:"command_errors"`
	UnknownCommands *PathCounter `json:"unknown_commands"`
}

// Update adds a log entry to the report.
func (r *BugReport) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *CommandError:
		if len(event.Command) > 0 {
			r.CommandErrors.Increment(event.Command[0], event.Error)
		}
	case *UnknownCommand:
		if len(event.Command) > 0 {
			r.UnknownCommands.Increment(event.Command[0])
		}
	}
}

// Report holds statistics about the logged events.
type Report struct {
	LogEntries     int        `json:"log_entries"`
	InvalidEntries StrCounter `json:"unknown_log_entries,omitempty"`

	RunLine        RunLineReport        `json:"run_line_report"`
	SyntaxError    SyntaxErrorReport    `json:"syntax_error_report"`
	UnknownCommand UnknownCommandReport `json:"unknown_command_report"`
	CommandError   CommandErrorReport   `json:"command_error_report"`
	Suspend        SuspendReport        `json:"suspend_report"`
	LoginAttempt   LoginAttemptReport   `json:"login_attempt_report"`
}

// Update adds a log entry to the report.
func (r *Report) Update(le *LogEntry) {
	r.LogEntries++

	switch event := le.GetLogType().(type) {
	case *RunLine:
		r.RunLine.update(event)
	case *SyntaxError:
		r.SyntaxError.update(event)
	case *UnknownCommand:
		r.UnknownCommand.update(event)
	case *CommandError:
		r.CommandError.update(event)
	case *Suspend:
		r.Suspend.update(event)
	case *LoginAttempt:
		r.LoginAttempt.update(event)
	case *Resume, *Completion:
		// Ignore
	default:
		r.InvalidEntries.Increment("empty")
	}
}

type RunLineReport struct {
	Count int `json:"count"`
	// Lines holds each distinct line and the number of times it was run.
	Lines StrCounter `json:"lines"`
}

func (r *RunLineReport) update(rl *RunLine) {
	r.Count++
	r.Lines.Increment(rl.Line)
}

type SyntaxErrorReport struct {
	Errors StrCounter `json:"errors"`
}

func (r *SyntaxErrorReport) update(se *SyntaxError) {
	r.Errors.Increment(se.Error)
}

type UnknownCommandReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *UnknownCommandReport) update(uc *UnknownCommand) {
	if len(uc.Command) > 0 {
		r.CommandNames.Increment(uc.Command[0])
	}
}

type CommandErrorReport struct {
	CommandNames StrCounter `json:"command_names"`
	Errors       StrCounter `json:"errors"`
}

func (r *CommandErrorReport) update(ce *CommandError) {
	if len(ce.Command) > 0 {
		r.CommandNames.Increment(ce.Command[0])
	}
	r.Errors.Increment(ce.Error)
}

type SuspendReport struct {
	CommandNames StrCounter `json:"command_names"`
}

func (r *SuspendReport) update(s *Suspend) {
	if len(s.Command) > 0 {
		r.CommandNames.Increment(s.Command[0])
	}
}

type LoginAttemptReport struct {
	// List of usernames and their counts.
	Usernames StrCounter `json:"usernames"`
	// List of login attempt results and their counts.
	Results StrCounter `json:"results"`
}

func (r *LoginAttemptReport) update(la *LoginAttempt) {
	r.Usernames.Increment(la.Username)
	r.Results.Increment(string(la.Result))
}

// StrCounter counts the number of strings seen.
type StrCounter struct {
	internal map[string]int
}

// Increment adds one to the given key.
func (s *StrCounter) Increment(toAdd string) {
	if s.internal == nil {
		s.internal = make(map[string]int)
	}

	s.internal[toAdd]++
}

// Get returns the count of the given key.
func (s *StrCounter) Get(key string) int {
	return s.internal[key]
}

// MarshalJSON implemnts custom JSON marshaler.
func (s StrCounter) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.internal)
}

func NewPathCounter(cols ...string) *PathCounter {
	return &PathCounter{
		cols:     cols,
		internal: make(map[string]int),
	}
}

// PathCounter counts the number of distinct tuples seen.
type PathCounter struct {
	cols     []string
	internal map[string]int
}

// Increment adds one to the given key.
func (ctr *PathCounter) Increment(toAdd ...string) {
	if len(toAdd) != len(ctr.cols) {
		panic("wrong number of columns to add")
	}

	ctr.internal[toKey(toAdd...)]++
}

// Get returns the count of the given tuple.
func (ctr *PathCounter) Get(vals ...string) int {
	return ctr.internal[toKey(vals...)]
}

// MarshalJSON implemnts custom JSON marshaler.
func (ctr *PathCounter) MarshalJSON() ([]byte, error) {
	type Count struct {
		Count  int               `json:"count"`
		Fields map[string]string `json:"event"`
		Path   string            `json:"-"`
	}

	var out []Count
	for k, v := range ctr.internal {
		count := Count{
			Count:  v,
			Path:   k,
			Fields: make(map[string]string),
		}

		splitPath := fromKey(k)
		for colNum, colVal := range ctr.cols {
			count.Fields[colVal] = splitPath[colNum]
		}

		out = append(out, count)
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Count == out[j].Count {
			return out[i].Path < out[j].Path
		}
		return out[i].Count > out[j].Count
	})

	return json.Marshal(out)
}

func toKey(vals ...string) string {
	key, _ := json.Marshal(vals)
	return string(key)
}

func fromKey(key string) (out []string) {
	json.Unmarshal([]byte(key), &out)
	return
}
