package logger

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJsonLinesRoundTrip(t *testing.T) {
	buf := &bytes.Buffer{}
	l := NewJsonLinesLogRecorder(buf)
	l.Now = func() time.Time {
		return time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC)
	}
	session := l.Session("abc")

	assert.Nil(t, session.Record(&RunLine{Line: "echo hi"}))
	assert.Nil(t, session.Record(&UnknownCommand{Command: []string{"nope", "x"}}))
	assert.Nil(t, session.Record(&CommandError{Command: []string{"get"}, Error: "get: variable name required."}))
	assert.Equal(t, 3, strings.Count(buf.String(), "\n"))

	var entries []*LogEntry
	assert.Nil(t, ReadJSONLinesLog(buf, func(le *LogEntry) {
		entries = append(entries, le)
	}))

	assert.Len(t, entries, 3)
	assert.Equal(t, "abc", entries[0].SessionID)
	assert.Equal(t, time.Date(2006, 1, 2, 3, 4, 5, 0, time.UTC).UnixNano()/1000, entries[0].TimestampMicros)
	assert.Equal(t, &RunLine{Line: "echo hi"}, entries[0].GetLogType())
	assert.Equal(t, &UnknownCommand{Command: []string{"nope", "x"}}, entries[1].GetLogType())
}

func TestReport(t *testing.T) {
	entries := []*LogEntry{
		{RunLine: &RunLine{Line: "a"}},
		{RunLine: &RunLine{Line: "a"}},
		{UnknownCommand: &UnknownCommand{Command: []string{"a"}}},
		{CommandError: &CommandError{Command: []string{"seq"}, Error: "bad"}},
		{Suspend: &Suspend{Command: []string{"delay", "1s"}}},
		{},
	}

	var report Report
	bugs := NewBugReport()
	for _, le := range entries {
		report.Update(le)
		bugs.Update(le)
	}

	assert.Equal(t, 6, report.LogEntries)
	assert.Equal(t, 2, report.RunLine.Count)
	assert.Equal(t, 2, report.RunLine.Lines.Get("a"))
	assert.Equal(t, 1, report.UnknownCommand.CommandNames.Get("a"))
	assert.Equal(t, 1, report.CommandError.Errors.Get("bad"))
	assert.Equal(t, 1, report.Suspend.CommandNames.Get("delay"))
	assert.Equal(t, 1, report.InvalidEntries.Get("empty"))

	assert.Equal(t, 1, bugs.UnknownCommands.Get("a"))
	assert.Equal(t, 1, bugs.CommandErrors.Get("seq", "bad"))
}

func TestPathCounterMarshal(t *testing.T) {
	ctr := NewPathCounter("command", "error")
	ctr.Increment("a", "x")
	ctr.Increment("b", "y")
	ctr.Increment("b", "y")

	out, err := ctr.MarshalJSON()
	assert.Nil(t, err)
	assert.JSONEq(t, `[
		{"count": 2, "event": {"command": "b", "error": "y"}},
		{"count": 1, "event": {"command": "a", "error": "x"}}
	]`, string(out))
}
