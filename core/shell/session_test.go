package shell

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/vars"
)

// fakeListener records calls and implements a few data commands.
type fakeListener struct {
	mu    sync.Mutex
	calls [][]string

	// suspend decides if a call should be suspended; the continuation is
	// kept in resume.
	suspend func(words []string) bool
	resume  Continuation
}

func (f *fakeListener) Commands() []string {
	return []string{"echo", "list", "nothing", "fail", "later"}
}

func (f *fakeListener) Execute(words []string, resume Continuation) (Reply, error) {
	f.mu.Lock()
	f.calls = append(f.calls, append([]string{}, words...))
	f.mu.Unlock()

	if f.suspend != nil && f.suspend(words) {
		f.resume = resume
		return Suspend(), nil
	}

	switch words[0] {
	case "echo":
		return Return(strings.Join(words[1:], " ")), nil
	case "list":
		return Return(words[1:]...), nil
	case "nothing":
		return Return(), nil
	case "fail":
		return Reply{}, errors.New("failed")
	case "later":
		go func() {
			time.Sleep(time.Millisecond)
			resume(words[1:], nil)
		}()
		return Suspend(), nil
	}
	return Decline(), nil
}

func (f *fakeListener) Complete(words []string, resume Continuation) (Reply, error) {
	return Decline(), nil
}

func (f *fakeListener) Calls() [][]string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([][]string{}, f.calls...)
}

type eventLog struct {
	events []logger.LogType
}

func (e *eventLog) Record(event logger.LogType) error {
	e.events = append(e.events, event)
	return nil
}

func newTestSession(listeners ...Listener) (*Session, *vars.Table) {
	table := vars.NewTable()
	return NewSession(listeners, WithVariables(table)), table
}

func execute(t *testing.T, s *Session, line string) []string {
	t.Helper()

	outcome, err := s.ExecuteLine(line)
	assert.NoError(t, err)
	assert.False(t, outcome.Pending)
	return outcome.Values
}

func TestExecuteSingleCommand(t *testing.T) {
	first := &ListenerFuncs{
		ExecuteFunc: func(words []string, resume Continuation) (Reply, error) {
			return Decline(), nil
		},
	}
	second := &fakeListener{}
	s, table := newTestSession(first, second)
	table.Set("x", "c", "d")

	assert.Equal(t, []string{"a b c d"}, execute(t, s, `echo "a b" $x`))
	assert.Equal(t, [][]string{{"echo", "a b", "c", "d"}}, second.Calls())
}

func TestExecuteUnknownCommand(t *testing.T) {
	events := &eventLog{}
	s := NewSession([]Listener{&fakeListener{}}, WithRecorder(events))

	_, err := s.ExecuteLine("bogus arg")

	var unknown *UnknownCommandError
	assert.True(t, errors.As(err, &unknown))
	assert.Equal(t, "bogus", unknown.Name)
	assert.EqualError(t, err, "Unknown command bogus")

	assert.Equal(t, []logger.LogType{
		&logger.RunLine{Line: "bogus arg"},
		&logger.UnknownCommand{Command: []string{"bogus", "arg"}},
	}, events.events)
}

func TestExecuteSyntaxError(t *testing.T) {
	listener := &fakeListener{}
	s, _ := newTestSession(listener)

	_, err := s.ExecuteLine("list a ; list b ;")

	var syntaxErr *SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Empty(t, listener.Calls())
}

func TestExecuteExpansionSyntaxError(t *testing.T) {
	listener := &fakeListener{}
	s, _ := newTestSession(listener)

	_, err := s.ExecuteLine("list a ; list ${b")

	var syntaxErr *SyntaxError
	assert.True(t, errors.As(err, &syntaxErr))
	assert.Empty(t, listener.Calls())
}

func TestExecuteBlankLine(t *testing.T) {
	s, _ := newTestSession(&fakeListener{})

	assert.Equal(t, []string{}, execute(t, s, "   "))
}

func TestExecuteOperators(t *testing.T) {
	cases := []struct {
		line     string
		expected []string
	}{
		{"list a b ; list c", []string{"a", "b", "c"}},
		{"list a b ;; list c", []string{"c"}},
		{"list a b ~ list c", []string{"a", "b", "c", "a", "b"}},
		{"list a b | list c", []string{"c", "a", "b"}},
		{"list a || list b", []string{"a"}},
		{"nothing || list b", []string{"b"}},
		{"list a && list b", []string{"b"}},
		{"nothing && list b", []string{}},
		{"list a & list b", []string{"a", "b"}},
		{"list x | (list a & list b)", []string{"a", "x", "b", "x"}},
		{"list x | list a ; list b", []string{"a", "x", "b"}},
		{"exec list a", []string{"a"}},
		{"exec exec list a", []string{"a"}},
		{"exec", []string{}},
		{"list a b | exec list", []string{"a", "b"}},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			s, _ := newTestSession(&fakeListener{})
			assert.Equal(t, tc.expected, execute(t, s, tc.line))
		})
	}
}

func TestExecuteShortCircuit(t *testing.T) {
	cases := []string{
		"list a || fail",
		"nothing && fail",
	}

	for _, line := range cases {
		t.Run(line, func(t *testing.T) {
			listener := &fakeListener{}
			s, _ := newTestSession(listener)

			execute(t, s, line)
			assert.Len(t, listener.Calls(), 1)
		})
	}
}

func TestExecuteErrorAborts(t *testing.T) {
	events := &eventLog{}
	listener := &fakeListener{}
	s := NewSession([]Listener{listener}, WithRecorder(events))

	outcome, err := s.ExecuteLine("list a ; fail now ; list b")
	assert.Nil(t, outcome.Values)

	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, []string{"fail", "now"}, cmdErr.Command)
	assert.EqualError(t, err, "failed")
	assert.Equal(t, [][]string{{"list", "a"}, {"fail", "now"}}, listener.Calls())
	assert.Contains(t, events.events, &logger.CommandError{Command: []string{"fail", "now"}, Error: "failed"})
}

func TestForeach(t *testing.T) {
	cases := map[string]struct {
		line string
	}{
		"inline arguments":   {"foreach i a b c : echo $i"},
		"incoming arguments": {"list a b c | foreach i : echo $i"},
		"both":               {"list b c | foreach i a : echo $i"},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			t.Run("previously unbound", func(t *testing.T) {
				s, table := newTestSession(&fakeListener{})

				assert.Equal(t, []string{"a", "b", "c"}, execute(t, s, tc.line))

				_, ok := table.Lookup("i")
				assert.False(t, ok)
			})

			t.Run("previously bound", func(t *testing.T) {
				s, table := newTestSession(&fakeListener{})
				table.Set("i", "old", "values")

				assert.Equal(t, []string{"a", "b", "c"}, execute(t, s, tc.line))
				assert.Equal(t, []string{"old", "values"}, table.Get("i"))
			})
		})
	}
}

func TestForeachNested(t *testing.T) {
	s, _ := newTestSession(&fakeListener{})

	actual := execute(t, s, "foreach i 1 2 : (foreach j a b : echo $i$j)")
	assert.Equal(t, []string{"1a", "1b", "2a", "2b"}, actual)
}

func TestForeachErrors(t *testing.T) {
	cases := []struct {
		line     string
		expected string
	}{
		{"foreach : echo", "foreach: variable name required."},
		{"list a : echo", "Unknown command list"},
		{"(list a ; list b) : echo", "foreach expected before :."},
	}

	for _, tc := range cases {
		t.Run(tc.line, func(t *testing.T) {
			s, _ := newTestSession(&fakeListener{})

			_, err := s.ExecuteLine(tc.line)
			assert.EqualError(t, err, tc.expected)
		})
	}
}

func TestForeachRestoresOnError(t *testing.T) {
	s, table := newTestSession(&fakeListener{})
	table.Set("i", "old")

	_, err := s.ExecuteLine("foreach i a b : fail $i")
	assert.Error(t, err)
	assert.Equal(t, []string{"old"}, table.Get("i"))
}

func TestSuspendMidForeach(t *testing.T) {
	listener := &fakeListener{
		suspend: func(words []string) bool {
			return len(words) == 2 && words[0] == "echo" && words[1] == "b"
		},
	}
	s, table := newTestSession(listener)

	outcome, err := s.ExecuteLine("foreach i a b c : echo $i")
	assert.NoError(t, err)
	assert.True(t, outcome.Pending)
	assert.True(t, s.Pending())

	// The variable is restored while the line is suspended.
	_, ok := table.Lookup("i")
	assert.False(t, ok)

	assert.NoError(t, listener.resume([]string{"B"}, nil))
	assert.Equal(t, ErrResumedTwice, listener.resume([]string{"again"}, nil))

	late, err := s.Await(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, []string{"B"}, late.Values)

	outcome, err = s.Resume(late)
	assert.NoError(t, err)
	assert.False(t, outcome.Pending)
	assert.Equal(t, []string{"a", "B", "c"}, outcome.Values)

	calls := [][]string{{"echo", "a"}, {"echo", "b"}, {"echo", "c"}}
	assert.Equal(t, calls, listener.Calls())

	outcome, err = s.Evaluate()
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "B", "c"}, outcome.Values)
	assert.Equal(t, calls, listener.Calls())

	_, ok = table.Lookup("i")
	assert.False(t, ok)
}

func TestSuspendPreservesSettledSubtrees(t *testing.T) {
	listener := &fakeListener{
		suspend: func(words []string) bool {
			return words[0] == "echo"
		},
	}
	s, _ := newTestSession(listener)

	outcome, err := s.ExecuteLine("list a ; list b | echo ; list c")
	assert.NoError(t, err)
	assert.True(t, outcome.Pending)

	outcome, err = s.Evaluate()
	assert.NoError(t, err)
	assert.True(t, outcome.Pending)

	assert.NoError(t, listener.resume([]string{"late"}, nil))
	outcome, err = s.Resume(Late{Values: []string{"late"}})
	assert.NoError(t, err)
	assert.Equal(t, []string{"a", "late", "c"}, outcome.Values)

	assert.Equal(t, [][]string{
		{"list", "a"},
		{"list", "b"},
		{"echo", "b"},
		{"list", "c"},
	}, listener.Calls())
}

func TestResumeWithError(t *testing.T) {
	listener := &fakeListener{
		suspend: func(words []string) bool { return words[0] == "echo" },
	}
	s, _ := newTestSession(listener)

	_, err := s.ExecuteLine("echo x ; list after")
	assert.NoError(t, err)

	assert.NoError(t, listener.resume(nil, errors.New("boom")))
	late, err := s.Await(context.Background())
	assert.NoError(t, err)

	_, err = s.Resume(late)
	var cmdErr *CommandError
	assert.True(t, errors.As(err, &cmdErr))
	assert.Equal(t, []string{"echo", "x"}, cmdErr.Command)
	assert.EqualError(t, err, "boom")

	_, err = s.Resume(late)
	assert.Equal(t, ErrNotSuspended, err)
}

func TestNotSuspended(t *testing.T) {
	s, _ := newTestSession(&fakeListener{})

	_, err := s.Await(context.Background())
	assert.Equal(t, ErrNotSuspended, err)

	_, err = s.Resume(Late{})
	assert.Equal(t, ErrNotSuspended, err)

	_, err = s.Evaluate()
	assert.Equal(t, ErrNoLine, err)

	execute(t, s, "list a")
	_, err = s.Resume(Late{})
	assert.Equal(t, ErrNotSuspended, err)
}

func TestAbandon(t *testing.T) {
	listener := &fakeListener{
		suspend: func(words []string) bool { return words[0] == "echo" },
	}
	s, _ := newTestSession(listener)

	outcome, err := s.ExecuteLine("echo x")
	assert.NoError(t, err)
	assert.True(t, outcome.Pending)
	stale := listener.resume

	assert.Equal(t, []string{"y"}, execute(t, s, "list y"))
	assert.NoError(t, stale([]string{"stale"}, nil))

	_, err = s.Await(context.Background())
	assert.Equal(t, ErrNotSuspended, err)
}

func TestAwaitCancelled(t *testing.T) {
	listener := &fakeListener{
		suspend: func(words []string) bool { return true },
	}
	s, _ := newTestSession(listener)

	_, err := s.ExecuteLine("echo x")
	assert.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Await(ctx)
	assert.Equal(t, context.Canceled, err)
}

func TestRun(t *testing.T) {
	s, _ := newTestSession(&fakeListener{})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	actual, err := s.Run(ctx, "later x | list y ; later z")
	assert.NoError(t, err)
	assert.Equal(t, []string{"y", "x", "z"}, actual)
}
