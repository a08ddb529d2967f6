package commands

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"

	"github.com/josephlewis42/treesh/core/shell"
)

// fakeHost answers prompts from a script.
type fakeHost struct {
	replies  []string
	messages []string
	history  []string

	screenCleared  int
	historyCleared int
	exited         bool
}

func (h *fakeHost) Prompt(message, def string, answer func(string, error)) {
	h.messages = append(h.messages, message)
	reply := def
	if len(h.replies) > 0 {
		reply, h.replies = h.replies[0], h.replies[1:]
	}
	answer(reply, nil)
}

func (h *fakeHost) ClearScreen()      { h.screenCleared++ }
func (h *fakeHost) History() []string { return h.history }
func (h *fakeHost) ClearHistory()     { h.historyCleared++; h.history = nil }
func (h *fakeHost) Exit()             { h.exited = true }

func newTestSession(host Host, disabled ...string) *shell.Session {
	s := shell.NewSession(nil)
	s.AddListener(NewBuiltins(s, host, disabled...))
	return s
}

func run(t *testing.T, s *shell.Session, line string) ([]string, error) {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.Run(ctx, line)
}

func ExamplePureCommand() {
	s := newTestSession(&fakeHost{})

	out, _ := s.Run(context.Background(), "seq 3 | foreach i : eval $i * 2")
	fmt.Println(strings.Join(out, " "))

	out, _ = s.Run(context.Background(), "list b a c ~ sort")
	fmt.Println(strings.Join(out, " "))

	// Output: 2 4 6
	// b a c a b c
}

func TestAllCommands(t *testing.T) {
	b := NewBuiltins(shell.NewSession(nil), &fakeHost{})

	for _, name := range ListBuiltinCommands() {
		t.Run(name, func(t *testing.T) {
			if AllCommands[name] == nil {
				t.Fatal("nil command", name)
			}

			help := b.Describe(name)
			if assert.True(t, len(help) >= 3, "help too short: %q", help) {
				assert.True(t, strings.HasSuffix(help[0], "."), "summary must be a sentence: %q", help[0])
				assert.Equal(t, "", help[1])
				assert.True(t, strings.HasPrefix(help[2], "usage: "+name), "usage line: %q", help[2])
			}
		})
	}
}

func TestDisabledCommands(t *testing.T) {
	host := &fakeHost{}
	s := newTestSession(host, "eval", "exit")

	_, err := run(t, s, "eval 1")
	assert.EqualError(t, err, "Unknown command eval")

	_, err = run(t, s, "exit")
	assert.EqualError(t, err, "Unknown command exit")
	assert.False(t, host.exited)

	names := s.Listeners()[0].Commands()
	assert.NotContains(t, names, "eval")
	assert.Contains(t, names, "echo")
}

type goldenTestSuite map[string]goldenTest

type goldenTest struct {
	Line string
}

func (gts goldenTestSuite) Run(t *testing.T) {
	t.Helper()

	g := goldie.New(
		t,
		goldie.WithFixtureDir(filepath.Join("testdata", "golden")),
		goldie.WithDiffEngine(goldie.ColoredDiff),
		goldie.WithTestNameForDir(true),
	)

	for tn, tc := range gts {
		t.Run(tn, func(t *testing.T) {
			s := newTestSession(&fakeHost{})
			out, err := run(t, s, tc.Line)
			if err != nil {
				t.Fatal(err)
			}

			g.Assert(t, tn, []byte(strings.Join(out, "\n")+"\n"))
		})
	}
}

func TestGoldenHelp(t *testing.T) {
	goldenTestSuite{
		"seq":   {Line: "help seq"},
		"clear": {Line: "clear --help"},
	}.Run(t)
}
