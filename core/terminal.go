package core

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/ioutil"
	"log"
	"strings"

	"github.com/abiosoft/readline"

	"github.com/josephlewis42/treesh/commands"
	"github.com/josephlewis42/treesh/core/config"
	"github.com/josephlewis42/treesh/core/shell"
)

// LastVariable holds the result of the last settled line.
const LastVariable = "LAST"

// clearScreen moves the cursor home and erases the display.
const clearScreen = "\033[H\033[2J"

// LineReader reads lines from the user. *readline.Instance implements it.
type LineReader interface {
	Readline() (string, error)
	SetPrompt(prompt string)
}

// question is a prompt raised by a command, asked by the terminal loop.
type question struct {
	message string
	def     string
	answer  func(reply string, err error)
}

// Terminal runs a Session over a line reader, printing results to an output
// stream. It's the host builtins like prompt and clear talk to.
type Terminal struct {
	Session *shell.Session
	Printer *ColorPrinter
	// Log receives operational messages.
	Log *log.Logger

	configuration *config.Configuration
	input         LineReader
	output        io.Writer

	history  []string
	persist  bool
	question *question
	quit     bool
}

var _ commands.Host = (*Terminal)(nil)

// NewTerminal creates a terminal writing to output. The listeners are tried
// before the builtins.
func NewTerminal(configuration *config.Configuration, output io.Writer, listeners []shell.Listener, opts ...shell.Option) *Terminal {
	t := &Terminal{
		Printer:       NewColorPrinter(configuration.Color, false),
		Log:           log.New(ioutil.Discard, "", 0),
		configuration: configuration,
		output:        output,
	}

	t.Session = shell.NewSession(listeners, opts...)
	t.Session.AddListener(commands.NewBuiltins(t.Session, t, configuration.DisabledCommands...))
	return t
}

// RestoreState loads the saved history and variables, and saves them again
// after every line read from the input. Call it before attaching the input.
func (t *Terminal) RestoreState() error {
	state, err := t.configuration.LoadState()
	if err != nil {
		return fmt.Errorf("couldn't load state: %w", err)
	}

	t.history = t.limitHistory(state.History)
	for name, values := range state.Variables {
		t.Session.Variables().Set(name, values...)
	}
	t.persist = true
	return nil
}

// SetInput sets where lines are read from. Without input, prompts raised by
// commands get their default reply.
func (t *Terminal) SetInput(input LineReader) {
	t.input = input

	if saver, ok := input.(interface{ SaveHistory(string) error }); ok {
		for _, line := range t.history {
			_ = saver.SaveHistory(line)
		}
	}
}

// Prompt implements commands.Host.
func (t *Terminal) Prompt(message, def string, answer func(reply string, err error)) {
	if t.input == nil {
		answer(def, nil)
		return
	}
	t.question = &question{message: message, def: def, answer: answer}
}

// ClearScreen implements commands.Host.
func (t *Terminal) ClearScreen() {
	fmt.Fprint(t.output, clearScreen)
}

// History implements commands.Host.
func (t *Terminal) History() []string {
	return append([]string{}, t.history...)
}

// ClearHistory implements commands.Host.
func (t *Terminal) ClearHistory() {
	t.history = nil
	if resetter, ok := t.input.(interface{ ResetHistory() }); ok {
		resetter.ResetHistory()
	}
}

// Exit implements commands.Host.
func (t *Terminal) Exit() {
	t.quit = true
}

// Quit returns true once exit was called.
func (t *Terminal) Quit() bool {
	return t.quit
}

func (t *Terminal) limitHistory(history []string) []string {
	if limit := t.configuration.HistoryLimit; len(history) > limit {
		history = history[len(history)-limit:]
	}
	return append([]string{}, history...)
}

func (t *Terminal) addHistory(line string) {
	t.history = t.limitHistory(append(t.history, line))
}

// saveState persists history and variables.
func (t *Terminal) saveState() {
	if !t.persist {
		return
	}

	err := t.configuration.SaveState(&config.State{
		History:   t.history,
		Variables: t.Session.Variables().Map(),
	})
	if err != nil {
		t.Log.Printf("Couldn't save state: %v", err)
	}
}

// ExecuteLine runs a line to completion, asking the questions commands
// raise, then prints the result or the error.
func (t *Terminal) ExecuteLine(ctx context.Context, line string) ([]string, error) {
	outcome, err := t.Session.ExecuteLine(line)
	for err == nil && outcome.Pending {
		if q := t.question; q != nil {
			t.question = nil
			t.ask(q)
		}

		var late shell.Late
		late, err = t.Session.Await(ctx)
		if err != nil {
			t.Session.Abandon()
			break
		}
		outcome, err = t.Session.Resume(late)
	}
	t.question = nil

	if err != nil {
		t.printError(err)
		return nil, err
	}

	for _, value := range outcome.Values {
		fmt.Fprintln(t.output, value)
	}
	t.Session.Variables().Set(LastVariable, outcome.Values...)
	return outcome.Values, nil
}

func (t *Terminal) ask(q *question) {
	if q.message != "" {
		t.input.SetPrompt(q.message + " ")
	} else {
		t.input.SetPrompt("")
	}

	reply, err := t.input.Readline()
	switch {
	case err == io.EOF:
		t.quit = true
		q.answer(q.def, nil)
	case err != nil:
		q.answer("", err)
	case reply == "":
		q.answer(q.def, nil)
	default:
		q.answer(reply, nil)
	}
}

func (t *Terminal) printError(err error) {
	var syntaxErr *shell.SyntaxError
	if errors.As(err, &syntaxErr) {
		err = fmt.Errorf("Parse error: %w", err)
	}
	fmt.Fprintln(t.output, t.Printer.Sprintf(ColorBoldRed, "%s", err))
}

// Run prints the message of the day, executes the rc lines, then reads and
// executes lines until the input closes or exit is called.
func (t *Terminal) Run(ctx context.Context) error {
	if t.input == nil {
		return errors.New("terminal has no input")
	}

	if motd := t.configuration.Motd; motd != "" {
		fmt.Fprintln(t.output, t.Printer.Sprintf(ColorBoldCyan, "%s", motd))
	}
	for _, line := range t.configuration.RC {
		_, _ = t.ExecuteLine(ctx, line)
	}

	for !t.quit {
		if err := ctx.Err(); err != nil {
			return err
		}

		t.input.SetPrompt(t.configuration.Prompt)
		line, err := t.input.Readline()

		switch {
		case err == io.EOF:
			return nil // Input closed, quit.

		case err == readline.ErrInterrupt:
			// Interrupt clears line.
			continue

		case err != nil:
			return err

		case strings.TrimSpace(line) == "":
			continue
		}

		t.addHistory(line)
		_, _ = t.ExecuteLine(ctx, line)
		t.saveState()
	}
	return nil
}
