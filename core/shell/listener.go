package shell

import (
	"sort"
	"strings"
)

// Continuation delivers the late result of a suspended call. It must be
// invoked exactly once; later calls return ErrResumedTwice.
type Continuation func(values []string, err error) error

type replyKind int

const (
	replyDeclined replyKind = iota
	replyValues
	replyPending
)

// Reply is the answer of a listener: handled with values, declined, or
// pending until the continuation is invoked.
type Reply struct {
	kind   replyKind
	values []string
}

// Return handles a call with the given values.
func Return(values ...string) Reply {
	if values == nil {
		values = []string{}
	}
	return Reply{kind: replyValues, values: values}
}

// Decline passes the call to the next listener.
func Decline() Reply {
	return Reply{kind: replyDeclined}
}

// Suspend marks the call as pending. The listener must invoke the
// continuation it was given once the result is known.
func Suspend() Reply {
	return Reply{kind: replyPending}
}

// Declined returns true if the listener didn't handle the call.
func (r Reply) Declined() bool { return r.kind == replyDeclined }

// Pending returns true if the result will be delivered later.
func (r Reply) Pending() bool { return r.kind == replyPending }

// Values returns the result of a handled call.
func (r Reply) Values() []string { return r.values }

// Listener provides commands to a Session.
//
// Execute and Complete receive the expanded words of a command, the first
// being its name. A listener that returns Suspend() must invoke resume exactly
// once, from any goroutine.
type Listener interface {
	// Commands lists the names offered when completing the first word.
	Commands() []string
	Execute(words []string, resume Continuation) (Reply, error)
	// Complete receives the words before the caret, the last one being the
	// partial word, and returns candidates for it.
	Complete(words []string, resume Continuation) (Reply, error)
}

// Describer is implemented by listeners that document their commands.
type Describer interface {
	Describe(command string) []string
}

// ListenerFuncs adapts functions to the Listener interface. Nil functions
// decline.
type ListenerFuncs struct {
	Names        []string
	ExecuteFunc  func(words []string, resume Continuation) (Reply, error)
	CompleteFunc func(words []string, resume Continuation) (Reply, error)
}

var _ Listener = (*ListenerFuncs)(nil)

// Commands implements Listener.
func (l *ListenerFuncs) Commands() []string {
	return l.Names
}

// Execute implements Listener.
func (l *ListenerFuncs) Execute(words []string, resume Continuation) (Reply, error) {
	if l.ExecuteFunc == nil {
		return Decline(), nil
	}
	return l.ExecuteFunc(words, resume)
}

// Complete implements Listener.
func (l *ListenerFuncs) Complete(words []string, resume Continuation) (Reply, error) {
	if l.CompleteFunc == nil {
		return Decline(), nil
	}
	return l.CompleteFunc(words, resume)
}

// Among returns the sorted possibilities starting with prefix.
func Among(prefix string, possibilities []string) []string {
	out := []string{}
	for _, p := range possibilities {
		if strings.HasPrefix(p, prefix) {
			out = append(out, p)
		}
	}
	sort.Strings(out)
	return out
}
