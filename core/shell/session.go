package shell

import (
	"context"
	"strings"
	"sync"
	"sync/atomic"

	"github.com/josephlewis42/treesh/core/logger"
	"github.com/josephlewis42/treesh/core/vars"
)

// EventRecorder receives interaction events. *logger.SessionLogger
// implements it.
type EventRecorder interface {
	Record(event logger.LogType) error
}

// Outcome is the result of executing or resuming a line.
type Outcome struct {
	// Values is the settled result, valid when Pending is false.
	Values []string
	// Pending is true while a listener holds a suspension. The late result
	// can be collected with Await and delivered with Resume or
	// ResumeCompletion.
	Pending bool
}

// Late is a result delivered through a Continuation.
type Late struct {
	Values []string
	Err    error

	// id identifies the suspension the result belongs to, zero meaning
	// whichever is outstanding.
	id uint64
}

// Session is an interpreter instance: listeners, variables and the state of
// the line being evaluated. A Session must be driven from one goroutine;
// only continuations may be invoked from others.
type Session struct {
	listeners []Listener
	vars      *vars.Table
	recorder  EventRecorder

	mu         sync.Mutex
	late       []Late
	notify     chan struct{}
	suspension uint64
	nextID     uint64

	exec *evaluation
	comp *completion
}

// Option configures a Session.
type Option func(*Session)

// WithVariables sets the variable table, shared with the caller.
func WithVariables(table *vars.Table) Option {
	return func(s *Session) {
		s.vars = table
	}
}

// WithRecorder records interaction events to r.
func WithRecorder(r EventRecorder) Option {
	return func(s *Session) {
		s.recorder = r
	}
}

// NewSession creates a session trying listeners in order.
func NewSession(listeners []Listener, opts ...Option) *Session {
	s := &Session{
		listeners: append([]Listener{}, listeners...),
		vars:      vars.NewTable(),
		notify:    make(chan struct{}, 1),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Variables returns the variable table.
func (s *Session) Variables() *vars.Table {
	return s.vars
}

// Listeners returns the registered listeners in order.
func (s *Session) Listeners() []Listener {
	return append([]Listener{}, s.listeners...)
}

// AddListener registers a listener after the existing ones.
func (s *Session) AddListener(l Listener) {
	s.listeners = append(s.listeners, l)
}

// Pending returns true if a suspension is outstanding.
func (s *Session) Pending() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.suspension != 0
}

func (s *Session) record(event logger.LogType) {
	if s.recorder == nil {
		return
	}
	_ = s.recorder.Record(event)
}

// continuation allocates the continuation handed to a listener call.
func (s *Session) continuation() (uint64, Continuation) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.mu.Unlock()

	var used int32
	return id, func(values []string, err error) error {
		if !atomic.CompareAndSwapInt32(&used, 0, 1) {
			return ErrResumedTwice
		}

		s.mu.Lock()
		s.late = append(s.late, Late{Values: values, Err: err, id: id})
		s.mu.Unlock()

		select {
		case s.notify <- struct{}{}:
		default:
		}
		return nil
	}
}

func (s *Session) suspend(id uint64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspension != 0 {
		return ErrSuspendedTwice
	}
	s.suspension = id
	return nil
}

// settle clears the outstanding suspension and drops undelivered results.
func (s *Session) settle() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.suspension = 0
	s.late = nil
}

// take validates a late result against the outstanding suspension.
func (s *Session) take(late Late) (Late, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.suspension == 0 || (late.id != 0 && late.id != s.suspension) {
		return Late{}, ErrNotSuspended
	}
	late.id = s.suspension
	return late, nil
}

// Await blocks until the outstanding suspension's continuation is invoked.
// Results of abandoned suspensions are discarded.
func (s *Session) Await(ctx context.Context) (Late, error) {
	for {
		s.mu.Lock()
		if s.suspension == 0 {
			s.mu.Unlock()
			return Late{}, ErrNotSuspended
		}
		for len(s.late) > 0 {
			late := s.late[0]
			s.late = s.late[1:]
			if late.id == s.suspension {
				s.mu.Unlock()
				return late, nil
			}
		}
		s.mu.Unlock()

		select {
		case <-ctx.Done():
			return Late{}, ctx.Err()
		case <-s.notify:
		}
	}
}

// Abandon discards the line being executed or completed. Results delivered
// later to its continuations are ignored.
func (s *Session) Abandon() {
	s.exec = nil
	s.comp = nil
	s.settle()
}

// ExecuteLine parses and evaluates a line with no incoming arguments,
// abandoning any line still pending.
func (s *Session) ExecuteLine(line string) (Outcome, error) {
	s.Abandon()
	s.record(&logger.RunLine{Line: line})

	if strings.TrimSpace(line) == "" {
		return Outcome{Values: []string{}}, nil
	}

	tree, err := Parse(line)
	if err != nil {
		s.record(&logger.SyntaxError{Line: line, Error: err.Error()})
		return Outcome{}, err
	}

	s.exec = newEvaluation(s, tree)
	return s.walk()
}

// Resume delivers the late result of the suspended command and continues the
// evaluation of the pending line.
func (s *Session) Resume(late Late) (Outcome, error) {
	if s.exec == nil || !s.exec.pending {
		return Outcome{}, ErrNotSuspended
	}
	late, err := s.take(late)
	if err != nil {
		return Outcome{}, err
	}

	event := &logger.Resume{Values: len(late.Values)}
	if late.Err != nil {
		event.Error = late.Err.Error()
	}
	s.record(event)

	s.settle()
	s.exec.late = &late
	return s.walk()
}

// Evaluate walks the tree of the last line again. Settled subtrees return
// their memoized results without calling listeners.
func (s *Session) Evaluate() (Outcome, error) {
	if s.exec == nil {
		return Outcome{}, ErrNoLine
	}
	if s.exec.pending {
		return Outcome{Pending: true}, nil
	}
	return s.walk()
}

func (s *Session) walk() (Outcome, error) {
	e := s.exec
	values, pending, err := e.eval(e.tree.Root, nil)
	e.late = nil

	switch {
	case err != nil:
		s.exec = nil
		s.settle()
		return Outcome{}, err
	case pending:
		e.pending = true
		return Outcome{Pending: true}, nil
	default:
		e.pending = false
		return Outcome{Values: append([]string{}, values...)}, nil
	}
}

// Run executes a line and waits for every suspension it raises.
func (s *Session) Run(ctx context.Context, line string) ([]string, error) {
	outcome, err := s.ExecuteLine(line)
	for err == nil && outcome.Pending {
		var late Late
		late, err = s.Await(ctx)
		if err != nil {
			s.Abandon()
			break
		}
		outcome, err = s.Resume(late)
	}
	if err != nil {
		return nil, err
	}
	return outcome.Values, nil
}
