package form

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/goliatone/go-sheetform/pkg/model"
)

// State is a step of the submission cycle.
type State int

const (
	StateIdle State = iota
	StateCollecting
	StateSubmitted
	StateValid
	StateInvalid
	StatePersisted
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateCollecting:
		return "collecting"
	case StateSubmitted:
		return "submitted"
	case StateValid:
		return "valid"
	case StateInvalid:
		return "invalid"
	case StatePersisted:
		return "persisted"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrSessionDone is returned when Run is called on a session whose row was
// already persisted.
var ErrSessionDone = errors.New("form: session already persisted")

// Outcome summarises one submission cycle.
type Outcome struct {
	SubmissionID string
	State        State
	Record       model.Record
	Row          []any
	Errors       []string
}

// Submitted reports whether the user triggered the submit action.
func (o Outcome) Submitted() bool {
	return o.State != StateIdle
}

// Err returns a ValidationError for invalid outcomes and nil otherwise.
func (o Outcome) Err() error {
	if o.State != StateInvalid {
		return nil
	}
	return &model.ValidationError{Messages: append([]string(nil), o.Errors...)}
}

// Transition is invoked on every state change of a session.
type Transition func(from, to State)

// SessionConfig wires a session to its schema and store.
type SessionConfig struct {
	Schema    model.FormSchema
	Appender  Appender
	Worksheet string
	// OnTransition observes state changes; optional.
	OnTransition Transition
	Options      []Option
}

// Session owns the draft state of a single interaction. It is not safe for
// concurrent use; create one per user interaction.
type Session struct {
	id          string
	schema      model.FormSchema
	appender    Appender
	worksheet   string
	interpreter *Interpreter
	validator   *Validator
	observe     Transition
	state       State
}

// NewSession constructs an idle session.
func NewSession(cfg SessionConfig) *Session {
	return &Session{
		id:          uuid.NewString(),
		schema:      cfg.Schema,
		appender:    cfg.Appender,
		worksheet:   cfg.Worksheet,
		interpreter: NewInterpreter(cfg.Options...),
		validator:   NewValidator(cfg.Options...),
		observe:     cfg.OnTransition,
		state:       StateIdle,
	}
}

// ID returns the session identifier used as submission id.
func (s *Session) ID() string { return s.id }

// State reports the current state.
func (s *Session) State() State { return s.state }

// Run executes render → validate → persist-or-reject. Invalid submissions
// return the session to Idle with the messages in Outcome.Errors and a nil
// error. A store failure is returned as *model.PersistenceError with
// Outcome.State left at Valid; the row is not retried and the session itself
// returns to Idle so the same draft can be submitted again.
func (s *Session) Run(ctx context.Context, surface Surface) (Outcome, error) {
	if s.state == StatePersisted {
		return Outcome{SubmissionID: s.id, State: StatePersisted}, ErrSessionDone
	}
	if s.state != StateIdle {
		return Outcome{SubmissionID: s.id, State: s.state}, fmt.Errorf("form: session busy in state %s", s.state)
	}
	if s.appender == nil {
		return Outcome{SubmissionID: s.id}, errors.New("form: appender is required")
	}

	s.move(StateCollecting)
	record, submitted, err := s.interpreter.Render(ctx, s.schema, surface)
	if err != nil {
		s.move(StateIdle)
		return Outcome{SubmissionID: s.id, State: StateIdle}, err
	}
	if !submitted {
		s.move(StateIdle)
		return Outcome{SubmissionID: s.id, State: StateIdle}, nil
	}
	s.move(StateSubmitted)

	out := Outcome{SubmissionID: s.id, Record: record}
	if errs := s.validator.Validate(record, s.schema); len(errs) > 0 {
		s.move(StateInvalid)
		out.State = StateInvalid
		out.Errors = errs
		s.move(StateIdle)
		return out, nil
	}

	s.move(StateValid)
	out.State = StateValid
	out.Row = Row(record, s.schema)

	if err := s.appender.AppendRow(ctx, out.Row); err != nil {
		s.move(StateIdle)
		return out, &model.PersistenceError{Worksheet: s.worksheet, Op: "append row", Err: err}
	}

	s.move(StatePersisted)
	out.State = StatePersisted
	return out, nil
}

func (s *Session) move(to State) {
	from := s.state
	s.state = to
	if s.observe != nil && from != to {
		s.observe(from, to)
	}
}
