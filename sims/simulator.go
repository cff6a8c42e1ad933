package sims

import (
	"fmt"

	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/cubes/worlds"
)

const DefaultMaxStructural = 1 << 16

type Options struct {
	// if nil, logs are discarded
	Logger logs.Logger

	// MaxStructural bounds the loop entries, procedure entries and frame
	// pops done by one call. If zero, DefaultMaxStructural is used.
	MaxStructural int

	// OnAction, if not nil, is called after every primitive action
	OnAction func(Event)
}

// Event describes one executed primitive action.
type Event struct {
	Seq       int // 1-based
	Primitive cubelang.Primitive
	Args      []int
	Pos       cubelang.Pos
}

func (e Event) String() string {
	return fmt.Sprintf("#%d %s%v at %d:%d", e.Seq, e.Primitive, e.Args, e.Pos.Line, e.Pos.Column)
}

// Simulator runs a program against a world one primitive action at a
// time. It is not safe for concurrent use.
type Simulator struct {
	world   *worlds.World
	program *cubelang.Program
	options Options
	logger  logs.Logger

	state     State
	stack     []Frame
	err       *RuntimeError
	actions   int
	lastEvent *Event
}

func New(world *worlds.World, program *cubelang.Program, options Options) *Simulator {
	if program == nil {
		program = cubelang.EmptyProgram()
	}
	if options.MaxStructural <= 0 {
		options.MaxStructural = DefaultMaxStructural
	}
	logger := options.Logger
	if logger == nil {
		logger = logs.Discard
	}
	return &Simulator{
		world:   world,
		program: program,
		options: options,
		logger:  logger,
	}
}

func (s *Simulator) World() *worlds.World {
	return s.world
}

func (s *Simulator) Program() *cubelang.Program {
	return s.program
}

func (s *Simulator) State() State {
	return s.state
}

// Err returns the error that moved the simulator to Errored, or nil.
func (s *Simulator) Err() *RuntimeError {
	return s.err
}

// Stack returns a copy of the execution stack, top last.
func (s *Simulator) Stack() []Frame {
	return cloneStack(s.stack)
}

// Actions returns the number of primitive actions executed in this run.
func (s *Simulator) Actions() int {
	return s.actions
}

// LastEvent returns the most recent action, or nil if none ran yet.
func (s *Simulator) LastEvent() *Event {
	return s.lastEvent
}

func (s *Simulator) setState(state State) {
	if state == s.state {
		return
	}
	s.logger.Debug("simulator state",
		"from", s.state.String(),
		"to", state.String(),
		"actions", s.actions,
	)
	s.state = state
}

func (s *Simulator) invalid(op string) error {
	return fmt.Errorf("%w: %s while %s", ErrInvalidTransition, op, s.state)
}

// Start begins a run from the top of the program. A program with no
// reachable primitive goes straight to Finished.
func (s *Simulator) Start() error {
	if s.state != Idle {
		return s.invalid("start")
	}
	s.stack = append(s.stack[:0], Frame{
		Kind: FrameBlock,
		Body: s.program.Statements,
	})
	s.err = nil
	s.actions = 0
	s.lastEvent = nil
	s.setState(Running)
	s.settle()
	return nil
}

func (s *Simulator) Pause() error {
	if s.state != Running {
		return s.invalid("pause")
	}
	s.setState(Paused)
	return nil
}

func (s *Simulator) Resume() error {
	if s.state != Paused {
		return s.invalid("resume")
	}
	s.setState(Running)
	return nil
}

// Reset discards the execution stack and returns to Idle. The world is
// left as it is; restoring it is up to the host.
func (s *Simulator) Reset() {
	s.stack = nil
	s.err = nil
	s.actions = 0
	s.lastEvent = nil
	s.setState(Idle)
}
