package sims

import (
	"context"
)

// RunToCompletion steps while the simulator is Running, without exposing
// intermediate states. It returns when the run finishes, errors or is
// paused from OnAction, or when ctx is done.
func (s *Simulator) RunToCompletion(ctx context.Context) (State, error) {
	for s.state == Running {
		if err := ctx.Err(); err != nil {
			return s.state, err
		}
		s.Step()
	}
	return s.state, nil
}

// Run steps the simulator while it is Running, yielding each action. A
// runtime error is yielded once with a nil event.
//
//	for event, err := range sim.Run {
//		...
//	}
func (s *Simulator) Run(yield func(*Event, error) bool) {
	for s.state == Running {
		before := s.actions
		s.Step()
		if s.state == Errored {
			yield(nil, s.err)
			return
		}
		if s.actions != before {
			if !yield(s.lastEvent, nil) {
				return
			}
		}
	}
}
