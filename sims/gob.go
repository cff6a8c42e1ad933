package sims

import (
	"encoding/gob"
	"io"

	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/worlds"
)

func init() {
	gob.Register(&cubelang.PrimitiveCall{})
	gob.Register(&cubelang.Repeat{})
	gob.Register(&cubelang.ProcDef{})
	gob.Register(&cubelang.ProcCall{})
	gob.Register(&worlds.ActionError{})
	gob.Register(&ProgramError{})
}

type snapshot struct {
	State   State
	Stack   []Frame
	Err     *RuntimeError
	Actions int
}

// Snapshot writes the suspended run in gob encoding. The world is not
// included; hosts snapshot it separately.
func (s *Simulator) Snapshot(w io.Writer) error {
	enc := gob.NewEncoder(w)
	if err := enc.Encode(snapshot{
		State:   s.state,
		Stack:   s.stack,
		Err:     s.err,
		Actions: s.actions,
	}); err != nil {
		return err
	}
	return nil
}

// Restore replaces the run state with a snapshot taken by Snapshot.
func (s *Simulator) Restore(r io.Reader) error {
	var snap snapshot
	dec := gob.NewDecoder(r)
	if err := dec.Decode(&snap); err != nil {
		return err
	}
	s.state = snap.State
	s.stack = snap.Stack
	s.err = snap.Err
	s.actions = snap.Actions
	s.lastEvent = nil
	return nil
}
