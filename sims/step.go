package sims

import (
	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/worlds"
)

// Step executes at most one primitive action and returns the new state.
//
// Structural work (entering loops and procedures, skipping definitions,
// popping finished frames) never takes a call of its own: it runs before
// and after the action, so the top of the stack always points at the next
// primitive, or the stack is empty and the run is Finished. Only when
// more than Options.MaxStructural structural events would be needed does
// Step return without acting.
//
// In Paused, Step acts once and stays Paused. In other states it does
// nothing.
func (s *Simulator) Step() State {
	if s.state != Running && s.state != Paused {
		return s.state
	}
	if !s.settle() {
		return s.state
	}

	top := &s.stack[len(s.stack)-1]
	call := top.current().(*cubelang.PrimitiveCall)
	args, err := bindArgs(call.Args, top.Bindings)
	if err != nil {
		s.fail(err, call.Primitive, call.Pos)
		return s.state
	}
	if len(args) != call.Primitive.Arity() {
		s.fail(malformed("%s expects %d arguments, got %d", call.Primitive, call.Primitive.Arity(), len(args)), call.Primitive, call.Pos)
		return s.state
	}

	if err := s.apply(call.Primitive, args); err != nil {
		s.fail(err, call.Primitive, call.Pos)
		return s.state
	}
	top.PC++
	s.actions++

	event := Event{
		Seq:       s.actions,
		Primitive: call.Primitive,
		Args:      args,
		Pos:       call.Pos,
	}
	s.lastEvent = &event
	if s.options.OnAction != nil {
		s.options.OnAction(event)
	}

	s.settle()
	return s.state
}

func (s *Simulator) apply(prim cubelang.Primitive, args []int) error {
	w := s.world
	switch prim {
	case cubelang.PrimForward:
		return w.MoveForward(args[0])
	case cubelang.PrimLeft:
		w.TurnLeft()
		return nil
	case cubelang.PrimRight:
		w.TurnRight()
		return nil
	case cubelang.PrimUp:
		return w.Ascend(args[0])
	case cubelang.PrimDown:
		return w.Descend(args[0])
	case cubelang.PrimPlaceCube:
		return w.PlaceCube(args[0])
	case cubelang.PrimRemoveCube:
		return w.RemoveCube(args[0])
	}
	return malformed("unknown primitive %d", prim)
}

// settle runs structural work until the top frame points at a primitive
// call. It reports whether a primitive is ready.
func (s *Simulator) settle() bool {
	for range s.options.MaxStructural {
		if len(s.stack) == 0 {
			s.setState(Finished)
			return false
		}
		top := &s.stack[len(s.stack)-1]

		if top.done() {
			if top.Kind == FrameLoop && top.Remaining > 0 {
				top.Remaining--
				top.PC = 0
				continue
			}
			s.stack = s.stack[:len(s.stack)-1]
			if n := len(s.stack); n > 0 {
				s.stack[n-1].PC++
			}
			continue
		}

		switch stmt := top.current().(type) {

		case *cubelang.PrimitiveCall:
			return true

		case *cubelang.Repeat:
			if stmt.Count < 0 {
				s.fail(malformed("negative repeat count %d", stmt.Count), 0, stmt.Pos)
				return false
			}
			// PC starts past the end so the next round opens the first pass
			s.stack = append(s.stack, Frame{
				Kind:      FrameLoop,
				Body:      stmt.Body,
				PC:        len(stmt.Body),
				Remaining: stmt.Count,
				Bindings:  top.Bindings,
			})

		case *cubelang.ProcCall:
			bindings, err := s.enter(stmt, top.Bindings)
			if err != nil {
				s.fail(err, 0, stmt.Pos)
				return false
			}
			def := s.program.Procedures[stmt.Name]
			s.stack = append(s.stack, Frame{
				Kind:     FrameCall,
				Proc:     def.Name,
				Body:     def.Body,
				Bindings: bindings,
			})

		case *cubelang.ProcDef:
			top.PC++

		default:
			s.fail(malformed("unknown statement %T", stmt), 0, stmt.StatementPos())
			return false
		}
	}
	return false
}

// enter binds the arguments of a call to the parameters of its procedure
func (s *Simulator) enter(call *cubelang.ProcCall, outer map[string]int) (map[string]int, error) {
	def, ok := s.program.Procedures[call.Name]
	if !ok {
		return nil, malformed("unknown procedure %q", call.Name)
	}
	if len(call.Args) != len(def.Params) {
		return nil, malformed("%s expects %d arguments, got %d", def.Name, len(def.Params), len(call.Args))
	}
	values, err := bindArgs(call.Args, outer)
	if err != nil {
		return nil, err
	}
	bindings := make(map[string]int, len(def.Params))
	for i, param := range def.Params {
		bindings[param] = values[i]
	}
	return bindings, nil
}

func bindArgs(args []cubelang.Arg, bindings map[string]int) ([]int, error) {
	ret := make([]int, len(args))
	for i, arg := range args {
		if !arg.IsParam() {
			ret[i] = arg.Value
			continue
		}
		v, ok := bindings[arg.Param]
		if !ok {
			return nil, malformed("unbound parameter %q", arg.Param)
		}
		ret[i] = v
	}
	return ret, nil
}

func (s *Simulator) fail(err error, prim cubelang.Primitive, pos cubelang.Pos) {
	s.err = &RuntimeError{
		Err:       err,
		Primitive: prim,
		Pos:       pos,
		Stack:     cloneStack(s.stack),
	}
	args := []any{
		"error", err.Error(),
		"line", pos.Line,
		"column", pos.Column,
		"actions", s.actions,
	}
	if actionErr, ok := err.(*worlds.ActionError); ok {
		args = append(args, "cell", actionErr.At.String())
	}
	s.logger.Warn("simulation error", args...)
	s.setState(Errored)
}
