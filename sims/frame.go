package sims

import (
	"github.com/reusee/cubes/cubelang"
)

type FrameKind uint8

const (
	// FrameBlock runs the top level statements or a procedure body
	FrameBlock FrameKind = iota
	// FrameLoop runs a repeat body Remaining more times after the current pass
	FrameLoop
	// FrameCall is a procedure activation
	FrameCall
)

func (k FrameKind) String() string {
	switch k {
	case FrameBlock:
		return "block"
	case FrameLoop:
		return "loop"
	case FrameCall:
		return "call"
	}
	return "unknown"
}

// Frame is one entry of the execution stack. It is plain data: the whole
// suspended state of a run is a []Frame.
type Frame struct {
	Kind      FrameKind
	Proc      string // procedure name for FrameCall
	Body      []cubelang.Statement
	PC        int
	Remaining int
	Bindings  map[string]int
}

func (f *Frame) done() bool {
	return f.PC >= len(f.Body)
}

func (f *Frame) current() cubelang.Statement {
	return f.Body[f.PC]
}

func cloneStack(stack []Frame) []Frame {
	ret := make([]Frame, len(stack))
	copy(ret, stack)
	return ret
}
