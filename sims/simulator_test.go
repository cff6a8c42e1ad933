package sims

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/cubes/worlds"
)

func parse(t *testing.T, src string) *cubelang.Program {
	t.Helper()
	program, err := cubelang.ParseString("test", src)
	if err != nil {
		t.Fatal(err)
	}
	return program
}

func start(t *testing.T, world *worlds.World, program *cubelang.Program) *Simulator {
	t.Helper()
	sim := New(world, program, Options{})
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	return sim
}

// steps counts the Step calls until the simulator leaves Running
func steps(t *testing.T, sim *Simulator) int {
	t.Helper()
	n := 0
	for sim.State() == Running {
		sim.Step()
		n++
		if n > 1<<20 {
			t.Fatal("too many steps")
		}
	}
	return n
}

func prim(p cubelang.Primitive, args ...int) *cubelang.PrimitiveCall {
	call := &cubelang.PrimitiveCall{
		Primitive: p,
	}
	for _, arg := range args {
		call.Args = append(call.Args, cubelang.Lit(arg))
	}
	return call
}

func TestEmptyProgram(t *testing.T) {
	world := worlds.New()
	world.ClearDirty()
	for _, program := range []*cubelang.Program{
		nil,
		cubelang.EmptyProgram(),
		parse(t, "# nothing\n"),
	} {
		sim := start(t, world, program)
		if sim.State() != Finished {
			t.Fatalf("got %v", sim.State())
		}
		if len(sim.Stack()) != 0 {
			t.Fatalf("got %v", sim.Stack())
		}
	}
	if world.Dirty() {
		t.Fatal("world should not be touched")
	}
}

func TestStraightLine(t *testing.T) {
	program := parse(t, `
Forward(2)
Left()
Up(1)
Forward(1)
Right()
Down(1)
`)
	world := worlds.New()
	world.ClearDirty()
	sim := New(world, program, Options{})

	// not started
	if state := sim.Step(); state != Idle {
		t.Fatalf("got %v", state)
	}
	if world.Dirty() {
		t.Fatal("zero steps should not mutate")
	}

	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	if world.Dirty() {
		t.Fatal("start should not mutate")
	}
	if n := steps(t, sim); n != 6 {
		t.Fatalf("got %d", n)
	}
	if sim.State() != Finished {
		t.Fatalf("got %v", sim.State())
	}
	if sim.Actions() != 6 {
		t.Fatalf("got %d", sim.Actions())
	}
	if pos := world.Position(); pos != (worlds.Vec{X: 2, Y: 1, Z: 0}) {
		t.Fatalf("got %v", pos)
	}
	if world.Facing() != worlds.FacingPosX {
		t.Fatalf("got %v", world.Facing())
	}
	if !world.Dirty() {
		t.Fatal("should be dirty")
	}

	// terminal
	if state := sim.Step(); state != Finished {
		t.Fatalf("got %v", state)
	}
}

func TestRepeatActionCount(t *testing.T) {
	for _, k := range []int{0, 1, 2, 5} {
		program := cubelang.EmptyProgram()
		program.Statements = []cubelang.Statement{
			&cubelang.Repeat{
				Count: k,
				Body: []cubelang.Statement{
					prim(cubelang.PrimLeft),
					prim(cubelang.PrimForward, 1),
					prim(cubelang.PrimRight),
				},
			},
		}
		if err := Validate(program); err != nil {
			t.Fatal(err)
		}
		world := worlds.New()
		sim := start(t, world, program)
		n := steps(t, sim)
		if n != 3*k {
			t.Fatalf("k=%d: got %d steps", k, n)
		}
		if sim.Actions() != 3*k {
			t.Fatalf("k=%d: got %d actions", k, sim.Actions())
		}
		if world.Position() != (worlds.Vec{Y: k}) {
			t.Fatalf("k=%d: got %v", k, world.Position())
		}
	}
}

func TestNestedRepeat(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, `
repeat 3 times:
    repeat 4 times:
        Left()
    Up(1)
`))
	if n := steps(t, sim); n != 15 {
		t.Fatalf("got %d", n)
	}
	if sim.World().Position() != (worlds.Vec{Z: 3}) {
		t.Fatalf("got %v", sim.World().Position())
	}
}

func TestEmptyLoopBody(t *testing.T) {
	program := cubelang.EmptyProgram()
	program.Statements = []cubelang.Statement{
		&cubelang.Repeat{Count: 1000},
		prim(cubelang.PrimUp, 1),
	}
	sim := start(t, worlds.New(), program)
	if n := steps(t, sim); n != 1 {
		t.Fatalf("got %d", n)
	}
}

func TestScenario(t *testing.T) {
	program := parse(t, "repeat 2 times:\n    Forward(1)\n    PlaceCube(1)\n")
	if len(program.Statements) != 1 {
		t.Fatalf("got %v", program.Statements)
	}
	repeat := program.Statements[0].(*cubelang.Repeat)
	if repeat.Count != 2 || len(repeat.Body) != 2 {
		t.Fatalf("got %+v", repeat)
	}

	var got []string
	world := worlds.New()
	sim := New(world, program, Options{
		OnAction: func(event Event) {
			got = append(got, event.Primitive.String())
		},
	})
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	steps(t, sim)
	if sim.State() != Finished {
		t.Fatalf("got %v", sim.State())
	}
	if strings.Join(got, " ") != "Forward PlaceCube Forward PlaceCube" {
		t.Fatalf("got %v", got)
	}
	if !world.HasCube(worlds.Vec{X: 1, Z: -1}) || !world.HasCube(worlds.Vec{X: 2, Z: -1}) {
		t.Fatalf("got %v", world.Cubes())
	}
}

func TestProcedureEqualsInlining(t *testing.T) {
	withProc := parse(t, `
defproc stairs(height, width):
    repeat 2 times:
        Up(height)
        Forward(width)
        PlaceCube(height)
stairs(2, 1)
Left()
stairs(1, 3)
`)
	inlined := parse(t, `
repeat 2 times:
    Up(2)
    Forward(1)
    PlaceCube(2)
Left()
repeat 2 times:
    Up(1)
    Forward(3)
    PlaceCube(1)
`)

	run := func(program *cubelang.Program) (*worlds.World, []Event) {
		var events []Event
		world := worlds.New()
		sim := New(world, program, Options{
			OnAction: func(event Event) {
				event.Pos = cubelang.Pos{}
				events = append(events, event)
			},
		})
		if err := sim.Start(); err != nil {
			t.Fatal(err)
		}
		if state, err := sim.RunToCompletion(t.Context()); err != nil || state != Finished {
			t.Fatalf("got %v %v", state, err)
		}
		return world, events
	}

	w1, e1 := run(withProc)
	w2, e2 := run(inlined)
	if len(e1) != len(e2) {
		t.Fatalf("got %d %d", len(e1), len(e2))
	}
	for i := range e1 {
		if e1[i].String() != e2[i].String() {
			t.Fatalf("got %v, expected %v", e1[i], e2[i])
		}
	}
	if w1.String() != w2.String() {
		t.Fatalf("got %v, expected %v", w1, w2)
	}
	if w1.Position() != w2.Position() {
		t.Fatalf("got %v, expected %v", w1.Position(), w2.Position())
	}
	for _, v := range w2.Cubes() {
		if !w1.HasCube(v) {
			t.Fatalf("missing %v", v)
		}
	}
}

func TestSquare(t *testing.T) {
	world := worlds.New()
	world.SetRobot(worlds.Vec{X: 5, Y: 5}, worlds.FacingNegY)
	sim := start(t, world, parse(t, `
defproc square(n):
    repeat 4 times:
        Forward(n)
        Right()
square(3)
`))
	if n := steps(t, sim); n != 8 {
		t.Fatalf("got %d", n)
	}
	if world.Position() != (worlds.Vec{X: 5, Y: 5}) {
		t.Fatalf("got %v", world.Position())
	}
	if world.Facing() != worlds.FacingNegY {
		t.Fatalf("got %v", world.Facing())
	}
}

func TestBlocked(t *testing.T) {
	world := worlds.New()
	if err := world.SetCube(worlds.Vec{X: 3}); err != nil {
		t.Fatal(err)
	}
	sim := start(t, world, parse(t, "Left()\nRight()\nForward(5)\nLeft()\n"))
	steps(t, sim)
	if sim.State() != Errored {
		t.Fatalf("got %v", sim.State())
	}
	if sim.Actions() != 2 {
		t.Fatalf("got %d", sim.Actions())
	}
	err := sim.Err()
	if !errors.Is(err, worlds.ErrBlocked) {
		t.Fatalf("got %v", err)
	}
	var actionErr *worlds.ActionError
	if !errors.As(err, &actionErr) {
		t.Fatalf("got %v", err)
	}
	if actionErr.At != (worlds.Vec{X: 3}) {
		t.Fatalf("got %v", actionErr.At)
	}
	if err.Primitive != cubelang.PrimForward {
		t.Fatalf("got %v", err.Primitive)
	}
	if err.Pos != (cubelang.Pos{Line: 3, Column: 1}) {
		t.Fatalf("got %v", err.Pos)
	}
	if len(err.Stack) != 1 {
		t.Fatalf("got %v", err.Stack)
	}
	// last free cell
	if world.Position() != (worlds.Vec{X: 2}) {
		t.Fatalf("got %v", world.Position())
	}
	if state := sim.Step(); state != Errored {
		t.Fatalf("got %v", state)
	}
}

func TestRemoveFromEmpty(t *testing.T) {
	world := worlds.New()
	world.ClearDirty()
	sim := start(t, world, parse(t, "RemoveCube(1)\n"))
	if state := sim.Step(); state != Errored {
		t.Fatalf("got %v", state)
	}
	if !errors.Is(sim.Err(), worlds.ErrNothingToRemove) {
		t.Fatalf("got %v", sim.Err())
	}
	if world.Dirty() || world.NumCubes() != 0 {
		t.Fatal("should not mutate")
	}
	if sim.Actions() != 0 {
		t.Fatalf("got %d", sim.Actions())
	}
}

func TestPlacePolicy(t *testing.T) {
	src := "PlaceCube(2)\nForward(1)\nPlaceCube(1)\n"

	newWorld := func(policy worlds.PlacePolicy) *worlds.World {
		world := worlds.New()
		world.SetPlacePolicy(policy)
		if err := world.SetCube(worlds.Vec{Z: -2}); err != nil {
			t.Fatal(err)
		}
		return world
	}

	world := newWorld(worlds.PlaceError)
	sim := start(t, world, parse(t, src))
	steps(t, sim)
	if !errors.Is(sim.Err(), worlds.ErrOccupied) {
		t.Fatalf("got %v", sim.Err())
	}
	// cells placed before the failure stay
	if !world.HasCube(worlds.Vec{Z: -1}) {
		t.Fatalf("got %v", world.Cubes())
	}

	world = newWorld(worlds.PlaceSkip)
	sim = start(t, world, parse(t, src))
	steps(t, sim)
	if sim.State() != Finished {
		t.Fatalf("got %v %v", sim.State(), sim.Err())
	}
	if world.NumCubes() != 3 {
		t.Fatalf("got %v", world.Cubes())
	}
}

func TestLifecycle(t *testing.T) {
	program := parse(t, "Forward(1)\nForward(1)\nForward(1)\n")
	world := worlds.New()
	sim := New(world, program, Options{})

	if err := sim.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}
	if sim.State() != Idle {
		t.Fatalf("got %v", sim.State())
	}
	// reset from idle is a no-op
	sim.Reset()
	if sim.State() != Idle {
		t.Fatalf("got %v", sim.State())
	}

	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	if err := sim.Start(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}
	if err := sim.Resume(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}

	sim.Step()
	if err := sim.Pause(); err != nil {
		t.Fatal(err)
	}
	if err := sim.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}

	// single step while paused
	if state := sim.Step(); state != Paused {
		t.Fatalf("got %v", state)
	}
	if world.Position() != (worlds.Vec{X: 2}) {
		t.Fatalf("got %v", world.Position())
	}

	if err := sim.Resume(); err != nil {
		t.Fatal(err)
	}
	if state, err := sim.RunToCompletion(t.Context()); err != nil || state != Finished {
		t.Fatalf("got %v %v", state, err)
	}
	if err := sim.Pause(); !errors.Is(err, ErrInvalidTransition) {
		t.Fatalf("got %v", err)
	}

	// reset and run again from the top
	sim.Reset()
	if sim.State() != Idle || len(sim.Stack()) != 0 || sim.Actions() != 0 {
		t.Fatalf("got %v %v %d", sim.State(), sim.Stack(), sim.Actions())
	}
	if world.Position() != (worlds.Vec{X: 3}) {
		t.Fatal("reset should not touch the world")
	}
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	if n := steps(t, sim); n != 3 {
		t.Fatalf("got %d", n)
	}
	if world.Position() != (worlds.Vec{X: 6}) {
		t.Fatalf("got %v", world.Position())
	}
}

func TestPausedStepFinishes(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, "Left()\n"))
	if err := sim.Pause(); err != nil {
		t.Fatal(err)
	}
	if state := sim.Step(); state != Finished {
		t.Fatalf("got %v", state)
	}
}

func TestResetFromErrored(t *testing.T) {
	world := worlds.New()
	sim := start(t, world, parse(t, "Left()\nRemoveCube(1)\n"))
	steps(t, sim)
	if sim.State() != Errored {
		t.Fatalf("got %v", sim.State())
	}
	sim.Reset()
	if sim.State() != Idle || sim.Err() != nil {
		t.Fatalf("got %v %v", sim.State(), sim.Err())
	}
	world.SetRobot(worlds.Vec{Z: 2}, worlds.FacingPosX)
	if err := world.SetCube(worlds.Vec{Z: 1}); err != nil {
		t.Fatal(err)
	}
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	if n := steps(t, sim); n != 2 || sim.State() != Finished {
		t.Fatalf("got %d %v", n, sim.State())
	}
}

func TestPauseFromAction(t *testing.T) {
	var sim *Simulator
	sim = New(worlds.New(), parse(t, "repeat 10 times:\n  Up(1)\n"), Options{
		OnAction: func(event Event) {
			if event.Seq == 4 {
				if err := sim.Pause(); err != nil {
					t.Fatal(err)
				}
			}
		},
	})
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	state, err := sim.RunToCompletion(t.Context())
	if err != nil {
		t.Fatal(err)
	}
	if state != Paused || sim.Actions() != 4 {
		t.Fatalf("got %v %d", state, sim.Actions())
	}
	if err := sim.Resume(); err != nil {
		t.Fatal(err)
	}
	if state, _ := sim.RunToCompletion(t.Context()); state != Finished {
		t.Fatalf("got %v", state)
	}
	if sim.World().Position() != (worlds.Vec{Z: 10}) {
		t.Fatalf("got %v", sim.World().Position())
	}
}

func TestRunToCompletionCanceled(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, "Left()\n"))
	ctx, cancel := context.WithCancel(t.Context())
	cancel()
	state, err := sim.RunToCompletion(ctx)
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("got %v", err)
	}
	if state != Running || sim.Actions() != 0 {
		t.Fatalf("got %v %d", state, sim.Actions())
	}
}

func TestRun(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, `
defproc hop(n):
    Up(n)
    Forward(1)
    Down(n)
repeat 2 times:
    hop(1)
`))
	var seqs []int
	for event, err := range sim.Run {
		if err != nil {
			t.Fatal(err)
		}
		seqs = append(seqs, event.Seq)
	}
	if len(seqs) != 6 || seqs[0] != 1 || seqs[5] != 6 {
		t.Fatalf("got %v", seqs)
	}
	if sim.State() != Finished {
		t.Fatalf("got %v", sim.State())
	}

	// error
	sim = start(t, worlds.New(), parse(t, "Up(1)\nRemoveCube(3)\nUp(1)\n"))
	var errs []error
	n := 0
	for event, err := range sim.Run {
		if err != nil {
			if event != nil {
				t.Fatal("no event with error")
			}
			errs = append(errs, err)
			continue
		}
		n++
	}
	if n != 1 || len(errs) != 1 || !errors.Is(errs[0], worlds.ErrNothingToRemove) {
		t.Fatalf("got %d %v", n, errs)
	}

	// break
	sim = start(t, worlds.New(), parse(t, "Up(1)\nUp(1)\nUp(1)\n"))
	for range sim.Run {
		break
	}
	if sim.State() != Running || sim.Actions() != 1 {
		t.Fatalf("got %v %d", sim.State(), sim.Actions())
	}
}

func TestStackShape(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, `
defproc f(a):
    repeat 2 times:
        Forward(a)
f(7)
`))
	stack := sim.Stack()
	if len(stack) != 3 {
		t.Fatalf("got %v", stack)
	}
	if stack[0].Kind != FrameBlock || stack[1].Kind != FrameCall || stack[2].Kind != FrameLoop {
		t.Fatalf("got %v %v %v", stack[0].Kind, stack[1].Kind, stack[2].Kind)
	}
	if stack[1].Proc != "f" || stack[1].Bindings["a"] != 7 {
		t.Fatalf("got %+v", stack[1])
	}
	if stack[2].Remaining != 1 || stack[2].Bindings["a"] != 7 {
		t.Fatalf("got %+v", stack[2])
	}

	// copy
	stack[0].PC = 42
	if sim.Stack()[0].PC == 42 {
		t.Fatal("should be a copy")
	}
}

func TestMaxStructural(t *testing.T) {
	program := cubelang.EmptyProgram()
	program.Statements = []cubelang.Statement{
		&cubelang.Repeat{Count: 100},
		prim(cubelang.PrimUp, 1),
	}
	world := worlds.New()
	world.ClearDirty()
	sim := New(world, program, Options{
		MaxStructural: 10,
	})
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	n := 0
	for sim.State() == Running {
		sim.Step()
		n++
		if sim.Actions() == 0 && world.Dirty() {
			t.Fatal("budget exhausted step should not mutate")
		}
	}
	if n < 2 {
		t.Fatalf("got %d", n)
	}
	if sim.State() != Finished || sim.Actions() != 1 {
		t.Fatalf("got %v %d", sim.State(), sim.Actions())
	}
	if world.Position() != (worlds.Vec{Z: 1}) {
		t.Fatalf("got %v", world.Position())
	}
}

func TestMalformedProgram(t *testing.T) {
	tests := []struct {
		name  string
		stmts []cubelang.Statement
	}{
		{"unknown procedure", []cubelang.Statement{
			&cubelang.ProcCall{Name: "nope"},
		}},
		{"negative count", []cubelang.Statement{
			&cubelang.Repeat{Count: -1, Body: []cubelang.Statement{prim(cubelang.PrimLeft)}},
		}},
		{"unbound parameter", []cubelang.Statement{
			&cubelang.PrimitiveCall{Primitive: cubelang.PrimUp, Args: []cubelang.Arg{cubelang.Ref("n")}},
		}},
		{"bad arity", []cubelang.Statement{
			prim(cubelang.PrimForward),
		}},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			program := cubelang.EmptyProgram()
			program.Statements = test.stmts
			if err := Validate(program); !errors.Is(err, ErrMalformed) {
				t.Fatalf("got %v", err)
			}
			sim := start(t, worlds.New(), program)
			sim.Step()
			if sim.State() != Errored {
				t.Fatalf("got %v", sim.State())
			}
			if !errors.Is(sim.Err(), ErrMalformed) {
				t.Fatalf("got %v", sim.Err())
			}
		})
	}
}

func TestValidateRecursion(t *testing.T) {
	program := cubelang.EmptyProgram()
	f := &cubelang.ProcDef{Name: "f"}
	g := &cubelang.ProcDef{Name: "g"}
	f.Body = []cubelang.Statement{&cubelang.ProcCall{Name: "g"}}
	g.Body = []cubelang.Statement{&cubelang.ProcCall{Name: "f"}}
	program.Procedures["f"] = f
	program.Procedures["g"] = g
	program.Statements = []cubelang.Statement{f, g}
	err := Validate(program)
	var programErr *ProgramError
	if !errors.As(err, &programErr) {
		t.Fatalf("got %v", err)
	}
	if !strings.HasPrefix(programErr.Message, "recursive call to") {
		t.Fatalf("got %q", programErr.Message)
	}

	if err := Validate(parse(t, "defproc f(a):\n  Up(a)\nf(1)\nf(2)\n")); err != nil {
		t.Fatal(err)
	}
}

func TestLogging(t *testing.T) {
	buf := new(bytes.Buffer)
	var logger logs.Logger = slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
	sim := New(worlds.New(), parse(t, "RemoveCube(1)\n"), Options{
		Logger: logger,
	})
	if err := sim.Start(); err != nil {
		t.Fatal(err)
	}
	sim.Step()
	out := buf.String()
	if !strings.Contains(out, "simulation error") {
		t.Fatalf("got %s", out)
	}
	if !strings.Contains(out, "to=errored") {
		t.Fatalf("got %s", out)
	}
}

func TestHugeForward(t *testing.T) {
	world := worlds.New()
	sim := start(t, world, parse(t, "Forward(2147483647)\n"))
	t0 := time.Now()
	if state := sim.Step(); state != Finished {
		t.Fatalf("got %v", state)
	}
	if d := time.Since(t0); d > time.Second {
		t.Fatalf("took %v", d)
	}
	if world.Position() != (worlds.Vec{X: 2147483647}) {
		t.Fatalf("got %v", world.Position())
	}
}

func TestPreludeProcedures(t *testing.T) {
	program, err := cubelang.ParseWithPrelude("test", strings.NewReader(`
pillar(3)
back(2)
defproc step():
    climb(1)
repeat 2 times:
    step()
`), cubelang.Stdlib())
	if err != nil {
		t.Fatal(err)
	}
	if err := Validate(program); err != nil {
		t.Fatal(err)
	}
	world := worlds.New()
	sim := start(t, world, program)
	n := steps(t, sim)
	if sim.State() != Finished {
		t.Fatalf("got %v: %v", sim.State(), sim.Err())
	}
	// pillar 2, back 5, 2 x climb 2
	if n != 11 || sim.Actions() != 11 {
		t.Fatalf("got %d steps, %d actions", n, sim.Actions())
	}
	if world.Position() != (worlds.Vec{Z: 5}) {
		t.Fatalf("got %v", world.Position())
	}
	if world.Facing() != worlds.FacingPosX {
		t.Fatalf("got %v", world.Facing())
	}
	if world.NumCubes() != 3 {
		t.Fatalf("got %d", world.NumCubes())
	}
	for z := range 3 {
		if !world.HasCube(worlds.Vec{Z: z}) {
			t.Fatalf("no cube at z=%d", z)
		}
	}
}
