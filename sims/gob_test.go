package sims

import (
	"bytes"
	"errors"
	"testing"

	"github.com/reusee/cubes/worlds"
)

func TestSnapshotRestore(t *testing.T) {
	program := parse(t, `
defproc wall(h):
    repeat 3 times:
        Up(h)
        PlaceCube(h)
        Forward(1)
        Down(h)
wall(2)
Left()
wall(1)
`)

	// reference run
	reference := worlds.New()
	sim := start(t, reference, program)
	steps(t, sim)
	if sim.State() != Finished {
		t.Fatalf("got %v %v", sim.State(), sim.Err())
	}

	world := worlds.New()
	sim = start(t, world, program)
	for range 7 {
		sim.Step()
	}
	if err := sim.Pause(); err != nil {
		t.Fatal(err)
	}
	simBuf := new(bytes.Buffer)
	if err := sim.Snapshot(simBuf); err != nil {
		t.Fatal(err)
	}
	worldBuf := new(bytes.Buffer)
	if err := world.Snapshot(worldBuf); err != nil {
		t.Fatal(err)
	}

	restoredWorld := worlds.New()
	if err := restoredWorld.Restore(worldBuf); err != nil {
		t.Fatal(err)
	}
	restored := New(restoredWorld, program, Options{})
	if err := restored.Restore(simBuf); err != nil {
		t.Fatal(err)
	}
	if restored.State() != Paused || restored.Actions() != 7 {
		t.Fatalf("got %v %d", restored.State(), restored.Actions())
	}
	if len(restored.Stack()) != len(sim.Stack()) {
		t.Fatalf("got %v", restored.Stack())
	}
	if err := restored.Resume(); err != nil {
		t.Fatal(err)
	}
	if state, err := restored.RunToCompletion(t.Context()); err != nil || state != Finished {
		t.Fatalf("got %v %v", state, err)
	}
	if restored.Actions() != 25 {
		t.Fatalf("got %d", restored.Actions())
	}

	if restoredWorld.Position() != reference.Position() {
		t.Fatalf("got %v, expected %v", restoredWorld.Position(), reference.Position())
	}
	if restoredWorld.NumCubes() != reference.NumCubes() {
		t.Fatalf("got %v, expected %v", restoredWorld.Cubes(), reference.Cubes())
	}
	for _, v := range reference.Cubes() {
		if !restoredWorld.HasCube(v) {
			t.Fatalf("missing %v", v)
		}
	}
}

func TestSnapshotErrored(t *testing.T) {
	sim := start(t, worlds.New(), parse(t, "repeat 2 times:\n  RemoveCube(1)\n"))
	steps(t, sim)
	buf := new(bytes.Buffer)
	if err := sim.Snapshot(buf); err != nil {
		t.Fatal(err)
	}

	restored := New(worlds.New(), sim.Program(), Options{})
	if err := restored.Restore(buf); err != nil {
		t.Fatal(err)
	}
	if restored.State() != Errored {
		t.Fatalf("got %v", restored.State())
	}
	err := restored.Err()
	if err == nil || !errors.Is(err, worlds.ErrNothingToRemove) {
		t.Fatalf("got %v", err)
	}
	if err.Error() != sim.Err().Error() {
		t.Fatalf("got %v", err)
	}
	if len(err.Stack) != 2 {
		t.Fatalf("got %v", err.Stack)
	}
}
