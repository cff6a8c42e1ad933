package worlds

import (
	"encoding/gob"
	"io"
)

type snapshot struct {
	Cubes    []Vec
	Position Vec
	Facing   Facing
	Bounds   *Bounds
	Policy   PlacePolicy
}

// Snapshot writes the world in gob encoding. The dirty flag is not saved.
func (w *World) Snapshot(writer io.Writer) error {
	enc := gob.NewEncoder(writer)
	if err := enc.Encode(snapshot{
		Cubes:    w.Cubes(),
		Position: w.position,
		Facing:   w.facing,
		Bounds:   w.bounds,
		Policy:   w.policy,
	}); err != nil {
		return err
	}
	return nil
}

// Restore replaces the world with a snapshot and marks it dirty.
func (w *World) Restore(reader io.Reader) error {
	var snap snapshot
	dec := gob.NewDecoder(reader)
	if err := dec.Decode(&snap); err != nil {
		return err
	}
	w.cubes = make(map[Vec]bool, len(snap.Cubes))
	for _, v := range snap.Cubes {
		w.cubes[v] = true
	}
	w.position = snap.Position
	w.facing = snap.Facing % 4
	w.bounds = snap.Bounds
	w.policy = snap.Policy
	w.dirty = true
	return nil
}
