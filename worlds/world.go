package worlds

import (
	"fmt"
	"maps"
	"slices"
)

type PlacePolicy uint8

const (
	// PlaceError rejects placing onto an occupied cell with ErrOccupied
	PlaceError PlacePolicy = iota
	// PlaceSkip leaves occupied cells as they are and moves on
	PlaceSkip
)

func ParsePlacePolicy(str string) (PlacePolicy, error) {
	switch str {
	case "", "error":
		return PlaceError, nil
	case "skip":
		return PlaceSkip, nil
	}
	return 0, fmt.Errorf("unknown place policy: %q", str)
}

func (p PlacePolicy) String() string {
	switch p {
	case PlaceError:
		return "error"
	case PlaceSkip:
		return "skip"
	}
	return fmt.Sprintf("PlacePolicy(%d)", p)
}

// World is a sparse cube grid with a single robot.
// Cubes are placed and removed in the column beneath the robot.
type World struct {
	cubes    map[Vec]bool
	position Vec
	facing   Facing
	bounds   *Bounds
	policy   PlacePolicy
	dirty    bool
}

func New() *World {
	return &World{
		cubes: make(map[Vec]bool),
	}
}

func (w *World) Position() Vec {
	return w.position
}

func (w *World) Facing() Facing {
	return w.facing
}

func (w *World) HasCube(v Vec) bool {
	return w.cubes[v]
}

func (w *World) NumCubes() int {
	return len(w.cubes)
}

// Cubes returns occupied cells ordered by Z, then Y, then X.
func (w *World) Cubes() []Vec {
	ret := slices.Collect(maps.Keys(w.cubes))
	slices.SortFunc(ret, func(a, b Vec) int {
		if a.Less(b) {
			return -1
		}
		if b.Less(a) {
			return 1
		}
		return 0
	})
	return ret
}

func (w *World) Bounds() (Bounds, bool) {
	if w.bounds == nil {
		return Bounds{}, false
	}
	return *w.bounds, true
}

func (w *World) PlacePolicy() PlacePolicy {
	return w.policy
}

func (w *World) Dirty() bool {
	return w.dirty
}

func (w *World) MarkDirty() {
	w.dirty = true
}

func (w *World) ClearDirty() {
	w.dirty = false
}

// setup, used by hosts and loaders

func (w *World) SetRobot(pos Vec, facing Facing) {
	w.position = pos
	w.facing = facing % 4
	w.dirty = true
}

func (w *World) SetBounds(b Bounds) {
	w.bounds = &b
	w.dirty = true
}

func (w *World) SetPlacePolicy(p PlacePolicy) {
	w.policy = p
}

func (w *World) SetCube(v Vec) error {
	if v == w.position {
		return &ActionError{Op: "set_cube", At: v, Kind: KindOccupied}
	}
	if !w.inBounds(v) {
		return &ActionError{Op: "set_cube", At: v, Kind: KindOutOfBounds}
	}
	w.cubes[v] = true
	w.dirty = true
	return nil
}

func (w *World) Clone() *World {
	ret := &World{
		cubes:    maps.Clone(w.cubes),
		position: w.position,
		facing:   w.facing,
		policy:   w.policy,
		dirty:    w.dirty,
	}
	if w.bounds != nil {
		b := *w.bounds
		ret.bounds = &b
	}
	return ret
}

func (w *World) String() string {
	return fmt.Sprintf("robot %s facing %s, %d cubes", w.position, w.facing, len(w.cubes))
}

func (w *World) inBounds(v Vec) bool {
	return w.bounds == nil || w.bounds.Contains(v)
}

// primitives

func (w *World) MoveForward(n int) error {
	return w.walk("forward", w.facing.Delta(), n)
}

func (w *World) Ascend(n int) error {
	return w.walk("ascend", up, n)
}

func (w *World) Descend(n int) error {
	return w.walk("descend", down, n)
}

// walk moves the robot up to n cells along delta, a unit axis vector.
// Cells passed before a blocked cell are kept. The cost depends on the
// number of cubes, not on n.
func (w *World) walk(op string, delta Vec, n int) error {
	if n < 0 {
		return &ActionError{Op: op, At: w.position, Kind: KindNegativeCount}
	}
	// stop is the distance of the first cell that cannot be entered
	stop := n + 1
	for cube := range w.cubes {
		k := cube.Sub(w.position).Dot(delta)
		if k >= 1 && k < stop && w.position.Add(delta.Scale(k)) == cube {
			stop = k
		}
	}
	if w.bounds != nil {
		if !w.bounds.Contains(w.position.Add(delta)) {
			stop = 1
		} else {
			limit := max(w.bounds.Max.Dot(delta), w.bounds.Min.Dot(delta))
			stop = min(stop, limit-w.position.Dot(delta)+1)
		}
	}
	if stop > n {
		w.position = w.position.Add(delta.Scale(n))
		if n > 0 {
			w.dirty = true
		}
		return nil
	}
	if stop > 1 {
		w.position = w.position.Add(delta.Scale(stop - 1))
		w.dirty = true
	}
	return &ActionError{Op: op, At: w.position.Add(delta), Kind: KindBlocked}
}

func (w *World) TurnLeft() {
	w.facing = w.facing.Left()
	w.dirty = true
}

func (w *World) TurnRight() {
	w.facing = w.facing.Right()
	w.dirty = true
}

// PlaceCube fills the n cells directly beneath the robot, top down.
// Each filled cell is stored, so the cost grows with n.
func (w *World) PlaceCube(n int) error {
	if n < 0 {
		return &ActionError{Op: "place_cube", At: w.position, Kind: KindNegativeCount}
	}
	cell := w.position
	for range n {
		cell = cell.Add(down)
		if !w.inBounds(cell) {
			return &ActionError{Op: "place_cube", At: cell, Kind: KindOutOfBounds}
		}
		if w.cubes[cell] {
			if w.policy == PlaceSkip {
				continue
			}
			return &ActionError{Op: "place_cube", At: cell, Kind: KindOccupied}
		}
		w.cubes[cell] = true
		w.dirty = true
	}
	return nil
}

// RemoveCube clears the n cells directly beneath the robot, top down.
func (w *World) RemoveCube(n int) error {
	if n < 0 {
		return &ActionError{Op: "remove_cube", At: w.position, Kind: KindNegativeCount}
	}
	cell := w.position
	for range n {
		cell = cell.Add(down)
		if !w.cubes[cell] {
			return &ActionError{Op: "remove_cube", At: cell, Kind: KindNothingToRemove}
		}
		delete(w.cubes, cell)
		w.dirty = true
	}
	return nil
}
