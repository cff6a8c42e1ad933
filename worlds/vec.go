package worlds

import "fmt"

// Vec is an integer grid coordinate. Z is the vertical axis.
type Vec struct {
	X int `json:"x"`
	Y int `json:"y"`
	Z int `json:"z"`
}

func (v Vec) Add(o Vec) Vec {
	return Vec{
		X: v.X + o.X,
		Y: v.Y + o.Y,
		Z: v.Z + o.Z,
	}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{
		X: v.X - o.X,
		Y: v.Y - o.Y,
		Z: v.Z - o.Z,
	}
}

func (v Vec) Scale(k int) Vec {
	return Vec{
		X: v.X * k,
		Y: v.Y * k,
		Z: v.Z * k,
	}
}

func (v Vec) Dot(o Vec) int {
	return v.X*o.X + v.Y*o.Y + v.Z*o.Z
}

func (v Vec) Less(o Vec) bool {
	if v.Z != o.Z {
		return v.Z < o.Z
	}
	if v.Y != o.Y {
		return v.Y < o.Y
	}
	return v.X < o.X
}

func (v Vec) String() string {
	return fmt.Sprintf("(%d,%d,%d)", v.X, v.Y, v.Z)
}

var (
	up   = Vec{Z: 1}
	down = Vec{Z: -1}
)

// Bounds is an inclusive box.
type Bounds struct {
	Min Vec `json:"min"`
	Max Vec `json:"max"`
}

func (b Bounds) Contains(v Vec) bool {
	return v.X >= b.Min.X && v.X <= b.Max.X &&
		v.Y >= b.Min.Y && v.Y <= b.Max.Y &&
		v.Z >= b.Min.Z && v.Z <= b.Max.Z
}
