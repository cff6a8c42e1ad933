package worlds

import "fmt"

type Facing uint8

// counterclockwise order seen from above, so a left turn is +1
const (
	FacingPosX Facing = iota
	FacingPosY
	FacingNegX
	FacingNegY
)

var facingDeltas = [...]Vec{
	FacingPosX: {X: 1},
	FacingPosY: {Y: 1},
	FacingNegX: {X: -1},
	FacingNegY: {Y: -1},
}

var facingNames = [...]string{
	FacingPosX: "+x",
	FacingPosY: "+y",
	FacingNegX: "-x",
	FacingNegY: "-y",
}

func (f Facing) Delta() Vec {
	return facingDeltas[f%4]
}

func (f Facing) Left() Facing {
	return (f + 1) % 4
}

func (f Facing) Right() Facing {
	return (f + 3) % 4
}

func (f Facing) String() string {
	if int(f) < len(facingNames) {
		return facingNames[f]
	}
	return fmt.Sprintf("Facing(%d)", f)
}

func ParseFacing(str string) (Facing, error) {
	for i, name := range facingNames {
		if name == str {
			return Facing(i), nil
		}
	}
	return 0, fmt.Errorf("unknown facing: %q", str)
}
