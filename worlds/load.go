package worlds

import (
	"errors"

	"github.com/reusee/cubes/configs"
	"github.com/reusee/cubes/vars"
)

type Config struct {
	Robot       *RobotConfig `json:"robot,omitempty"`
	Cubes       []Vec        `json:"cubes,omitempty"`
	Bounds      *Bounds      `json:"bounds,omitempty"`
	PlacePolicy string       `json:"place_policy,omitempty"`
}

type RobotConfig struct {
	X      *int   `json:"x,omitempty"`
	Y      *int   `json:"y,omitempty"`
	Z      *int   `json:"z,omitempty"`
	Facing string `json:"facing,omitempty"`
}

// Load builds a world from the "world" value of the loader. A missing
// value gives an empty unbounded world.
func Load(loader configs.Loader) (*World, error) {
	var config Config
	if err := loader.AssignFirst("world", &config); err != nil && !errors.Is(err, configs.ErrValueNotFound) {
		return nil, err
	}
	return FromConfig(config)
}

func FromConfig(config Config) (*World, error) {
	world := New()

	policy, err := ParsePlacePolicy(config.PlacePolicy)
	if err != nil {
		return nil, err
	}
	world.SetPlacePolicy(policy)

	if config.Bounds != nil {
		world.SetBounds(*config.Bounds)
	}

	if robot := config.Robot; robot != nil {
		facing, err := ParseFacing(vars.FirstNonZero(robot.Facing, "+x"))
		if err != nil {
			return nil, err
		}
		world.SetRobot(Vec{
			X: vars.DerefOrZero(robot.X),
			Y: vars.DerefOrZero(robot.Y),
			Z: vars.DerefOrZero(robot.Z),
		}, facing)
	}

	for _, cube := range config.Cubes {
		if err := world.SetCube(cube); err != nil {
			return nil, err
		}
	}

	world.MarkDirty()
	return world, nil
}
