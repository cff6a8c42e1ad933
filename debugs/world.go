package debugs

import (
	"github.com/reusee/cubes/worlds"
)

// WorldGlobals exposes a read-only view of a world to starlark.
func WorldGlobals(world *worlds.World) map[string]any {
	return map[string]any{
		"robot":  world.Position(),
		"facing": world.Facing().String(),
		"cubes":  world.Cubes(),
		"dirty":  world.Dirty(),
		"has_cube": func(x, y, z int) bool {
			return world.HasCube(worlds.Vec{X: x, Y: y, Z: z})
		},
	}
}
