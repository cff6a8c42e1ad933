package debugs

import (
	"testing"

	"github.com/reusee/cubes/worlds"
	"github.com/reusee/dscope"
)

func TestEvalWorld(t *testing.T) {
	world := worlds.New()
	world.SetRobot(worlds.Vec{X: 1, Y: 2, Z: 3}, worlds.FacingNegY)
	if err := world.SetCube(worlds.Vec{X: 1, Y: 2, Z: 2}); err != nil {
		t.Fatal(err)
	}
	globals := WorldGlobals(world)

	dscope.New(
		new(Module),
	).Call(func(
		eval Eval,
	) {
		for expr, expected := range map[string]string{
			`len(cubes)`:      "1",
			`robot["z"]`:      "3",
			`facing`:          `"-y"`,
			`cubes[0]["z"]`:   "2",
			`dirty and "yes"`: `"yes"`,
		} {
			got, err := eval(t.Context(), expr, globals)
			if err != nil {
				t.Fatalf("%s: %v", expr, err)
			}
			if got != expected {
				t.Fatalf("%s: got %s", expr, got)
			}
		}

		if _, err := eval(t.Context(), `robot[`, globals); err == nil {
			t.Fatal("should error")
		}
	})
}
