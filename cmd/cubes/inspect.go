package main

import (
	"context"
	"fmt"
	"io"

	"github.com/reusee/cubes/debugs"
	"github.com/reusee/cubes/worlds"
)

// Inspect evaluates expressions over the final world and prints one
// "expr = value" line each.
type Inspect func(ctx context.Context, world *worlds.World, exprs []string, out io.Writer) error

func (Module) Inspect(
	eval debugs.Eval,
) Inspect {
	return func(ctx context.Context, world *worlds.World, exprs []string, out io.Writer) error {
		globals := debugs.WorldGlobals(world)
		for _, expr := range exprs {
			value, err := eval(ctx, expr, globals)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "%s = %s\n", expr, value)
		}
		return nil
	}
}
