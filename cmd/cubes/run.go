package main

import (
	"context"
	"fmt"
	"io"

	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/cubes/sims"
	"github.com/reusee/cubes/worlds"
)

// Run parses a program against the standard prelude, runs it against a freshly loaded world and prints
// the final robot state. The world is returned even when the run fails.
type Run func(ctx context.Context, name string, source io.Reader, out io.Writer) (*worlds.World, error)

func (Module) Run(
	logger logs.Logger,
	newWorld worlds.NewWorld,
	newSimulator sims.NewSimulator,
	trace Trace,
) Run {
	return func(ctx context.Context, name string, source io.Reader, out io.Writer) (*worlds.World, error) {
		program, err := cubelang.ParseWithPrelude(name, source, cubelang.Stdlib())
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}
		logger.InfoContext(ctx, "program parsed",
			"name", name,
			"statements", len(program.Statements),
			"procedures", len(program.Procedures),
		)

		world, err := newWorld()
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}

		var onAction func(sims.Event)
		if trace {
			onAction = func(event sims.Event) {
				fmt.Fprintf(out, "%s\t%s\n", event, world)
			}
		}
		sim, err := newSimulator(world, program, onAction)
		if err != nil {
			return world, logs.WrapSpan(ctx, err)
		}

		if err := sim.Start(); err != nil {
			return world, logs.WrapSpan(ctx, err)
		}
		state, err := sim.RunToCompletion(ctx)
		if err != nil {
			return world, logs.WrapSpan(ctx, err)
		}
		logger.InfoContext(ctx, "run done",
			"state", state.String(),
			"actions", sim.Actions(),
		)
		fmt.Fprintf(out, "%s after %d actions\n", world, sim.Actions())

		if state == sims.Errored {
			return world, logs.WrapSpan(ctx, sim.Err())
		}
		return world, nil
	}
}
