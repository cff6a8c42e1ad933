package main

import (
	"context"
	"fmt"
	"os"

	"github.com/reusee/cubes/cmds"
	"github.com/reusee/cubes/debugs"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/cubes/modes"
	"github.com/reusee/dscope"
)

var (
	runFile   = cmds.Var[string]("run")
	traceFlag = cmds.Switch("trace")
	tapFlag   = cmds.Switch("tap")
	evalExprs = cmds.Collect[string]("eval")
)

func main() {
	cmds.Execute(os.Args[1:])
	if *runFile == "" {
		cmds.GlobalExecutor.PrintUsage()
		os.Exit(1)
	}
	ctx := context.Background()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		newSpan logs.NewSpan,
		run Run,
		tap debugs.Tap,
		inspect Inspect,
	) {
		ctx, _ := newSpan(ctx, "")

		f, err := os.Open(*runFile)
		ce(err)
		world, err := run(ctx, *runFile, f, os.Stdout)
		f.Close()

		if world != nil && *tapFlag {
			tap(ctx, "world", debugs.WorldGlobals(world))
		}
		if world != nil {
			ce(inspect(ctx, world, *evalExprs, os.Stdout))
		}
		ce(err)
	})
}

func ce(err error) {
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
