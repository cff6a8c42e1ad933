package sims

import (
	"github.com/reusee/cubes/configs"
	"github.com/reusee/cubes/cubelang"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/cubes/modes"
	"github.com/reusee/cubes/worlds"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Worlds worlds.Module
}

type NewSimulator func(world *worlds.World, program *cubelang.Program, onAction func(Event)) (*Simulator, error)

func (Module) NewSimulator(
	loader configs.Loader,
	logger logs.Logger,
	mode modes.Mode,
) NewSimulator {
	return func(world *worlds.World, program *cubelang.Program, onAction func(Event)) (*Simulator, error) {
		options, err := OptionsFromConfig(loader)
		if err != nil {
			return nil, err
		}
		if mode == modes.ModeDevelopment && program != nil {
			if err := Validate(program); err != nil {
				return nil, err
			}
		}
		options.Logger = logger
		options.OnAction = onAction
		return New(world, program, options), nil
	}
}
