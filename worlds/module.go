package worlds

import (
	"github.com/reusee/cubes/configs"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Configs configs.Module
}

type NewWorld func() (*World, error)

func (Module) NewWorld(
	loader configs.Loader,
	logger logs.Logger,
) NewWorld {
	return func() (*World, error) {
		world, err := Load(loader)
		if err != nil {
			return nil, err
		}
		paths, err := loader.Paths()
		if err != nil {
			return nil, err
		}
		logger.Debug("world loaded",
			"configs", paths,
			"robot", world.Position().String(),
			"facing", world.Facing().String(),
			"cubes", world.NumCubes(),
		)
		return world, nil
	}
}
