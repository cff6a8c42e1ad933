package sims

import (
	"errors"

	"github.com/reusee/cubes/configs"
)

type Config struct {
	MaxStructural int `json:"max_structural,omitempty"`
}

// OptionsFromConfig reads the "simulator" value of the loader. Fields
// left unset keep their defaults.
func OptionsFromConfig(loader configs.Loader) (Options, error) {
	var config Config
	if err := loader.AssignFirst("simulator", &config); err != nil && !errors.Is(err, configs.ErrValueNotFound) {
		return Options{}, err
	}
	return Options{
		MaxStructural: config.MaxStructural,
	}, nil
}
