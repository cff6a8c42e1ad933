package configs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/reusee/cubes/cmds"
	"github.com/reusee/cubes/logs"
	"github.com/reusee/dscope"
)

//go:embed schema.cue
var Schema string

var configFlag = cmds.Collect[string]("config")

type Module struct {
	dscope.Module
	Logs logs.Module
}

// Loader reads files given by the "config" word, then cubes.cue files
// found in the working directory, the user config directory and /etc.
func (Module) Loader(
	logger logs.Logger,
) Loader {

	paths := append([]string(nil), (*configFlag)...)
	defer func() {
		if len(paths) > 0 {
			logger.Info("config file",
				"paths", paths,
			)
		}
	}()

	filenames := []string{
		"cubes.cue",
		".cubes.cue",
	}

	var dirs []string
	if workingDir, err := os.Getwd(); err == nil {
		dirs = append(dirs, workingDir)
	}
	if configDir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, configDir)
	}
	dirs = append(dirs, "/etc")

	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}

	return NewLoader(paths, Schema)
}
