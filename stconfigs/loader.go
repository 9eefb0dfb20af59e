package stconfigs

import (
	_ "embed"
	"os"
	"path/filepath"

	"github.com/udoprog/st/configs"
	"github.com/udoprog/st/logs"
)

//go:embed schema.cue
var schema string

var filenames = []string{
	"st.cue",
	".st.cue",
}

// ConfigsLoader reads st.cue or .st.cue from the working directory, the user
// config directory and /etc, in that order of precedence.
func (Module) ConfigsLoader(
	logger logs.Logger,
) configs.Loader {
	var dirs []string
	if dir, err := os.Getwd(); err == nil {
		dirs = append(dirs, dir)
	}
	if dir, err := os.UserConfigDir(); err == nil {
		dirs = append(dirs, dir)
	}
	dirs = append(dirs, "/etc")

	paths := discover(dirs)
	if len(paths) > 0 {
		logger.Info("config file",
			"paths", paths,
		)
	}
	return configs.NewLoader(paths, schema)
}

func discover(dirs []string) []string {
	var paths []string
	for _, dir := range dirs {
		for _, filename := range filenames {
			path := filepath.Join(dir, filename)
			if _, err := os.Stat(path); err == nil {
				paths = append(paths, path)
			}
		}
	}
	return paths
}
