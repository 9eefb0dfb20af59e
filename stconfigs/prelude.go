package stconfigs

import (
	"io"
	"path/filepath"
	"slices"

	"github.com/udoprog/st/cmds"
	"github.com/udoprog/st/configs"
	"github.com/udoprog/st/hosts"
	"github.com/udoprog/st/logs"
)

var preludeFlag = cmds.Collect[string]("-prelude")

// Prelude lists the starlark files that install host modules.
type Prelude []string

func (Module) Prelude(
	loader configs.Loader,
) Prelude {
	var ret Prelude
	ret = append(ret, *preludeFlag...)
	for paths := range configs.All[[]string](loader, "prelude") {
		ret = append(ret, paths...)
	}
	return slices.Compact(ret)
}

// NewHostContext builds the runtime context: std, then every prelude module.
type NewHostContext func(out io.Writer) (*hosts.Context, error)

func (Module) NewHostContext(
	prelude Prelude,
	logger logs.Logger,
) NewHostContext {
	return func(out io.Writer) (*hosts.Context, error) {
		ctx, err := hosts.Default(out)
		if err != nil {
			return nil, err
		}
		for _, path := range prelude {
			m, err := hosts.LoadStarlark(filepath.Clean(path), nil)
			if err != nil {
				return nil, err
			}
			if err := ctx.Install(m); err != nil {
				return nil, err
			}
			logger.Debug("prelude",
				"path", path,
				"module", m.Item.String(),
			)
		}
		return ctx, nil
	}
}
