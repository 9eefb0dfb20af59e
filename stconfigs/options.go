package stconfigs

import (
	"github.com/udoprog/st/cmds"
	"github.com/udoprog/st/compiler"
	"github.com/udoprog/st/configs"
	"github.com/udoprog/st/modes"
	"github.com/udoprog/st/vars"
)

var (
	macrosFlag   bool
	verifyFlag   = cmds.Switch("-verify")
	requiresFlag = cmds.Var[string]("-requires")
)

func init() {
	cmds.Define("-macros", cmds.Func(func() {
		macrosFlag = true
	}).Desc("allow macro calls"))
}

// Options merges command flags over the config files. Development builds
// always verify.
func (Module) Options(
	loader configs.Loader,
	mode modes.Mode,
) compiler.Options {
	return compiler.Options{
		Macros: macrosFlag || configs.First[bool](loader, "macros"),
		Verify: *verifyFlag ||
			configs.First[bool](loader, "verify") ||
			mode == modes.ModeDevelopment,
		Requires: vars.FirstNonZero(
			*requiresFlag,
			configs.First[string](loader, "requires"),
		),
	}
}
