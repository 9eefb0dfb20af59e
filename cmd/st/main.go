package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/reusee/dscope"
	"github.com/udoprog/st/cmds"
	"github.com/udoprog/st/debugs"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/modes"
)

var (
	paths []string
	watch bool
	dump  = cmds.Switch("dump")
	tap   = cmds.Switch("tap")
)

func init() {
	cmds.Define("build", cmds.Func(func(path string) {
		paths = append(paths, path)
	}).Desc("compile a root source"))
	cmds.Define("watch", cmds.Func(func(path string) {
		paths = append(paths, path)
		watch = true
	}).Desc("compile a root source and recompile on changes"))
}

func main() {
	if err := cmds.Execute(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if len(paths) == 0 {
		cmds.PrintUsage()
		os.Exit(2)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	dscope.New(
		new(Module),
		modes.ForProduction(),
	).Call(func(
		build Build,
		watchPaths Watch,
		debugTap debugs.Tap,
		logger logs.Logger,
	) {
		if watch {
			if err := watchPaths(ctx, paths); err != nil {
				logger.Error("watch", "error", err)
				os.Exit(1)
			}
			return
		}

		result, err := build(ctx, paths)
		if err != nil {
			logger.Error("build", "error", err)
			os.Exit(1)
		}
		if *dump {
			dumpUnit(os.Stdout, result.Unit)
		}
		if *tap {
			debugTap(ctx, "unit", debugs.UnitGlobals(result.Unit))
		}
		if !result.Usable() {
			os.Exit(1)
		}
	})
}
