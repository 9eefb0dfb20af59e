package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/udoprog/st/compiler"
	"github.com/udoprog/st/logs"
	"github.com/udoprog/st/sources"
	"github.com/udoprog/st/stconfigs"
	"github.com/udoprog/st/units"
)

// Build compiles the root sources at paths and reports diagnostics on stderr.
type Build func(ctx context.Context, paths []string) (*compiler.Result, error)

func (Module) Build(
	logger logs.Logger,
	newSpan logs.NewSpan,
	options compiler.Options,
	newHostContext stconfigs.NewHostContext,
) Build {
	return func(ctx context.Context, paths []string) (*compiler.Result, error) {
		ctx, _ = newSpan(ctx, "")

		hostContext, err := newHostContext(os.Stdout)
		if err != nil {
			return nil, logs.WrapSpan(ctx, err)
		}

		srcs := new(sources.Sources)
		for _, path := range paths {
			source, err := sources.ReadFile(path)
			if err != nil {
				return nil, logs.WrapSpan(ctx, err)
			}
			srcs.Insert(source)
		}

		result, err := compiler.Compile(ctx, compiler.CompileInput{
			Context: hostContext,
			Sources: srcs,
			Options: options,
			Loader:  sources.FileLoader{},
			Logger:  logger,
		})
		if err != nil {
			return nil, err
		}

		render(os.Stderr, srcs, result)
		logger.InfoContext(ctx, "build",
			"sources", srcs.Len(),
			"functions", result.Unit.Len(),
			"errors", result.Errors.Len(),
			"warnings", result.Warnings.Len(),
		)
		return result, nil
	}
}

func dumpUnit(w io.Writer, unit *units.Unit) {
	for _, fn := range unit.Functions() {
		fmt.Fprintf(w, "%v (%v):\n", fn, fn.Hash)
		io.WriteString(w, fn.Assembly.Dump())
	}
}
