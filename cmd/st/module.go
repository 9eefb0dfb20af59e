package main

import (
	"github.com/reusee/dscope"
	"github.com/udoprog/st/debugs"
	"github.com/udoprog/st/stconfigs"
)

type Module struct {
	dscope.Module
	Configs stconfigs.Module
	Debugs  debugs.Module
}
