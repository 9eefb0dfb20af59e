package debugs

import (
	"github.com/reusee/dscope"
	"github.com/udoprog/st/logs"
)

type Module struct {
	dscope.Module
	Logs logs.Module
}
