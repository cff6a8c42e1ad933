package main

import (
	"github.com/reusee/cubes/debugs"
	"github.com/reusee/cubes/sims"
	"github.com/reusee/dscope"
)

type Module struct {
	dscope.Module
	Sims   sims.Module
	Debugs debugs.Module
}

// Trace enables printing every action as it runs
type Trace bool

func (Module) Trace() Trace {
	return Trace(*traceFlag)
}
