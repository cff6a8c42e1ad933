package cubelang

import (
	_ "embed"
	"sync"
)

// ParsePrelude parses a source made only of procedure definitions, for use
// with ParseWithPrelude.
func ParsePrelude(name string, text string) (*Program, error) {
	src := NewSource(name, text)
	program, err := parse(src, nil)
	if err != nil {
		return nil, err
	}
	for _, stmt := range program.Statements {
		if _, ok := stmt.(*ProcDef); !ok {
			return nil, errorAt(src, stmt.StatementPos(), "prelude may only define procedures")
		}
	}
	return program, nil
}

//go:embed stdlib.cubes
var stdlibSource string

var stdlib = sync.OnceValue(func() *Program {
	program, err := ParsePrelude("stdlib.cubes", stdlibSource)
	if err != nil {
		panic(err)
	}
	return program
})

// Stdlib returns the built-in prelude. It must not be modified.
func Stdlib() *Program {
	return stdlib()
}
