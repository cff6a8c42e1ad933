package sims

import (
	"slices"

	"github.com/reusee/cubes/cubelang"
)

// Validate checks the invariants the parser guarantees, for programs that
// were built by hand. Parsed programs always pass.
func Validate(program *cubelang.Program) error {
	v := &validator{
		program: program,
		state:   make(map[string]int),
	}
	if err := v.block(program.Statements, nil); err != nil {
		return err
	}
	for name, def := range program.Procedures {
		if def == nil || def.Name != name {
			return malformed("procedure table entry %q does not match its definition", name)
		}
		if err := v.proc(def); err != nil {
			return err
		}
	}
	return nil
}

const (
	visiting = iota + 1
	visited
)

type validator struct {
	program *cubelang.Program
	state   map[string]int
}

func (v *validator) proc(def *cubelang.ProcDef) error {
	switch v.state[def.Name] {
	case visiting:
		return malformed("recursive call to %q", def.Name)
	case visited:
		return nil
	}
	v.state[def.Name] = visiting
	if err := v.block(def.Body, def); err != nil {
		return err
	}
	v.state[def.Name] = visited
	return nil
}

// owner is the enclosing procedure, nil at top level
func (v *validator) block(body []cubelang.Statement, owner *cubelang.ProcDef) error {
	var params []string
	if owner != nil {
		params = owner.Params
	}
	for _, stmt := range body {
		switch stmt := stmt.(type) {

		case *cubelang.PrimitiveCall:
			if _, ok := cubelang.LookupPrimitive(stmt.Primitive.String()); !ok {
				return malformed("unknown primitive %d", stmt.Primitive)
			}
			if stmt.Primitive.Arity() != len(stmt.Args) {
				return malformed("%s expects %d arguments, got %d", stmt.Primitive, stmt.Primitive.Arity(), len(stmt.Args))
			}
			if err := v.args(stmt.Args, params); err != nil {
				return err
			}

		case *cubelang.Repeat:
			if stmt.Count < 0 {
				return malformed("negative repeat count %d", stmt.Count)
			}
			if err := v.block(stmt.Body, owner); err != nil {
				return err
			}

		case *cubelang.ProcCall:
			def, ok := v.program.Procedures[stmt.Name]
			if !ok {
				return malformed("unknown procedure %q", stmt.Name)
			}
			if len(def.Params) != len(stmt.Args) {
				return malformed("%s expects %d arguments, got %d", def.Name, len(def.Params), len(stmt.Args))
			}
			if err := v.args(stmt.Args, params); err != nil {
				return err
			}
			if err := v.proc(def); err != nil {
				return err
			}

		case *cubelang.ProcDef:
			if owner != nil {
				return malformed("nested definition of %q", stmt.Name)
			}
			if v.program.Procedures[stmt.Name] != stmt {
				return malformed("procedure %q is not in the procedure table", stmt.Name)
			}

		default:
			return malformed("unknown statement %T", stmt)
		}
	}
	return nil
}

func (v *validator) args(args []cubelang.Arg, params []string) error {
	for _, arg := range args {
		if !arg.IsParam() {
			if arg.Value < 0 {
				return malformed("negative argument %d", arg.Value)
			}
			continue
		}
		if !slices.Contains(params, arg.Param) {
			return malformed("unbound parameter %q", arg.Param)
		}
	}
	return nil
}
