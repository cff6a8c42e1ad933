package cubelang

import (
	"fmt"
	"io"
	"strings"
)

const indentUnit = "    "

// Format writes the program back as canonical source. Parsing the output,
// with the same prelude, gives a program that runs the same actions.
// Loops that run no statement are left out.
func (p *Program) Format(w io.Writer) error {
	return formatBlock(w, p.Statements, 0)
}

func (p *Program) String() string {
	var sb strings.Builder
	_ = p.Format(&sb)
	return sb.String()
}

func formatBlock(w io.Writer, stmts []Statement, depth int) error {
	indent := strings.Repeat(indentUnit, depth)
	for _, stmt := range stmts {
		var err error
		switch stmt := stmt.(type) {

		case *PrimitiveCall:
			_, err = fmt.Fprintf(w, "%s%s(%s)\n", indent, stmt.Primitive, joinArgs(stmt.Args))

		case *ProcCall:
			_, err = fmt.Fprintf(w, "%s%s(%s)\n", indent, stmt.Name, joinArgs(stmt.Args))

		case *Repeat:
			if isNoop(stmt) {
				continue
			}
			if _, err = fmt.Fprintf(w, "%srepeat %d times:\n", indent, stmt.Count); err == nil {
				err = formatBlock(w, stmt.Body, depth+1)
			}

		case *ProcDef:
			if _, err = fmt.Fprintf(w, "%sdefproc %s(%s):\n", indent, stmt.Name, strings.Join(stmt.Params, ", ")); err == nil {
				err = formatBlock(w, stmt.Body, depth+1)
			}

		default:
			err = fmt.Errorf("unknown statement type %T", stmt)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func joinArgs(args []Arg) string {
	strs := make([]string, len(args))
	for i, arg := range args {
		strs[i] = arg.String()
	}
	return strings.Join(strs, ", ")
}

// isNoop reports whether a loop never reaches a statement: a zero count,
// or a body made only of such loops. Neither has a source form.
func isNoop(r *Repeat) bool {
	if r.Count == 0 {
		return true
	}
	for _, stmt := range r.Body {
		inner, ok := stmt.(*Repeat)
		if !ok || !isNoop(inner) {
			return false
		}
	}
	return true
}
