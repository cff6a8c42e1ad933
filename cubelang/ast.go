package cubelang

import "fmt"

type Primitive uint8

const (
	PrimForward Primitive = iota + 1
	PrimLeft
	PrimRight
	PrimUp
	PrimDown
	PrimPlaceCube
	PrimRemoveCube
)

type primitiveInfo struct {
	name  string
	arity int
}

var primitives = map[Primitive]primitiveInfo{
	PrimForward:    {"Forward", 1},
	PrimLeft:       {"Left", 0},
	PrimRight:      {"Right", 0},
	PrimUp:         {"Up", 1},
	PrimDown:       {"Down", 1},
	PrimPlaceCube:  {"PlaceCube", 1},
	PrimRemoveCube: {"RemoveCube", 1},
}

var primitiveNames = func() map[string]Primitive {
	ret := make(map[string]Primitive, len(primitives))
	for prim, info := range primitives {
		ret[info.name] = prim
	}
	return ret
}()

func LookupPrimitive(name string) (Primitive, bool) {
	prim, ok := primitiveNames[name]
	return prim, ok
}

func (p Primitive) String() string {
	if info, ok := primitives[p]; ok {
		return info.name
	}
	return fmt.Sprintf("Primitive(%d)", p)
}

func (p Primitive) Arity() int {
	return primitives[p].arity
}

const (
	keywordRepeat  = "repeat"
	keywordTimes   = "times"
	keywordDefproc = "defproc"
)

func isReserved(name string) bool {
	switch name {
	case keywordRepeat, keywordTimes, keywordDefproc:
		return true
	}
	_, ok := primitiveNames[name]
	return ok
}

// Arg is an integer literal, or a reference to a parameter of the
// enclosing procedure when Param is not empty.
type Arg struct {
	Value int
	Param string
}

func Lit(v int) Arg {
	return Arg{Value: v}
}

func Ref(param string) Arg {
	return Arg{Param: param}
}

func (a Arg) IsParam() bool {
	return a.Param != ""
}

func (a Arg) String() string {
	if a.Param != "" {
		return a.Param
	}
	return fmt.Sprint(a.Value)
}

type Statement interface {
	StatementPos() Pos
	isStatement()
}

type PrimitiveCall struct {
	Pos       Pos
	Primitive Primitive
	Args      []Arg
}

type Repeat struct {
	Pos   Pos
	Count int
	Body  []Statement
}

type ProcDef struct {
	Pos    Pos
	Name   string
	Params []string
	Body   []Statement
}

type ProcCall struct {
	Pos  Pos
	Name string
	Args []Arg
}

var (
	_ Statement = new(PrimitiveCall)
	_ Statement = new(Repeat)
	_ Statement = new(ProcDef)
	_ Statement = new(ProcCall)
)

func (p *PrimitiveCall) StatementPos() Pos { return p.Pos }
func (r *Repeat) StatementPos() Pos        { return r.Pos }
func (p *ProcDef) StatementPos() Pos       { return p.Pos }
func (p *ProcCall) StatementPos() Pos      { return p.Pos }

func (*PrimitiveCall) isStatement() {}
func (*Repeat) isStatement()        {}
func (*ProcDef) isStatement()       {}
func (*ProcCall) isStatement()      {}

// Program is the parsed form of a source text. Procedures is read-only
// once Parse returns.
type Program struct {
	Statements []Statement
	Procedures map[string]*ProcDef
}

// EmptyProgram is what an empty source parses to.
func EmptyProgram() *Program {
	return &Program{
		Procedures: make(map[string]*ProcDef),
	}
}

func (p *Program) Procedure(name string) (*ProcDef, bool) {
	if p == nil {
		return nil, false
	}
	def, ok := p.Procedures[name]
	return def, ok
}
