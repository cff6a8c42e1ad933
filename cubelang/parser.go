package cubelang

import (
	"io"
	"maps"
	"math"
	"slices"
	"strconv"
)

// Parse reads the whole source and returns the program, or a *SyntaxError
// for the first problem found.
//
// Procedure definitions are hoisted: a call may appear before the
// definition it refers to. Calls are resolved in a second pass once every
// definition is known. Definitions are only allowed at the top level, and
// a procedure may not reach itself through calls, since without
// conditionals such a program can never finish.
func Parse(name string, source io.Reader) (*Program, error) {
	content, err := io.ReadAll(source)
	if err != nil {
		return nil, err
	}
	return ParseString(name, string(content))
}

func ParseString(name string, text string) (*Program, error) {
	return parse(NewSource(name, text), nil)
}

// ParseWithPrelude is like Parse, with the procedures of prelude already
// defined. Programs may call them anywhere but may not redefine them.
func ParseWithPrelude(name string, source io.Reader, prelude *Program) (*Program, error) {
	content, err := io.ReadAll(source)
	if err != nil {
		return nil, err
	}
	return parse(NewSource(name, string(content)), prelude)
}

func parse(src *Source, prelude *Program) (*Program, error) {
	tokens, err := Tokenize(src)
	if err != nil {
		return nil, err
	}

	program := EmptyProgram()
	if prelude != nil {
		maps.Copy(program.Procedures, prelude.Procedures)
	}
	p := &parser{
		source:  src,
		tokens:  tokens,
		program: program,
		prelude: prelude,
	}
	if err := p.parseProgram(); err != nil {
		return nil, err
	}
	if err := p.resolve(); err != nil {
		return nil, err
	}
	return p.program, nil
}

type parser struct {
	source  *Source
	tokens  []Token
	index   int
	program *Program
	prelude *Program
	calls   []callSite
}

// callSite is a procedure call waiting for resolution
type callSite struct {
	call  *ProcCall
	owner *ProcDef // nil at top level
}

func (p *parser) current() Token {
	return p.tokens[p.index]
}

func (p *parser) consume() Token {
	tok := p.tokens[p.index]
	if tok.Kind != TokenEOF {
		p.index++
	}
	return tok
}

func (p *parser) errorf(pos Pos, format string, args ...any) error {
	return errorAt(p.source, pos, format, args...)
}

func (p *parser) isSymbol(text string) bool {
	tok := p.current()
	return tok.Kind == TokenSymbol && tok.Text == text
}

func (p *parser) expectSymbol(text string) error {
	if !p.isSymbol(text) {
		tok := p.current()
		return p.errorf(tok.Pos, "expected '%s', got %s", text, tok.describe())
	}
	p.consume()
	return nil
}

func (p *parser) expectIdentifier(what string) (Token, error) {
	tok := p.current()
	if tok.Kind != TokenIdentifier {
		return tok, p.errorf(tok.Pos, "expected %s, got %s", what, tok.describe())
	}
	p.consume()
	return tok, nil
}

func (p *parser) expectNewline() error {
	tok := p.current()
	if tok.Kind != TokenNewline {
		return p.errorf(tok.Pos, "unexpected %s after statement", tok.describe())
	}
	p.consume()
	return nil
}

func (p *parser) parseProgram() error {
	for {
		tok := p.current()
		if tok.Kind == TokenEOF {
			return nil
		}
		stmt, err := p.parseStatement(nil)
		if err != nil {
			return err
		}
		p.program.Statements = append(p.program.Statements, stmt)
	}
}

// parseBody parses the indented block after a header line
func (p *parser) parseBody(header Pos, owner *ProcDef) ([]Statement, error) {
	tok := p.current()
	if tok.Kind != TokenIndent {
		return nil, p.errorf(tok.Pos, "expected an indented block after line %d", header.Line)
	}
	p.consume()

	var body []Statement
	for {
		tok := p.current()
		if tok.Kind == TokenDedent {
			p.consume()
			return body, nil
		}
		stmt, err := p.parseStatement(owner)
		if err != nil {
			return nil, err
		}
		body = append(body, stmt)
	}
}

func (p *parser) parseStatement(owner *ProcDef) (Statement, error) {
	tok := p.current()
	switch tok.Kind {
	case TokenIndent:
		return nil, p.errorf(tok.Pos, "unexpected indent")
	case TokenIdentifier:
	default:
		return nil, p.errorf(tok.Pos, "expected statement, got %s", tok.describe())
	}

	switch tok.Text {
	case keywordRepeat:
		return p.parseRepeat(owner)
	case keywordDefproc:
		if owner != nil {
			return nil, p.errorf(tok.Pos, "defproc is only allowed at the top level")
		}
		return p.parseProcDef()
	case keywordTimes:
		return nil, p.errorf(tok.Pos, "unexpected keyword 'times'")
	}

	p.consume()
	args, err := p.parseArgs(owner)
	if err != nil {
		return nil, err
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	if prim, ok := LookupPrimitive(tok.Text); ok {
		if len(args) != prim.Arity() {
			return nil, p.errorf(tok.Pos, "%s expects %d %s, got %d",
				tok.Text, prim.Arity(), plural(prim.Arity(), "argument"), len(args))
		}
		return &PrimitiveCall{
			Pos:       tok.Pos,
			Primitive: prim,
			Args:      args,
		}, nil
	}

	call := &ProcCall{
		Pos:  tok.Pos,
		Name: tok.Text,
		Args: args,
	}
	p.calls = append(p.calls, callSite{
		call:  call,
		owner: owner,
	})
	return call, nil
}

// repeat <count> times[:]
func (p *parser) parseRepeat(owner *ProcDef) (Statement, error) {
	header := p.consume()

	count, err := p.parseCount()
	if err != nil {
		return nil, err
	}

	tok := p.current()
	if tok.Kind != TokenIdentifier || tok.Text != keywordTimes {
		return nil, p.errorf(tok.Pos, "expected 'times', got %s", tok.describe())
	}
	p.consume()
	if p.isSymbol(":") {
		p.consume()
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	body, err := p.parseBody(header.Pos, owner)
	if err != nil {
		return nil, err
	}
	return &Repeat{
		Pos:   header.Pos,
		Count: count,
		Body:  body,
	}, nil
}

func (p *parser) parseCount() (int, error) {
	tok := p.current()
	if tok.Kind == TokenSymbol && tok.Text == "-" {
		return 0, p.errorf(tok.Pos, "repeat count must be a positive integer")
	}
	if tok.Kind != TokenNumber {
		return 0, p.errorf(tok.Pos, "expected repeat count, got %s", tok.describe())
	}
	n, err := p.parseInt(tok)
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, p.errorf(tok.Pos, "repeat count must be a positive integer")
	}
	p.consume()
	return n, nil
}

func (p *parser) parseInt(tok Token) (int, error) {
	n, err := strconv.ParseInt(tok.Text, 10, 64)
	if err != nil || n > math.MaxInt32 {
		return 0, p.errorf(tok.Pos, "integer literal %s out of range", tok.Text)
	}
	return int(n), nil
}

// defproc <name>(<params>)[:]
func (p *parser) parseProcDef() (Statement, error) {
	header := p.consume()

	nameTok, err := p.expectIdentifier("procedure name")
	if err != nil {
		return nil, err
	}
	name := nameTok.Text
	if isReserved(name) {
		return nil, p.errorf(nameTok.Pos, "cannot define procedure %q: name is reserved", name)
	}
	if _, ok := p.prelude.Procedure(name); ok {
		return nil, p.errorf(nameTok.Pos, "cannot redefine prelude procedure %q", name)
	}
	if _, ok := p.program.Procedures[name]; ok {
		return nil, p.errorf(nameTok.Pos, "duplicate procedure %q", name)
	}

	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var params []string
	seen := make(map[string]bool)
	for !p.isSymbol(")") {
		if len(params) > 0 {
			if err := p.expectSymbol(","); err != nil {
				return nil, err
			}
		}
		tok, err := p.expectIdentifier("parameter name")
		if err != nil {
			return nil, err
		}
		if isReserved(tok.Text) {
			return nil, p.errorf(tok.Pos, "cannot use %q as a parameter name", tok.Text)
		}
		if seen[tok.Text] {
			return nil, p.errorf(tok.Pos, "duplicate parameter %q", tok.Text)
		}
		seen[tok.Text] = true
		params = append(params, tok.Text)
	}
	p.consume()
	if p.isSymbol(":") {
		p.consume()
	}
	if err := p.expectNewline(); err != nil {
		return nil, err
	}

	def := &ProcDef{
		Pos:    header.Pos,
		Name:   name,
		Params: params,
	}
	// registered before the body so the body can be checked against it
	p.program.Procedures[name] = def

	body, err := p.parseBody(header.Pos, def)
	if err != nil {
		return nil, err
	}
	def.Body = body
	return def, nil
}

// ( [arg {, arg}] )
func (p *parser) parseArgs(owner *ProcDef) ([]Arg, error) {
	if err := p.expectSymbol("("); err != nil {
		return nil, err
	}
	var args []Arg
	for !p.isSymbol(")") {
		if len(args) > 0 {
			if err := p.expectSymbol(","); err != nil {
				return nil, err
			}
		}
		arg, err := p.parseArg(owner)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
	}
	p.consume()
	return args, nil
}

func (p *parser) parseArg(owner *ProcDef) (Arg, error) {
	tok := p.current()
	switch tok.Kind {

	case TokenNumber:
		n, err := p.parseInt(tok)
		if err != nil {
			return Arg{}, err
		}
		p.consume()
		return Lit(n), nil

	case TokenIdentifier:
		if owner == nil || !slices.Contains(owner.Params, tok.Text) {
			return Arg{}, p.errorf(tok.Pos, "unknown identifier %q", tok.Text)
		}
		p.consume()
		return Ref(tok.Text), nil

	case TokenSymbol:
		if tok.Text == "-" {
			return Arg{}, p.errorf(tok.Pos, "negative literal not allowed")
		}

	}
	return Arg{}, p.errorf(tok.Pos, "expected argument, got %s", tok.describe())
}

func plural(n int, word string) string {
	if n == 1 {
		return word
	}
	return word + "s"
}
