package cubelang

import (
	"unicode"
)

const tabWidth = 8

// Tokenizer turns source lines into tokens, emitting Indent and Dedent
// around changes of indentation and Newline at the end of each logical
// line. Blank and comment-only lines produce no tokens.
type Tokenizer struct {
	source  *Source
	indents []int
	tokens  []Token
}

func NewTokenizer(source *Source) *Tokenizer {
	return &Tokenizer{
		source:  source,
		indents: []int{0},
	}
}

func Tokenize(source *Source) ([]Token, error) {
	return NewTokenizer(source).Tokenize()
}

func (t *Tokenizer) Tokenize() ([]Token, error) {
	for i, line := range t.source.Lines {
		if err := t.tokenizeLine(i+1, []rune(line)); err != nil {
			return nil, err
		}
	}

	eofPos := Pos{
		Line:   len(t.source.Lines) + 1,
		Column: 1,
	}
	for len(t.indents) > 1 {
		t.indents = t.indents[:len(t.indents)-1]
		t.emit(TokenDedent, "", eofPos)
	}
	t.emit(TokenEOF, "", eofPos)

	return t.tokens, nil
}

func (t *Tokenizer) emit(kind TokenKind, text string, pos Pos) {
	t.tokens = append(t.tokens, Token{
		Kind: kind,
		Text: text,
		Pos:  pos,
	})
}

func (t *Tokenizer) tokenizeLine(lineNum int, line []rune) error {
	width := 0
	start := 0
loop:
	for ; start < len(line); start++ {
		switch line[start] {
		case ' ':
			width++
		case '\t':
			width += tabWidth - width%tabWidth
		default:
			break loop
		}
	}
	if start == len(line) || line[start] == '#' {
		return nil
	}

	pos := Pos{
		Line:   lineNum,
		Column: start + 1,
	}
	if err := t.indent(width, pos); err != nil {
		return err
	}

	for i := start; i < len(line); {
		r := line[i]
		pos := Pos{
			Line:   lineNum,
			Column: i + 1,
		}

		switch {

		case r == ' ' || r == '\t':
			i++

		case r == '#':
			i = len(line)

		case r == '(' || r == ')' || r == ',' || r == ':' || r == '-':
			t.emit(TokenSymbol, string(r), pos)
			i++

		case isDigit(r):
			j := i
			for j < len(line) && isDigit(line[j]) {
				j++
			}
			if j < len(line) && isIdentRune(line[j]) {
				return errorAt(t.source, pos, "invalid number literal %q", string(line[i:j+1]))
			}
			t.emit(TokenNumber, string(line[i:j]), pos)
			i = j

		case isIdentStart(r):
			j := i
			for j < len(line) && isIdentRune(line[j]) {
				j++
			}
			t.emit(TokenIdentifier, string(line[i:j]), pos)
			i = j

		default:
			return errorAt(t.source, pos, "unexpected character %q", r)
		}
	}

	t.emit(TokenNewline, "", Pos{
		Line:   lineNum,
		Column: len(line) + 1,
	})
	return nil
}

func (t *Tokenizer) indent(width int, pos Pos) error {
	top := t.indents[len(t.indents)-1]
	switch {

	case width > top:
		t.indents = append(t.indents, width)
		t.emit(TokenIndent, "", pos)

	case width < top:
		for width < t.indents[len(t.indents)-1] {
			t.indents = t.indents[:len(t.indents)-1]
			t.emit(TokenDedent, "", pos)
		}
		if width != t.indents[len(t.indents)-1] {
			return errorAt(t.source, pos, "unindent does not match any outer indentation level")
		}

	}
	return nil
}

func isDigit(r rune) bool {
	return r >= '0' && r <= '9'
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentRune(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
