package cubelang

import (
	"fmt"
	"strings"
)

// SyntaxError is the single error reported for a failed parse.
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	Source  *Source
}

func (e *SyntaxError) Error() string {
	if e.Source == nil {
		return fmt.Sprintf("%s at %d:%d", e.Message, e.Line, e.Column)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s at %s:%d:%d\n", e.Message, e.Source.Name, e.Line, e.Column))

	idx := e.Line - 1
	if idx >= 0 && idx < len(e.Source.Lines) {
		line := e.Source.Lines[idx]
		sb.WriteString(line)
		sb.WriteString("\n")

		// caret, keeping tabs so it lines up
		col := e.Column - 1
		for i, r := range []rune(line) {
			if i >= col {
				break
			}
			if r == '\t' {
				sb.WriteString("\t")
			} else {
				sb.WriteString(" ")
			}
		}
		sb.WriteString("^\n")
	}

	return sb.String()
}

func (e *SyntaxError) Pos() Pos {
	return Pos{
		Line:   e.Line,
		Column: e.Column,
	}
}

func errorAt(source *Source, pos Pos, format string, args ...any) *SyntaxError {
	return &SyntaxError{
		Message: fmt.Sprintf(format, args...),
		Line:    pos.Line,
		Column:  pos.Column,
		Source:  source,
	}
}
