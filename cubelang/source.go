package cubelang

import "strings"

type Source struct {
	Name  string
	Lines []string
}

func NewSource(name string, text string) *Source {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	lines := strings.Split(text, "\n")
	if n := len(lines); n > 0 && lines[n-1] == "" {
		lines = lines[:n-1]
	}
	return &Source{
		Name:  name,
		Lines: lines,
	}
}

// Pos is a 1-based line and rune column.
type Pos struct {
	Line   int
	Column int
}
