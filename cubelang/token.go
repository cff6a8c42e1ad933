package cubelang

type TokenKind uint8

const (
	TokenInvalid TokenKind = iota
	TokenEOF
	TokenNewline
	TokenIndent
	TokenDedent
	TokenIdentifier
	TokenNumber
	TokenSymbol
)

var tokenKindNames = [...]string{
	TokenInvalid:    "invalid",
	TokenEOF:        "end of input",
	TokenNewline:    "end of line",
	TokenIndent:     "indent",
	TokenDedent:     "dedent",
	TokenIdentifier: "identifier",
	TokenNumber:     "number",
	TokenSymbol:     "symbol",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenKindNames) {
		return tokenKindNames[k]
	}
	return "unknown"
}

type Token struct {
	Kind TokenKind
	Text string
	Pos  Pos
}

func (t Token) describe() string {
	switch t.Kind {
	case TokenIdentifier, TokenNumber, TokenSymbol:
		return "'" + t.Text + "'"
	}
	return t.Kind.String()
}
