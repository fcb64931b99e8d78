package lex

import (
	"strconv"

	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	Token struct {
		Kind Kind
		Text string // raw lexeme

		Str string // decoded StringConstant
		Int int    // decoded IntegerConstant

		Pos  int // byte offset
		Line int
	}
)

const (
	EOF Kind = iota
	Keyword
	Symbol
	Identifier
	IntegerConstant
	StringConstant
)

const MaxInt = 32767

var keywords = map[string]struct{}{
	"class":       {},
	"constructor": {},
	"function":    {},
	"method":      {},
	"field":       {},
	"static":      {},
	"var":         {},
	"int":         {},
	"char":        {},
	"boolean":     {},
	"void":        {},
	"true":        {},
	"false":       {},
	"null":        {},
	"this":        {},
	"let":         {},
	"do":          {},
	"if":          {},
	"else":        {},
	"while":       {},
	"return":      {},
}

func IsKeyword(s string) bool {
	_, ok := keywords[s]
	return ok
}

func IsSymbol(c byte) bool {
	switch c {
	case '{', '}', '(', ')', '[', ']', '.', ',', ';', '+', '-', '*', '/', '&', '|', '<', '>', '=', '~':
		return true
	}

	return false
}

func (k Kind) String() string {
	switch k {
	case EOF:
		return "EOF"
	case Keyword:
		return "keyword"
	case Symbol:
		return "symbol"
	case Identifier:
		return "identifier"
	case IntegerConstant:
		return "integerConstant"
	case StringConstant:
		return "stringConstant"
	default:
		return "Kind(" + strconv.Itoa(int(k)) + ")"
	}
}

// Is reports whether t is the keyword or symbol spelled s.
func (t Token) Is(s string) bool {
	return (t.Kind == Keyword || t.Kind == Symbol) && t.Text == s
}

// Value is the token text as it appears in traces: string constants lose their quotes.
func (t Token) Value() string {
	switch t.Kind {
	case StringConstant:
		return t.Str
	case IntegerConstant:
		return strconv.Itoa(t.Int)
	}

	return t.Text
}

func (t Token) String() string {
	if t.Kind == EOF {
		return "EOF"
	}

	return t.Text
}

func (t Token) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Map, 3)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, t.Kind.String())

	b = e.AppendString(b, "text")
	b = e.AppendString(b, t.Text)

	b = e.AppendString(b, "line")
	b = e.AppendInt(b, t.Line)

	return b
}
