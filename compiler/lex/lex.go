package lex

import (
	"bytes"
	"context"
	"fmt"
	"strconv"

	"tlog.app/go/tlog"
)

type (
	Spaces uint64

	Error struct {
		Pos    int
		Line   int
		Col    int
		Reason string
	}
)

var SpaceAll = NewSpaces(' ', '\t', '\r', '\n', '\v', '\f')

func NewSpaces(skip ...byte) (ss Spaces) {
	for _, q := range skip {
		if q >= 64 {
			panic("too high char code")
		}

		ss |= 1 << q
	}

	return
}

func (s Spaces) Skip(b []byte, st int) (i int) {
	i = st

	for i < len(b) && b[i] < 64 && s&(1<<b[i]) != 0 {
		i++
	}

	return
}

// Lex splits text into tokens. Comments and whitespace are dropped in the same pass.
func Lex(ctx context.Context, text []byte) (toks []Token, err error) {
	line := 1
	last := 0

	lineAt := func(pos int) int {
		line += bytes.Count(text[last:pos], []byte{'\n'})
		last = pos

		return line
	}

	for i := 0; ; {
		i = SpaceAll.Skip(text, i)
		if i == len(text) {
			break
		}

		var tk Token

		tk, i, err = next(text, i)
		if err != nil {
			return nil, err
		}

		if tk.Kind == EOF { // comment
			continue
		}

		tk.Line = lineAt(tk.Pos)

		toks = append(toks, tk)
	}

	if tr := tlog.SpanFromContext(ctx); tr.If("tokens") {
		for _, tk := range toks {
			tr.Printw("token", "tk", tk)
		}
	}

	tlog.V("lex").Printw("lexed", "tokens", len(toks), "lines", lineAt(len(text)))

	return toks, nil
}

// next reads one span starting at a non-space byte.
// Comments are returned as EOF tokens.
func next(b []byte, st int) (tk Token, i int, err error) {
	i = st
	c := b[i]

	switch {
	case c == '/' && i+1 < len(b) && b[i+1] == '/':
		i = skipLine(b, i)

		return Token{Pos: st}, i, nil
	case c == '/' && i+1 < len(b) && b[i+1] == '*':
		e := bytes.Index(b[i+2:], []byte("*/"))
		if e < 0 {
			return tk, st, newError(b, st, "unterminated comment")
		}

		return Token{Pos: st}, i + 2 + e + 2, nil
	case c == '"':
		i++

		for i < len(b) && b[i] != '"' && b[i] != '\n' {
			i++
		}

		if i == len(b) || b[i] != '"' {
			return tk, st, newError(b, st, "unterminated string")
		}

		i++

		return Token{
			Kind: StringConstant,
			Text: string(b[st:i]),
			Str:  string(b[st+1 : i-1]),
			Pos:  st,
		}, i, nil
	case c >= '0' && c <= '9':
		i = skipNum(b, i)

		v, err := strconv.Atoi(string(b[st:i]))
		if err != nil || v > MaxInt {
			return tk, st, newError(b, st, fmt.Sprintf("integer constant %s out of range 0..%d", b[st:i], MaxInt))
		}

		return Token{
			Kind: IntegerConstant,
			Text: string(b[st:i]),
			Int:  v,
			Pos:  st,
		}, i, nil
	case IsSymbol(c):
		return Token{
			Kind: Symbol,
			Text: string(b[st : st+1]),
			Pos:  st,
		}, i + 1, nil
	case c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c == '_':
		i = skipIdent(b, i+1)

		tk = Token{
			Kind: Identifier,
			Text: string(b[st:i]),
			Pos:  st,
		}

		if IsKeyword(tk.Text) {
			tk.Kind = Keyword
		}

		return tk, i, nil
	default:
		return tk, st, newError(b, st, fmt.Sprintf("illegal character %q", c))
	}
}

func skipNum(b []byte, i int) int {
	for i < len(b) && b[i] >= '0' && b[i] <= '9' {
		i++
	}

	return i
}

func skipIdent(b []byte, i int) int {
	for i < len(b) && (b[i] >= 'a' && b[i] <= 'z' || b[i] >= 'A' && b[i] <= 'Z' || b[i] >= '0' && b[i] <= '9' || b[i] == '_') {
		i++
	}

	return i
}

func skipLine(b []byte, i int) int {
	for i < len(b) && b[i] != '\n' {
		i++
	}

	return i
}

// Position returns 1-based line and column of the byte offset pos.
func Position(text []byte, pos int) (line, col int) {
	if pos > len(text) {
		pos = len(text)
	}

	line = 1 + bytes.Count(text[:pos], []byte{'\n'})
	col = pos - bytes.LastIndexByte(text[:pos], '\n')

	return
}

func newError(b []byte, pos int, reason string) *Error {
	line, col := Position(b, pos)

	return &Error{
		Pos:    pos,
		Line:   line,
		Col:    col,
		Reason: reason,
	}
}

func (e *Error) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Col, e.Reason)
}
