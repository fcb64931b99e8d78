package format

import (
	"strings"

	"github.com/nikandfor/hacked/hfmt"

	"github.com/slowlang/jackc/compiler/lex"
)

type (
	// Trace renders grammar productions as nested tags with the tokens they consumed.
	// A nil Trace is a no-op.
	Trace struct {
		b     []byte
		stack []string
	}
)

var escaper = strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;", `"`, "&quot;")

// Tokens renders the flat token list.
func Tokens(b []byte, toks []lex.Token) []byte {
	b = append(b, "<tokens>\n"...)

	for _, tk := range toks {
		b = token(b, 0, tk)
	}

	b = append(b, "</tokens>\n"...)

	return b
}

func NewTrace() *Trace {
	return &Trace{}
}

func (t *Trace) Open(tag string) {
	if t == nil {
		return
	}

	t.b = app(t.b, len(t.stack), "<%s>\n", tag)
	t.stack = append(t.stack, tag)
}

func (t *Trace) Close(tag string) {
	if t == nil {
		return
	}

	last := len(t.stack) - 1
	if last < 0 || t.stack[last] != tag {
		panic("trace: close " + tag + " without open")
	}

	t.stack = t.stack[:last]
	t.b = app(t.b, last, "</%s>\n", tag)
}

func (t *Trace) Token(tk lex.Token) {
	if t == nil {
		return
	}

	t.b = token(t.b, len(t.stack), tk)
}

// Depth is the number of open productions.
func (t *Trace) Depth() int {
	if t == nil {
		return 0
	}

	return len(t.stack)
}

func (t *Trace) Bytes() []byte {
	if t == nil {
		return nil
	}

	return t.b
}

func Escape(s string) string {
	return escaper.Replace(s)
}

func token(b []byte, d int, tk lex.Token) []byte {
	return app(b, d, "<%s> %s </%s>\n", tk.Kind, Escape(tk.Value()), tk.Kind)
}

func app(b []byte, d int, f string, args ...any) []byte {
	for i := 0; i < d; i++ {
		b = append(b, "  "...)
	}

	b = hfmt.Appendf(b, f, args...)

	return b
}
