package front

import (
	"context"
	"fmt"
	"strings"

	"tlog.app/go/loc"
	"tlog.app/go/tlog"

	"github.com/slowlang/jackc/compiler/format"
	"github.com/slowlang/jackc/compiler/lex"
	"github.com/slowlang/jackc/compiler/symtab"
	"github.com/slowlang/jackc/compiler/vm"
)

type (
	Options struct {
		Code  bool // emit VM code
		Trace bool // record parse trace
	}

	Unit struct {
		Name  string
		Class string

		Code  []byte
		Trace []byte

		Subroutines []Subroutine
		Calls       []Call
	}

	Subroutine struct {
		Class string
		Name  string
		Kind  string // constructor, function or method
		Args  int    // with receiver
		Line  int
	}

	Call struct {
		Class string
		Name  string
		Args  int // with receiver
		Line  int
	}

	cursor struct {
		toks []lex.Token
		i    int
	}

	state struct {
		cursor

		syms  *symtab.Table
		w     *vm.Writer
		trace *format.Trace

		code bool

		class string
		kind  string // current subroutine kind

		nlabel int

		u *Unit
	}

	SyntaxError struct {
		Token lex.Token
		Want  []string
	}

	UnresolvedError struct {
		Name  string
		Token lex.Token
	}
)

// Translate compiles one class. Every call owns its own state,
// so independent units may be translated concurrently.
func Translate(ctx context.Context, name string, toks []lex.Token, opts Options) (u *Unit, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "front: translate", "name", name, "tokens", len(toks))
	defer tr.Finish("err", &err)

	s := &state{
		cursor: cursor{toks: toks},
		syms:   symtab.New(),
		code:   opts.Code,
		u: &Unit{
			Name: name,
		},
	}

	if opts.Code {
		s.w = vm.NewWriter()
	}

	if opts.Trace {
		s.trace = format.NewTrace()
	}

	err = s.compileClass(ctx)
	if err != nil {
		return nil, err
	}

	if tk := s.peek(0); tk.Kind != lex.EOF {
		return nil, newUnexpected(tk, "end of file")
	}

	s.u.Code = s.w.Bytes()
	s.u.Trace = s.trace.Bytes()

	tr.Printw("translated", "class", s.u.Class, "subroutines", len(s.u.Subroutines), "instructions", s.w.Len(), "labels", s.nlabel)

	return s.u, nil
}

func (c *cursor) peek(off int) lex.Token {
	if i := c.i + off; i >= 0 && i < len(c.toks) {
		return c.toks[i]
	}

	tk := lex.Token{Kind: lex.EOF}

	if len(c.toks) != 0 {
		last := c.toks[len(c.toks)-1]

		tk.Pos = last.Pos + len(last.Text)
		tk.Line = last.Line
	}

	return tk
}

// advance never moves past the end of input.
func (c *cursor) advance() lex.Token {
	tk := c.peek(0)
	if tk.Kind != lex.EOF {
		c.i++
	}

	return tk
}

func (s *state) next(ctx context.Context) (tk lex.Token) {
	tk = s.advance()

	if tr := tlog.SpanFromContext(ctx); tr.If("next_token") {
		tr.Printw("next token", "tk", tk, "i", s.i, "from", loc.Callers(1, 3))
	}

	s.trace.Token(tk)

	return tk
}

func (s *state) expect(ctx context.Context, text string) (lex.Token, error) {
	tk := s.peek(0)
	if !tk.Is(text) {
		return tk, newUnexpected(tk, fmt.Sprintf("%q", text))
	}

	return s.next(ctx), nil
}

func (s *state) ident(ctx context.Context) (lex.Token, error) {
	tk := s.peek(0)
	if tk.Kind != lex.Identifier {
		return tk, newUnexpected(tk, "identifier")
	}

	return s.next(ctx), nil
}

// typ reads a variable type, or a return type if void is allowed.
func (s *state) typ(ctx context.Context, void bool) (lex.Token, error) {
	tk := s.peek(0)

	switch {
	case tk.Kind == lex.Identifier:
	case tk.Is("int"), tk.Is("char"), tk.Is("boolean"):
	case void && tk.Is("void"):
	default:
		want := []string{"type"}
		if void {
			want = append(want, `"void"`)
		}

		return tk, newUnexpected(tk, want...)
	}

	return s.next(ctx), nil
}

func (s *state) open(tag string)  { s.trace.Open(tag) }
func (s *state) close(tag string) { s.trace.Close(tag) }

func newUnexpected(tk lex.Token, want ...string) error {
	return &SyntaxError{
		Token: tk,
		Want:  want,
	}
}

func (e *SyntaxError) Error() string {
	got := "end of file"
	if e.Token.Kind != lex.EOF {
		got = fmt.Sprintf("%v %q", e.Token.Kind, e.Token.Text)
	}

	return fmt.Sprintf("line %d: unexpected %s, want %s", e.Token.Line, got, strings.Join(e.Want, " or "))
}

func (e *UnresolvedError) Error() string {
	return fmt.Sprintf("line %d: undeclared identifier %q", e.Token.Line, e.Name)
}
