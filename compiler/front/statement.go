package front

import (
	"context"
	"fmt"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/jackc/compiler/lex"
	"github.com/slowlang/jackc/compiler/symtab"
	"github.com/slowlang/jackc/compiler/vm"
)

// compileStatements reports whether the last statement was a return.
func (s *state) compileStatements(ctx context.Context) (returned bool, err error) {
	s.open("statements")

loop:
	for {
		tk := s.peek(0)
		if tk.Kind != lex.Keyword {
			break
		}

		switch tk.Text {
		case "let":
			err = s.compileLet(ctx)
		case "if":
			err = s.compileIf(ctx)
		case "while":
			err = s.compileWhile(ctx)
		case "do":
			err = s.compileDo(ctx)
		case "return":
			err = s.compileReturn(ctx)
		default:
			break loop
		}

		if err != nil {
			return false, errors.Wrap(err, "%v", tk.Text)
		}

		returned = tk.Text == "return"
	}

	s.close("statements")

	return returned, nil
}

func (s *state) compileBlock(ctx context.Context) (err error) {
	if _, err = s.expect(ctx, "{"); err != nil {
		return err
	}

	if _, err = s.compileStatements(ctx); err != nil {
		return err
	}

	_, err = s.expect(ctx, "}")

	return err
}

func (s *state) compileCond(ctx context.Context) (err error) {
	if _, err = s.expect(ctx, "("); err != nil {
		return err
	}

	if err = s.compileExpression(ctx); err != nil {
		return errors.Wrap(err, "condition")
	}

	_, err = s.expect(ctx, ")")

	return err
}

func (s *state) compileLet(ctx context.Context) (err error) {
	s.open("letStatement")

	s.next(ctx) // let

	name, err := s.ident(ctx)
	if err != nil {
		return err
	}

	sym, err := s.resolve(name)
	if err != nil {
		return err
	}

	if !s.peek(0).Is("[") {
		if _, err = s.expect(ctx, "="); err != nil {
			return err
		}

		if err = s.compileExpression(ctx); err != nil {
			return errors.Wrap(err, "rhs")
		}

		if _, err = s.expect(ctx, ";"); err != nil {
			return err
		}

		s.pop(sym)

		s.close("letStatement")

		return nil
	}

	s.next(ctx) // [

	s.push(sym)

	if err = s.compileExpression(ctx); err != nil {
		return errors.Wrap(err, "index")
	}

	if _, err = s.expect(ctx, "]"); err != nil {
		return err
	}

	s.w.Arithmetic(vm.Add)

	if _, err = s.expect(ctx, "="); err != nil {
		return err
	}

	if err = s.compileExpression(ctx); err != nil {
		return errors.Wrap(err, "rhs")
	}

	if _, err = s.expect(ctx, ";"); err != nil {
		return err
	}

	// rhs may have used pointer 1 itself
	s.w.Pop(vm.Temp, 0)
	s.w.Pop(vm.Pointer, 1)
	s.w.Push(vm.Temp, 0)
	s.w.Pop(vm.That, 0)

	s.close("letStatement")

	return nil
}

func (s *state) compileIf(ctx context.Context) (err error) {
	s.open("ifStatement")

	s.next(ctx) // if

	if err = s.compileCond(ctx); err != nil {
		return err
	}

	lfalse, lend := s.labels("IF_FALSE", "IF_END")

	s.w.Arithmetic(vm.Not)
	s.w.IfGoto(lfalse)

	if err = s.compileBlock(ctx); err != nil {
		return errors.Wrap(err, "then")
	}

	if !s.peek(0).Is("else") {
		s.w.Label(lfalse)

		s.close("ifStatement")

		return nil
	}

	s.next(ctx) // else

	s.w.Goto(lend)
	s.w.Label(lfalse)

	if err = s.compileBlock(ctx); err != nil {
		return errors.Wrap(err, "else")
	}

	s.w.Label(lend)

	s.close("ifStatement")

	return nil
}

func (s *state) compileWhile(ctx context.Context) (err error) {
	s.open("whileStatement")

	s.next(ctx) // while

	ltop, lend := s.labels("WHILE_TOP", "WHILE_END")

	s.w.Label(ltop)

	if err = s.compileCond(ctx); err != nil {
		return err
	}

	s.w.Arithmetic(vm.Not)
	s.w.IfGoto(lend)

	if err = s.compileBlock(ctx); err != nil {
		return errors.Wrap(err, "body")
	}

	s.w.Goto(ltop)
	s.w.Label(lend)

	s.close("whileStatement")

	return nil
}

func (s *state) compileDo(ctx context.Context) (err error) {
	s.open("doStatement")

	s.next(ctx) // do

	name, err := s.ident(ctx)
	if err != nil {
		return err
	}

	if err = s.compileCall(ctx, name); err != nil {
		return err
	}

	if _, err = s.expect(ctx, ";"); err != nil {
		return err
	}

	s.w.Pop(vm.Temp, 0)

	s.close("doStatement")

	return nil
}

func (s *state) compileReturn(ctx context.Context) (err error) {
	s.open("returnStatement")

	s.next(ctx) // return

	if s.peek(0).Is(";") {
		s.pushReturnValue()
	} else if err = s.compileExpression(ctx); err != nil {
		return err
	}

	if _, err = s.expect(ctx, ";"); err != nil {
		return err
	}

	s.w.Return()

	s.close("returnStatement")

	return nil
}

// labels mints a pair of labels sharing one counter value.
// The class prefix keeps them distinct between units.
func (s *state) labels(a, b string) (string, string) {
	n := s.nlabel
	s.nlabel++

	la := fmt.Sprintf("%s.%s.%d", s.class, a, n)
	lb := fmt.Sprintf("%s.%s.%d", s.class, b, n)

	tlog.V("labels").Printw("labels", "a", la, "b", lb)

	return la, lb
}

func (s *state) resolve(name lex.Token) (symtab.Symbol, error) {
	sym, ok := s.syms.Lookup(name.Text)
	if !ok && s.code {
		return sym, &UnresolvedError{Name: name.Text, Token: name}
	}

	return sym, nil
}

func (s *state) push(sym symtab.Symbol) { s.w.Push(segment(sym.Kind), sym.Index) }
func (s *state) pop(sym symtab.Symbol)  { s.w.Pop(segment(sym.Kind), sym.Index) }

func segment(k symtab.Kind) vm.Segment {
	switch k {
	case symtab.Static:
		return vm.Static
	case symtab.Field:
		return vm.This
	case symtab.Argument:
		return vm.Argument
	case symtab.Local:
		return vm.Local
	default:
		return ""
	}
}
