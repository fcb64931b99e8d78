package front

import (
	"context"

	"tlog.app/go/errors"

	"github.com/slowlang/jackc/compiler/lex"
	"github.com/slowlang/jackc/compiler/vm"
)

var binops = map[string]vm.Op{
	"+": vm.Add,
	"-": vm.Sub,
	"&": vm.And,
	"|": vm.Or,
	"<": vm.Lt,
	">": vm.Gt,
	"=": vm.Eq,
}

// runtime routines for operators the VM lacks
var libops = map[string]string{
	"*": "Math.multiply",
	"/": "Math.divide",
}

func isOp(tk lex.Token) bool {
	if tk.Kind != lex.Symbol {
		return false
	}

	_, ok := binops[tk.Text]
	if !ok {
		_, ok = libops[tk.Text]
	}

	return ok
}

// compileExpression evaluates terms strictly left to right. There is no precedence.
func (s *state) compileExpression(ctx context.Context) (err error) {
	s.open("expression")

	if err = s.compileTerm(ctx); err != nil {
		return err
	}

	for isOp(s.peek(0)) {
		op := s.next(ctx)

		if err = s.compileTerm(ctx); err != nil {
			return errors.Wrap(err, "%v", op.Text)
		}

		if f, ok := libops[op.Text]; ok {
			s.w.Call(f, 2)
		} else {
			s.w.Arithmetic(binops[op.Text])
		}
	}

	s.close("expression")

	return nil
}

func (s *state) compileTerm(ctx context.Context) (err error) {
	s.open("term")

	tk := s.peek(0)

	switch {
	case tk.Kind == lex.IntegerConstant:
		s.next(ctx)

		s.w.Push(vm.Constant, tk.Int)
	case tk.Kind == lex.StringConstant:
		s.next(ctx)

		s.compileString(tk.Str)
	case tk.Is("true"):
		s.next(ctx)

		s.w.Push(vm.Constant, 0)
		s.w.Arithmetic(vm.Not)
	case tk.Is("false"), tk.Is("null"):
		s.next(ctx)

		s.w.Push(vm.Constant, 0)
	case tk.Is("this"):
		s.next(ctx)

		s.w.Push(vm.Pointer, 0)
	case tk.Is("("):
		s.next(ctx)

		if err = s.compileExpression(ctx); err != nil {
			return err
		}

		if _, err = s.expect(ctx, ")"); err != nil {
			return err
		}
	case tk.Is("-"), tk.Is("~"):
		s.next(ctx)

		if err = s.compileTerm(ctx); err != nil {
			return errors.Wrap(err, "unary %v", tk.Text)
		}

		if tk.Text == "-" {
			s.w.Arithmetic(vm.Neg)
		} else {
			s.w.Arithmetic(vm.Not)
		}
	case tk.Kind == lex.Identifier:
		err = s.compileIdentTerm(ctx)
		if err != nil {
			return err
		}
	default:
		return newUnexpected(tk, "term")
	}

	s.close("term")

	return nil
}

func (s *state) compileIdentTerm(ctx context.Context) (err error) {
	la := s.peek(1)

	name := s.next(ctx)

	if la.Is("(") || la.Is(".") {
		return s.compileCall(ctx, name)
	}

	sym, err := s.resolve(name)
	if err != nil {
		return err
	}

	s.push(sym)

	if !la.Is("[") {
		return nil
	}

	s.next(ctx) // [

	if err = s.compileExpression(ctx); err != nil {
		return errors.Wrap(err, "index")
	}

	if _, err = s.expect(ctx, "]"); err != nil {
		return err
	}

	s.w.Arithmetic(vm.Add)
	s.w.Pop(vm.Pointer, 1)
	s.w.Push(vm.That, 0)

	return nil
}

// compileCall compiles a call whose first identifier is already consumed.
//
//	name(args)         method of this class, receiver is pointer 0
//	variable.name(args) method of the variable's class, receiver is the variable
//	Class.name(args)    function or constructor, no receiver
func (s *state) compileCall(ctx context.Context, first lex.Token) (err error) {
	c := Call{
		Class: s.class,
		Name:  first.Text,
		Line:  first.Line,
	}

	if s.peek(0).Is(".") {
		s.next(ctx)

		name, err := s.ident(ctx)
		if err != nil {
			return err
		}

		c.Name = name.Text

		if sym, ok := s.syms.Lookup(first.Text); ok {
			s.push(sym)

			c.Class = sym.Type
			c.Args = 1
		} else {
			c.Class = first.Text
		}
	} else {
		s.w.Push(vm.Pointer, 0)

		c.Args = 1
	}

	if _, err = s.expect(ctx, "("); err != nil {
		return err
	}

	n, err := s.compileExpressionList(ctx)
	if err != nil {
		return errors.Wrap(err, "call %v.%v", c.Class, c.Name)
	}

	if _, err = s.expect(ctx, ")"); err != nil {
		return err
	}

	c.Args += n

	s.w.Call(c.Class+"."+c.Name, c.Args)

	s.u.Calls = append(s.u.Calls, c)

	return nil
}

func (s *state) compileExpressionList(ctx context.Context) (n int, err error) {
	s.open("expressionList")

	for !s.peek(0).Is(")") {
		if err = s.compileExpression(ctx); err != nil {
			return n, err
		}

		n++

		if !s.peek(0).Is(",") {
			break
		}

		s.next(ctx)
	}

	s.close("expressionList")

	return n, nil
}

// compileString builds the constant at run time, one appendChar per byte.
func (s *state) compileString(str string) {
	s.w.Push(vm.Constant, len(str))
	s.w.Call("String.new", 1)

	for i := 0; i < len(str); i++ {
		s.w.Push(vm.Constant, int(str[i]))
		s.w.Call("String.appendChar", 2)
	}
}
