package front

import (
	"context"

	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/jackc/compiler/lex"
	"github.com/slowlang/jackc/compiler/symtab"
	"github.com/slowlang/jackc/compiler/vm"
)

func (s *state) compileClass(ctx context.Context) (err error) {
	s.open("class")

	if _, err = s.expect(ctx, "class"); err != nil {
		return err
	}

	name, err := s.ident(ctx)
	if err != nil {
		return errors.Wrap(err, "class name")
	}

	s.class = name.Text
	s.u.Class = name.Text
	s.syms.BeginClass()

	if _, err = s.expect(ctx, "{"); err != nil {
		return err
	}

	for tk := s.peek(0); tk.Is("static") || tk.Is("field"); tk = s.peek(0) {
		err = s.compileClassVarDec(ctx)
		if err != nil {
			return errors.Wrap(err, "class %v", s.class)
		}
	}

	for tk := s.peek(0); tk.Is("constructor") || tk.Is("function") || tk.Is("method"); tk = s.peek(0) {
		err = s.compileSubroutine(ctx)
		if err != nil {
			return errors.Wrap(err, "class %v", s.class)
		}
	}

	if _, err = s.expect(ctx, "}"); err != nil {
		return errors.Wrap(err, "class %v", s.class)
	}

	s.close("class")

	return nil
}

func (s *state) compileClassVarDec(ctx context.Context) (err error) {
	s.open("classVarDec")

	kind := symtab.Field
	if s.next(ctx).Is("static") {
		kind = symtab.Static
	}

	err = s.compileNames(ctx, kind)
	if err != nil {
		return err
	}

	s.close("classVarDec")

	return nil
}

func (s *state) compileVarDec(ctx context.Context) (err error) {
	s.open("varDec")

	s.next(ctx) // var

	err = s.compileNames(ctx, symtab.Local)
	if err != nil {
		return err
	}

	s.close("varDec")

	return nil
}

// compileNames reads `type name (',' name)* ';'`.
func (s *state) compileNames(ctx context.Context, kind symtab.Kind) error {
	typ, err := s.typ(ctx, false)
	if err != nil {
		return err
	}

	for {
		name, err := s.ident(ctx)
		if err != nil {
			return err
		}

		err = s.define(name, typ.Text, kind)
		if err != nil {
			return err
		}

		if !s.peek(0).Is(",") {
			break
		}

		s.next(ctx)
	}

	_, err = s.expect(ctx, ";")

	return err
}

func (s *state) define(name lex.Token, typ string, kind symtab.Kind) error {
	_, err := s.syms.Define(name.Text, typ, kind)
	if err != nil && s.code {
		return errors.Wrap(err, "line %d", name.Line)
	}

	return nil
}

func (s *state) compileSubroutine(ctx context.Context) (err error) {
	s.open("subroutineDec")

	kw := s.next(ctx)

	s.kind = kw.Text
	s.syms.BeginSubroutine(kw.Text == "method")

	if _, err = s.typ(ctx, true); err != nil {
		return errors.Wrap(err, "%v return type", s.kind)
	}

	name, err := s.ident(ctx)
	if err != nil {
		return errors.Wrap(err, "%v name", s.kind)
	}

	if _, err = s.expect(ctx, "("); err != nil {
		return errors.Wrap(err, "%v %v", s.kind, name.Text)
	}

	err = s.compileParameterList(ctx)
	if err != nil {
		return errors.Wrap(err, "%v %v: parameters", s.kind, name.Text)
	}

	if _, err = s.expect(ctx, ")"); err != nil {
		return errors.Wrap(err, "%v %v", s.kind, name.Text)
	}

	s.u.Subroutines = append(s.u.Subroutines, Subroutine{
		Class: s.class,
		Name:  name.Text,
		Kind:  s.kind,
		Args:  s.syms.VarCount(symtab.Argument),
		Line:  name.Line,
	})

	err = s.compileSubroutineBody(ctx, name.Text)
	if err != nil {
		return errors.Wrap(err, "%v %v", s.kind, name.Text)
	}

	s.close("subroutineDec")

	return nil
}

func (s *state) compileParameterList(ctx context.Context) error {
	s.open("parameterList")

	for !s.peek(0).Is(")") {
		typ, err := s.typ(ctx, false)
		if err != nil {
			return err
		}

		name, err := s.ident(ctx)
		if err != nil {
			return err
		}

		err = s.define(name, typ.Text, symtab.Argument)
		if err != nil {
			return err
		}

		if !s.peek(0).Is(",") {
			break
		}

		s.next(ctx)
	}

	s.close("parameterList")

	return nil
}

func (s *state) compileSubroutineBody(ctx context.Context, name string) (err error) {
	s.open("subroutineBody")

	if _, err = s.expect(ctx, "{"); err != nil {
		return err
	}

	for s.peek(0).Is("var") {
		err = s.compileVarDec(ctx)
		if err != nil {
			return err
		}
	}

	s.w.Function(s.class+"."+name, s.syms.VarCount(symtab.Local))

	switch s.kind {
	case "constructor":
		s.w.Push(vm.Constant, s.syms.VarCount(symtab.Field))
		s.w.Call("Memory.alloc", 1)
		s.w.Pop(vm.Pointer, 0)
	case "method":
		s.w.Push(vm.Argument, 0)
		s.w.Pop(vm.Pointer, 0)
	}

	returned, err := s.compileStatements(ctx)
	if err != nil {
		return err
	}

	if !returned {
		tlog.V("implicit_return").Printw("implicit return", "class", s.class, "name", name, "kind", s.kind)

		s.pushReturnValue()
		s.w.Return()
	}

	if _, err = s.expect(ctx, "}"); err != nil {
		return err
	}

	s.close("subroutineBody")

	return nil
}

// pushReturnValue pushes the value of a bare return: the receiver for a constructor, 0 otherwise.
func (s *state) pushReturnValue() {
	if s.kind == "constructor" {
		s.w.Push(vm.Pointer, 0)
		return
	}

	s.w.Push(vm.Constant, 0)
}
