package symtab

import (
	"fmt"

	"tlog.app/go/tlog"
	"tlog.app/go/tlog/tlwire"
)

type (
	Kind int

	Symbol struct {
		Name  string
		Type  string
		Kind  Kind
		Index int
	}

	// Table is a two-level scope: class (static, field) and subroutine (argument, local).
	// Subroutine names shadow class names.
	Table struct {
		class map[string]Symbol
		sub   map[string]Symbol

		count [numKinds]int
	}

	DuplicateError struct {
		Name string
		Prev Symbol
	}
)

const (
	None Kind = iota
	Static
	Field
	Argument
	Local

	numKinds
)

func New() *Table {
	return &Table{
		class: make(map[string]Symbol),
		sub:   make(map[string]Symbol),
	}
}

func (t *Table) BeginClass() {
	t.class = make(map[string]Symbol)
	t.count[Static] = 0
	t.count[Field] = 0
}

// BeginSubroutine resets subroutine scope.
// A method receives its receiver as argument 0, so the first declared parameter gets index 1.
// The receiver has no name in the table.
func (t *Table) BeginSubroutine(isMethod bool) {
	t.sub = make(map[string]Symbol)
	t.count[Argument] = 0
	t.count[Local] = 0

	if isMethod {
		t.count[Argument] = 1
	}
}

func (t *Table) Define(name, typ string, kind Kind) (int, error) {
	scope := t.scope(kind)
	if scope == nil {
		panic(fmt.Sprintf("define %q: bad kind %v", name, kind))
	}

	if prev, ok := scope[name]; ok {
		return -1, &DuplicateError{Name: name, Prev: prev}
	}

	s := Symbol{
		Name:  name,
		Type:  typ,
		Kind:  kind,
		Index: t.count[kind],
	}

	t.count[kind]++
	scope[name] = s

	tlog.V("symtab").Printw("define", "sym", s)

	return s.Index, nil
}

func (t *Table) Lookup(name string) (Symbol, bool) {
	if s, ok := t.sub[name]; ok {
		return s, true
	}

	s, ok := t.class[name]

	return s, ok
}

func (t *Table) KindOf(name string) Kind {
	s, _ := t.Lookup(name)
	return s.Kind
}

func (t *Table) TypeOf(name string) string {
	s, _ := t.Lookup(name)
	return s.Type
}

func (t *Table) IndexOf(name string) int {
	s, ok := t.Lookup(name)
	if !ok {
		return -1
	}

	return s.Index
}

func (t *Table) VarCount(kind Kind) int {
	if kind <= None || kind >= numKinds {
		return 0
	}

	return t.count[kind]
}

func (t *Table) scope(kind Kind) map[string]Symbol {
	switch kind {
	case Static, Field:
		return t.class
	case Argument, Local:
		return t.sub
	default:
		return nil
	}
}

func (k Kind) String() string {
	switch k {
	case None:
		return "none"
	case Static:
		return "static"
	case Field:
		return "field"
	case Argument:
		return "argument"
	case Local:
		return "local"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

func (s Symbol) TlogAppend(b []byte) []byte {
	var e tlwire.LowEncoder

	b = e.AppendTag(b, tlwire.Map, 4)

	b = e.AppendString(b, "name")
	b = e.AppendString(b, s.Name)

	b = e.AppendString(b, "type")
	b = e.AppendString(b, s.Type)

	b = e.AppendString(b, "kind")
	b = e.AppendString(b, s.Kind.String())

	b = e.AppendString(b, "index")
	b = e.AppendInt(b, s.Index)

	return b
}

func (e *DuplicateError) Error() string {
	return fmt.Sprintf("%q redeclared, previously %v %v", e.Name, e.Prev.Kind, e.Prev.Type)
}
