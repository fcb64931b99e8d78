package vm

import (
	"bytes"
	"fmt"

	"github.com/nikandfor/hacked/hfmt"
)

type (
	Segment string

	Op string

	// Writer renders VM instructions, one per line.
	// A nil Writer discards everything.
	Writer struct {
		b []byte
		n int
	}
)

const (
	Constant Segment = "constant"
	Argument Segment = "argument"
	Local    Segment = "local"
	Static   Segment = "static"
	This     Segment = "this"
	That     Segment = "that"
	Pointer  Segment = "pointer"
	Temp     Segment = "temp"
)

const (
	Add Op = "add"
	Sub Op = "sub"
	Neg Op = "neg"
	Eq  Op = "eq"
	Gt  Op = "gt"
	Lt  Op = "lt"
	And Op = "and"
	Or  Op = "or"
	Not Op = "not"
)

func NewWriter() *Writer {
	return &Writer{}
}

func (w *Writer) Push(seg Segment, i int) {
	if w == nil {
		return
	}

	if !seg.Valid() || i < 0 {
		panic(fmt.Sprintf("push %q %d", seg, i))
	}

	w.line("push %s %d\n", seg, i)
}

func (w *Writer) Pop(seg Segment, i int) {
	if w == nil {
		return
	}

	if !seg.Valid() || seg == Constant || i < 0 {
		panic(fmt.Sprintf("pop %q %d", seg, i))
	}

	w.line("pop %s %d\n", seg, i)
}

func (w *Writer) Arithmetic(op Op) {
	if w == nil {
		return
	}

	if !op.Valid() {
		panic(fmt.Sprintf("arithmetic %q", op))
	}

	w.line("%s\n", op)
}

func (w *Writer) Label(l string) {
	if w == nil {
		return
	}

	w.line("label %s\n", l)
}

func (w *Writer) Goto(l string) {
	if w == nil {
		return
	}

	w.line("goto %s\n", l)
}

func (w *Writer) IfGoto(l string) {
	if w == nil {
		return
	}

	w.line("if-goto %s\n", l)
}

func (w *Writer) Call(name string, nargs int) {
	if w == nil {
		return
	}

	w.line("call %s %d\n", name, nargs)
}

func (w *Writer) Function(name string, nlocals int) {
	if w == nil {
		return
	}

	w.line("function %s %d\n", name, nlocals)
}

func (w *Writer) Return() {
	if w == nil {
		return
	}

	w.line("return\n")
}

func (w *Writer) line(format string, args ...any) {
	w.b = hfmt.Appendf(w.b, format, args...)
	w.n++
}

// Bytes returns the rendered text. It is valid until the next write.
func (w *Writer) Bytes() []byte {
	if w == nil {
		return nil
	}

	return w.b
}

func (w *Writer) String() string { return string(w.Bytes()) }

// Len is the number of instructions written.
func (w *Writer) Len() int {
	if w == nil {
		return 0
	}

	return w.n
}

// Lines splits rendered VM text into instructions.
func Lines(b []byte) (l []string) {
	for _, x := range bytes.Split(bytes.TrimSuffix(b, []byte{'\n'}), []byte{'\n'}) {
		if len(x) == 0 {
			continue
		}

		l = append(l, string(x))
	}

	return l
}

func (s Segment) Valid() bool {
	switch s {
	case Constant, Argument, Local, Static, This, That, Pointer, Temp:
		return true
	}

	return false
}

func (op Op) Valid() bool {
	switch op {
	case Add, Sub, Neg, Eq, Gt, Lt, And, Or, Not:
		return true
	}

	return false
}
