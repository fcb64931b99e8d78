package check

import (
	"fmt"
	"sort"

	"tlog.app/go/tlog"

	"github.com/slowlang/jackc/compiler/front"
)

type (
	ArityError struct {
		Unit string
		Line int

		Call front.Call
		Decl front.Subroutine
	}

	UndefinedError struct {
		Unit string
		Line int

		Call front.Call
	}

	RedefinedError struct {
		Class string
		Units []string
	}
)

// Program checks calls between units of one program.
// Classes not compiled in the program (the OS library) are trusted.
// The first problem in class order is reported.
func Program(units []*front.Unit) error {
	us := make([]*front.Unit, len(units))
	copy(us, units)

	sort.SliceStable(us, func(i, j int) bool {
		return us[i].Class < us[j].Class
	})

	classes := map[string]*front.Unit{}
	decls := map[string]front.Subroutine{}

	for _, u := range us {
		if prev, ok := classes[u.Class]; ok {
			return &RedefinedError{Class: u.Class, Units: []string{prev.Name, u.Name}}
		}

		classes[u.Class] = u

		for _, d := range u.Subroutines {
			decls[d.Class+"."+d.Name] = d
		}
	}

	calls := 0

	for _, u := range us {
		for _, c := range u.Calls {
			if _, ok := classes[c.Class]; !ok {
				continue
			}

			calls++

			d, ok := decls[c.Class+"."+c.Name]
			if !ok {
				return &UndefinedError{Unit: u.Name, Line: c.Line, Call: c}
			}

			if d.Args != c.Args {
				return &ArityError{Unit: u.Name, Line: c.Line, Call: c, Decl: d}
			}
		}
	}

	tlog.V("check").Printw("program checked", "units", len(us), "subroutines", len(decls), "calls", calls)

	return nil
}

func (e *ArityError) Error() string {
	return fmt.Sprintf("%s:%d: %s.%s called with %d argument(s), %s takes %d", e.Unit, e.Line, e.Call.Class, e.Call.Name, e.Call.Args, e.Decl.Kind, e.Decl.Args)
}

func (e *UndefinedError) Error() string {
	return fmt.Sprintf("%s:%d: %s.%s is not defined", e.Unit, e.Line, e.Call.Class, e.Call.Name)
}

func (e *RedefinedError) Error() string {
	return fmt.Sprintf("class %s defined in %v", e.Class, e.Units)
}
