package compiler

import (
	"context"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/jackc/compiler/check"
	"github.com/slowlang/jackc/compiler/format"
	"github.com/slowlang/jackc/compiler/front"
	"github.com/slowlang/jackc/compiler/lex"
)

type (
	Options struct {
		Code   bool // VM code
		Trace  bool // parse trace
		Tokens bool // token trace

		Check bool // cross-unit call check, CompileProgram only
		Jobs  int  // parallel units, 0 is GOMAXPROCS
	}

	Output struct {
		Name  string
		Class string

		VM     []byte
		Trace  []byte
		Tokens []byte

		Unit *front.Unit
	}
)

func DefaultOptions() Options {
	return Options{
		Code:  true,
		Check: true,
	}
}

func CompileFile(ctx context.Context, name string, opts Options) (out *Output, err error) {
	text, err := os.ReadFile(name)
	if err != nil {
		return nil, errors.Wrap(err, "read file")
	}

	tlog.SpanFromContext(ctx).Printw("read file", "size", len(text), "name", name)

	return Compile(ctx, name, text, opts)
}

func Compile(ctx context.Context, name string, text []byte, opts Options) (out *Output, err error) {
	toks, err := lex.Lex(ctx, text)
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	out = &Output{Name: name}

	if opts.Tokens {
		out.Tokens = format.Tokens(nil, toks)
	}

	if !opts.Code && !opts.Trace {
		return out, nil
	}

	u, err := front.Translate(ctx, name, toks, front.Options{Code: opts.Code, Trace: opts.Trace})
	if err != nil {
		return nil, errors.Wrap(err, "%v", name)
	}

	out.Class = u.Class
	out.VM = u.Code
	out.Trace = u.Trace
	out.Unit = u

	return out, nil
}

// CompileProgram compiles every file as a unit of one program.
// Outputs are in the files order.
func CompileProgram(ctx context.Context, files []string, opts Options) (outs []*Output, err error) {
	tr, ctx := tlog.SpawnFromContextAndWrap(ctx, "compile program", "files", len(files), "jobs", opts.Jobs)
	defer tr.Finish("err", &err)

	outs = make([]*Output, len(files))

	jobs := opts.Jobs
	if jobs <= 0 {
		jobs = runtime.GOMAXPROCS(0)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)

	for i, name := range files {
		i, name := i, name

		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}

			out, err := CompileFile(gctx, name, opts)
			if err != nil {
				return err
			}

			outs[i] = out

			return nil
		})
	}

	if err = g.Wait(); err != nil {
		return nil, err
	}

	if !opts.Check || !opts.Code {
		return outs, nil
	}

	units := make([]*front.Unit, 0, len(outs))

	for _, out := range outs {
		units = append(units, out.Unit)
	}

	if err = check.Program(units); err != nil {
		return nil, errors.Wrap(err, "check")
	}

	return outs, nil
}
