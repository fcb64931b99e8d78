package main

import (
	"context"
	"fmt"
	"os"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"
	"tlog.app/go/tlog/ext/tlflag"

	"github.com/slowlang/jackc/compiler"
	"github.com/slowlang/jackc/compiler/project"
)

func main() {
	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "compile .jack files or directories into .vm files",
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: []*cli.Flag{
			cli.NewFlag("out,o", "", "output directory (next to sources if empty)"),
			cli.NewFlag("tokens", false, "also write XxxT.xml token traces"),
			cli.NewFlag("trace", false, "also write Xxx.xml parse traces"),
			cli.NewFlag("no-check", false, "skip cross-class call check"),
			cli.NewFlag("jobs,j", 0, "parallel units (0 is GOMAXPROCS)"),
		},
	}

	tokensCmd := &cli.Command{
		Name:        "tokens",
		Description: "print token trace",
		Action:      printAct(compiler.Options{Tokens: true}),
		Args:        cli.Args{},
	}

	traceCmd := &cli.Command{
		Name:        "trace",
		Description: "print parse trace",
		Action:      printAct(compiler.Options{Trace: true}),
		Args:        cli.Args{},
	}

	app := &cli.Command{
		Name:        "jackc",
		Description: "jackc compiles Jack classes into stack machine code",
		Before:      before,
		Flags: []*cli.Flag{
			cli.NewFlag("log", "stderr", "log output file (or stderr)"),
			cli.NewFlag("verbosity,v", "", "logger verbosity topics"),
			cli.HelpFlag,
		},
		Commands: []*cli.Command{
			compileCmd,
			tokensCmd,
			traceCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func before(c *cli.Command) error {
	w, err := tlflag.OpenWriter(c.String("log"))
	if err != nil {
		return errors.Wrap(err, "open log file")
	}

	tlog.DefaultLogger = tlog.New(w)

	tlog.SetVerbosity(c.String("verbosity"))

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	files, err := project.CollectAll(c.Args)
	if err != nil {
		return errors.Wrap(err, "collect")
	}

	opts := compiler.DefaultOptions()
	opts.Tokens = c.Bool("tokens")
	opts.Trace = c.Bool("trace")
	opts.Check = !c.Bool("no-check")
	opts.Jobs = c.Int("jobs")

	outs, err := compiler.CompileProgram(ctx, files, opts)
	if err != nil {
		return err
	}

	dir := c.String("out")

	for _, out := range outs {
		err = writeOutput(out, dir)
		if err != nil {
			return errors.Wrap(err, "%v", out.Name)
		}
	}

	tlog.Printw("compiled", "files", len(outs), "out", dir)

	return nil
}

func writeOutput(out *compiler.Output, dir string) (err error) {
	for _, f := range []struct {
		suffix string
		data   []byte
	}{
		{project.VM, out.VM},
		{project.Tokens, out.Tokens},
		{project.Trace, out.Trace},
	} {
		if f.data == nil {
			continue
		}

		err = project.Write(project.Output(out.Name, dir, f.suffix), f.data)
		if err != nil {
			return err
		}
	}

	return nil
}

func printAct(opts compiler.Options) func(*cli.Command) error {
	return func(c *cli.Command) (err error) {
		ctx := context.Background()
		ctx = tlog.ContextWithSpan(ctx, tlog.Root())

		files, err := project.CollectAll(c.Args)
		if err != nil {
			return errors.Wrap(err, "collect")
		}

		for _, a := range files {
			out, err := compiler.CompileFile(ctx, a, opts)
			if err != nil {
				return err
			}

			if opts.Tokens {
				fmt.Printf("%s", out.Tokens)
			} else {
				fmt.Printf("%s", out.Trace)
			}
		}

		return nil
	}
}
