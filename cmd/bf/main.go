package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"nikand.dev/go/cli"
	"tlog.app/go/errors"
	"tlog.app/go/tlog"

	"github.com/slowlang/bf/compiler"
	"github.com/slowlang/bf/compiler/analyze"
	"github.com/slowlang/bf/compiler/config"
	"github.com/slowlang/bf/compiler/format"
	"github.com/slowlang/bf/compiler/image"
	"github.com/slowlang/bf/compiler/ir"
	"github.com/slowlang/bf/compiler/parse"
)

func main() {
	runCmd := &cli.Command{
		Name:        "run",
		Description: "interpret programs",
		Action:      runAct,
		Args:        cli.Args{},
		Flags: flags(
			cli.NewFlag("size", 0, "tape size, overrides config"),
			cli.NewFlag("limit", -1, "max instructions to execute, 0 is unlimited, overrides config"),
		),
	}

	compileCmd := &cli.Command{
		Name:        "compile",
		Description: "translate programs to " + strings.Join(config.Targets, ", "),
		Action:      compileAct,
		Args:        cli.Args{},
		Flags: flags(
			cli.NewFlag("target,t", "", "output language, overrides config"),
			cli.NewFlag("output,o", "", "output file, stdout by default"),
			cli.NewFlag("size", 0, "tape size, overrides config"),
		),
	}

	parseCmd := &cli.Command{
		Name:        "parse",
		Description: "check programs and print statistics",
		Action:      parseAct,
		Args:        cli.Args{},
		Flags:       flags(),
	}

	buildCmd := &cli.Command{
		Name:        "build",
		Description: "parse programs and save them as " + image.Ext + " images",
		Action:      buildAct,
		Args:        cli.Args{},
		Flags: flags(
			cli.NewFlag("output,o", "", "image file, source name with "+image.Ext+" extension by default"),
		),
	}

	fmtCmd := &cli.Command{
		Name:        "fmt",
		Description: "print programs in canonical form without comments",
		Action:      fmtAct,
		Args:        cli.Args{},
		Flags: flags(
			cli.NewFlag("write,w", false, "rewrite files in place"),
		),
	}

	app := &cli.Command{
		Name:        "bf",
		Description: "bf is a tool for interpreting and compiling eight command tape programs",
		Commands: []*cli.Command{
			runCmd,
			compileCmd,
			parseCmd,
			buildCmd,
			fmtCmd,
		},
	}

	cli.RunAndExit(app, os.Args, os.Environ())
}

func flags(fs ...*cli.Flag) []*cli.Flag {
	return append([]*cli.Flag{
		cli.NewFlag("config", "", "config file, "+config.FileName+" is searched upwards by default"),
		cli.NewFlag("log", false, "log to stderr"),
	}, fs...)
}

func setup(c *cli.Command) (context.Context, *config.Config, error) {
	if !c.Bool("log") {
		tlog.DefaultLogger = nil
	}

	ctx := context.Background()
	ctx = tlog.ContextWithSpan(ctx, tlog.Root())

	var cfg *config.Config
	var err error

	if name := c.String("config"); name != "" {
		cfg, err = config.Load(name)
	} else {
		cfg, err = config.FindAndLoad(".")
	}

	if err != nil {
		return nil, nil, errors.Wrap(err, "config")
	}

	if len(c.Args) == 0 {
		return nil, nil, errors.New("no files given")
	}

	return ctx, cfg, nil
}

func runAct(c *cli.Command) (err error) {
	ctx, cfg, err := setup(c)
	if err != nil {
		return err
	}

	if s := c.Int("size"); s > 0 {
		cfg.Tape.Size = s
	}

	if l := c.Int("limit"); l >= 0 {
		cfg.Exec.Limit = int64(l)
	}

	// shared so bytes buffered by one program are left for the next one
	in := bufio.NewReader(os.Stdin)

	for _, a := range c.Args {
		p, err := load(ctx, a)
		if err != nil {
			return err
		}

		err = compiler.Run(ctx, p, cfg, in, os.Stdout)
		if err != nil {
			return errors.Wrap(err, "run %v", a)
		}
	}

	return nil
}

func compileAct(c *cli.Command) (err error) {
	ctx, cfg, err := setup(c)
	if err != nil {
		return err
	}

	if t := c.String("target"); t != "" {
		cfg.Compile.Target = t
	}

	if s := c.Int("size"); s > 0 {
		cfg.Tape.Size = s
	}

	err = cfg.Validate()
	if err != nil {
		return errors.Wrap(err, "flags")
	}

	err = checkUnits(cfg.Compile.Target, len(c.Args))
	if err != nil {
		return err
	}

	var out []byte

	for _, a := range c.Args {
		p, err := load(ctx, a)
		if err != nil {
			return err
		}

		obj, err := compiler.Emit(ctx, p, cfg.Compile.Target, cfg.Tape.Size)
		if err != nil {
			return errors.Wrap(err, "compile %v", a)
		}

		out = append(out, obj...)
	}

	if name := c.String("output"); name != "" {
		return os.WriteFile(name, out, 0o644)
	}

	_, err = os.Stdout.Write(out)

	return err
}

func parseAct(c *cli.Command) (err error) {
	ctx, _, err := setup(c)
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		p, err := load(ctx, a)
		if err != nil {
			return err
		}

		s := analyze.Analyze(ctx, p)

		fmt.Printf("%v: %d bytes, %d commands, %d loops, max depth %d\n", a, s.Len, s.Commands(), s.Loops, s.MaxDepth)

		for k := ir.MoveForward; k <= ir.JumpIfNonZero; k++ {
			if n := s.Counts[k]; n != 0 {
				fmt.Printf("\t%-18v %d\n", k, n)
			}
		}
	}

	return nil
}

func buildAct(c *cli.Command) (err error) {
	ctx, _, err := setup(c)
	if err != nil {
		return err
	}

	out := c.String("output")
	if out != "" && len(c.Args) > 1 {
		return errors.New("--output with %d files", len(c.Args))
	}

	for _, a := range c.Args {
		p, err := load(ctx, a)
		if err != nil {
			return err
		}

		name := out
		if name == "" {
			name = imageName(a)
		}

		err = compiler.Build(ctx, p, name)
		if err != nil {
			return errors.Wrap(err, "build %v", a)
		}
	}

	return nil
}

func fmtAct(c *cli.Command) (err error) {
	ctx, _, err := setup(c)
	if err != nil {
		return err
	}

	for _, a := range c.Args {
		p, err := load(ctx, a)
		if err != nil {
			return err
		}

		text := format.Format(ctx, p)

		if !c.Bool("write") {
			_, err = os.Stdout.Write(text)
		} else if filepath.Ext(a) == image.Ext {
			err = errors.New("can't rewrite image file")
		} else {
			err = os.WriteFile(a, text, 0o644)
		}

		if err != nil {
			return errors.Wrap(err, "fmt %v", a)
		}
	}

	return nil
}

// load reports parse errors with the offending source line.
func load(ctx context.Context, name string) (*ir.Program, error) {
	p, err := compiler.LoadFile(ctx, name)
	if err == nil {
		return p, nil
	}

	var perr parse.Error
	if !errors.As(err, &perr) {
		return nil, errors.Wrap(err, "load %v", name)
	}

	text, rerr := os.ReadFile(name)
	if rerr != nil {
		text = nil
	}

	fmt.Fprint(os.Stderr, diagnostic(name, text, perr))

	return nil, errors.New("%v: %v", name, perr.Kind)
}

// checkUnits rejects outputs that can't be concatenated.
// Every C unit defines its own main.
func checkUnits(target string, files int) error {
	if target == config.TargetC && files > 1 {
		return errors.New("target %v takes one file, got %d", target, files)
	}

	return nil
}

func imageName(src string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + image.Ext
}
