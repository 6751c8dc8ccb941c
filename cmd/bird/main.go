package main

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"

	"Bird/ast"
	"Bird/config"
	"Bird/evaluator"
	"Bird/lexer"
	"Bird/parser"
	"Bird/repl"
)

const cliToolVersion = "bird 0.1.0"

func main() {
	os.Exit(run(os.Args[1:], os.Stdin, os.Stdout, os.Stderr))
}

type cli struct {
	cfg    *config.Config
	logger *slog.Logger
	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func run(args []string, stdin io.Reader, stdout, stderr io.Writer) int {
	flags := flag.NewFlagSet("bird", flag.ContinueOnError)
	flags.SetOutput(stderr)
	configPath := flags.String("config", "", "path to a YAML config file")
	stackRoots := flags.Bool("stack-roots", false, "also treat the value stack as GC roots")
	traceGC := flags.Bool("trace-gc", false, "log scope and collection events to stderr")
	flags.Usage = func() { printUsage(stderr, flags) }

	if err := flags.Parse(args); err != nil {
		if err == flag.ErrHelp {
			return 0
		}
		return 2
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fmt.Fprintln(stderr, err)
			return 1
		}
		cfg = loaded
	}
	if *stackRoots {
		cfg.GC.StackRoots = true
	}
	if *traceGC {
		cfg.Log.Level = "debug"
	}

	level, err := cfg.LogLevel()
	if err != nil {
		fmt.Fprintln(stderr, err)
		return 1
	}
	c := &cli{
		cfg:    cfg,
		logger: slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level})),
		stdin:  stdin,
		stdout: stdout,
		stderr: stderr,
	}

	rest := flags.Args()
	if len(rest) == 0 {
		printUsage(stderr, flags)
		return 2
	}

	switch rest[0] {
	case "version":
		fmt.Fprintln(stdout, cliToolVersion)
		return 0
	case "repl":
		repl.Start(stdin, stdout, cfg, c.logger)
		return 0
	case "run", "tokens", "ast":
		if len(rest) != 2 {
			fmt.Fprintf(stderr, "usage: bird %s <file>\n", rest[0])
			return 2
		}
		return c.runFile(rest[0], rest[1])
	default:
		// bird <file> 은 bird run <file> 과 같다.
		if len(rest) == 1 {
			return c.runFile("run", rest[0])
		}
		fmt.Fprintf(stderr, "unknown command: %s\n", rest[0])
		return 2
	}
}

func (c *cli) runFile(command, path string) int {
	data, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintln(c.stderr, err)
		return 1
	}
	source := string(data)

	if command == "tokens" {
		for _, tok := range lexer.New(source).Tokens() {
			fmt.Fprintf(c.stdout, "%s %q\n", tok.Type, tok.Literal)
		}
		return 0
	}

	program, ok := c.parse(path, source)
	if !ok {
		return 1
	}

	if command == "ast" {
		io.WriteString(c.stdout, program.String())
		return 0
	}

	ev := evaluator.New(c.stdout,
		evaluator.WithLogger(c.logger),
		evaluator.WithStackRoots(c.cfg.GC.StackRoots))
	if err := ev.Run(program.Statements); err != nil {
		fmt.Fprintf(c.stderr, "%s: %s\n", path, err)
		return 1
	}
	c.logger.Debug("program finished",
		slog.String("path", path),
		slog.Any("heap", ev.Heap().Stats()))
	return 0
}

func (c *cli) parse(path, source string) (*ast.Program, bool) {
	p := parser.New(lexer.New(source))
	program := p.ParseProgram()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintf(c.stderr, "%s: parser errors:\n", path)
		for _, msg := range errs {
			fmt.Fprintln(c.stderr, "\t"+msg)
		}
		return nil, false
	}
	return program, true
}

func printUsage(w io.Writer, flags *flag.FlagSet) {
	fmt.Fprintln(w, "usage: bird [options] <command> [file]")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "commands:")
	fmt.Fprintln(w, "  run <file>      evaluate a program")
	fmt.Fprintln(w, "  tokens <file>   print the token stream")
	fmt.Fprintln(w, "  ast <file>      print the syntax tree")
	fmt.Fprintln(w, "  repl            start an interactive session")
	fmt.Fprintln(w, "  version         print the version")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "options:")
	flags.PrintDefaults()
}
