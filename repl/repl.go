package repl

// REPL(Read-Eval-Print-Loop)는 사용자의 입력을 받아서 평가하고,
// 그 결과를 다시 사용자에게 돌려주는 단순한 프로그래밍 환경
// 렉서->파서->추상구문트리->평가
// 평가기는 프로그램 하나만 실행하므로 한 줄이 하나의 프로그램이다.

import (
	"Bird/config"
	"Bird/evaluator"
	"Bird/lexer"
	"Bird/parser"
	"bufio"
	"fmt"
	"io"
	"log/slog"
)

func Start(in io.Reader, out io.Writer, cfg *config.Config, logger *slog.Logger) {
	if cfg == nil {
		cfg = config.Default()
	}
	prompt := cfg.REPL.Prompt
	if prompt == "" {
		prompt = config.DefaultPrompt
	}

	scanner := bufio.NewScanner(in)

	for {
		io.WriteString(out, prompt)
		scanned := scanner.Scan()
		if !scanned {
			return
		}

		line := scanner.Text()
		l := lexer.New(line)
		p := parser.New(l)

		program := p.ParseProgram()
		if len(p.Errors()) != 0 {
			printParserErrors(out, p.Errors())
			continue
		}

		ev := evaluator.New(out,
			evaluator.WithLogger(logger),
			evaluator.WithStackRoots(cfg.GC.StackRoots))
		if err := ev.Run(program.Statements); err != nil {
			fmt.Fprintf(out, "Woops! Evaluation failed:\n %s\n", err)
		}
	}
}

const BIRD_FACE = `
    __
___( o)>
\ <_. )
 '---'
`

func printParserErrors(out io.Writer, errors []string) {
	io.WriteString(out, BIRD_FACE)
	io.WriteString(out, "Woops! we ran into some bird business here!\n")
	io.WriteString(out, " parser errors:\n")
	for _, msg := range errors {
		io.WriteString(out, "\t"+msg+"\n")
	}
}
