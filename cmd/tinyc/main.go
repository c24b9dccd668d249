/*
Tinyc compiles the tinyc C-like source language through the hand-written
front end: lexer, LL(1) parser, AST reducer, semantic analyzer, and
quadruple IR builder.

Usage:

	tinyc [flags]

The flags are:

	-g, --grammar FILE
		Use the given grammar rule file instead of the bundled default.

	-b, --backend {manual|auto}
		Scanner backend to use. Only "manual" is implemented; "auto" (the
		regex-based tokenizer) is accepted but rejected at run time.

	-d, --dump LIST
		Comma-separated list of artifacts to print after each compile:
		table, tokens, cst, ast, symbols, quads. Defaults to "quads".

	-c, --command SOURCE
		Compile SOURCE once, print the requested dumps, and exit instead of
		starting the interactive prompt.

	--config FILE
		Load a TOML configuration file (see internal/config) overriding the
		bundled defaults; flags given on the command line take precedence
		over the file.

Without --command, tinyc reads successive source snippets from an
interactive prompt (one snippet per line) using GNU-readline-style editing,
compiles each independently through a single reused Pipeline, and prints
the requested dumps for it. Type an empty line or send EOF (Ctrl-D) to
quit.
*/
package main

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/chzyer/readline"
	"github.com/dekarrin/tinyc/internal/config"
	"github.com/dekarrin/tinyc/internal/pipeline"
	"github.com/dekarrin/tinyc/internal/report"
	"github.com/spf13/pflag"
)

const (
	exitSuccess = iota
	exitCompileFailure
	exitInitError
)

var (
	returnCode  = exitSuccess
	grammarFile = pflag.StringP("grammar", "g", "", "Grammar rule file to use instead of the bundled default")
	backendFlag = pflag.StringP("backend", "b", "", "Scanner backend: manual or auto")
	dumpFlag    = pflag.StringP("dump", "d", "quads", "Comma-separated artifacts to print: table,tokens,cst,ast,symbols,quads")
	command     = pflag.StringP("command", "c", "", "Compile this source once and exit instead of starting the prompt")
	configFile  = pflag.String("config", "", "TOML configuration file (see internal/config)")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		}
		os.Exit(returnCode)
	}()

	pflag.Parse()

	cfg, err := config.Load(*configFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = exitInitError
		return
	}
	if *grammarFile != "" {
		cfg.GrammarFile = *grammarFile
	}
	if *backendFlag != "" {
		cfg.Backend = *backendFlag
	}

	p, err := cfg.BuildPipeline()
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = exitInitError
		return
	}

	dumps := strings.Split(*dumpFlag, ",")

	if *command != "" {
		ok := compileAndReport(p, cfg, *command, dumps, os.Stdout)
		if !ok {
			returnCode = exitCompileFailure
		}
		return
	}

	if err := runPrompt(p, cfg, dumps); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err)
		returnCode = exitInitError
	}
}

// runPrompt reads successive source snippets from an interactive prompt and
// compiles each through p, mirroring internal/input's readline-backed
// line-reading loop decoupled from the engine it feeds.
func runPrompt(p *pipeline.Pipeline, cfg config.Config, dumps []string) error {
	rl, err := readline.NewEx(&readline.Config{Prompt: "tinyc> "})
	if err != nil {
		return fmt.Errorf("create readline config: %w", err)
	}
	defer rl.Close()

	for {
		line, err := rl.Readline()
		if err != nil {
			return nil // io.EOF or interrupt: quit quietly
		}
		line = strings.TrimSpace(line)
		if line == "" {
			return nil
		}
		compileAndReport(p, cfg, line, dumps, os.Stdout)
	}
}

// compileAndReport runs one compile and prints every requested dump,
// returning whether the compile succeeded.
func compileAndReport(p *pipeline.Pipeline, cfg config.Config, src string, dumps []string, out *os.File) bool {
	res := p.Run(src, cfg.ScannerBackend())

	for _, d := range dumps {
		switch strings.TrimSpace(d) {
		case "tokens":
			for _, tok := range res.Tokens {
				fmt.Fprintln(out, tok.String())
			}
		case "cst":
			fmt.Fprintln(out, report.Tree(res.CST))
		case "ast":
			fmt.Fprintln(out, report.Tree(res.AST))
		case "symbols":
			fmt.Fprintln(out, report.SymbolTables(res.Symbols))
		case "quads":
			fmt.Fprintln(out, report.Quadruples(res.Quadruples))
		case "table":
			fmt.Fprintln(out, report.ParseTable(p.Grammar(), p.Table()))
		case "":
		}
	}

	if res.Status != pipeline.Success {
		fmt.Fprintf(out, "compile failed: %s\n", res.Error)
		log.Printf("[%s] compile failed: %s", res.SessionID, res.Error)
		return false
	}
	return true
}
