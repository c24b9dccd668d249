// Package pipeline orchestrates the front end end to end: lex, parse,
// reduce, analyze, and lower to quadruples, stopping downstream stages as
// soon as an earlier one fails, exactly as internal/ictiobus's
// Frontend.Analyze threads a lex/parse/SDD-evaluate sequence with an early
// return on the first error. Unlike that package, stages here are fixed
// (there is no pluggable algorithm choice) and two stages — semantic
// analysis and IR building — accumulate diagnostics instead of aborting.
package pipeline

import (
	"fmt"
	"log"
	"time"

	"github.com/dekarrin/tinyc/internal/ast"
	"github.com/dekarrin/tinyc/internal/cerr"
	"github.com/dekarrin/tinyc/internal/cst"
	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/dekarrin/tinyc/internal/ir"
	"github.com/dekarrin/tinyc/internal/lex"
	"github.com/dekarrin/tinyc/internal/parse"
	"github.com/dekarrin/tinyc/internal/sema"
	"github.com/google/uuid"
)

// Backend selects the scanner implementation a Pipeline uses to tokenize
// source. Only Manual is implemented; Auto names the regex-based tokenizer
// the original project also shipped, which is explicitly out of scope here
// (see SPEC_FULL.md's non-goals) — it is kept as an enum value so the external interface
// still accepts and reports on the choice rather than silently ignoring it.
type Backend string

const (
	Manual Backend = "manual"
	Auto   Backend = "auto"
)

// Status is the terminal outcome of a single Run.
type Status string

const (
	Success Status = "success"
	Failed  Status = "failed"
)

// Result is the full external interface of one compile: every artifact
// produced by any stage that ran, plus the terminal status and, on
// failure, a human-readable error. Fields left untouched by a skipped
// stage are left at their zero value.
type Result struct {
	SessionID      string
	Tokens         []lex.Token
	LexErrors      []cerr.LexError
	CST            *cst.Node
	AST            *cst.Node
	SymanticErrors []cerr.SemanticError
	Symbols        *sema.Result
	Quadruples     []ir.Quadruple
	StringLiterals map[string]string
	IRWarnings     []cerr.IRWarning
	Status         Status
	Error          string
}

// Pipeline owns the immutable, build-once grammar and LL(1) table; both are
// shared read-only across every Run. All other state (scope stacks,
// counters, quadruple buffers) is allocated fresh inside Run, matching the
// single-owner-per-call resource model: a Pipeline is safe to reuse for any
// number of sequential compiles, but one Run must finish before the next
// starts.
type Pipeline struct {
	grammar *grammar.Grammar
	table   *grammar.Table
}

// New builds a Pipeline from an already-finalized grammar. It fails if the
// grammar's LL(1) table has unresolved conflicts.
func New(g *grammar.Grammar) (*Pipeline, error) {
	first := grammar.First(g)
	follow := grammar.Follow(g, first)
	table := grammar.NewTable(g, first, follow)
	if !table.IsLL1() {
		return nil, fmt.Errorf("pipeline: grammar is not LL(1): %v", table.Conflicts())
	}
	return &Pipeline{grammar: g, table: table}, nil
}

// Grammar returns the finalized grammar this Pipeline parses with.
func (p *Pipeline) Grammar() *grammar.Grammar {
	return p.grammar
}

// Table returns the LL(1) predictive parse table built from Grammar(), for
// internal/report's table dump.
func (p *Pipeline) Table() *grammar.Table {
	return p.table
}

// NewDefault builds a Pipeline from the bundled grammar (internal/grammar's
// embedded tinyc.grammar file).
func NewDefault() (*Pipeline, error) {
	g, err := grammar.Default()
	if err != nil {
		return nil, fmt.Errorf("pipeline: loading default grammar: %w", err)
	}
	return New(g)
}

// Run compiles src through every stage the chosen backend and the
// stage-by-stage error taxonomy allow, logging stage timings and error
// counts tagged with a fresh per-call session id.
func (p *Pipeline) Run(src string, backend Backend) *Result {
	sessionID := uuid.New().String()
	res := &Result{SessionID: sessionID, StringLiterals: map[string]string{}}
	start := time.Now()
	defer func() {
		log.Printf("[pipeline %s] finished in %s, status=%s", sessionID, time.Since(start), res.Status)
	}()

	if backend != Manual {
		res.Status = Failed
		res.Error = fmt.Sprintf("scanner backend %q is not implemented", backend)
		log.Printf("[pipeline %s] rejected backend %q", sessionID, backend)
		return res
	}

	stageStart := time.Now()
	stream, lexErrs := lex.Lex(src)
	res.LexErrors = lexErrs
	if stream != nil {
		res.Tokens = stream.Tokens
	}
	log.Printf("[pipeline %s] lex: %d tokens, %d errors in %s", sessionID, len(res.Tokens), len(lexErrs), time.Since(stageStart))
	if len(lexErrs) > 0 {
		res.Status = Failed
		res.Error = fmt.Sprintf("lexical analysis failed with %d error(s)", len(lexErrs))
		return res
	}

	stageStart = time.Now()
	parser := parse.New(p.grammar, p.table)
	tree, synErr := parser.Parse(stream)
	log.Printf("[pipeline %s] parse: in %s", sessionID, time.Since(stageStart))
	if synErr != nil {
		res.Status = Failed
		res.Error = synErr.Error()
		return res
	}
	res.CST = tree

	stageStart = time.Now()
	root := ast.Reduce(tree)
	res.AST = root
	log.Printf("[pipeline %s] reduce: in %s", sessionID, time.Since(stageStart))

	stageStart = time.Now()
	symbols, semErrs := sema.Analyze(root)
	res.Symbols = symbols
	res.SymanticErrors = semErrs
	log.Printf("[pipeline %s] analyze: %d error(s) in %s", sessionID, len(semErrs), time.Since(stageStart))

	stageStart = time.Now()
	quads, strs, warnings := ir.Build(root)
	res.Quadruples = quads
	res.StringLiterals = strs
	res.IRWarnings = warnings
	log.Printf("[pipeline %s] ir: %d quad(s), %d warning(s) in %s", sessionID, len(quads), len(warnings), time.Since(stageStart))

	if len(semErrs) > 0 {
		res.Status = Failed
		res.Error = fmt.Sprintf("semantic analysis failed with %d error(s)", len(semErrs))
		return res
	}

	res.Status = Success
	return res
}
