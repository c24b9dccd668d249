// Package sema walks a reduced internal/ast tree, maintaining a scoped
// symbol table: declaration, lookup, redeclaration detection, and global
// constant/string interning. It never halts on error — every defect is
// recorded into an accumulated error list, matching internal/parse's
// stop-on-first-error discipline being the exception rather than the rule
// for this pipeline.
package sema

import (
	"fmt"

	"github.com/dekarrin/tinyc/internal/cerr"
	"github.com/dekarrin/tinyc/internal/cst"
)

// Result is the four symbol-table dictionaries produced by a complete
// analysis, each keyed by symbol name.
type Result struct {
	Constants map[string]*Symbol
	Strings   map[string]*Symbol
	Variables map[string]*Symbol
	Functions map[string]*Symbol
}

type analyzer struct {
	scopes     *scopeStack
	constIndex map[string]*Symbol
	constSeq   int
	stringSeq  int
	errors     []cerr.SemanticError
}

// Analyze walks root (the Program node returned by internal/ast.Reduce) and
// returns the symbol tables plus any accumulated semantic errors. A non-nil,
// non-empty error slice does not stop internal/ir from running — per
// spec, malformed subtrees are skipped there rather than treated as fatal.
func Analyze(root *cst.Node) (*Result, []cerr.SemanticError) {
	a := &analyzer{
		scopes:     newScopeStack(),
		constIndex: map[string]*Symbol{},
	}
	a.declarePredeclared()
	a.analyzeProgram(root)
	return a.result(), a.errors
}

// declarePredeclared registers read/write as functions of arity 0 and 1 so
// that identifier lookup resolves them like user-defined functions;
// internal/ir still lowers "read()"/"write(e)" through its own dedicated
// cases rather than its general call lowering.
func (a *analyzer) declarePredeclared() {
	a.scopes.declare(&Symbol{Name: "read", Kind: KindFunction, Type: "int"})
	a.scopes.declare(&Symbol{Name: "write", Kind: KindFunction, Type: "void", Params: []string{"int"}})
}

func (a *analyzer) errorAt(line int, format string, args ...any) {
	a.errors = append(a.errors, cerr.SemanticError{Line: line, Message: fmt.Sprintf(format, args...)})
}

// semanticType maps a TypeSpec keyword to the semantic type this compiler
// actually gives runtime meaning to. Only "int" and "string" (represented
// internally as "char*") are supported; every other declared-type keyword
// is accepted syntactically (the grammar permits it) but flagged
// unsupported, per SPEC_FULL §4.
func semanticType(keyword string) (typ string, supported bool) {
	switch keyword {
	case "int":
		return "int", true
	case "string":
		return "char*", true
	default:
		return keyword, false
	}
}

func (a *analyzer) declareVariable(keyword, name string, line int) *Symbol {
	typ, ok := semanticType(keyword)
	sym := &Symbol{Name: name, Kind: KindVariable, Type: typ, Unsupported: !ok}
	if !a.scopes.declare(sym) {
		a.errorAt(line, "redeclaration of %q", name)
		return sym
	}
	if !ok {
		a.errorAt(line, "unsupported type %q for variable %q", keyword, name)
	}
	return sym
}

func (a *analyzer) analyzeProgram(root *cst.Node) {
	if root == nil {
		return
	}
	for _, decl := range root.Children {
		a.analyzeTopDecl(decl)
	}
}

// analyzeTopDecl handles a top-level Decl node, which internal/ast leaves
// as [type, id] (plain var), [type, id, "=", init] (initialized var), or
// [type, id, param..., CompoundStmt] (function).
func (a *analyzer) analyzeTopDecl(n *cst.Node) {
	if n == nil {
		return
	}
	typeKw := n.Children[0].Label
	name := n.Children[1].Source.Lexeme
	last := n.Children[len(n.Children)-1]

	if last.Label == "CompoundStmt" {
		a.analyzeFunctionDecl(n, typeKw, name, last)
		return
	}

	a.declareVariable(typeKw, name, n.Children[1].Source.Line)
	if len(n.Children) == 4 {
		a.analyzeExpr(n.Children[3])
	}
}

func (a *analyzer) analyzeFunctionDecl(n *cst.Node, retTypeKw, name string, body *cst.Node) {
	params := n.Children[2 : len(n.Children)-1]

	paramTypes := make([]string, 0, len(params))
	for _, p := range params {
		typ, _ := semanticType(p.Children[0].Label)
		paramTypes = append(paramTypes, typ)
	}

	fnSym := &Symbol{Name: name, Kind: KindFunction, Type: retTypeKw, Params: paramTypes}
	if !a.scopes.declare(fnSym) {
		a.errorAt(n.Children[1].Source.Line, "redeclaration of function %q", name)
	}

	a.scopes.push()
	for _, p := range params {
		pname := p.Children[1].Source.Lexeme
		a.declareVariable(p.Children[0].Label, pname, p.Children[1].Source.Line)
	}
	a.analyzeStmt(body)
	a.scopes.pop()
}

func (a *analyzer) analyzeStmt(n *cst.Node) {
	if n == nil {
		return
	}

	switch n.Label {
	case "CompoundStmt":
		a.scopes.push()
		for _, c := range n.Children {
			a.analyzeStmt(c)
		}
		a.scopes.pop()

	case "DeclStmt":
		typeKw := n.Children[0].Label
		name := n.Children[1].Source.Lexeme
		a.declareVariable(typeKw, name, n.Children[1].Source.Line)
		if len(n.Children) == 4 {
			a.analyzeExpr(n.Children[3])
		}

	case "IfStmt":
		a.analyzeExpr(n.Children[0])
		a.analyzeStmt(n.Children[1])
		if len(n.Children) == 3 {
			a.analyzeStmt(n.Children[2])
		}

	case "WhileStmt":
		a.analyzeExpr(n.Children[0])
		a.analyzeStmt(n.Children[1])

	case "ForStmt":
		a.analyzeExpr(n.Children[0])
		a.analyzeExpr(n.Children[1])
		a.analyzeExpr(n.Children[2])
		a.analyzeStmt(n.Children[3])

	case "ReturnStmt":
		if len(n.Children) == 1 {
			a.analyzeExpr(n.Children[0])
		}

	default:
		// A bare expression used as a statement (internal/ast leaves no
		// ExprStmt wrapper): a call, assignment, or write intrinsic.
		a.analyzeExpr(n)
	}
}

func (a *analyzer) analyzeExpr(n *cst.Node) {
	if n == nil {
		return
	}

	if n.Terminal {
		a.analyzeLiteralOrRef(n)
		return
	}

	switch n.Label {
	case "BinExpr":
		a.analyzeExpr(n.Children[0])
		a.analyzeExpr(n.Children[1])
	case "UnaryExpr":
		a.analyzeExpr(n.Children[0])
	case "CallExpr":
		sym := a.scopes.lookup(n.Value)
		if sym == nil || sym.Kind != KindFunction {
			a.errorAt(n.Source.Line, "call to undeclared function %q", n.Value)
		}
		for _, arg := range n.Children {
			a.analyzeExpr(arg)
		}
	case "WriteExpr":
		a.analyzeExpr(n.Children[0])
	default:
		for _, c := range n.Children {
			a.analyzeExpr(c)
		}
	}
}

func (a *analyzer) analyzeLiteralOrRef(n *cst.Node) {
	switch n.Label {
	case "id":
		if a.scopes.lookup(n.Source.Lexeme) == nil {
			a.errorAt(n.Source.Line, "undeclared identifier %q", n.Source.Lexeme)
		}
	case "intlit":
		a.internConstant("int", n.Source.Lexeme)
	case "floatlit":
		a.internConstant("float", n.Source.Lexeme)
	case "charlit":
		a.internConstant("char", n.Source.Lexeme)
	case "strlit":
		a.internConstant("char*", n.Source.Lexeme)
	case "true":
		a.internConstant("int", "1")
	case "false":
		a.internConstant("int", "0")
	case "read":
		if a.scopes.lookup("read") == nil {
			a.errorAt(n.Source.Line, "call to undeclared function %q", "read")
		}
	}
}

// internConstant returns the synthetic name for (typ, value), allocating a
// fresh name the first time this (type, value) pair is seen: string
// literals get their own "Sn" sequence (so the Strings dictionary reads
// S1, S2, ... independent of how many numeric constants preceded it),
// everything else shares the "Cn" sequence. Interning is global: constants
// always land in the outermost scope, even when the literal appears deep
// inside a function, so a literal repeated across different functions
// still interns to one symbol.
func (a *analyzer) internConstant(typ, value string) string {
	key := typ + "|" + value
	if sym, ok := a.constIndex[key]; ok {
		return sym.Name
	}

	var name string
	if typ == "char*" {
		a.stringSeq++
		name = fmt.Sprintf("S%d", a.stringSeq)
	} else {
		a.constSeq++
		name = fmt.Sprintf("C%d", a.constSeq)
	}

	sym := &Symbol{Name: name, Kind: KindConstant, Type: typ, Value: value}
	a.scopes.declareGlobal(sym)
	a.constIndex[key] = sym
	return sym.Name
}

func (a *analyzer) result() *Result {
	r := &Result{
		Constants: map[string]*Symbol{},
		Strings:   map[string]*Symbol{},
		Variables: map[string]*Symbol{},
		Functions: map[string]*Symbol{},
	}
	for _, sym := range a.scopes.all() {
		switch sym.Kind {
		case KindConstant:
			r.Constants[sym.Name] = sym
			if sym.Type == "char*" {
				r.Strings[sym.Name] = sym
			}
		case KindVariable:
			r.Variables[sym.Name] = sym
		case KindFunction:
			r.Functions[sym.Name] = sym
		}
	}
	return r
}
