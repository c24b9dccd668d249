package parse

import (
	"testing"

	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/dekarrin/tinyc/internal/lex"
	"github.com/stretchr/testify/assert"
)

func buildExprGrammar(t *testing.T) *grammar.Grammar {
	t.Helper()
	text := `
E -> T E'
E' -> + T E' | ε
T -> id
`
	g, err := grammar.Load(text)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if err := g.Finalize(true, true); err != nil {
		t.Fatalf("finalize: %v", err)
	}
	return g
}

func tableFor(t *testing.T, g *grammar.Grammar) *grammar.Table {
	t.Helper()
	first := grammar.First(g)
	follow := grammar.Follow(g, first)
	table := grammar.NewTable(g, first, follow)
	if !table.IsLL1() {
		t.Fatalf("grammar not LL1: %v", table.Conflicts())
	}
	return table
}

// tokenStreamOf appends the EOF token to toks and wraps them in a
// *lex.Stream; the fixture tokens use lexer kinds whose terminal names
// ("id", "+") match the expression grammar above.
func tokenStreamOf(toks []lex.Token) *lex.Stream {
	toks = append(toks, lex.Token{Kind: lex.EOF})
	return &lex.Stream{Tokens: toks}
}

func TestParse_SimpleExpression(t *testing.T) {
	assert := assert.New(t)

	g := buildExprGrammar(t)
	table := tableFor(t, g)
	p := New(g, table)

	// id + id : two ids separated by a "+" kind we fake via Kind/Lexeme
	// that match the grammar's terminal names through TerminalName().
	toks := []lex.Token{
		{Kind: lex.KindIdent, Lexeme: "a", Line: 1, Col: 1},
		{Kind: lex.KindPlus, Lexeme: "+", Line: 1, Col: 3},
		{Kind: lex.KindIdent, Lexeme: "b", Line: 1, Col: 5},
	}
	stream := tokenStreamOf(toks)

	tree, err := p.Parse(stream)
	assert.Nil(err)
	assert.NotNil(tree)
	assert.Equal("E", tree.Label)
}

func TestParse_HaltsOnFirstSyntaxError(t *testing.T) {
	assert := assert.New(t)

	g := buildExprGrammar(t)
	table := tableFor(t, g)
	p := New(g, table)

	// "+" can never start an E.
	toks := []lex.Token{
		{Kind: lex.KindPlus, Lexeme: "+", Line: 1, Col: 1},
	}
	stream := tokenStreamOf(toks)

	_, err := p.Parse(stream)
	assert.NotNil(err)
}

func TestParse_TinycGrammar_SimpleProgram(t *testing.T) {
	assert := assert.New(t)

	g, gerr := grammar.Default()
	if gerr != nil {
		t.Fatalf("default grammar: %v", gerr)
	}
	table := tableFor(t, g)
	p := New(g, table)

	src := "int main ( ) { int x ; x = 1 ; return x ; }"
	toks, lexErrs := lex.Lex(src)
	assert.Empty(lexErrs)

	tree, err := p.Parse(toks)
	assert.Nil(err, "unexpected syntax error: %v", err)
	assert.Equal("Program", tree.Label)
}
