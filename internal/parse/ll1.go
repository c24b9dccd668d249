// Package parse implements the table-driven LL(1) parser: two parallel
// stacks (grammar symbols and the CST nodes they produce) driven by an
// internal/grammar.Table, with no error recovery — parsing halts at the
// first structural defect.
package parse

import (
	"fmt"

	"github.com/dekarrin/tinyc/internal/cerr"
	"github.com/dekarrin/tinyc/internal/cst"
	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/dekarrin/tinyc/internal/lex"
	"github.com/dekarrin/tinyc/internal/util"
)

// Parser drives a finalized, LL(1) grammar's predictive parse table against
// a token stream.
type Parser struct {
	g     *grammar.Grammar
	table *grammar.Table
}

// New builds a Parser from a finalized grammar and its LL(1) table. It does
// not itself check g.IsFinalized() or table.IsLL1(); callers should reject a
// non-LL(1) grammar before constructing a Parser from it.
func New(g *grammar.Grammar, table *grammar.Table) *Parser {
	return &Parser{g: g, table: table}
}

// Parse consumes tokens from stream and returns the concrete syntax tree
// rooted at the grammar's start symbol. On the first token that cannot be
// matched or predicted, parsing halts immediately and returns the partially
// built tree alongside a *cerr.SyntaxError; the caller should not trust the
// returned tree's shape when err is non-nil.
func (p *Parser) Parse(stream *lex.Stream) (*cst.Node, *cerr.SyntaxError) {
	start := p.g.StartSymbol()

	symStack := util.Stack[string]{Of: []string{grammar.EndOfInput, start}}

	root := &cst.Node{Label: start}
	nodeStack := util.Stack[*cst.Node]{Of: []*cst.Node{root}}

	next := stream.Peek()
	X := symStack.Peek()
	node := nodeStack.Peek()

	for X != grammar.EndOfInput {
		termFor := next.Kind.TerminalName()

		if p.g.IsTerminal(X) {
			if X == termFor {
				node.Terminal = true
				node.Label = X
				node.Source = next
				symStack.Pop()
				nodeStack.Pop()
				stream.Next()
			} else {
				return root, syntaxErrorFromToken(
					fmt.Sprintf("expected %s here, found %s", X, describeToken(next)), next)
			}
		} else {
			body, ok := p.table.Lookup(X, termFor)
			if !ok {
				return root, syntaxErrorFromToken(
					fmt.Sprintf("unexpected %s here", describeToken(next)), next)
			}

			symStack.Pop()
			nodeStack.Pop()

			if !body.IsEpsilon() {
				for i := len(body) - 1; i >= 0; i-- {
					child := &cst.Node{Label: body[i]}
					node.Children = append([]*cst.Node{child}, node.Children...)
					symStack.Push(body[i])
					nodeStack.Push(child)
				}
			} else {
				node.Children = append(node.Children, &cst.Node{Label: "ε", Terminal: true})
			}
		}

		if symStack.Len() == 0 {
			break
		}
		X = symStack.Peek()
		next = stream.Peek()
		if X != grammar.EndOfInput {
			node = nodeStack.Peek()
		}
	}

	return root, nil
}

func describeToken(t lex.Token) string {
	if t.Kind == lex.EOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Lexeme)
}

func syntaxErrorFromToken(msg string, t lex.Token) *cerr.SyntaxError {
	return &cerr.SyntaxError{
		Line:    t.Line,
		Pos:     t.Col,
		Lexeme:  t.Lexeme,
		Message: msg,
	}
}
