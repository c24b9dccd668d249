// Package ast reduces a concrete syntax tree produced by internal/parse into
// an abstract syntax tree: epsilon matches (and non-terminals that matched
// nothing but epsilon) are dropped, the grammar's
// right-recursive "Tail"/"List"/"Opt"/"'" helper non-terminals are folded
// into their parent's child list, single-child pass-through productions
// collapse to their one child, and flattened chains of
// operand-operator-operand... children (the shape a folded "Tail" chain
// leaves behind) are rebuilt into left- or right-associative binary/unary
// expression nodes.
//
// The resulting tree keeps cst.Node as its node type — an AST is just a CST
// that has been reduced — but a handful of synthetic labels appear only
// after reduction: "BinExpr" (Value holds the operator), "UnaryExpr" (Value
// holds the prefix operator), "CallExpr" (Value holds the callee name).
// Everywhere else the reduced tree reuses the grammar's own non-terminal
// names as labels, so e.g. an IfStmt node always has 2 children (cond, then)
// or 3 (cond, then, else), a DeclStmt/Decl node is [type, id] or
// [type, id, "=", init] (a top-level function Decl instead ends
// [type, id, param..., CompoundStmt]), and a bare expression used as a
// statement shows up with no Stmt-kind wrapper at all (the expression node
// appears directly in the enclosing StmtList).
package ast

import (
	"strings"

	"github.com/dekarrin/tinyc/internal/cst"
)

// punctuation is dropped unconditionally once its parent's fold step has
// run: it carries no information that survives into the AST (the parent's
// own Label already conveys what construct it was part of).
var punctuation = map[string]bool{
	"(": true, ")": true, "[": true, "]": true, "{": true, "}": true,
	",": true, ".": true, ";": true,
	"if": true, "else": true, "while": true, "for": true, "return": true,
}

// neverSelfCollapse names non-terminals that must never vanish via the
// generic single-child pass-through rule even when they end up with exactly
// one child, because their presence carries meaning beyond their contents:
// Program is the tree root, CompoundStmt marks a scope boundary
// internal/sema must push/pop regardless of how many statements it holds,
// and ReturnStmt's single child is its return value, which internal/sema and
// internal/ir must tell apart from a bare expression statement.
var neverSelfCollapse = map[string]bool{
	"Program":      true,
	"CompoundStmt": true,
	"ReturnStmt":   true,
}

func isHelperLabel(label string) bool {
	return strings.HasSuffix(label, "Tail") || strings.HasSuffix(label, "List") ||
		strings.HasSuffix(label, "Opt") || strings.HasSuffix(label, "'")
}

// leftAssocHeads lower their flattened operand/operator chain
// left-to-right; AssignExpr, special-cased in Reduce, lowers right-to-left.
var leftAssocHeads = map[string]bool{
	"OrExpr": true, "AndExpr": true, "EqExpr": true,
	"RelExpr": true, "AddExpr": true, "MulExpr": true,
}

// Reduce walks a parse tree bottom-up and returns its AST. It returns nil
// when called on an epsilon match or on a non-terminal whose every child was
// an epsilon match; Program and CompoundStmt are exempt, so the root is never
// nil.
func Reduce(n *cst.Node) *cst.Node {
	if n == nil {
		return nil
	}
	if n.IsEpsilon() {
		return nil
	}
	if n.Terminal {
		return n
	}

	switch n.Label {
	case "ForStmt":
		return reduceForStmt(n)
	}

	var reduced []*cst.Node
	for _, c := range n.Children {
		rc := Reduce(c)
		if rc == nil {
			continue
		}
		reduced = append(reduced, rc)
	}

	// A non-terminal that matched only ε (e.g. an absent ElsePart, or the
	// PrimaryTail of an identifier with no call parentheses) is dropped like
	// the ε itself.
	if len(reduced) == 0 && !neverSelfCollapse[n.Label] {
		return nil
	}

	var folded []*cst.Node
	for _, c := range reduced {
		if c.Label != "PrimaryTail" && isHelperLabel(c.Label) {
			folded = append(folded, c.Children...)
		} else {
			folded = append(folded, c)
		}
	}

	var kept []*cst.Node
	for _, c := range folded {
		if c.Terminal && punctuation[c.Label] {
			continue
		}
		kept = append(kept, c)
	}
	n.Children = kept

	switch n.Label {
	case "PrimaryExpr":
		return reducePrimaryExpr(n)
	case "UnaryExpr":
		return reduceUnary(n)
	case "AssignExpr":
		return reduceBinaryChain(n, true)
	}
	if leftAssocHeads[n.Label] {
		return reduceBinaryChain(n, false)
	}

	if !isHelperLabel(n.Label) && !neverSelfCollapse[n.Label] && len(n.Children) == 1 {
		return n.Children[0]
	}
	return n
}

// reduceBinaryChain interprets an already-flattened
// [operand, op, operand, op, ..., operand] child list (the shape left by
// folding a chain of right-recursive "Tail" non-terminals) as a chain of
// binary operations, and rebuilds it into nested "BinExpr" nodes associating
// left-to-right (rightAssoc == false) or right-to-left (rightAssoc ==
// true). A list of length 1 (no operator ever matched) passes through
// unchanged: the wrapping non-terminal node contributed nothing and
// vanishes.
func reduceBinaryChain(n *cst.Node, rightAssoc bool) *cst.Node {
	c := n.Children
	if len(c) == 1 {
		return c[0]
	}

	if rightAssoc {
		result := c[len(c)-1]
		for i := len(c) - 2; i >= 1; i -= 2 {
			op := c[i]
			left := c[i-1]
			result = &cst.Node{Label: "BinExpr", Value: op.Label, Source: op.Source, Children: []*cst.Node{left, result}}
		}
		return result
	}

	result := c[0]
	for i := 1; i+1 < len(c); i += 2 {
		op := c[i]
		right := c[i+1]
		result = &cst.Node{Label: "BinExpr", Value: op.Label, Source: op.Source, Children: []*cst.Node{result, right}}
	}
	return result
}

// reduceUnary interprets UnaryExpr's already-folded children: either a
// single PrimaryExpr (no prefix operator, passes through) or a prefix
// operator followed by the operand it applies to.
func reduceUnary(n *cst.Node) *cst.Node {
	c := n.Children
	if len(c) == 1 {
		return c[0]
	}
	op := c[0]
	operand := c[1]
	return &cst.Node{Label: "UnaryExpr", Value: op.Label, Source: op.Source, Children: []*cst.Node{operand}}
}

// reducePrimaryExpr disambiguates PrimaryExpr's already-folded children.
// PrimaryTail is deliberately excluded from the generic helper-splice above
// so its presence (even with zero arguments) distinguishes a call
// ("id PrimaryTail", e.g. "f()") from a bare identifier reference ("id"
// alone) — folding it away unconditionally would make the two
// indistinguishable.
func reducePrimaryExpr(n *cst.Node) *cst.Node {
	c := n.Children

	if len(c) == 2 {
		if c[1].Label == "PrimaryTail" {
			name := c[0]
			return &cst.Node{Label: "CallExpr", Value: name.Source.Lexeme, Source: name.Source, Children: c[1].Children}
		}
		if c[0].Terminal && c[0].Label == "write" {
			return &cst.Node{Label: "WriteExpr", Source: c[0].Source, Children: []*cst.Node{c[1]}}
		}
	}

	if len(c) == 1 {
		return c[0]
	}

	return n
}

// unwrapOptional normalizes an optional-slot wrapper node that survived
// reduction as itself (ForStmt's ExprOpt condition: a helper label, so the
// single-child pass-through rule never collapses it) down to nil (no
// children), its single child, or itself unchanged in the unexpected case of
// more than one child.
func unwrapOptional(n *cst.Node) *cst.Node {
	if n == nil {
		return nil
	}
	switch len(n.Children) {
	case 0:
		return nil
	case 1:
		return n.Children[0]
	default:
		return n
	}
}

// reduceForStmt is handled outside the generic fold/drop pipeline: ForInit,
// the condition, and ForPost are each independently optional, and if they
// were folded generically an absent slot would simply vanish from the
// child list, making the remaining slots' positions ambiguous. Instead this
// reads ForStmt's fixed grammar shape
// ("for" "(" ForInit ";" ExprOpt ";" ForPost ")" Stmt) directly by index
// from the unreduced parse tree and always returns exactly 4 children,
// using nil for an absent init/condition/post. A present ForInit/ForPost has
// already collapsed to its expression through the pass-through rule, so only
// a slot that Reduce returned as the wrapper itself is unwrapped.
func reduceForStmt(n *cst.Node) *cst.Node {
	raw := n.Children
	slot := func(w *cst.Node) *cst.Node {
		r := Reduce(w)
		if r != w {
			return r
		}
		return unwrapOptional(r)
	}
	init := slot(raw[2])
	cond := slot(raw[4])
	post := slot(raw[6])
	body := Reduce(raw[8])

	return &cst.Node{
		Label:    "ForStmt",
		Children: []*cst.Node{init, cond, post, body},
	}
}
