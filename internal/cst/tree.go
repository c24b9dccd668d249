// Package cst defines the generic tree node shape produced by internal/parse
// and consumed (and reduced in place) by internal/ast.
package cst

import (
	"fmt"
	"strings"

	"github.com/dekarrin/tinyc/internal/lex"
)

const (
	treeLevelEmpty               = "        "
	treeLevelOngoing             = "  |     "
	treeLevelPrefix              = "  |%s: "
	treeLevelPrefixLast          = `  \%s: `
	treeLevelPrefixNamePadChar   = '-'
	treeLevelPrefixNamePadAmount = 3
)

// Node is a node of either a concrete syntax tree or, after reduction, an
// abstract syntax tree. A terminal Node carries the lex.Token it was
// produced from; a non-terminal Node carries the grammar symbol that
// produced it in Label and, after tree reduction, may also carry a literal
// Value for nodes like operators where the reducer folds a Tail chain into
// a single labeled binary node.
type Node struct {
	Terminal bool
	Label    string
	Value    string
	Source   lex.Token
	Children []*Node
}

// String returns a prettified, line-by-line representation of the tree
// suitable for golden-file comparison and for internal/report dumps.
func (n *Node) String() string {
	return n.leveledStr("", "")
}

func (n *Node) leveledStr(firstPrefix, contPrefix string) string {
	var sb strings.Builder

	sb.WriteString(firstPrefix)
	if n.Terminal {
		sb.WriteString(fmt.Sprintf("(TERM %s %q)", n.Label, n.Source.Lexeme))
	} else if n.Value != "" {
		sb.WriteString(fmt.Sprintf("( %s %q )", n.Label, n.Value))
	} else {
		sb.WriteString(fmt.Sprintf("( %s )", n.Label))
	}

	for i := range n.Children {
		sb.WriteRune('\n')
		var leveledFirstPrefix, leveledContPrefix string
		if i+1 < len(n.Children) {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefix("")
			leveledContPrefix = contPrefix + treeLevelOngoing
		} else {
			leveledFirstPrefix = contPrefix + makeTreeLevelPrefixLast("")
			leveledContPrefix = contPrefix + treeLevelEmpty
		}
		sb.WriteString(n.Children[i].leveledStr(leveledFirstPrefix, leveledContPrefix))
	}

	return sb.String()
}

func makeTreeLevelPrefix(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefix, msg)
}

func makeTreeLevelPrefixLast(msg string) string {
	for len([]rune(msg)) < treeLevelPrefixNamePadAmount {
		msg = string(treeLevelPrefixNamePadChar) + msg
	}
	return fmt.Sprintf(treeLevelPrefixLast, msg)
}

// Equal reports whether n and o have identical structure: same
// terminal/non-terminal status, same Label/Value, and pairwise-equal
// children in the same order.
func (n *Node) Equal(o any) bool {
	var other *Node
	switch v := o.(type) {
	case *Node:
		other = v
	case Node:
		other = &v
	default:
		return false
	}
	if other == nil {
		return n == nil
	}
	if n == nil {
		return false
	}

	if n.Terminal != other.Terminal || n.Label != other.Label || n.Value != other.Value {
		return false
	}
	if len(n.Children) != len(other.Children) {
		return false
	}
	for i := range n.Children {
		if !n.Children[i].Equal(other.Children[i]) {
			return false
		}
	}
	return true
}

// Copy returns a deep copy of the subtree rooted at n.
func (n *Node) Copy() *Node {
	if n == nil {
		return nil
	}
	cp := &Node{
		Terminal: n.Terminal,
		Label:    n.Label,
		Value:    n.Value,
		Source:   n.Source,
	}
	for _, c := range n.Children {
		cp.Children = append(cp.Children, c.Copy())
	}
	return cp
}

// IsEpsilon reports whether n is the placeholder node the parser emits for
// an epsilon production match: label "ε" and no children.
func (n *Node) IsEpsilon() bool {
	return n != nil && n.Label == "ε" && len(n.Children) == 0
}
