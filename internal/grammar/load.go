package grammar

import (
	"fmt"
	"strings"
)

// Load parses a grammar definition in the simple text format:
//
//	Head -> alt1sym1 alt1sym2 | alt2sym1 | ε
//
// One rule per non-blank, non-comment line. "->" and "→" are both accepted
// as the production arrow; a "|" standing alone as a whitespace-separated
// field separates alternatives (so "||" is an ordinary symbol); a bare "ε" (or the
// literal token "eps") marks the empty production. Lines starting with "#"
// are comments. Symbols are whitespace-separated; wrapping a symbol in
// single or double quotes is allowed for terminals that would otherwise
// collide with the comment/arrow syntax (e.g. '#' as a delimiter token).
//
// The returned Grammar has not been finalized; call Finalize once all rules
// (and the desired start symbol) are set.
func Load(text string) (*Grammar, error) {
	g := New()

	lines := strings.Split(text, "\n")
	for lineNo, raw := range lines {
		line := strings.TrimSpace(raw)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		arrowIdx, arrowLen := findArrow(line)
		if arrowIdx < 0 {
			return nil, fmt.Errorf("grammar: line %d: missing '->' or '→': %q", lineNo+1, raw)
		}

		head := strings.TrimSpace(line[:arrowIdx])
		if head == "" {
			return nil, fmt.Errorf("grammar: line %d: empty head", lineNo+1)
		}
		head = unquote(head)

		rest := line[arrowIdx+arrowLen:]
		var alts [][]string
		cur := []string{}
		for _, f := range strings.Fields(rest) {
			if f == "|" {
				alts = append(alts, cur)
				cur = []string{}
				continue
			}
			cur = append(cur, f)
		}
		alts = append(alts, cur)

		if g.Start == "" {
			g.Start = head
		}

		for _, fields := range alts {
			if len(fields) == 0 {
				return nil, fmt.Errorf("grammar: line %d: empty alternative for %q (use ε)", lineNo+1, head)
			}

			if len(fields) == 1 && (fields[0] == "ε" || fields[0] == "eps") {
				g.AddProduction(head, Epsilon)
				continue
			}

			body := make(Production, len(fields))
			for i, f := range fields {
				body[i] = unquote(f)
			}
			g.AddProduction(head, body)
		}
	}

	if len(g.headOrder) == 0 {
		return nil, fmt.Errorf("grammar: no rules found in input")
	}

	return g, nil
}

func findArrow(line string) (idx, width int) {
	if i := strings.Index(line, "->"); i >= 0 {
		return i, 2
	}
	if i := strings.Index(line, "→"); i >= 0 {
		return i, len("→")
	}
	return -1, 0
}

func unquote(s string) string {
	if len(s) >= 2 {
		if (s[0] == '\'' && s[len(s)-1] == '\'') || (s[0] == '"' && s[len(s)-1] == '"') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
