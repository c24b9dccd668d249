package grammar

import (
	"fmt"
	"sort"
)

// Conflict records two productions that both want the same table cell.
type Conflict struct {
	NonTerminal string
	Terminal    string
	First       HeadedProduction
	Second      HeadedProduction
}

func (c Conflict) String() string {
	return fmt.Sprintf("LL(1) conflict at [%s, %s]: %s vs %s", c.NonTerminal, c.Terminal, c.First, c.Second)
}

// Table is an LL(1) predictive parse table: Table[nonTerminal][terminal]
// gives the production to apply, or nil if that cell is empty (a syntax
// error at that point).
type Table struct {
	g         *Grammar
	cells     map[string]map[string]Production
	conflicts []Conflict
}

// Conflicts returns every cell collision recorded while building the table;
// a non-empty result means the grammar is not LL(1).
func (t *Table) Conflicts() []Conflict {
	return t.conflicts
}

// IsLL1 reports whether the grammar the table was built from is LL(1), i.e.
// building it recorded no conflicts.
func (t *Table) IsLL1() bool {
	return len(t.conflicts) == 0
}

// Lookup returns the production to apply when nonTerminal is on top of the
// parser's stack and terminal is the current lookahead, and whether such a
// production exists.
func (t *Table) Lookup(nonTerminal, terminal string) (Production, bool) {
	row, ok := t.cells[nonTerminal]
	if !ok {
		return nil, false
	}
	p, ok := row[terminal]
	return p, ok
}

// NonTerminals returns the grammar's non-terminals in declaration order, for
// internal/report's row ordering.
func (t *Table) NonTerminals() []string {
	return append([]string(nil), t.g.headOrder...)
}

// Terminals returns every terminal with at least one populated cell, sorted,
// for internal/report's column ordering.
func (t *Table) Terminals() []string {
	seen := map[string]bool{}
	for _, row := range t.cells {
		for term := range row {
			seen[term] = true
		}
	}
	terms := make([]string, 0, len(seen))
	for term := range seen {
		terms = append(terms, term)
	}
	sort.Strings(terms)
	return terms
}

// NewTable builds the LL(1) predictive parse table for a finalized grammar
// using its FIRST and FOLLOW sets, recording every conflicting cell instead
// of stopping at the first one so callers can report the full set of
// offending productions at once.
func NewTable(g *Grammar, first FirstSets, follow FollowSets) *Table {
	t := &Table{
		g:     g,
		cells: map[string]map[string]Production{},
	}

	set := func(nt, term string, hp HeadedProduction) {
		if t.cells[nt] == nil {
			t.cells[nt] = map[string]Production{}
		}
		if existing, ok := t.cells[nt][term]; ok {
			if existing.IsEpsilon() && !hp.Body.IsEpsilon() {
				// Dangling-else-style conflict: a non-epsilon alternative
				// competes with this non-terminal's own epsilon alternative
				// at the same lookahead (e.g. ElsePart -> else Stmt | ε,
				// both reachable on "else"). Prefer the non-epsilon shift,
				// matching the conventional yacc/bison default resolution,
				// instead of recording a conflict.
				t.cells[nt][term] = hp.Body
				return
			}
			if !existing.IsEpsilon() && hp.Body.IsEpsilon() {
				return
			}
			t.conflicts = append(t.conflicts, Conflict{
				NonTerminal: nt,
				Terminal:    term,
				First:       HeadedProduction{Head: nt, Body: existing},
				Second:      hp,
			})
			return
		}
		t.cells[nt][term] = hp.Body
	}

	for _, head := range g.headOrder {
		for _, body := range g.productions[head] {
			hp := HeadedProduction{Head: head, Body: body}

			if body.IsEpsilon() {
				for term := range follow[head] {
					set(head, term, hp)
				}
				continue
			}

			bodyFirst := firstOfSequence(body, first)
			for term := range bodyFirst {
				if term == Epsilon[0] {
					continue
				}
				set(head, term, hp)
			}
			if bodyFirst[Epsilon[0]] {
				for term := range follow[head] {
					set(head, term, hp)
				}
			}
		}
	}

	return t
}
