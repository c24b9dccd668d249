// Package report renders pipeline artifacts — the LL(1) parse table, CST/
// AST dumps, the quadruple stream, and the four symbol-table dictionaries —
// as fixed-width bordered text for `--dump` CLI output and for
// human-readable test-failure diffs. Table rendering follows
// internal/tunascript's LL1Table.String(): build a [][]string grid, then
// hand it to rosed's InsertTableOpts with borders on.
package report

import (
	"fmt"
	"sort"

	"github.com/dekarrin/rosed"
	"github.com/dekarrin/tinyc/internal/cst"
	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/dekarrin/tinyc/internal/ir"
	"github.com/dekarrin/tinyc/internal/sema"
)

// tableWidth is the target line width rosed wraps cell contents to.
const tableWidth = 80

// ParseTable renders an LL(1) predictive parse table as a bordered grid:
// one row per non-terminal, one column per terminal, each cell showing the
// production to apply (blank if the grammar has no rule for that cell).
func ParseTable(g *grammar.Grammar, table *grammar.Table) string {
	nts := table.NonTerminals()
	terms := table.Terminals()

	data := make([][]string, 0, len(nts)+1)

	header := make([]string, 0, len(terms)+1)
	header = append(header, "")
	header = append(header, terms...)
	data = append(data, header)

	for _, nt := range nts {
		row := make([]string, 0, len(terms)+1)
		row = append(row, nt)
		for _, term := range terms {
			prod, ok := table.Lookup(nt, term)
			if !ok {
				row = append(row, "")
				continue
			}
			row = append(row, prod.String())
		}
		data = append(data, row)
	}

	return rosed.Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{TableBorders: true}).
		String()
}

// Tree renders a CST or AST subtree via cst.Node's own leveled String().
// It exists as a named entry point alongside the table/quad/symbol dumps
// rather than having callers reach into internal/cst directly.
func Tree(n *cst.Node) string {
	if n == nil {
		return "(nil)"
	}
	return n.String()
}

// Quadruples renders a quadruple stream as a line-numbered bordered table,
// one row per instruction, using Quadruple.String() for the instruction
// text and separate columns for the raw opcode/operands so a reader can
// scan a single field without re-parsing the rendered instruction.
func Quadruples(quads []ir.Quadruple) string {
	data := [][]string{{"#", "op", "arg1", "arg2", "result"}}
	for i, q := range quads {
		data = append(data, []string{
			fmt.Sprintf("%d", i),
			q.Op, q.Arg1, q.Arg2, q.Result,
		})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{TableBorders: true}).
		String()
}

// SymbolTables renders the four dictionaries sema.Analyze produces as one
// bordered table per dictionary, in a fixed order (constants, strings,
// variables, functions) with rows sorted by symbol name for stable output.
func SymbolTables(result *sema.Result) string {
	if result == nil {
		return ""
	}

	out := "CONSTANTS\n" + symbolDict(result.Constants) + "\n\n"
	out += "STRINGS\n" + symbolDict(result.Strings) + "\n\n"
	out += "VARIABLES\n" + symbolDict(result.Variables) + "\n\n"
	out += "FUNCTIONS\n" + symbolDict(result.Functions)
	return out
}

func symbolDict(symbols map[string]*sema.Symbol) string {
	names := make([]string, 0, len(symbols))
	for name := range symbols {
		names = append(names, name)
	}
	sort.Strings(names)

	data := [][]string{{"name", "kind", "type", "value", "params"}}
	for _, name := range names {
		s := symbols[name]
		data = append(data, []string{
			s.Name, s.Kind.String(), s.Type, s.Value, fmt.Sprintf("%v", s.Params),
		})
	}
	return rosed.Edit("").
		InsertTableOpts(0, data, tableWidth, rosed.Options{TableBorders: true}).
		String()
}
