// Package cerr provides the typed errors produced by each stage of the
// tinyc pipeline: lexical, syntax, semantic, and IR-building errors. Each
// carries both a short technical Error() string and, where source position
// is known, a FullMessage() that underlines the offending line.
package cerr

import "fmt"

// LexError is a single lexical-analysis defect: an unrecognized character,
// an illegal operator run, an unterminated string/char literal or block
// comment, or a malformed numeric literal. The
// lexer accumulates these and continues scanning rather than stopping at
// the first one.
type LexError struct {
	Line    int
	Pos     int
	Lexeme  string
	Message string

	sourceLine string
}

func (e LexError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("lex error: %s", e.Message)
	}
	return fmt.Sprintf("lex error: line %d, col %d: %s", e.Line, e.Pos, e.Message)
}

// FullMessage returns Error() preceded by the offending source line and a
// cursor under the offending column.
func (e LexError) FullMessage() string {
	if e.sourceLine == "" {
		return e.Error()
	}
	return SourceLineWithCursor(e.sourceLine, e.Pos) + "\n" + e.Error()
}

// WithSourceLine returns a copy of e with its source line set, for
// FullMessage rendering.
func (e LexError) WithSourceLine(line string) LexError {
	e.sourceLine = line
	return e
}

// SyntaxError is the single structural parse error the parser raises; the
// parser has no error recovery, so at most one of these is ever produced
// per parse.
type SyntaxError struct {
	Line    int
	Pos     int
	Lexeme  string
	Message string

	sourceLine string
}

func (e SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error: %s", e.Message)
	}
	return fmt.Sprintf("syntax error: around line %d, col %d: %s", e.Line, e.Pos, e.Message)
}

// FullMessage returns Error() preceded by the offending source line and a
// cursor under the offending column.
func (e SyntaxError) FullMessage() string {
	if e.sourceLine == "" {
		return e.Error()
	}
	return SourceLineWithCursor(e.sourceLine, e.Pos) + "\n" + e.Error()
}

// WithSourceLine returns a copy of e with its source line set, for
// FullMessage rendering.
func (e SyntaxError) WithSourceLine(line string) SyntaxError {
	e.sourceLine = line
	return e
}

// SemanticError is a single defect found by internal/sema: a redeclaration,
// an undeclared identifier, a call to an undeclared function, or an
// unsupported declared type. internal/sema accumulates these and keeps walking the
// tree so a single compile reports every semantic defect at once.
type SemanticError struct {
	Line    int
	Message string
}

func (e SemanticError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("semantic error: %s", e.Message)
	}
	return fmt.Sprintf("semantic error: line %d: %s", e.Line, e.Message)
}

// IRWarning flags an AST shape internal/ir chose to skip instead of
// treating as fatal (e.g. an assignment whose target is not a plain
// identifier). It is informational, never returned as the pipeline's
// terminal error.
type IRWarning struct {
	NodeLabel string
	Message   string
}

func (w IRWarning) String() string {
	return fmt.Sprintf("ir warning: %s: %s", w.NodeLabel, w.Message)
}

// SourceLineWithCursor renders line with a second line below it containing
// a single "^" under the 1-indexed column pos.
func SourceLineWithCursor(line string, pos int) string {
	cursor := ""
	for i := 0; i < pos-1; i++ {
		cursor += " "
	}
	cursor += "^"
	return line + "\n" + cursor
}
