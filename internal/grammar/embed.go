package grammar

import (
	_ "embed"
	"fmt"
)

//go:embed tinyc.grammar
var defaultGrammarText string

// Default loads, finalizes, and returns the bundled tinyc grammar. It is
// used whenever internal/config has no grammar file override.
func Default() (*Grammar, error) {
	g, err := LoadDefaultUnfinalized()
	if err != nil {
		return nil, err
	}
	if err := g.Finalize(true, true); err != nil {
		return nil, fmt.Errorf("default grammar: %w", err)
	}
	return g, nil
}

// LoadDefaultUnfinalized parses the bundled tinyc grammar but does not
// finalize it, so a caller (internal/config) can apply a start-symbol
// override before Finalize runs FIRST/FOLLOW over it.
func LoadDefaultUnfinalized() (*Grammar, error) {
	g, err := Load(defaultGrammarText)
	if err != nil {
		return nil, fmt.Errorf("default grammar: %w", err)
	}
	return g, nil
}
