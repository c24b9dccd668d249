package config

import (
	"fmt"
	"os"

	"github.com/dekarrin/tinyc/internal/grammar"
	"github.com/dekarrin/tinyc/internal/pipeline"
)

// BuildGrammar loads the grammar named by cfg.GrammarFile, or the bundled
// default if cfg.GrammarFile is empty, applies cfg.StartSymbol if set, and
// finalizes it (left-recursion elimination + left-factoring to fixpoint)
// before returning it.
func (cfg Config) BuildGrammar() (*grammar.Grammar, error) {
	var g *grammar.Grammar
	if cfg.GrammarFile == "" {
		loaded, err := grammar.LoadDefaultUnfinalized()
		if err != nil {
			return nil, fmt.Errorf("config: loading default grammar: %w", err)
		}
		g = loaded
	} else {
		text, err := os.ReadFile(cfg.GrammarFile)
		if err != nil {
			return nil, fmt.Errorf("config: reading grammar file %s: %w", cfg.GrammarFile, err)
		}
		loaded, err := grammar.Load(string(text))
		if err != nil {
			return nil, fmt.Errorf("config: parsing grammar file %s: %w", cfg.GrammarFile, err)
		}
		g = loaded
	}

	if cfg.StartSymbol != "" {
		g.Start = cfg.StartSymbol
	}
	if err := g.Finalize(true, true); err != nil {
		return nil, fmt.Errorf("config: finalizing grammar: %w", err)
	}
	return g, nil
}

// BuildPipeline builds the grammar cfg describes and returns a ready-to-run
// Pipeline over it.
func (cfg Config) BuildPipeline() (*pipeline.Pipeline, error) {
	g, err := cfg.BuildGrammar()
	if err != nil {
		return nil, err
	}
	return pipeline.New(g)
}

// ScannerBackend maps cfg.Backend onto a pipeline.Backend value.
func (cfg Config) ScannerBackend() pipeline.Backend {
	return pipeline.Backend(cfg.Backend)
}
