// Package config loads the on-disk TOML configuration for the tinyc
// front end: which grammar file and start symbol to build the LL(1) table
// from, which scanner backend to run, and a tab width setting. It follows internal/tqw's pattern of decoding
// a TOML file into a plain struct (BurntSushi/toml) and applying Go-side
// defaults when the file is absent, rather than requiring one to exist.
package config

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Config is the full set of values a Pipeline needs besides the source text
// itself. The zero Config is not valid on its own; use Default or Load.
type Config struct {
	// GrammarFile is a path to a grammar rule file in the format
	// internal/grammar.Load accepts. Empty means use the bundled default
	// grammar (internal/grammar.Default).
	GrammarFile string `toml:"grammar_file"`

	// StartSymbol overrides the grammar's declared start symbol. Empty
	// means use whatever the grammar file declares.
	StartSymbol string `toml:"start_symbol"`

	// Backend selects the scanner implementation: "manual" or "auto".
	Backend string `toml:"backend"`

	// TabWidth is the number of columns a tab character advances. It is
	// loaded and defaulted but not read by any other package: internal/cerr
	// renders source-line cursors counting a tab as one column.
	TabWidth int `toml:"tab_width"`
}

// Default returns the configuration used when no config file is given: the
// bundled grammar, its own declared start symbol, the manual scanner, and
// an 4-column tab width.
func Default() Config {
	return Config{
		Backend:  "manual",
		TabWidth: 4,
	}
}

// Load reads and decodes the TOML file at path, filling in Default() for
// any field the file leaves unset. A missing file is not an error: Load
// returns Default() unchanged, matching internal/tqw's LoadWorldDataFile
// treating an optional resource as absent-is-fine.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return cfg, fmt.Errorf("config: reading %s: %w", path, err)
	}

	// Decode into a separate struct with the same tags so a field the file
	// omits does not clobber the default with a Go zero value.
	var onDisk struct {
		GrammarFile string `toml:"grammar_file"`
		StartSymbol string `toml:"start_symbol"`
		Backend     string `toml:"backend"`
		TabWidth    int    `toml:"tab_width"`
	}
	if _, err := toml.Decode(string(data), &onDisk); err != nil {
		return cfg, fmt.Errorf("config: parsing %s: %w", path, err)
	}

	if onDisk.GrammarFile != "" {
		cfg.GrammarFile = onDisk.GrammarFile
	}
	if onDisk.StartSymbol != "" {
		cfg.StartSymbol = onDisk.StartSymbol
	}
	if onDisk.Backend != "" {
		cfg.Backend = onDisk.Backend
	}
	if onDisk.TabWidth != 0 {
		cfg.TabWidth = onDisk.TabWidth
	}

	return cfg, nil
}
