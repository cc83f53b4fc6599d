package main

import (
	"fmt"

	"github.com/BurntSushi/toml"
)

// fileConfig mirrors the convert flags. Every field is optional; flags given
// on the command line override the file.
type fileConfig struct {
	Format         string `toml:"format"`
	Separator      string `toml:"separator"`
	IndexNotation  string `toml:"index_notation"`
	NullMarker     string `toml:"null_marker"`
	EmptyPolicy    string `toml:"empty_policy"`
	EmptySentinel  string `toml:"empty_sentinel"`
	MaxDepth       int    `toml:"max_depth"`
	MissingDefault string `toml:"missing_default"`
	ColumnOrder    string `toml:"column_order"`
	Delimiter      string `toml:"delimiter"`
	Compress       string `toml:"compress"`
	Workers        int    `toml:"workers"`
	Stream         bool   `toml:"stream"`
}

func loadFileConfig(path string) (fileConfig, error) {
	var cfg fileConfig
	meta, err := toml.DecodeFile(path, &cfg)
	if err != nil {
		return fileConfig{}, fmt.Errorf("%s: failed to parse TOML: %w", path, err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return fileConfig{}, fmt.Errorf("%s: unknown key %q", path, undecoded[0].String())
	}

	return cfg, nil
}
