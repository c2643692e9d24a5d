package config

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"
)

// LoadTOML reads user global per-picker config from a TOML file.
//
// The file groups options under a pickers table:
//
//	[pickers.find_files]
//	max_results = 500
//
//	[pickers.find_files.mappings]
//	"ctrl-v" = "open-split"
//
// A missing file is not an error and yields nil.
func LoadTOML(path string) (map[string]map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}
	return ParseTOML(data)
}

// ParseTOML parses TOML config data into per-picker option tables.
func ParseTOML(data []byte) (map[string]map[string]any, error) {
	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	pickersVal, ok := raw["pickers"]
	if !ok {
		return nil, nil
	}
	pickers, ok := pickersVal.(map[string]any)
	if !ok {
		return nil, fmt.Errorf("parsing config: pickers must be a table, got %T", pickersVal)
	}

	out := make(map[string]map[string]any, len(pickers))
	for name, val := range pickers {
		table, ok := val.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("parsing config: pickers.%s must be a table, got %T", name, val)
		}
		out[name] = table
	}
	return out, nil
}
