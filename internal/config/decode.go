package config

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

// decode fills a Config from a parsed TOML table one key at a time. A key
// whose value has the wrong type is left unset, so it keeps its default, and
// is reported in the returned error. Tables that fail as a whole are retried
// key by key.
func decode(table map[string]any) (Config, error) {
	var cfg Config
	var errs []error
	decodeTable(&cfg, nil, table, &errs)
	return cfg, errors.Join(errs...)
}

func decodeTable(cfg *Config, path []string, table map[string]any, errs *[]error) {
	for _, k := range slices.Sorted(maps.Keys(table)) {
		v := table[k]
		p := append(slices.Clone(path), k)

		err := decodeKey(cfg, p, v)
		if err == nil {
			continue
		}
		if sub, ok := v.(map[string]any); ok {
			decodeTable(cfg, p, sub, errs)
			continue
		}
		*errs = append(*errs, fmt.Errorf("%s: %w", strings.Join(p, "."), err))
	}
}

// decodeKey decodes the single value v found at path into cfg.
func decodeKey(cfg *Config, path []string, v any) error {
	doc := v
	for i := len(path) - 1; i >= 0; i-- {
		doc = map[string]any{path[i]: doc}
	}
	data, err := toml.Marshal(doc)
	if err != nil {
		return err
	}
	return toml.Unmarshal(data, cfg)
}
