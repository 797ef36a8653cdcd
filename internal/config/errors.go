package config

import (
	"errors"
	"fmt"
)

// ErrExplicitNotFound is returned when a configuration file named by --config
// or MKGITBRANCH_CONFIG does not exist.
var ErrExplicitNotFound = errors.New("configuration file not found")

// ConfigError reports a configuration file that was located but could not be
// used. Resolve still returns the defaults alongside it.
type ConfigError struct {
	Path string
	Err  error
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid configuration in %s: %v", e.Path, e.Err)
}

func (e *ConfigError) Unwrap() error {
	return e.Err
}
