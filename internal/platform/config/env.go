package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/BurntSushi/toml"
	"github.com/caarlos0/env/v11"
)

// noDefaultsTag names a struct tag no field carries, so a parse with it as
// the default tag only applies variables that are actually set.
const noDefaultsTag = "envNoDefault"

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Load fills target from envDefault tags, then the TOML file at path, then
// the environment. An empty path skips the file. A missing file is an error
// because a named file is always deliberate.
func Load(path string, target any) (toml.MetaData, error) {
	var meta toml.MetaData
	if err := env.ParseWithOptions(target, env.Options{Environment: map[string]string{}}); err != nil {
		return meta, fmt.Errorf("apply defaults: %w", err)
	}
	if path != "" {
		var err error
		meta, err = toml.DecodeFile(path, target)
		if errors.Is(err, fs.ErrNotExist) {
			return meta, fmt.Errorf("config file %s: %w", path, err)
		}
		if err != nil {
			return meta, fmt.Errorf("decode config file %s: %w", path, err)
		}
		if undecoded := meta.Undecoded(); len(undecoded) > 0 {
			return meta, fmt.Errorf("config file %s: unknown key %q", path, undecoded[0].String())
		}
	}
	if err := env.ParseWithOptions(target, env.Options{DefaultValueTagName: noDefaultsTag}); err != nil {
		return meta, fmt.Errorf("parse env: %w", err)
	}
	return meta, nil
}
