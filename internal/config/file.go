package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// mergeFile overlays values from a YAML file onto cfg. Unknown keys are
// rejected so typos fail loudly instead of silently falling back to defaults.
func mergeFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(cfg); err != nil {
		if errors.Is(err, io.EOF) {
			return nil // empty file is a no-op
		}
		return fmt.Errorf("decode %s: %w", path, err)
	}
	return nil
}
