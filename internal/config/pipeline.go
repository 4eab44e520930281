package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"cipherweave/internal/spec"
)

const SupportedSchema = "v1"

// LoadPipelineSpec parses a saved pipeline YAML and validates schema_version.
func LoadPipelineSpec(path string) (spec.File, error) {
	var f spec.File
	raw, err := os.ReadFile(path)
	if err != nil {
		return f, err
	}
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return f, fmt.Errorf("pipeline %s: %w", path, err)
	}
	if f.SchemaVersion == "" {
		f.SchemaVersion = SupportedSchema
	}
	if f.SchemaVersion != SupportedSchema {
		return f, fmt.Errorf("pipeline schema_version %q not supported (want %q)", f.SchemaVersion, SupportedSchema)
	}
	if len(f.Ciphers) == 0 {
		return f, fmt.Errorf("pipeline %s: no ciphers listed", path)
	}
	return f, nil
}
