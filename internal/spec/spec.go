// Package spec is the YAML schema of a saved pipeline file.
package spec

type Grid struct {
	A int `yaml:"a"`
	B int `yaml:"b"`
}

// CipherSpec is one step. Parameter fields are optional and only read by
// the cipher they belong to; anything omitted is resolved like a CLI run.
type CipherSpec struct {
	Name  string  `yaml:"name"`
	Shift *int    `yaml:"shift"`
	Key   *string `yaml:"key"`
	Grid  *Grid   `yaml:"grid"`
}

type File struct {
	SchemaVersion string `yaml:"schema_version"`

	// Optional plaintext; the command line wins when both are set.
	Text string `yaml:"text"`

	// Ordered list of ciphers applied to the text.
	Ciphers []CipherSpec `yaml:"ciphers"`

	// Sinks receiving the finished run; empty means the configured default.
	Sinks []string `yaml:"sinks"`
}
