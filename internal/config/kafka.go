package config

import (
	ksrc "cipherweave/source/kafka"
)

// LoadSourceConfig delegates to the Kafka source loader while centralizing
// loader entrypoints under internal/config.
func LoadSourceConfig(path string) (ksrc.Config, error) {
	return ksrc.LoadConfig(path)
}
