package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherweave/internal/cipher"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yml"))
	require.NoError(t, err)

	assert.Equal(t, 15, cfg.Defaults.CaesarShift)
	assert.Equal(t, "BUTTERFLY", cfg.Defaults.VigenereKey)
	assert.Equal(t, cipher.Grid{A: 5, B: 6}, cfg.ParamDefaults().Grid)
	assert.Equal(t, 16, cfg.Pipeline.MaxSteps)
	assert.Equal(t, 3, cfg.Pipeline.RandomCount)
	assert.Equal(t, "default", cfg.Pipeline.ParamSource)
	assert.Equal(t, []string{"stdout"}, cfg.Pipeline.Sinks)
	assert.Equal(t, 7070, cfg.Serve.GRPCPort)
}

func TestLoad_YAMLAndEnv(t *testing.T) {
	path := writeFile(t, t.TempDir(), "cipherweave.yml", `schema_version: v1
log:
  level: debug
defaults:
  caesar_shift: 4
  vigenere_key: LEMON
  grid_a: 3
  grid_b: 9
pipeline:
  max_steps: 5
  param_source: random
sink_configs:
  kafka:
    brokers: [a:9092, b:9092]
    topic: encoded
`)
	t.Setenv("CIPHERWEAVE__DEFAULTS__CAESAR_SHIFT", "7")
	t.Setenv("CIPHERWEAVE__PIPELINE__SINKS", "stdout,kafka")

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, 7, cfg.Defaults.CaesarShift, "env wins over file")
	assert.Equal(t, "LEMON", cfg.Defaults.VigenereKey)
	assert.Equal(t, cipher.Grid{A: 3, B: 9}, cfg.ParamDefaults().Grid)
	assert.Equal(t, 5, cfg.Pipeline.MaxSteps)
	assert.Equal(t, "random", cfg.Pipeline.ParamSource)
	assert.Equal(t, []string{"stdout", "kafka"}, cfg.Pipeline.Sinks)
	assert.Equal(t, []string{"a:9092", "b:9092"}, cfg.SinkConfigs.Kafka.Brokers)
	assert.Equal(t, "encoded", cfg.SinkConfigs.Kafka.Topic)
}

func TestLoad_UnknownParamSourceFallsBack(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yml", "pipeline:\n  param_source: dice\n")
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "default", cfg.Pipeline.ParamSource)
}

func TestLoad_RejectsSchema(t *testing.T) {
	path := writeFile(t, t.TempDir(), "c.yml", "schema_version: v2\n")
	_, err := Load(path)
	require.Error(t, err)
}
