package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"cipherweave/internal/cipher"
	"cipherweave/internal/params"
	kafkasink "cipherweave/sink/kafka"
	"cipherweave/sink/stdout"
)

// EnvPrefix scopes environment overrides: CIPHERWEAVE__DEFAULTS__CAESAR_SHIFT=3.
const EnvPrefix = "CIPHERWEAVE__"

const (
	defaultMaxSteps    = 16
	defaultRandomCount = 3
)

type LogConfig struct {
	Level string `koanf:"level"`
	JSON  bool   `koanf:"json"`
}

type DefaultsConfig struct {
	CaesarShift int    `koanf:"caesar_shift"`
	VigenereKey string `koanf:"vigenere_key"`
	GridA       int    `koanf:"grid_a"`
	GridB       int    `koanf:"grid_b"`
}

type PipelineConfig struct {
	MaxSteps    int      `koanf:"max_steps"`
	RandomCount int      `koanf:"random_count"`
	ParamSource string   `koanf:"param_source"` // default|random
	Sinks       []string `koanf:"sinks"`
}

type ServeConfig struct {
	GRPCPort     int      `koanf:"grpc_port"`
	MetricsPort  int      `koanf:"metrics_port"`
	Source       string   `koanf:"source"` // "" or kafka
	SourceConfig string   `koanf:"source_config"`
	Ciphers      []string `koanf:"ciphers"` // applied to source messages; empty draws at random
}

type SinkConfigs struct {
	Stdout stdout.Config    `koanf:"stdout"`
	Kafka  kafkasink.Config `koanf:"kafka"`
}

type Config struct {
	SchemaVersion string         `koanf:"schema_version"`
	Log           LogConfig      `koanf:"log"`
	Defaults      DefaultsConfig `koanf:"defaults"`
	Pipeline      PipelineConfig `koanf:"pipeline"`
	Serve         ServeConfig    `koanf:"serve"`
	SinkConfigs   SinkConfigs    `koanf:"sink_configs"`
}

// Load merges YAML (if present) with CIPHERWEAVE__ env vars and applies
// defaults. A missing file is not an error.
func Load(path string) (Config, error) {
	k := koanf.New(".")
	if path != "" {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil &&
			!errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("config %s: %w", path, err)
		}
	}
	sv := k.String("schema_version")
	if sv != "" && sv != SupportedSchema {
		return Config{}, fmt.Errorf("config schema_version %q not supported (want %q)", sv, SupportedSchema)
	}

	if err := k.Load(env.ProviderWithValue(EnvPrefix, ".", envValue), nil); err != nil {
		return Config{}, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return cfg, err
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// envValue maps CIPHERWEAVE__SERVE__GRPC_PORT to serve.grpc_port and splits
// comma-separated values into lists.
func envValue(key, value string) (string, any) {
	key = strings.ReplaceAll(strings.ToLower(strings.TrimPrefix(key, EnvPrefix)), "__", ".")
	if strings.Contains(value, ",") {
		return key, strings.Split(value, ",")
	}
	return key, value
}

// ---------------------------------------------------------------------------
// defaults
// ---------------------------------------------------------------------------

func applyDefaults(c *Config) {
	if c.SchemaVersion == "" {
		c.SchemaVersion = SupportedSchema
	}
	if c.Defaults.CaesarShift == 0 {
		c.Defaults.CaesarShift = params.DefaultShift
	}
	if c.Defaults.VigenereKey == "" {
		c.Defaults.VigenereKey = params.DefaultKey
	}
	if c.Defaults.GridA == 0 && c.Defaults.GridB == 0 {
		c.Defaults.GridA, c.Defaults.GridB = params.DefaultGridA, params.DefaultGridB
	}
	if c.Pipeline.MaxSteps <= 0 {
		c.Pipeline.MaxSteps = defaultMaxSteps
	}
	if c.Pipeline.RandomCount <= 0 {
		c.Pipeline.RandomCount = defaultRandomCount
	}
	switch params.Source(c.Pipeline.ParamSource) {
	case params.SourceDefault, params.SourceRandom:
	default:
		c.Pipeline.ParamSource = string(params.SourceDefault)
	}
	if len(c.Pipeline.Sinks) == 0 {
		c.Pipeline.Sinks = []string{"stdout"}
	}
	if c.Serve.GRPCPort == 0 {
		c.Serve.GRPCPort = 7070
	}
	if c.Serve.MetricsPort == 0 {
		c.Serve.MetricsPort = 9100
	}
}

// ParamDefaults converts the defaults section for the resolver, which
// repairs any out-of-range values itself.
func (c Config) ParamDefaults() params.Defaults {
	return params.Defaults{
		Shift: c.Defaults.CaesarShift,
		Key:   c.Defaults.VigenereKey,
		Grid:  cipher.Grid{A: c.Defaults.GridA, B: c.Defaults.GridB},
	}
}
