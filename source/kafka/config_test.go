package kafka

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfig_FileAndEnv(t *testing.T) {
	p := filepath.Join(t.TempDir(), "kafka.yml")
	require.NoError(t, os.WriteFile(p, []byte(`schema_version: v1
brokers: [localhost:9092]
topics: [plaintexts]
throttle:
  rate: 50
`), 0o644))
	t.Setenv("CIPHERWEAVE_KAFKA__GROUP_ID", "encoders")
	t.Setenv("CIPHERWEAVE_KAFKA__TOPICS", "a,b")

	cfg, err := LoadConfig(p)
	require.NoError(t, err)
	assert.Equal(t, "sarama", cfg.Driver)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Brokers)
	assert.Equal(t, []string{"a", "b"}, cfg.Topics)
	assert.Equal(t, "encoders", cfg.GroupID)
	assert.EqualValues(t, 50, cfg.Throttle.Rate)
	assert.Equal(t, time.Second, cfg.Throttle.Tick)
	assert.Equal(t, 5*time.Second, cfg.Checkpoint.CommitInt)
	assert.Equal(t, "newest", cfg.StartFrom)
}

func TestLoadConfig_RequiresBrokersAndTopics(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
	require.Error(t, err)
}

func TestLoadConfig_RejectsSchema(t *testing.T) {
	p := filepath.Join(t.TempDir(), "kafka.yml")
	require.NoError(t, os.WriteFile(p, []byte("schema_version: v9\n"), 0o644))
	_, err := LoadConfig(p)
	require.Error(t, err)
}
