package kafka

import (
	"encoding/json"
	"fmt"
	"testing"

	"github.com/IBM/sarama"
	"github.com/IBM/sarama/mocks"
	"github.com/stretchr/testify/require"

	"cipherweave/sink"
)

func withMockProducer(t *testing.T) *mocks.AsyncProducer {
	t.Helper()
	mp := mocks.NewAsyncProducer(t, nil)
	prev := newProducer
	newProducer = func(Config) (sarama.AsyncProducer, error) { return mp, nil }
	t.Cleanup(func() { newProducer = prev })
	return mp
}

func TestDriver_PushPublishesJSONRecord(t *testing.T) {
	mp := withMockProducer(t)
	mp.ExpectInputWithCheckerFunctionAndSucceed(func(val []byte) error {
		var r sink.Record
		if err := json.Unmarshal(val, &r); err != nil {
			return err
		}
		if r.RunID != "run-1" || r.Encoded != "uryyb" {
			return fmt.Errorf("unexpected record %+v", r)
		}
		return nil
	})

	d, err := sink.NewAdapter("kafka")
	require.NoError(t, err)
	require.NoError(t, d.Configure(Config{Brokers: []string{"localhost:9092"}, Topic: "encoded"}))
	require.NoError(t, d.Push(sink.Record{RunID: "run-1", Encoded: "uryyb", State: "verified", Verified: true}))
	require.NoError(t, d.Close())
	require.NoError(t, d.Close(), "close is idempotent")
}

func TestDriver_ConfigureRejectsIncompleteConfig(t *testing.T) {
	d := &driver{}
	require.Error(t, d.Configure(Config{Topic: "x"}))
	require.Error(t, d.Configure("not a config"))
	require.NoError(t, d.Close())
}
