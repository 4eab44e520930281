package engine

import (
	"context"
	"errors"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"cipherweave/internal/transport"
	"cipherweave/source/kafka"
)

func serveTest(t *testing.T, mem *memSink) (*transport.Client, func() error) {
	t.Helper()
	cfg := testConfig(t)
	cfg.Serve.GRPCPort = 0
	cfg.Serve.MetricsPort = 0

	ctx, cancel := context.WithCancel(context.Background())
	eng, err := Bootstrap(ctx, cfg, WithSink("mem", mem))
	require.NoError(t, err)

	done := make(chan error, 1)
	go func() { done <- eng.Run(ctx) }()

	dctx, dcancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer dcancel()
	c, err := transport.Dial(dctx, fmt.Sprintf("127.0.0.1:%d", eng.Addr().(*net.TCPAddr).Port))
	require.NoError(t, err)

	stop := func() error {
		_ = c.Close()
		cancel()
		select {
		case err := <-done:
			return err
		case <-time.After(5 * time.Second):
			return errors.New("engine did not stop")
		}
	}
	return c, stop
}

func TestEngine_ServesRunOverGRPC(t *testing.T) {
	mem := &memSink{}
	c, stop := serveTest(t, mem)

	shift := 3
	resp, err := c.Run(context.Background(), transport.Request{
		Text:    "Hello, World!",
		Ciphers: []string{"caesar", "atbash"},
		Shift:   &shift,
	})
	require.NoError(t, err)
	assert.Equal(t, "verified", resp.State)
	assert.True(t, resp.Verified)
	assert.Equal(t, "Hello, World!", resp.Decoded)
	assert.Equal(t, []string{"caesar", "atbash"}, resp.Ciphers)
	assert.Contains(t, resp.Document, "3 positions backward")

	_, err = c.Run(context.Background(), transport.Request{Text: "x", Ciphers: []string{"caesar", "reverse_word_order"}})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	require.NoError(t, stop())
	assert.Len(t, mem.records, 1)
	assert.True(t, mem.closed, "sinks closed on shutdown")
}

func TestEngine_GridOverrideOverRPC(t *testing.T) {
	c, stop := serveTest(t, &memSink{})
	defer func() { require.NoError(t, stop()) }()

	resp, err := c.Run(context.Background(), transport.Request{
		Text:    "ABC",
		Ciphers: []string{"grid_coordinate"},
		Grid:    "2x13",
	})
	require.NoError(t, err)
	assert.Equal(t, "(0,0)(0,1)(0,2)", resp.Encoded)
	assert.Contains(t, resp.Document, "with a = 2 and b = 13")
}

func TestBootstrap_UnknownSource(t *testing.T) {
	cfg := testConfig(t)
	cfg.Serve.GRPCPort = 0
	cfg.Serve.MetricsPort = 0
	cfg.Serve.Source = "carrier-pigeon"
	_, err := Bootstrap(context.Background(), cfg)
	require.Error(t, err)
}

func TestEngine_EmitPublishesSourceMessages(t *testing.T) {
	mem := &memSink{}
	e := &Engine{svc: NewService(testConfig(t), WithSink("mem", mem)), ciphers: []string{"atbash"}}

	require.NoError(t, e.emit(context.Background(), kafka.Message{Key: "k1", Text: "abc"}))
	require.Len(t, mem.records, 1)
	assert.Equal(t, "k1", mem.records[0].Key)
	assert.Equal(t, "zyx", mem.records[0].Encoded)
}

func TestEngine_EmitRandomWhenNoCiphersConfigured(t *testing.T) {
	mem := &memSink{}
	e := &Engine{svc: NewService(testConfig(t), WithSink("mem", mem), WithRand(&seqRand{}))}

	require.NoError(t, e.emit(context.Background(), kafka.Message{Text: "plain words here"}))
	require.Len(t, mem.records, 1)
	assert.NotEmpty(t, mem.records[0].Ciphers)
}

func TestEngine_EmitErrors(t *testing.T) {
	bad := &Engine{svc: NewService(testConfig(t), WithSink("mem", &memSink{})), ciphers: []string{"rot13"}}
	assert.NoError(t, bad.emit(context.Background(), kafka.Message{Text: "abc"}), "rejected messages are skipped")

	failing := &Engine{svc: NewService(testConfig(t), WithSink("mem", &memSink{fail: errors.New("down")})), ciphers: []string{"atbash"}}
	assert.ErrorIs(t, failing.emit(context.Background(), kafka.Message{Text: "abc"}), ErrSink, "sink failures are redelivered")
}
