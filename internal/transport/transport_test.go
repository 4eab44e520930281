package transport

import (
	"context"
	"fmt"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type echoHandler struct{ last Request }

func (h *echoHandler) Run(_ context.Context, r Request) (Response, error) {
	h.last = r
	if r.Text == "" {
		return Response{}, fmt.Errorf("%w: text is required", ErrInvalidRequest)
	}
	if r.Text == "sink failure" {
		return Response{}, fmt.Errorf("sink down")
	}
	return Response{
		RunID:    "run-1",
		Ciphers:  r.Ciphers,
		Encoded:  "Wtaad",
		Decoded:  r.Text,
		State:    "verified",
		Verified: true,
		Warnings: []string{"caesar shift \"99\": out of range"},
	}, nil
}

func startPair(t *testing.T, h Handler) *Client {
	t.Helper()
	srv, err := StartServer(0, h)
	require.NoError(t, err)
	go func() { _ = srv.Serve() }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	c, err := Dial(ctx, fmt.Sprintf("127.0.0.1:%d", srv.Addr().(*net.TCPAddr).Port))
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c
}

func TestRun_RoundTrip(t *testing.T) {
	h := &echoHandler{}
	c := startPair(t, h)

	shift, key := 99, "LEMON"
	resp, err := c.Run(context.Background(), Request{
		Text:    "Hello",
		Ciphers: []string{"caesar", "vigenere"},
		Count:   2,
		Shift:   &shift,
		Key:     &key,
		Grid:    "3x9",
	})
	require.NoError(t, err)

	assert.Equal(t, "run-1", resp.RunID)
	assert.Equal(t, []string{"caesar", "vigenere"}, resp.Ciphers)
	assert.True(t, resp.Verified)
	assert.Equal(t, "Hello", resp.Decoded)
	assert.Len(t, resp.Warnings, 1)

	require.NotNil(t, h.last.Shift)
	assert.Equal(t, 99, *h.last.Shift)
	assert.Equal(t, "LEMON", *h.last.Key)
	assert.Equal(t, "3x9", h.last.Grid)
	assert.Equal(t, 2, h.last.Count)
	assert.False(t, h.last.Random)
}

func TestRun_OptionalOverridesStayNil(t *testing.T) {
	h := &echoHandler{}
	c := startPair(t, h)

	_, err := c.Run(context.Background(), Request{Text: "x", Random: true})
	require.NoError(t, err)
	assert.Nil(t, h.last.Shift)
	assert.Nil(t, h.last.Key)
	assert.Empty(t, h.last.Ciphers)
	assert.True(t, h.last.Random)
}

func TestRun_ErrorCodes(t *testing.T) {
	c := startPair(t, &echoHandler{})

	_, err := c.Run(context.Background(), Request{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))

	_, err = c.Run(context.Background(), Request{Text: "sink failure"})
	assert.Equal(t, codes.Internal, status.Code(err))
}

func TestDial_TimesOutWithoutServer(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()
	_, err := Dial(ctx, "127.0.0.1:1")
	require.Error(t, err)
}
