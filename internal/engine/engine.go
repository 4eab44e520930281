package engine

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"cipherweave/internal/logging"
	"cipherweave/internal/transport"
	"cipherweave/source/kafka"
)

type Engine struct {
	svc       *Service
	transport *transport.Server
	source    kafka.Adapter
	metrics   *http.Server
	ciphers   []string
}

// Service exposes the request pipeline behind the engine.
func (e *Engine) Service() *Service { return e.svc }

// Addr is the gRPC listen address.
func (e *Engine) Addr() net.Addr { return e.transport.Addr() }

// Run serves gRPC and, when configured, consumes the source until ctx ends.
func (e *Engine) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		<-gctx.Done()
		e.transport.Stop()
		if e.source != nil {
			_ = e.source.Close()
		}
		sctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		shutdownMetrics(sctx, e.metrics)
		return nil
	})

	g.Go(func() error {
		return e.transport.Serve()
	})

	if e.source != nil {
		g.Go(func() error {
			err := e.source.Run(gctx, e.emit)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}

	err := g.Wait()
	if cerr := e.svc.Close(); err == nil {
		err = cerr
	}
	return err
}

// emit runs one source message. Failed runs are published like any other;
// only a sink failure leaves the message for redelivery.
func (e *Engine) emit(ctx context.Context, m kafka.Message) error {
	req := Request{Text: m.Text, Key: m.Key}
	if len(e.ciphers) > 0 {
		req.Ciphers = e.ciphers
	} else {
		req.Random = true
	}
	out, err := e.svc.Encode(ctx, req)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrSink):
		return err
	case out == nil:
		logging.L().Error("source: message rejected", "topic", m.Topic, "partition", m.Partition, "offset", m.Offset, "err", err)
	}
	return nil
}
