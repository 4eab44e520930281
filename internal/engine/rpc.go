package engine

import (
	"context"
	"errors"
	"fmt"

	"cipherweave/internal/cipher"
	"cipherweave/internal/logging"
	"cipherweave/internal/params"
	"cipherweave/internal/transport"
)

// rpcHandler adapts the Service to the gRPC transport.
type rpcHandler struct{ svc *Service }

func (h rpcHandler) Run(ctx context.Context, r transport.Request) (transport.Response, error) {
	req := Request{
		Text:       r.Text,
		Ciphers:    r.Ciphers,
		Random:     r.Random,
		Count:      r.Count,
		CountGiven: r.Count != 0,
		Overrides:  params.Overrides{Shift: r.Shift, Key: r.Key},
	}
	if r.Grid != "" {
		g, err := params.ParseGrid(r.Grid)
		if err != nil {
			logging.L().Warn("rpc: ignoring grid override", "grid", r.Grid, "err", err)
		} else {
			req.Overrides.Grid = &g
		}
	}

	out, err := h.svc.Encode(ctx, req)
	if out == nil {
		if isCallerError(err) {
			return transport.Response{}, fmt.Errorf("%w: %v", transport.ErrInvalidRequest, err)
		}
		return transport.Response{}, err
	}
	return toResponse(out), nil
}

func isCallerError(err error) bool {
	for _, target := range []error{
		ErrNoSelection,
		cipher.ErrUnknownTransform,
		cipher.ErrInvalidOrdering,
		cipher.ErrInvalidStepCount,
	} {
		if errors.Is(err, target) {
			return true
		}
	}
	return false
}

func toResponse(o *Outcome) transport.Response {
	rec := o.Record("")
	resp := transport.Response{
		RunID:    rec.RunID,
		Ciphers:  rec.Ciphers,
		Encoded:  rec.Encoded,
		Decoded:  o.Result.Decoded,
		Document: rec.Document,
		State:    rec.State,
		Verified: rec.Verified,
		Failure:  rec.Failure,
	}
	for _, w := range o.Warnings {
		resp.Warnings = append(resp.Warnings, w.Error())
	}
	return resp
}
