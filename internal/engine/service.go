package engine

import (
	"context"
	"errors"
	"fmt"
	"math/rand/v2"
	"sync"

	"cipherweave/internal/cipher"
	"cipherweave/internal/config"
	"cipherweave/internal/logging"
	"cipherweave/internal/params"
	"cipherweave/internal/pipeline"
	"cipherweave/internal/render"
	"cipherweave/internal/telemetry"
	"cipherweave/sink"
)

var (
	// ErrNoSelection means the request named no ciphers and asked for no random draw.
	ErrNoSelection = errors.New("no ciphers selected: name ciphers or request a random selection")

	// ErrSink wraps failed sink pushes. The run itself completed.
	ErrSink = errors.New("sink push failed")
)

// Request is one run as asked for by the CLI, the gRPC endpoint or a
// source message.
type Request struct {
	Text string

	// Ciphers is an explicit ordered list; ignored when Random is set.
	Ciphers []string
	Random  bool

	// Count limits Ciphers or sizes a random draw when CountGiven is set.
	Count      int
	CountGiven bool

	Overrides params.Overrides

	// PipelinePath loads ciphers, per-step params, text and sinks from a
	// saved pipeline. Text and Sinks on the request win when set.
	PipelinePath string

	// Sinks overrides the configured sink list.
	Sinks []string

	// Key is carried to sinks, e.g. the upstream message key.
	Key string
}

// Outcome is a finished run with its rendered document.
type Outcome struct {
	Ciphers      []cipher.ID
	Result       *pipeline.Result
	Warnings     []params.Warning
	Instructions []string
	Document     string

	// Sinks the outcome is published to.
	Sinks []string
}

// Record converts the outcome for sinks.
func (o *Outcome) Record(key string) sink.Record {
	r := sink.Record{
		RunID:    o.Result.ID,
		Key:      key,
		Encoded:  o.Result.Encoded,
		Document: o.Document,
		State:    o.Result.State.String(),
		Verified: o.Result.Verified,
	}
	for _, id := range o.Ciphers {
		r.Ciphers = append(r.Ciphers, string(id))
	}
	if o.Result.Err != nil {
		r.Failure = o.Result.Err.Error()
	}
	return r
}

// globalRand draws from the goroutine-safe top-level generator.
type globalRand struct{}

func (globalRand) IntN(n int) int { return rand.IntN(n) }

type ServiceOption func(*Service)

// WithRand replaces the random source used for selection, random params
// and word-map listings.
func WithRand(r cipher.Rand) ServiceOption {
	return func(s *Service) { s.rand = r }
}

// WithSink installs an already configured adapter under name.
func WithSink(name string, a sink.Adapter) ServiceOption {
	return func(s *Service) { s.sinks[name] = a }
}

// Service runs requests end to end: select, validate, resolve, execute,
// verify, render, publish.
type Service struct {
	cfg    config.Config
	runner *pipeline.Runner
	rand   cipher.Rand

	mu    sync.Mutex
	sinks map[string]sink.Adapter
}

func NewService(cfg config.Config, opts ...ServiceOption) *Service {
	s := &Service{
		cfg:    cfg,
		runner: pipeline.NewRunner(),
		rand:   globalRand{},
		sinks:  map[string]sink.Adapter{},
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Encode performs one run and publishes it. Selection and validation
// errors return a nil Outcome. A failing step returns both the Outcome,
// holding the completed steps, and the *pipeline.StepError. Sink failures
// wrap ErrSink.
func (s *Service) Encode(ctx context.Context, req Request) (*Outcome, error) {
	out, runErr := s.Run(ctx, req)
	if out == nil {
		return nil, runErr
	}
	sinkErr := s.Publish(out, req.Key)
	switch {
	case runErr == nil:
		return out, sinkErr
	case sinkErr == nil:
		return out, runErr
	}
	return out, errors.Join(runErr, sinkErr)
}

// Run is Encode without publishing.
func (s *Service) Run(ctx context.Context, req Request) (*Outcome, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	compiled, text, sinks, err := s.plan(req)
	if err != nil {
		return nil, err
	}
	ids := compiled.IDs()
	if err := pipeline.Validate(ids, s.cfg.Pipeline.MaxSteps); err != nil {
		return nil, err
	}

	plan, warns := compiled.Plan(s.cfg.ParamDefaults(), req.Overrides, params.Source(s.cfg.Pipeline.ParamSource), s.rand)
	for _, w := range warns {
		telemetry.ParamFallbacks.WithLabelValues(string(w.Cipher)).Inc()
	}

	res, runErr := s.runner.Run(text, plan)
	out := &Outcome{Ciphers: ids, Result: res, Warnings: warns, Sinks: sinks}
	out.Instructions = render.Instructions(res.Steps, render.Options{Rand: s.rand})
	out.Document = render.Document(res.Encoded, render.Steps(out.Instructions))

	logging.L().Info("run finished", "run", res.ID, "ciphers", len(ids), "state", res.State.String())
	if runErr != nil {
		return out, runErr
	}
	return out, nil
}

// plan turns a request into a compiled pipeline, the text and the sinks.
func (s *Service) plan(req Request) (*pipeline.Compiled, string, []string, error) {
	text, sinks := req.Text, req.Sinks

	if req.PipelinePath != "" {
		c, err := pipeline.Compile(req.PipelinePath, s.cfg.Pipeline.MaxSteps)
		if err != nil {
			return nil, "", nil, err
		}
		if text == "" {
			text = c.Text
		}
		if len(sinks) == 0 {
			sinks = c.Sinks
		}
		if len(sinks) == 0 {
			sinks = s.cfg.Pipeline.Sinks
		}
		return c, text, sinks, nil
	}
	if len(sinks) == 0 {
		sinks = s.cfg.Pipeline.Sinks
	}

	var ids []cipher.ID
	switch {
	case req.Random:
		n := s.cfg.Pipeline.RandomCount
		if req.CountGiven {
			n = req.Count
		}
		var err error
		if ids, err = pipeline.Select(n, s.rand); err != nil {
			return nil, "", nil, err
		}
	case len(req.Ciphers) > 0:
		for i, name := range req.Ciphers {
			id, err := cipher.Parse(name)
			if err != nil {
				return nil, "", nil, fmt.Errorf("cipher %d: %w", i+1, err)
			}
			ids = append(ids, id)
		}
		var err error
		if ids, err = pipeline.Limit(ids, req.Count, req.CountGiven); err != nil {
			return nil, "", nil, err
		}
	default:
		return nil, "", nil, ErrNoSelection
	}
	return pipeline.FromIDs(ids), text, sinks, nil
}

/*──────── sinks ───────*/

// Publish pushes the outcome to its sinks.
func (s *Service) Publish(out *Outcome, key string) error {
	rec := out.Record(key)
	var errs []error
	for _, name := range out.Sinks {
		a, err := s.adapter(name)
		if err == nil {
			err = a.Push(rec)
		}
		if err != nil {
			telemetry.SinkErrors.WithLabelValues(name).Inc()
			logging.L().Error("sink push failed", "sink", name, "run", rec.RunID, "err", err)
			errs = append(errs, fmt.Errorf("%w: %s: %v", ErrSink, name, err))
		}
	}
	return errors.Join(errs...)
}

// adapter returns the sink for name, opening it on first use.
func (s *Service) adapter(name string) (sink.Adapter, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if a, ok := s.sinks[name]; ok {
		return a, nil
	}
	a, err := sink.NewAdapter(name)
	if err != nil {
		return nil, err
	}
	if err := a.Configure(s.sinkConfig(name)); err != nil {
		return nil, err
	}
	s.sinks[name] = a
	return a, nil
}

func (s *Service) sinkConfig(name string) any {
	switch name {
	case "stdout":
		return s.cfg.SinkConfigs.Stdout
	case "kafka":
		return s.cfg.SinkConfigs.Kafka
	}
	return nil
}

// Close closes every opened sink.
func (s *Service) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	var errs []error
	for name, a := range s.sinks {
		if err := a.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close sink %s: %w", name, err))
		}
	}
	return errors.Join(errs...)
}
