package pipeline

import (
	"fmt"

	"github.com/google/uuid"

	"cipherweave/internal/cipher"
	"cipherweave/internal/logging"
	"cipherweave/internal/telemetry"
)

// State is where a run stands.
type State int

const (
	Idle State = iota
	Applying
	Applied
	Verifying
	Verified
	Mismatched
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Applying:
		return "applying"
	case Applied:
		return "applied"
	case Verifying:
		return "verifying"
	case Verified:
		return "verified"
	case Mismatched:
		return "mismatched"
	case Failed:
		return "failed"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// Planned is one step before it runs.
type Planned struct {
	Cipher cipher.ID
	Params cipher.Params
}

// Step is one applied step. Params are the exact values used, including the
// word map filled during encode, and are reused verbatim for decode.
type Step struct {
	Index  int // 1-based application order
	Cipher cipher.ID
	Params cipher.Params
	Output string
}

// StepError pins a transform failure to its position in the pipeline.
type StepError struct {
	Step   int
	Cipher cipher.ID
	Decode bool
	Err    error
}

func (e *StepError) Error() string {
	dir := "encode"
	if e.Decode {
		dir = "decode"
	}
	return fmt.Sprintf("step %d (%s) %s: %v", e.Step, e.Cipher, dir, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }

// Result is everything one run produced. It is owned by the caller and is
// never shared between runs.
type Result struct {
	ID      string
	Input   string
	Steps   []Step
	Encoded string

	// Verification pass, in decode order.
	Decodes   []Step
	Decoded   string
	Verified  bool
	VerifyErr error

	State State
	Err   *StepError
}

// Runner applies plans. It holds no per-run state and may be reused.
type Runner struct {
	skipVerify bool
}

type Option func(*Runner)

// WithoutVerification stops Run after the encode pass.
func WithoutVerification() Option {
	return func(r *Runner) { r.skipVerify = true }
}

func NewRunner(opts ...Option) *Runner {
	r := &Runner{}
	for _, o := range opts {
		o(r)
	}
	return r
}

// Run encodes text through plan and then verifies by decoding. A failing
// encode step stops the run; the returned Result still carries every step
// completed before it, and the error is the same *StepError as Result.Err.
// A verification mismatch is reported in the Result, never as an error.
func (r *Runner) Run(text string, plan []Planned) (*Result, error) {
	res := r.Apply(text, plan)
	if res.State == Failed {
		telemetry.Runs.WithLabelValues(res.State.String()).Inc()
		return res, res.Err
	}
	if !r.skipVerify {
		r.Verify(res)
	}
	telemetry.Runs.WithLabelValues(res.State.String()).Inc()
	return res, nil
}

// Apply runs the encode pass only.
func (r *Runner) Apply(text string, plan []Planned) *Result {
	res := &Result{ID: uuid.NewString(), Input: text, Encoded: text, State: Applying}
	log := logging.L().With("run", res.ID)

	for i, p := range plan {
		t, err := cipher.Lookup(p.Cipher)
		if err == nil {
			var out string
			out, err = t.Encode(res.Encoded, p.Params)
			if err == nil {
				res.Encoded = out
				res.Steps = append(res.Steps, Step{Index: i + 1, Cipher: p.Cipher, Params: p.Params, Output: out})
				telemetry.Steps.WithLabelValues(string(p.Cipher)).Inc()
				log.Debug("step applied", "step", i+1, "cipher", p.Cipher, "output", out)
				continue
			}
		}
		res.Err = &StepError{Step: i + 1, Cipher: p.Cipher, Err: err}
		res.State = Failed
		telemetry.StepFailures.WithLabelValues(string(p.Cipher)).Inc()
		log.Error("step failed", "step", i+1, "cipher", p.Cipher, "completed", len(res.Steps), "err", err)
		return res
	}
	res.State = Applied
	return res
}

// Verify walks the applied steps backwards with their recorded params and
// compares the outcome to the input. A decode error ends the walk and
// counts as a mismatch.
func (r *Runner) Verify(res *Result) {
	if res.State != Applied {
		return
	}
	res.State = Verifying
	text := res.Encoded
	for i := len(res.Steps) - 1; i >= 0; i-- {
		s := res.Steps[i]
		t, err := cipher.Lookup(s.Cipher)
		var out string
		if err == nil {
			out, err = t.Decode(text, s.Params)
		}
		if err != nil {
			res.VerifyErr = &StepError{Step: s.Index, Cipher: s.Cipher, Decode: true, Err: err}
			logging.L().Warn("verification halted", "run", res.ID, "step", s.Index, "cipher", s.Cipher, "err", err)
			break
		}
		text = out
		res.Decodes = append(res.Decodes, Step{Index: s.Index, Cipher: s.Cipher, Params: s.Params, Output: text})
	}
	res.Decoded = text
	res.Verified = res.VerifyErr == nil && text == res.Input
	if res.Verified {
		res.State = Verified
		return
	}
	res.State = Mismatched
	logging.L().Warn("decoded text does not match input", "run", res.ID)
}
