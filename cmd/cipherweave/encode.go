package main

import (
	"errors"
	"fmt"
	"io"
	"math/rand/v2"

	"github.com/spf13/cobra"

	"cipherweave/internal/cipher"
	"cipherweave/internal/engine"
	"cipherweave/internal/params"
	"cipherweave/internal/pipeline"
	"cipherweave/sink"
)

const defaultText = "Hello, World! 123 This is a test."

type encodeFlags struct {
	text     string
	ciphers  []string
	random   bool
	count    int
	shift    string
	key      string
	grid     string
	pipeline string
	sinks    []string
	seed     uint64
}

func newEncodeCmd(a *app) *cobra.Command {
	f := &encodeFlags{}
	cmd := &cobra.Command{
		Use:   "encode",
		Short: "Encode a text through a cipher chain and print the restore document",
		Example: `  cipherweave encode -t "attack at dawn" -c word_replacement -c caesar --shift 3
  cipherweave encode -r -n 4
  cipherweave encode --pipeline pipeline.yml --sink stdout,kafka`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runEncode(cmd, a, f)
		},
	}
	fl := cmd.Flags()
	fl.StringVarP(&f.text, "text", "t", defaultText, "Text to encode")
	fl.StringSliceVarP(&f.ciphers, "cipher", "c", nil, "Cipher to apply, in order (repeatable)")
	fl.BoolVarP(&f.random, "random", "r", false, "Select ciphers at random")
	fl.IntVarP(&f.count, "num-ciphers", "n", 0, "Number of ciphers (random size, or limit for --cipher)")
	fl.StringVar(&f.shift, "shift", "", "Caesar shift, -25..25")
	fl.StringVar(&f.key, "key", "", "Vigenere key")
	fl.StringVar(&f.grid, "grid", "", "Grid dimensions, e.g. 5x6")
	fl.StringVar(&f.pipeline, "pipeline", "", "Saved pipeline file")
	fl.StringSliceVar(&f.sinks, "sink", nil, "Sinks receiving the run (default from config)")
	fl.Uint64Var(&f.seed, "seed", 0, "Seed for reproducible random choices (0 picks one)")
	return cmd
}

func runEncode(cmd *cobra.Command, a *app, f *encodeFlags) error {
	w := cmd.OutOrStdout()

	req := engine.Request{
		Ciphers:      f.ciphers,
		Random:       f.random,
		Count:        f.count,
		CountGiven:   cmd.Flags().Changed("num-ciphers"),
		PipelinePath: f.pipeline,
		Sinks:        f.sinks,
	}
	if f.pipeline == "" || cmd.Flags().Changed("text") {
		req.Text = f.text
	}
	req.Overrides = overridesFrom(w, cmd, f)

	opts := []engine.ServiceOption{}
	if f.seed != 0 {
		opts = append(opts, engine.WithRand(rand.New(rand.NewPCG(f.seed, f.seed))))
	}
	// stdout records go to the command's writer
	std, err := sink.NewAdapter("stdout")
	if err != nil {
		return err
	}
	stdCfg := a.cfg.SinkConfigs.Stdout
	stdCfg.Output = w
	if err := std.Configure(stdCfg); err != nil {
		return err
	}
	opts = append(opts, engine.WithSink("stdout", std))

	svc := engine.NewService(a.cfg, opts...)
	defer svc.Close()

	out, runErr := svc.Run(cmd.Context(), req)
	if out == nil {
		return runErr
	}
	report(w, out, f.random && f.pipeline == "")
	if err := svc.Publish(out, ""); err != nil {
		return errors.Join(runErr, err)
	}
	return runErr
}

// overridesFrom parses parameter flags. Unparseable values are reported and
// left unset so the configured default applies.
func overridesFrom(w io.Writer, cmd *cobra.Command, f *encodeFlags) params.Overrides {
	var o params.Overrides
	if cmd.Flags().Changed("shift") {
		if s, err := params.ParseShift(f.shift); err != nil {
			fmt.Fprintf(w, "Invalid format for shift %q. Using default.\n", f.shift)
		} else {
			o.Shift = &s
		}
	}
	if cmd.Flags().Changed("key") {
		o.Key = &f.key
	}
	if cmd.Flags().Changed("grid") {
		if g, err := params.ParseGrid(f.grid); err != nil {
			fmt.Fprintf(w, "Invalid format for grid %q. Using default.\n", f.grid)
		} else {
			o.Grid = &g
		}
	}
	return o
}

// report prints the selection, every encode step, the verification pass and
// its verdict.
func report(w io.Writer, out *engine.Outcome, random bool) {
	res := out.Result

	if random {
		fmt.Fprintf(w, "\nRandomly selected %d ciphers:\n", len(out.Ciphers))
	} else {
		fmt.Fprintf(w, "\nSelected %d ciphers:\n", len(out.Ciphers))
	}
	for i, id := range out.Ciphers {
		t, _ := cipher.Lookup(id)
		fmt.Fprintf(w, "%d. %s (%s)\n", i+1, t.Name(), t.Class())
	}
	for _, warn := range out.Warnings {
		fmt.Fprintf(w, "Warning: %v\n", warn)
	}

	fmt.Fprintf(w, "\nOriginal text: '%s'\n", res.Input)
	for _, s := range res.Steps {
		t, _ := cipher.Lookup(s.Cipher)
		fmt.Fprintf(w, "\nStep %d: Applying %s\n", s.Index, t.Name())
		fmt.Fprintf(w, "Description: %s\n", t.Describe(s.Params))
		fmt.Fprintf(w, "Result: '%s'\n", s.Output)
	}
	if res.Err != nil {
		t, _ := cipher.Lookup(res.Err.Cipher)
		name := string(res.Err.Cipher)
		if t != nil {
			name = t.Name()
		}
		fmt.Fprintf(w, "\nStep %d: Applying %s\n", res.Err.Step, name)
		fmt.Fprintf(w, "Error applying cipher: %v\n", res.Err.Err)
	}
	fmt.Fprintf(w, "\nFinal encoded text: '%s'\n", res.Encoded)

	if res.State != pipeline.Failed {
		verification(w, res)
	}
	fmt.Fprintln(w, "\n-------------------------------------------------------------")
}

func verification(w io.Writer, res *pipeline.Result) {
	fmt.Fprintln(w, "\n--- Verifying Decoding ---")
	fmt.Fprintf(w, "Starting with encoded text: '%s'\n", res.Encoded)
	for i, s := range res.Decodes {
		t, _ := cipher.Lookup(s.Cipher)
		fmt.Fprintf(w, "\nDecoding Step %d: Applying %s (decode)\n", i+1, t.Name())
		fmt.Fprintf(w, "Result after decoding: '%s'\n", s.Output)
	}
	var se *pipeline.StepError
	if errors.As(res.VerifyErr, &se) {
		t, _ := cipher.Lookup(se.Cipher)
		fmt.Fprintf(w, "\nDecoding Step %d: Applying %s (decode)\n", len(res.Decodes)+1, t.Name())
		fmt.Fprintf(w, "Error decoding with %s: %v\n", t.Name(), se.Err)
		fmt.Fprintln(w, "Halting decoding verification.")
	}
	fmt.Fprintf(w, "\nFinal decoded text: '%s'\n", res.Decoded)
	if res.Verified {
		fmt.Fprintln(w, "(Successfully decoded back to the original text)")
		return
	}
	fmt.Fprintln(w, "(Note: Final decoded text does not match the original input. Check cipher logic or parameters.)")
	fmt.Fprintf(w, "Original input was:   '%s'\n", res.Input)
}
