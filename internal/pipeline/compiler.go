package pipeline

import (
	"fmt"

	"cipherweave/internal/cipher"
	"cipherweave/internal/config"
	"cipherweave/internal/params"
	"cipherweave/internal/spec"
)

// Entry is one step of a saved pipeline with its per-step overrides.
type Entry struct {
	Cipher    cipher.ID
	Overrides params.Overrides
}

// Compiled is a validated saved pipeline, ready for parameter resolution.
type Compiled struct {
	Text    string
	Entries []Entry
	Sinks   []string
}

func (c *Compiled) IDs() []cipher.ID {
	out := make([]cipher.ID, len(c.Entries))
	for i, e := range c.Entries {
		out[i] = e.Cipher
	}
	return out
}

// Compile loads a pipeline file and validates its ordering.
func Compile(path string, maxSteps int) (*Compiled, error) {
	f, err := config.LoadPipelineSpec(path)
	if err != nil {
		return nil, err
	}
	c, err := FromSpec(f)
	if err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", path, err)
	}
	if err := Validate(c.IDs(), maxSteps); err != nil {
		return nil, fmt.Errorf("pipeline %s: %w", path, err)
	}
	return c, nil
}

func FromSpec(f spec.File) (*Compiled, error) {
	c := &Compiled{Text: f.Text, Sinks: f.Sinks}
	for i, cs := range f.Ciphers {
		id, err := cipher.Parse(cs.Name)
		if err != nil {
			return nil, fmt.Errorf("step %d: %w", i+1, err)
		}
		e := Entry{Cipher: id, Overrides: params.Overrides{Shift: cs.Shift, Key: cs.Key}}
		if cs.Grid != nil {
			e.Overrides.Grid = &cipher.Grid{A: cs.Grid.A, B: cs.Grid.B}
		}
		c.Entries = append(c.Entries, e)
	}
	return c, nil
}

// Plan resolves params for every entry. base supplies defaults and the
// random source; per-entry overrides win over base overrides.
func (c *Compiled) Plan(def params.Defaults, base params.Overrides, src params.Source, r cipher.Rand) ([]Planned, []params.Warning) {
	plan := make([]Planned, 0, len(c.Entries))
	var warns []params.Warning
	for _, e := range c.Entries {
		over := base
		if e.Overrides.Shift != nil {
			over.Shift = e.Overrides.Shift
		}
		if e.Overrides.Key != nil {
			over.Key = e.Overrides.Key
		}
		if e.Overrides.Grid != nil {
			over.Grid = e.Overrides.Grid
		}
		p, w := params.New(def, over, src, r).Resolve(e.Cipher)
		plan = append(plan, Planned{Cipher: e.Cipher, Params: p})
		warns = append(warns, w...)
	}
	return plan, warns
}

// FromIDs builds a Compiled from bare IDs, e.g. command-line selections.
func FromIDs(ids []cipher.ID) *Compiled {
	c := &Compiled{}
	for _, id := range ids {
		c.Entries = append(c.Entries, Entry{Cipher: id})
	}
	return c
}
