package sink

import (
	"fmt"
	"sort"
)

// Record is a finished run as published to sinks.
type Record struct {
	RunID    string   `json:"run_id"`
	Key      string   `json:"key,omitempty"` // upstream message key, if any
	Ciphers  []string `json:"ciphers"`
	Encoded  string   `json:"encoded"`
	Document string   `json:"document"`
	State    string   `json:"state"`
	Verified bool     `json:"verified"`
	Failure  string   `json:"failure,omitempty"`
}

// Adapter is the common behaviour every sink exposes.
type Adapter interface {
	Configure(any) error // driver-specific config struct
	Push(Record) error   // publish one run
	Close() error        // idempotent
}

/*──────── registry ───────*/

type factory = func() Adapter

var reg = map[string]factory{}

func Register(name string, f factory) { reg[name] = f }

func NewAdapter(name string) (Adapter, error) {
	if f, ok := reg[name]; ok {
		return f(), nil
	}
	return nil, fmt.Errorf("unknown sink %q", name)
}

// Names lists registered sinks.
func Names() []string {
	out := make([]string, 0, len(reg))
	for n := range reg {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}
