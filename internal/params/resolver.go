// Package params turns a transform ID into the Params that drive one
// pipeline step. Values come from caller overrides, configured defaults or a
// random draw; bad caller input falls back to the default and is reported as
// a Warning instead of failing the run.
package params

import (
	"fmt"
	"strconv"
	"strings"

	"cipherweave/internal/cipher"
	"cipherweave/internal/logging"
)

// Documented defaults.
const (
	DefaultShift = 15
	DefaultKey   = "BUTTERFLY"
	DefaultGridA = 5
	DefaultGridB = 6

	MaxShift = 25
)

// Source selects where values come from when no override is given.
type Source string

const (
	SourceDefault Source = "default"
	SourceRandom  Source = "random"
)

// randomKeys feeds random Vigenère keys.
var randomKeys = []string{"BUTTERFLY", "MEADOW", "LANTERN", "ORCHID", "HARBOR", "WILLOW", "CANYON"}

// Defaults are the fallbacks used when no override applies.
type Defaults struct {
	Shift int
	Key   string
	Grid  cipher.Grid
}

// Standard returns the documented defaults.
func Standard() Defaults {
	return Defaults{Shift: DefaultShift, Key: DefaultKey, Grid: cipher.Grid{A: DefaultGridA, B: DefaultGridB}}
}

// Overrides carry explicit caller values. Nil means "not given".
type Overrides struct {
	Shift *int
	Key   *string
	Grid  *cipher.Grid
}

// Warning reports a rejected caller value and the fallback that replaced it.
type Warning struct {
	Cipher   cipher.ID
	Field    string
	Value    string
	Fallback string
	Err      error
}

func (w Warning) Error() string {
	return fmt.Sprintf("%s %s %q: %v; using %s", w.Cipher, w.Field, w.Value, w.Err, w.Fallback)
}

func (w Warning) Unwrap() error { return w.Err }

type Resolver struct {
	def    Defaults
	over   Overrides
	source Source
	rand   cipher.Rand
}

// New builds a resolver. Invalid defaults are replaced with the documented
// ones so Resolve never has to fail.
func New(def Defaults, over Overrides, src Source, r cipher.Rand) *Resolver {
	std := Standard()
	if checkShift(def.Shift) != nil {
		def.Shift = std.Shift
	}
	if strings.TrimSpace(def.Key) == "" || !hasLetter(def.Key) {
		def.Key = std.Key
	}
	if def.Grid.Validate() != nil {
		def.Grid = std.Grid
	}
	if src == SourceRandom && r == nil {
		src = SourceDefault
	}
	return &Resolver{def: def, over: over, source: src, rand: r}
}

// Resolve returns the Params for one step of id. Transforms without
// parameters get the zero value, except word replacement which gets a fresh
// map owned by that step.
func (r *Resolver) Resolve(id cipher.ID) (cipher.Params, []Warning) {
	var (
		p    cipher.Params
		warn []Warning
	)
	switch id {
	case cipher.Caesar:
		p.Shift = r.shift()
		if r.over.Shift != nil {
			if err := checkShift(*r.over.Shift); err != nil {
				warn = append(warn, Warning{Cipher: id, Field: "shift", Value: strconv.Itoa(*r.over.Shift), Fallback: strconv.Itoa(r.def.Shift), Err: err})
				p.Shift = r.def.Shift
			} else {
				p.Shift = *r.over.Shift
			}
		}
	case cipher.Vigenere:
		p.Key = r.key()
		if r.over.Key != nil {
			k := strings.TrimSpace(*r.over.Key)
			switch {
			case k == "":
				// empty input means "use the default"
				p.Key = r.def.Key
			case !hasLetter(k):
				warn = append(warn, Warning{Cipher: id, Field: "key", Value: k, Fallback: r.def.Key, Err: cipher.ErrInvalidKey})
				p.Key = r.def.Key
			default:
				p.Key = k
			}
		}
	case cipher.GridCoordinate:
		p.Grid = r.grid()
		if r.over.Grid != nil {
			if err := r.over.Grid.Validate(); err != nil {
				warn = append(warn, Warning{Cipher: id, Field: "grid", Value: r.over.Grid.String(), Fallback: r.def.Grid.String(), Err: err})
				p.Grid = r.def.Grid
			} else {
				p.Grid = *r.over.Grid
			}
		}
	case cipher.WordReplacement:
		p.Words = cipher.NewWordMap(r.rand)
	}
	for _, w := range warn {
		logging.L().Warn("parameter fallback", "cipher", w.Cipher, "field", w.Field, "value", w.Value, "fallback", w.Fallback, "err", w.Err)
	}
	return p, warn
}

func (r *Resolver) shift() int {
	if r.source != SourceRandom {
		return r.def.Shift
	}
	// 1..25; a zero shift would leave the text untouched
	return r.rand.IntN(MaxShift) + 1
}

func (r *Resolver) key() string {
	if r.source != SourceRandom {
		return r.def.Key
	}
	return randomKeys[r.rand.IntN(len(randomKeys))]
}

func (r *Resolver) grid() cipher.Grid {
	if r.source != SourceRandom {
		return r.def.Grid
	}
	a := r.rand.IntN(5) + 2 // 2..6
	b := (26+a-1)/a + r.rand.IntN(2)
	return cipher.Grid{A: a, B: b}
}

func checkShift(s int) error {
	if s < -MaxShift || s > MaxShift {
		return fmt.Errorf("%w: shift %d must be between -%d and %d", cipher.ErrInvalidParameterValue, s, MaxShift, MaxShift)
	}
	return nil
}

func hasLetter(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool {
		return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
	})
}

// ParseShift parses caller input; the error wraps ErrInvalidParameterValue.
func ParseShift(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0, fmt.Errorf("%w: shift %q is not an integer", cipher.ErrInvalidParameterValue, s)
	}
	return n, nil
}

// ParseGrid accepts "5x6", "5,6" or "5 6".
func ParseGrid(s string) (cipher.Grid, error) {
	f := strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return r == 'x' || r == ',' || r == ' ' || r == '×'
	})
	if len(f) != 2 {
		return cipher.Grid{}, fmt.Errorf("%w: grid %q, want AxB", cipher.ErrInvalidParameterValue, s)
	}
	a, errA := strconv.Atoi(f[0])
	b, errB := strconv.Atoi(f[1])
	if errA != nil || errB != nil {
		return cipher.Grid{}, fmt.Errorf("%w: grid %q, want AxB", cipher.ErrInvalidParameterValue, s)
	}
	return cipher.Grid{A: a, B: b}, nil
}
