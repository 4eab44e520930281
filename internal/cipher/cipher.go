package cipher

import (
	"fmt"
	"strings"
)

// ID names a transform in the catalog.
type ID string

const (
	Caesar              ID = "caesar"
	ASCII               ID = "ascii_replace"
	Atbash              ID = "atbash"
	Vigenere            ID = "vigenere"
	ReverseWordOrder    ID = "reverse_word_order"
	WordReplacement     ID = "word_replacement"
	BlockReverse        ID = "block_reverse"
	ReverseCapitalize   ID = "reverse_capitalize"
	GridCoordinate      ID = "grid_coordinate"
	ReverseCharsInWords ID = "reverse_chars_in_words"
	HexEncode           ID = "hex_encode"
)

// Class tells whether a transform relies on space-separated tokens.
type Class int

const (
	Letter Class = iota
	Word
)

func (c Class) String() string {
	if c == Word {
		return "Word-based"
	}
	return "Letter-based"
}

// Grid holds the dimensions of the grid coordinate alphabet.
type Grid struct {
	A int `json:"a" yaml:"a"`
	B int `json:"b" yaml:"b"`
}

func (g Grid) String() string { return fmt.Sprintf("%dx%d", g.A, g.B) }

// Validate reports whether the 26 letters fit into a grid with fewer than 26 rows.
func (g Grid) Validate() error {
	if g.A < 1 || g.B < 1 || g.A >= 26 || g.A*g.B < 26 {
		return fmt.Errorf("%w: a (%d) must be less than 26, and a*b (%d) must be >= 26",
			ErrInvalidGridDimensions, g.A, g.A*g.B)
	}
	return nil
}

// Params configures one pipeline step. Only the fields used by the step's
// transform are meaningful; Words is filled in while encoding and must be
// handed back unchanged to Decode.
type Params struct {
	Shift int      `json:"shift,omitempty"`
	Key   string   `json:"key,omitempty"`
	Grid  Grid     `json:"grid"`
	Words *WordMap `json:"words,omitempty"`
}

// Rand is the randomness used by word replacement and random selection.
// *math/rand/v2.Rand satisfies it.
type Rand interface {
	IntN(n int) int
}

// Transform is one reversible text mapping.
type Transform interface {
	ID() ID
	Name() string
	Class() Class
	Encode(text string, p Params) (string, error)
	Decode(text string, p Params) (string, error)
	// Describe renders the restore instruction for a reader holding the
	// encoded text.
	Describe(p Params) string
}

var order = []ID{
	Caesar,
	ASCII,
	Atbash,
	Vigenere,
	ReverseWordOrder,
	WordReplacement,
	BlockReverse,
	ReverseCapitalize,
	GridCoordinate,
	ReverseCharsInWords,
	HexEncode,
}

var catalog = func() map[ID]Transform {
	m := make(map[ID]Transform, len(order))
	for _, id := range order {
		m[id] = build(id)
	}
	return m
}()

func build(id ID) Transform {
	switch id {
	case Caesar:
		return caesar{}
	case ASCII:
		return asciiCodes{}
	case Atbash:
		return atbash{}
	case Vigenere:
		return vigenere{}
	case ReverseWordOrder:
		return reverseWordOrder{}
	case WordReplacement:
		return wordReplacement{}
	case BlockReverse:
		return blockReverse{}
	case ReverseCapitalize:
		return reverseCapitalize{}
	case GridCoordinate:
		return gridCoordinate{}
	case ReverseCharsInWords:
		return reverseCharsInWords{}
	case HexEncode:
		return hexEncode{}
	}
	panic(fmt.Sprintf("cipher: no implementation for %q", id))
}

// Lookup returns the transform registered under id.
func Lookup(id ID) (Transform, error) {
	if t, ok := catalog[id]; ok {
		return t, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownTransform, string(id))
}

// Parse normalises s and returns the matching ID.
func Parse(s string) (ID, error) {
	id := ID(strings.ToLower(strings.TrimSpace(s)))
	if _, err := Lookup(id); err != nil {
		return "", err
	}
	return id, nil
}

// IDs lists every catalog entry in a stable order.
func IDs() []ID { return append([]ID(nil), order...) }

// All returns the catalog in the same order as IDs.
func All() []Transform {
	out := make([]Transform, 0, len(order))
	for _, id := range order {
		out = append(out, catalog[id])
	}
	return out
}

// ByClass lists the IDs of one class in catalog order.
func ByClass(c Class) []ID {
	var out []ID
	for _, id := range order {
		if catalog[id].Class() == c {
			out = append(out, id)
		}
	}
	return out
}
