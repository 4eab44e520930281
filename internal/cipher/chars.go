package cipher

import (
	"encoding/hex"
	"errors"
	"fmt"
	"regexp"
	"slices"
	"strconv"
	"strings"
	"unicode"
)

// blockSize and padRune drive block reversal.
const (
	blockSize = 3
	padRune   = '#'
)

/* ────────── block reverse ────────── */

type blockReverse struct{}

func (blockReverse) ID() ID       { return BlockReverse }
func (blockReverse) Name() string { return "Block Reverse Cipher" }
func (blockReverse) Class() Class { return Letter }

// Encode right-pads with '#' to a multiple of three and reverses each block.
func (blockReverse) Encode(text string, _ Params) (string, error) {
	rs := []rune(text)
	for len(rs)%blockSize != 0 {
		rs = append(rs, padRune)
	}
	for i := 0; i < len(rs); i += blockSize {
		slices.Reverse(rs[i : i+blockSize])
	}
	return string(rs), nil
}

// Decode is Encode; padding added on the way in is left in place.
func (b blockReverse) Decode(text string, p Params) (string, error) {
	return b.Encode(text, p)
}

func (blockReverse) Describe(Params) string { return blockReverseTemplate }

/* ────────── reverse + capitalize ────────── */

type reverseCapitalize struct{}

func (reverseCapitalize) ID() ID       { return ReverseCapitalize }
func (reverseCapitalize) Name() string { return "Reverse and Capitalize Cipher" }
func (reverseCapitalize) Class() Class { return Letter }

func (reverseCapitalize) Encode(text string, _ Params) (string, error) {
	if text == "" {
		return text, nil
	}
	rs := []rune(text)
	slices.Reverse(rs)
	rs[0] = unicode.ToUpper(rs[0])
	return string(rs), nil
}

// Decode applies Encode again. The first character of the result is not
// lowered back, so inputs ending in a lowercase letter do not round-trip.
func (r reverseCapitalize) Decode(text string, p Params) (string, error) {
	return r.Encode(text, p)
}

func (reverseCapitalize) Describe(Params) string { return reverseCapitalizeTemplate }

/* ────────── grid coordinate ────────── */

type gridCoordinate struct{}

func (gridCoordinate) ID() ID       { return GridCoordinate }
func (gridCoordinate) Name() string { return "Grid Coordinate Cipher" }
func (gridCoordinate) Class() Class { return Letter }

var coordPattern = regexp.MustCompile(`^\((\d+),(\d+)\)`)

// cell returns the row-major position of the i-th letter.
func (g Grid) cell(i int) (row, col int) { return i / g.B, i % g.B }

func (gridCoordinate) Encode(text string, p Params) (string, error) {
	if err := p.Grid.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	for _, r := range text {
		if !isLetter(r) {
			b.WriteRune(r)
			continue
		}
		row, col := p.Grid.cell(int(unicode.ToUpper(r) - 'A'))
		fmt.Fprintf(&b, "(%d,%d)", row, col)
	}
	return b.String(), nil
}

func (gridCoordinate) Decode(text string, p Params) (string, error) {
	if err := p.Grid.Validate(); err != nil {
		return "", err
	}
	var b strings.Builder
	for i := 0; i < len(text); {
		if text[i] == '(' {
			if m := coordPattern.FindStringSubmatch(text[i:]); m != nil {
				row, rerr := strconv.Atoi(m[1])
				col, cerr := strconv.Atoi(m[2])
				idx := row*p.Grid.B + col
				if rerr == nil && cerr == nil && row < p.Grid.A && col < p.Grid.B && idx < 26 {
					b.WriteByte(byte('A' + idx))
					i += len(m[0])
					continue
				}
			}
		}
		b.WriteByte(text[i])
		i++
	}
	return b.String(), nil
}

func (gridCoordinate) Describe(p Params) string {
	return fill(gridCoordinateTemplate,
		"{a}", strconv.Itoa(p.Grid.A),
		"{b}", strconv.Itoa(p.Grid.B))
}

/* ────────── hex ────────── */

type hexEncode struct{}

func (hexEncode) ID() ID       { return HexEncode }
func (hexEncode) Name() string { return "Hexadecimal Encoding" }
func (hexEncode) Class() Class { return Letter }

// Encode writes two lowercase hex digits per byte of the UTF-8 text.
func (hexEncode) Encode(text string, _ Params) (string, error) {
	return hex.EncodeToString([]byte(text)), nil
}

func (hexEncode) Decode(text string, _ Params) (string, error) {
	if len(text)%2 != 0 {
		return "", ErrOddLengthInput
	}
	raw, err := hex.DecodeString(text)
	if err != nil {
		var ib hex.InvalidByteError
		if errors.As(err, &ib) {
			return "", fmt.Errorf("%w: byte %q", ErrInvalidHexSequence, byte(ib))
		}
		return "", fmt.Errorf("%w: %v", ErrInvalidHexSequence, err)
	}
	return string(raw), nil
}

func (hexEncode) Describe(Params) string { return hexEncodeTemplate }

/* ────────── ascii codes ────────── */

type asciiCodes struct{}

func (asciiCodes) ID() ID       { return ASCII }
func (asciiCodes) Name() string { return "ASCII Replacement" }
func (asciiCodes) Class() Class { return Letter }

func (asciiCodes) Encode(text string, _ Params) (string, error) {
	codes := make([]string, 0, len(text))
	for _, r := range text {
		codes = append(codes, strconv.Itoa(int(r)))
	}
	return strings.Join(codes, " "), nil
}

func (asciiCodes) Decode(text string, _ Params) (string, error) {
	if text == "" {
		return "", nil
	}
	var b strings.Builder
	for _, code := range strings.Split(text, " ") {
		n, err := strconv.Atoi(code)
		if err != nil || n < 0 || n > unicode.MaxRune {
			return "", fmt.Errorf("%w: %q", ErrInvalidCode, code)
		}
		b.WriteRune(rune(n))
	}
	return b.String(), nil
}

func (asciiCodes) Describe(Params) string { return asciiTemplate }
