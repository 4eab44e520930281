package cipher

import (
	"fmt"
	"strings"
)

// shiftLetter rotates ASCII letters within their case; other runes pass through.
func shiftLetter(r rune, shift int) rune {
	var start rune
	switch {
	case r >= 'a' && r <= 'z':
		start = 'a'
	case r >= 'A' && r <= 'Z':
		start = 'A'
	default:
		return r
	}
	n := (int(r-start) + shift) % 26
	if n < 0 {
		n += 26
	}
	return start + rune(n)
}

func isLetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}

/* ────────── caesar ────────── */

type caesar struct{}

func (caesar) ID() ID       { return Caesar }
func (caesar) Name() string { return "Caesar Cipher" }
func (caesar) Class() Class { return Letter }

func (caesar) Encode(text string, p Params) (string, error) {
	return rotate(text, p.Shift), nil
}

func (caesar) Decode(text string, p Params) (string, error) {
	return rotate(text, -p.Shift), nil
}

func (caesar) Describe(p Params) string {
	return fill(caesarTemplate, "{shift}", fmt.Sprint(p.Shift))
}

func rotate(text string, shift int) string {
	return strings.Map(func(r rune) rune { return shiftLetter(r, shift) }, text)
}

/* ────────── atbash ────────── */

type atbash struct{}

func (atbash) ID() ID       { return Atbash }
func (atbash) Name() string { return "Atbash Cipher" }
func (atbash) Class() Class { return Letter }

func (atbash) Encode(text string, _ Params) (string, error) {
	return strings.Map(mirror, text), nil
}

func (a atbash) Decode(text string, p Params) (string, error) {
	return a.Encode(text, p)
}

func (atbash) Describe(Params) string { return atbashTemplate }

func mirror(r rune) rune {
	switch {
	case r >= 'a' && r <= 'z':
		return 'a' + 25 - (r - 'a')
	case r >= 'A' && r <= 'Z':
		return 'A' + 25 - (r - 'A')
	}
	return r
}

/* ────────── vigenere ────────── */

type vigenere struct{}

func (vigenere) ID() ID       { return Vigenere }
func (vigenere) Name() string { return "Vigenere Cipher" }
func (vigenere) Class() Class { return Letter }

func (vigenere) Encode(text string, p Params) (string, error) {
	return applyKey(text, p.Key, 1)
}

func (vigenere) Decode(text string, p Params) (string, error) {
	return applyKey(text, p.Key, -1)
}

func (vigenere) Describe(p Params) string {
	return fill(vigenereTemplate, "{key}", p.Key)
}

// keyShifts strips non-letters from key and case-folds the rest into shifts.
func keyShifts(key string) ([]int, error) {
	var shifts []int
	for _, r := range key {
		if !isLetter(r) {
			continue
		}
		if r <= 'Z' {
			r += 'a' - 'A'
		}
		shifts = append(shifts, int(r-'a'))
	}
	if len(shifts) == 0 {
		return nil, fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	return shifts, nil
}

// applyKey advances the key index only on letters of text.
func applyKey(text, key string, dir int) (string, error) {
	shifts, err := keyShifts(key)
	if err != nil {
		return "", err
	}
	var b strings.Builder
	b.Grow(len(text))
	i := 0
	for _, r := range text {
		if isLetter(r) {
			r = shiftLetter(r, dir*shifts[i%len(shifts)])
			i++
		}
		b.WriteRune(r)
	}
	return b.String(), nil
}
