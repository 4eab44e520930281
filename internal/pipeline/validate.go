package pipeline

import (
	"fmt"

	"cipherweave/internal/cipher"
)

// DefaultMaxSteps bounds a pipeline when the caller does not configure one.
const DefaultMaxSteps = 16

// OrderingError reports a word-level transform placed after a letter-level one.
type OrderingError struct {
	Position int // 1-based
	Cipher   cipher.ID
	After    cipher.ID
}

func (e *OrderingError) Error() string {
	return fmt.Sprintf("step %d (%s): word-based ciphers must appear before any letter-based ciphers (found after %s)",
		e.Position, e.Cipher, e.After)
}

func (e *OrderingError) Unwrap() error { return cipher.ErrInvalidOrdering }

// Validate checks a proposed sequence before anything runs: the step count
// must be in [1, maxSteps], every ID must exist, and once a letter-level
// transform appears no word-level transform may follow, since letter-level
// output no longer has reliable token boundaries.
func Validate(ids []cipher.ID, maxSteps int) error {
	if maxSteps <= 0 {
		maxSteps = DefaultMaxSteps
	}
	if len(ids) == 0 || len(ids) > maxSteps {
		return fmt.Errorf("%w: %d steps, want 1..%d", cipher.ErrInvalidStepCount, len(ids), maxSteps)
	}
	var firstLetter cipher.ID
	for i, id := range ids {
		t, err := cipher.Lookup(id)
		if err != nil {
			return fmt.Errorf("step %d: %w", i+1, err)
		}
		switch t.Class() {
		case cipher.Letter:
			if firstLetter == "" {
				firstLetter = id
			}
		case cipher.Word:
			if firstLetter != "" {
				return &OrderingError{Position: i + 1, Cipher: id, After: firstLetter}
			}
		}
	}
	return nil
}

// Limit applies an explicit step count to a caller-supplied list: n < 1 is
// rejected, as is a list longer than n. given reports whether the caller set
// n at all.
func Limit(ids []cipher.ID, n int, given bool) ([]cipher.ID, error) {
	if !given {
		return ids, nil
	}
	if n < 1 {
		return nil, fmt.Errorf("%w: number of ciphers must be at least 1", cipher.ErrInvalidStepCount)
	}
	if len(ids) > n {
		return nil, fmt.Errorf("%w: %d ciphers specified but count is %d", cipher.ErrInvalidStepCount, len(ids), n)
	}
	return ids, nil
}

// Select draws a random valid pipeline of up to n steps. A coin flip decides
// whether it opens with one word-level transform; the remaining slots are
// filled with distinct letter-level transforms.
func Select(n int, r cipher.Rand) ([]cipher.ID, error) {
	if n < 1 {
		return nil, fmt.Errorf("%w: number of ciphers for random selection must be at least 1", cipher.ErrInvalidStepCount)
	}
	words := cipher.ByClass(cipher.Word)
	letters := cipher.ByClass(cipher.Letter)

	var out []cipher.ID
	remaining := n
	if len(words) > 0 && r.IntN(2) == 1 {
		out = append(out, words[r.IntN(len(words))])
		remaining--
	}
	// partial Fisher-Yates: the first k entries become the sample
	k := min(remaining, len(letters))
	for i := 0; i < k; i++ {
		j := i + r.IntN(len(letters)-i)
		letters[i], letters[j] = letters[j], letters[i]
	}
	out = append(out, letters[:k]...)
	return out, nil
}
