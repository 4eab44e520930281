package pipeline

import (
	"errors"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherweave/internal/cipher"
	"cipherweave/internal/telemetry"
)

type stepRand struct{ n int }

func (s *stepRand) IntN(n int) int {
	s.n++
	return s.n % n
}

const sample = "Hello, World! 123 This is a test."

func TestRunner_CaesarEndToEnd(t *testing.T) {
	r := NewRunner()
	res, err := r.Run(sample, []Planned{{Cipher: cipher.Caesar, Params: cipher.Params{Shift: 15}}})
	require.NoError(t, err)

	assert.Equal(t, Verified, res.State)
	assert.True(t, res.Verified)
	assert.Equal(t, sample, res.Decoded)
	assert.NotEmpty(t, res.ID)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, 1, res.Steps[0].Index)

	// only letters move
	require.Len(t, res.Encoded, len(sample))
	for i := range sample {
		a, b := sample[i], res.Encoded[i]
		isLetter := (a >= 'a' && a <= 'z') || (a >= 'A' && a <= 'Z')
		if isLetter {
			assert.NotEqual(t, a, b, "letter at %d", i)
		} else {
			assert.Equal(t, a, b, "non-letter at %d", i)
		}
	}
}

func TestRunner_WordThenLetterChainVerifies(t *testing.T) {
	plan := []Planned{
		{Cipher: cipher.WordReplacement, Params: cipher.Params{Words: cipher.NewWordMap(&stepRand{})}},
		{Cipher: cipher.ReverseWordOrder},
		{Cipher: cipher.Caesar, Params: cipher.Params{Shift: 3}},
		{Cipher: cipher.Vigenere, Params: cipher.Params{Key: "BUTTERFLY"}},
		{Cipher: cipher.Atbash},
		{Cipher: cipher.ReverseCharsInWords},
		{Cipher: cipher.HexEncode},
	}
	in := "MEET ME AT THE OLD MILL TONIGHT"
	res, err := NewRunner().Run(in, plan)
	require.NoError(t, err)

	assert.Equal(t, Verified, res.State, "decoded %q", res.Decoded)
	assert.Equal(t, in, res.Decoded)
	require.Len(t, res.Decodes, len(plan))
	assert.Equal(t, cipher.HexEncode, res.Decodes[0].Cipher, "decode runs in reverse")
	assert.Equal(t, cipher.WordReplacement, res.Decodes[len(plan)-1].Cipher)
	assert.Positive(t, res.Steps[0].Params.Words.Len(), "word map recorded on the step")
}

func TestRunner_FailureKeepsCompletedSteps(t *testing.T) {
	before := testutil.ToFloat64(telemetry.StepFailures.WithLabelValues(string(cipher.Vigenere)))

	plan := []Planned{
		{Cipher: cipher.Caesar, Params: cipher.Params{Shift: 1}},
		{Cipher: cipher.Vigenere, Params: cipher.Params{Key: "!!"}},
		{Cipher: cipher.Atbash},
	}
	res, err := NewRunner().Run("abc", plan)
	require.Error(t, err)
	require.ErrorIs(t, err, cipher.ErrInvalidKey)

	var se *StepError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, 2, se.Step)
	assert.Equal(t, cipher.Vigenere, se.Cipher)

	assert.Equal(t, Failed, res.State)
	require.Len(t, res.Steps, 1)
	assert.Equal(t, "bcd", res.Encoded, "partial output is kept")
	assert.Empty(t, res.Decodes, "no verification after failure")

	after := testutil.ToFloat64(telemetry.StepFailures.WithLabelValues(string(cipher.Vigenere)))
	assert.Equal(t, before+1, after)
}

func TestRunner_UnknownCipherFailsStep(t *testing.T) {
	res, err := NewRunner().Run("abc", []Planned{{Cipher: "rot13"}})
	require.ErrorIs(t, err, cipher.ErrUnknownTransform)
	assert.Equal(t, Failed, res.State)
}

func TestRunner_MismatchIsNotAnError(t *testing.T) {
	res, err := NewRunner().Run("abcd", []Planned{{Cipher: cipher.BlockReverse}})
	require.NoError(t, err)
	assert.Equal(t, Mismatched, res.State)
	assert.False(t, res.Verified)
	assert.Equal(t, "abcd##", res.Decoded)
	assert.NoError(t, res.VerifyErr)
}

func TestRunner_ReverseCapitalizeKnownMismatch(t *testing.T) {
	res, err := NewRunner().Run("hello world", []Planned{{Cipher: cipher.ReverseCapitalize}})
	require.NoError(t, err)
	assert.Equal(t, Mismatched, res.State)
	assert.Equal(t, "Hello worlD", res.Decoded)
}

func TestRunner_DecodeErrorHaltsVerification(t *testing.T) {
	r := NewRunner()
	res := r.Apply("abc def", []Planned{
		{Cipher: cipher.WordReplacement, Params: cipher.Params{Words: cipher.NewWordMap(nil)}},
		{Cipher: cipher.Caesar, Params: cipher.Params{Shift: 2}},
	})
	require.Equal(t, Applied, res.State)

	// a lost map makes the first decode step fail
	res.Steps[0].Params.Words = nil
	r.Verify(res)

	assert.Equal(t, Mismatched, res.State)
	require.ErrorIs(t, res.VerifyErr, cipher.ErrMissingReplacementMap)
	require.Len(t, res.Decodes, 1, "caesar decoded before the failure")
	assert.Equal(t, res.Decodes[0].Output, res.Decoded)
}

func TestRunner_WithoutVerification(t *testing.T) {
	res, err := NewRunner(WithoutVerification()).Run("abc", []Planned{{Cipher: cipher.Atbash}})
	require.NoError(t, err)
	assert.Equal(t, Applied, res.State)
	assert.Empty(t, res.Decoded)
}

func TestRunner_EmptyInput(t *testing.T) {
	res, err := NewRunner().Run("", []Planned{{Cipher: cipher.Caesar, Params: cipher.Params{Shift: 4}}, {Cipher: cipher.HexEncode}})
	require.NoError(t, err)
	assert.Equal(t, Verified, res.State)
	assert.Empty(t, res.Encoded)
}

func TestRunner_RunsAreIndependent(t *testing.T) {
	r := NewRunner()
	a, err := r.Run("one", []Planned{{Cipher: cipher.Atbash}})
	require.NoError(t, err)
	b, err := r.Run("two", []Planned{{Cipher: cipher.Atbash}})
	require.NoError(t, err)
	assert.NotEqual(t, a.ID, b.ID)
	assert.True(t, strings.EqualFold(b.Decoded, "two"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "verified", Verified.String())
	assert.Equal(t, "failed", Failed.String())
	assert.Equal(t, "state(42)", State(42).String())
}
