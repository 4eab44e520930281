package params

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cipherweave/internal/cipher"
)

type fixedRand int

func (f fixedRand) IntN(n int) int { return int(f) % n }

func ptr[T any](v T) *T { return &v }

func TestResolve_Defaults(t *testing.T) {
	r := New(Standard(), Overrides{}, SourceDefault, nil)

	p, warn := r.Resolve(cipher.Caesar)
	assert.Empty(t, warn)
	assert.Equal(t, 15, p.Shift)

	p, _ = r.Resolve(cipher.Vigenere)
	assert.Equal(t, "BUTTERFLY", p.Key)

	p, _ = r.Resolve(cipher.GridCoordinate)
	assert.Equal(t, cipher.Grid{A: 5, B: 6}, p.Grid)

	p, _ = r.Resolve(cipher.Atbash)
	assert.Equal(t, cipher.Params{}, p)
}

func TestResolve_WordReplacementGetsOwnMap(t *testing.T) {
	r := New(Standard(), Overrides{}, SourceDefault, nil)
	a, _ := r.Resolve(cipher.WordReplacement)
	b, _ := r.Resolve(cipher.WordReplacement)
	require.NotNil(t, a.Words)
	require.NotNil(t, b.Words)
	assert.NotSame(t, a.Words, b.Words)
}

func TestResolve_OverridesApplied(t *testing.T) {
	r := New(Standard(), Overrides{
		Shift: ptr(-7),
		Key:   ptr("lemon"),
		Grid:  ptr(cipher.Grid{A: 3, B: 9}),
	}, SourceDefault, nil)

	p, warn := r.Resolve(cipher.Caesar)
	assert.Empty(t, warn)
	assert.Equal(t, -7, p.Shift)

	p, _ = r.Resolve(cipher.Vigenere)
	assert.Equal(t, "lemon", p.Key)

	p, _ = r.Resolve(cipher.GridCoordinate)
	assert.Equal(t, cipher.Grid{A: 3, B: 9}, p.Grid)
}

func TestResolve_InvalidOverridesFallBackWithWarning(t *testing.T) {
	r := New(Standard(), Overrides{
		Shift: ptr(40),
		Key:   ptr("1234"),
		Grid:  ptr(cipher.Grid{A: 5, B: 5}),
	}, SourceDefault, nil)

	p, warn := r.Resolve(cipher.Caesar)
	require.Len(t, warn, 1)
	assert.ErrorIs(t, warn[0], cipher.ErrInvalidParameterValue)
	assert.Equal(t, DefaultShift, p.Shift)

	p, warn = r.Resolve(cipher.Vigenere)
	require.Len(t, warn, 1)
	assert.ErrorIs(t, warn[0], cipher.ErrInvalidKey)
	assert.Equal(t, DefaultKey, p.Key)

	p, warn = r.Resolve(cipher.GridCoordinate)
	require.Len(t, warn, 1)
	assert.ErrorIs(t, warn[0], cipher.ErrInvalidGridDimensions)
	assert.Equal(t, cipher.Grid{A: 5, B: 6}, p.Grid)
	assert.Contains(t, warn[0].Error(), "using 5x6")
}

func TestResolve_EmptyKeyMeansDefault(t *testing.T) {
	r := New(Standard(), Overrides{Key: ptr("  ")}, SourceDefault, nil)
	p, warn := r.Resolve(cipher.Vigenere)
	assert.Empty(t, warn)
	assert.Equal(t, DefaultKey, p.Key)
}

func TestNew_RepairsBadDefaults(t *testing.T) {
	r := New(Defaults{Shift: 99, Key: "---", Grid: cipher.Grid{A: 1, B: 2}}, Overrides{}, SourceDefault, nil)
	p, _ := r.Resolve(cipher.Caesar)
	assert.Equal(t, DefaultShift, p.Shift)
	p, _ = r.Resolve(cipher.Vigenere)
	assert.Equal(t, DefaultKey, p.Key)
	p, _ = r.Resolve(cipher.GridCoordinate)
	assert.Equal(t, cipher.Grid{A: 5, B: 6}, p.Grid)
}

func TestResolve_RandomWithinRanges(t *testing.T) {
	for seed := 0; seed < 40; seed++ {
		r := New(Standard(), Overrides{}, SourceRandom, fixedRand(seed))

		p, _ := r.Resolve(cipher.Caesar)
		assert.True(t, p.Shift >= 1 && p.Shift <= MaxShift, "shift %d", p.Shift)

		p, _ = r.Resolve(cipher.Vigenere)
		assert.Contains(t, randomKeys, p.Key)

		p, _ = r.Resolve(cipher.GridCoordinate)
		assert.NoError(t, p.Grid.Validate(), p.Grid.String())
	}
}

func TestResolve_OverrideBeatsRandom(t *testing.T) {
	r := New(Standard(), Overrides{Shift: ptr(3)}, SourceRandom, fixedRand(11))
	p, _ := r.Resolve(cipher.Caesar)
	assert.Equal(t, 3, p.Shift)
}

func TestParseGrid(t *testing.T) {
	for _, in := range []string{"5x6", "5,6", "5 6", " 5X6 "} {
		g, err := ParseGrid(in)
		require.NoError(t, err, in)
		assert.Equal(t, cipher.Grid{A: 5, B: 6}, g)
	}
	_, err := ParseGrid("5")
	assert.ErrorIs(t, err, cipher.ErrInvalidParameterValue)
	_, err = ParseGrid("ax6")
	assert.ErrorIs(t, err, cipher.ErrInvalidParameterValue)
}

func TestParseShift(t *testing.T) {
	n, err := ParseShift(" -4 ")
	require.NoError(t, err)
	assert.Equal(t, -4, n)
	_, err = ParseShift("four")
	assert.ErrorIs(t, err, cipher.ErrInvalidParameterValue)
}
