package converter

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTempo(t *testing.T) {
	tests := []struct {
		bpm      float64
		expected string
	}{
		{91, "91/4"},
		{60000000.0 / 659341, "91/4"},
		{120, "30/1"},
		{90.5, "181/8"},
		{100.25, "401/16"},
	}

	for _, tt := range tests {
		tempo := NewTempo(tt.bpm)
		assert.Equal(t, tt.expected, tempo.String(), "bpm %v", tt.bpm)
	}
	assert.InDelta(t, 91.0/4, NewTempo(91).CyclesPerMinute(), 1e-9)
}

func TestResolveTempo(t *testing.T) {
	tempo, err := ResolveTempo(&Score{BPM: 91, Meters: []Meter{{Numerator: 4, Denominator: 4}}})
	require.NoError(t, err)
	assert.Equal(t, "91/4", tempo.String())

	tempo, err = ResolveTempo(&Score{})
	require.NoError(t, err)
	assert.Equal(t, DefaultBPM, tempo.BPM)

	tests := []Meter{
		{Numerator: 3, Denominator: 4},
		{Numerator: 2, Denominator: 2},
		{Numerator: 4, Denominator: 8},
	}
	for _, m := range tests {
		_, err := ResolveTempo(&Score{Meters: []Meter{{Numerator: 4, Denominator: 4}, m}})
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrUnsupportedTimeSignature))
	}

	_, err = ResolveTempo(&Score{BPM: math.Inf(1)})
	assert.ErrorIs(t, err, ErrMalformedMIDI)
}

func TestGCD(t *testing.T) {
	assert.Equal(t, 4, gcd(12, 8))
	assert.Equal(t, 5, gcd(0, 5))
	assert.Equal(t, int64(3), gcd[int64](-9, 6))

	num, den := reduce(9100, 400)
	assert.Equal(t, 91, num)
	assert.Equal(t, 4, den)
}
