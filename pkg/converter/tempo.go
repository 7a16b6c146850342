package converter

import (
	"fmt"
	"math"

	"golang.org/x/exp/constraints"
)

const (
	// BeatsPerBar is fixed; one Strudel cycle is one 4/4 bar
	BeatsPerBar = 4
	// DefaultBPM applies when the file has no set-tempo event
	DefaultBPM = 120.0
)

// Tempo is the resolved song tempo. Num/Den is cycles per minute as a
// reduced fraction.
type Tempo struct {
	BPM float64
	Num int64
	Den int64
}

// ResolveTempo picks the tempo of the score and checks that every meter is
// 4/4. A score without meter events is taken as 4/4.
func ResolveTempo(s *Score) (Tempo, error) {
	for _, m := range s.Meters {
		if m.Numerator != BeatsPerBar || m.Denominator != 4 {
			return Tempo{}, &UnsupportedTimeSignatureError{
				Numerator:   m.Numerator,
				Denominator: m.Denominator,
				Tick:        m.Tick,
			}
		}
	}

	bpm := s.BPM
	if math.IsInf(bpm, 0) || math.IsNaN(bpm) {
		return Tempo{}, fmt.Errorf("%w: tempo of %v BPM", ErrMalformedMIDI, bpm)
	}
	if bpm <= 0 {
		bpm = DefaultBPM
	}
	return NewTempo(bpm), nil
}

// NewTempo builds a Tempo from beats per minute. BPM is rounded to hundredths
// first so that tempos stored as whole microseconds per beat come out even.
func NewTempo(bpm float64) Tempo {
	hundredths := int64(math.Round(bpm * 100))
	num, den := reduce(hundredths, BeatsPerBar*100)
	return Tempo{BPM: float64(hundredths) / 100, Num: num, Den: den}
}

// CyclesPerMinute returns Num/Den as a float
func (t Tempo) CyclesPerMinute() float64 {
	if t.Den == 0 {
		return 0
	}
	return float64(t.Num) / float64(t.Den)
}

// String returns the fraction as used in setcpm, e.g. "91/4"
func (t Tempo) String() string {
	return fmt.Sprintf("%d/%d", t.Num, t.Den)
}

func gcd[T constraints.Integer](a, b T) T {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

func reduce[T constraints.Integer](num, den T) (T, T) {
	g := gcd(num, den)
	if g == 0 {
		return num, den
	}
	return num / g, den / g
}
