package converter

import (
	"errors"
	"fmt"
)

var (
	// ErrFileNotFound is returned when no input MIDI file can be resolved
	ErrFileNotFound = errors.New("MIDI file not found")
	// ErrMalformedMIDI wraps any decode failure of the MIDI data
	ErrMalformedMIDI = errors.New("malformed MIDI data")
	// ErrUnsupportedTimeSignature matches every *UnsupportedTimeSignatureError
	ErrUnsupportedTimeSignature = errors.New("unsupported time signature")
	// ErrInvalidConfig is returned by Config.Validate
	ErrInvalidConfig = errors.New("invalid config")
)

// UnsupportedTimeSignatureError reports a meter other than 4/4
type UnsupportedTimeSignatureError struct {
	Numerator   uint8
	Denominator uint8
	Tick        int64
}

func (e *UnsupportedTimeSignatureError) Error() string {
	return fmt.Sprintf("unsupported time signature %d/%d at tick %d: only 4/4 is supported",
		e.Numerator, e.Denominator, e.Tick)
}

// Is lets errors.Is match ErrUnsupportedTimeSignature
func (e *UnsupportedTimeSignatureError) Is(target error) bool {
	return target == ErrUnsupportedTimeSignature
}
