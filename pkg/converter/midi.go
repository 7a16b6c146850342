package converter

import (
	"bytes"
	"fmt"
	"math"
	"os"
	"sort"

	"gitlab.com/gomidi/midi/v2/smf"
)

// noteNames are the pitch classes in mini-notation spelling
var noteNames = [12]string{"c", "c#", "d", "d#", "e", "f", "f#", "g", "g#", "a", "a#", "b"}

// NoteName returns the mini-notation name of a MIDI note number (60 -> "c4")
func NoteName(pitch uint8) string {
	return fmt.Sprintf("%s%d", noteNames[pitch%12], int(pitch)/12-1)
}

// ReadScoreFile reads a MIDI file from disk and decodes it
func ReadScoreFile(filename string) (*Score, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, filename)
		}
		return nil, fmt.Errorf("failed to read MIDI file: %w", err)
	}
	return ReadScore(data)
}

// ReadScore decodes MIDI data into per-track notes plus the tempo and meter
// meta events.
func ReadScore(data []byte) (s *Score, err error) {
	// smf can panic on truncated input
	defer func() {
		if r := recover(); r != nil {
			s = nil
			err = fmt.Errorf("%w: %v", ErrMalformedMIDI, r)
		}
	}()

	if !IsMIDI(data) {
		return nil, fmt.Errorf("%w: missing MThd header", ErrMalformedMIDI)
	}

	file, err := smf.ReadFrom(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedMIDI, err)
	}

	mt, ok := file.TimeFormat.(smf.MetricTicks)
	if !ok || mt.Resolution() == 0 {
		return nil, fmt.Errorf("%w: only metric time formats are supported", ErrMalformedMIDI)
	}

	// smf keeps a last track that ends early, and leaves tracks the header
	// announces but the data never reaches empty
	for i, track := range file.Tracks {
		if !track.IsClosed() {
			return nil, fmt.Errorf("%w: track %d is truncated", ErrMalformedMIDI, i)
		}
	}

	score := &Score{TicksPerBeat: int64(mt.Resolution())}
	for i, track := range file.Tracks {
		score.Tracks = append(score.Tracks, extractTrack(score, i, track))
	}
	if math.IsInf(score.BPM, 0) || math.IsNaN(score.BPM) {
		return nil, fmt.Errorf("%w: set-tempo event of zero microseconds per beat", ErrMalformedMIDI)
	}
	sort.SliceStable(score.Meters, func(a, b int) bool {
		return score.Meters[a].Tick < score.Meters[b].Tick
	})
	return score, nil
}

// extractTrack pairs note starts with note ends. Overlapping notes of the same
// key and channel are closed first-in first-out; notes left open are closed at
// the end of the track.
func extractTrack(score *Score, index int, events smf.Track) Track {
	track := Track{Index: index}
	open := make(map[uint16][]int64)
	var tick int64

	for _, ev := range events {
		tick += int64(ev.Delta)
		msg := ev.Message

		var ch, key, vel uint8
		var bpm float64
		var num, denom, cpt, dsqpq uint8
		var name string

		switch {
		case msg.GetNoteStart(&ch, &key, &vel):
			id := uint16(ch)<<8 | uint16(key)
			open[id] = append(open[id], tick)
		case msg.GetNoteEnd(&ch, &key):
			id := uint16(ch)<<8 | uint16(key)
			starts := open[id]
			if len(starts) == 0 {
				continue
			}
			track.Notes = append(track.Notes, newNote(key, starts[0], tick, index))
			open[id] = starts[1:]
		case msg.GetMetaTempo(&bpm):
			if score.BPM == 0 && bpm > 0 {
				score.BPM = bpm
			}
		case msg.GetMetaTimeSig(&num, &denom, &cpt, &dsqpq):
			score.Meters = append(score.Meters, Meter{Tick: tick, Numerator: num, Denominator: denom})
		case msg.GetMetaTrackName(&name):
			if track.Name == "" {
				track.Name = name
			}
		}
	}

	for id, starts := range open {
		for _, start := range starts {
			track.Notes = append(track.Notes, newNote(uint8(id&0xFF), start, tick, index))
		}
	}

	sort.Slice(track.Notes, func(a, b int) bool {
		na, nb := track.Notes[a], track.Notes[b]
		if na.Start != nb.Start {
			return na.Start < nb.Start
		}
		return na.Pitch < nb.Pitch
	})
	return track
}

func newNote(key uint8, start, end int64, track int) Note {
	d := end - start
	if d < 1 {
		d = 1
	}
	return Note{Pitch: key, Start: start, Duration: d, Track: track}
}
