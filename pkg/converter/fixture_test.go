package converter

import (
	"bytes"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/smf"
)

// fixtureNote is a note of a synthesised test file, in ticks
type fixtureNote struct {
	pitch      uint8
	start, dur uint32
}

type fixture struct {
	ticksPerBeat uint16
	bpm          float64 // 0 writes no tempo event
	meter        [2]uint8
	tracks       [][]fixtureNote
}

// build writes a conductor track holding the meta events followed by one
// track per entry of f.tracks.
func (f fixture) build(t *testing.T) []byte {
	t.Helper()

	s := smf.New()
	s.TimeFormat = smf.MetricTicks(f.ticksPerBeat)

	var conductor smf.Track
	if f.bpm > 0 {
		conductor.Add(0, smf.MetaTempo(f.bpm))
	}
	if f.meter[0] != 0 {
		conductor.Add(0, smf.MetaMeter(f.meter[0], f.meter[1]))
	}
	conductor.Close(0)
	require.NoError(t, s.Add(conductor))

	for _, notes := range f.tracks {
		type event struct {
			tick uint32
			off  bool
			msg  midi.Message
		}
		var events []event
		for _, n := range notes {
			events = append(events,
				event{tick: n.start, msg: midi.NoteOn(0, n.pitch, 100)},
				event{tick: n.start + n.dur, off: true, msg: midi.NoteOff(0, n.pitch)},
			)
		}
		sort.SliceStable(events, func(a, b int) bool {
			if events[a].tick != events[b].tick {
				return events[a].tick < events[b].tick
			}
			return events[a].off && !events[b].off
		})

		var track smf.Track
		var last uint32
		for _, ev := range events {
			track.Add(ev.tick-last, ev.msg)
			last = ev.tick
		}
		track.Close(0)
		require.NoError(t, s.Add(track))
	}

	var buf bytes.Buffer
	_, err := s.WriteTo(&buf)
	require.NoError(t, err)
	return buf.Bytes()
}

// twoBarSong is a 4/4 file at 91 BPM with two note tracks over two bars
func twoBarSong() fixture {
	return fixture{
		ticksPerBeat: 96,
		bpm:          91,
		meter:        [2]uint8{4, 4},
		tracks: [][]fixtureNote{
			{
				{pitch: 60, start: 0, dur: 96},
				{pitch: 64, start: 192, dur: 96},
				{pitch: 67, start: 384, dur: 384},
			},
			{
				{pitch: 56, start: 0, dur: 384},
				{pitch: 60, start: 0, dur: 384},
			},
		},
	}
}
