package converter

// BarSet is the bar grid of one track
type BarSet struct {
	Bars []Bar
	// Collisions counts notes merged into a slot that already held the same
	// pitch from an earlier onset.
	Collisions int
	// Dropped counts notes that fell beyond the last bar
	Dropped int
}

// SongLength returns the number of bars needed to hold every quantized note
// of all tracks.
func SongLength(tracks ...[]Quantized) int {
	length := 0
	for _, notes := range tracks {
		for _, n := range notes {
			if n.Bar+1 > length {
				length = n.Bar + 1
			}
		}
	}
	return length
}

// BuildBars lays the notes of one track out in numBars bars of resolution
// slots. Notes sharing a slot become one chord; empty slots are rests.
func BuildBars(notes []Quantized, resolution, numBars int) BarSet {
	set := BarSet{Bars: make([]Bar, numBars)}
	for i := range set.Bars {
		set.Bars[i] = make(Bar, resolution)
	}

	type key struct {
		pos   Position
		pitch uint8
	}
	onsets := make(map[key]int64)

	for _, n := range notes {
		if n.Bar >= numBars {
			set.Dropped++
			continue
		}
		k := key{pos: n.Position, pitch: n.Pitch}
		if start, seen := onsets[k]; seen {
			if start != n.Start {
				set.Collisions++
			}
			continue
		}
		onsets[k] = n.Start
		slot := &set.Bars[n.Bar][n.Slot]
		*slot = slot.add(n.Pitch)
	}
	return set
}
