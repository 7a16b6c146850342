package converter

// Grid maps ticks onto the slot grid of 4/4 bars
type Grid struct {
	TicksPerBar int64
	Resolution  int
}

// Position is a slot on the grid
type Position struct {
	Bar  int
	Slot int
}

// Quantized is a note placed on the grid
type Quantized struct {
	Note
	Position
}

// NewGrid returns the grid for a file resolution and a slot count per bar
func NewGrid(ticksPerBeat int64, resolution int) Grid {
	return Grid{TicksPerBar: ticksPerBeat * BeatsPerBar, Resolution: resolution}
}

// TicksPerSlot returns the slot width in ticks. It can be fractional.
func (g Grid) TicksPerSlot() float64 {
	return float64(g.TicksPerBar) / float64(g.Resolution)
}

// Place rounds tick to the nearest slot, ties rounding up. A tick that rounds
// onto the end of a bar lands on slot 0 of the next bar.
func (g Grid) Place(tick int64) Position {
	if tick < 0 {
		tick = 0
	}
	res := int64(g.Resolution)
	// round(tick * res / ticksPerBar) in integers
	global := (2*tick*res + g.TicksPerBar) / (2 * g.TicksPerBar)
	return Position{Bar: int(global / res), Slot: int(global % res)}
}

// Quantize places every note's start on the grid. Input order is kept.
func (g Grid) Quantize(notes []Note) []Quantized {
	out := make([]Quantized, len(notes))
	for i, n := range notes {
		out[i] = Quantized{Note: n, Position: g.Place(n.Start)}
	}
	return out
}
