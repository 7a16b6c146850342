// Package converter provides conversion from standard MIDI files to Strudel mini-notation
package converter

import (
	"strings"

	"golang.org/x/exp/slices"
)

// Note is a single sounding note extracted from a MIDI track
type Note struct {
	Pitch    uint8 // MIDI note number (0-127)
	Start    int64 // Absolute start tick
	Duration int64 // Length in ticks, always > 0
	Track    int   // Index of the track in the file
}

// Track holds the notes of one MIDI track in start order
type Track struct {
	Index int
	Name  string
	Notes []Note
}

// Meter is a time signature found in the file
type Meter struct {
	Tick        int64
	Numerator   uint8
	Denominator uint8
}

// Score is the decoded content of a MIDI file that the pipeline needs
type Score struct {
	TicksPerBeat int64
	BPM          float64 // Tempo of the first set-tempo event, 0 when the file has none
	Meters       []Meter
	Tracks       []Track
}

// Slot is one step of the bar grid. A slot without pitches is a rest.
type Slot struct {
	Pitches []uint8 // sorted ascending, no duplicates
}

// Rest returns an empty slot
func Rest() Slot {
	return Slot{}
}

// Chord returns a slot sounding the given pitches. Order does not matter and
// duplicates are collapsed.
func Chord(pitches ...uint8) Slot {
	if len(pitches) == 0 {
		return Slot{}
	}
	p := slices.Clone(pitches)
	slices.Sort(p)
	return Slot{Pitches: slices.Compact(p)}
}

// IsRest reports whether nothing sounds in the slot
func (s Slot) IsRest() bool {
	return len(s.Pitches) == 0
}

// Equal reports whether both slots sound the same pitches
func (s Slot) Equal(o Slot) bool {
	return slices.Equal(s.Pitches, o.Pitches)
}

// add returns the slot with pitch merged in
func (s Slot) add(pitch uint8) Slot {
	return Chord(append(slices.Clone(s.Pitches), pitch)...)
}

// String renders the slot in mini-notation: "-" for a rest, "c4" for a
// single note and "[g#3,c4]" for a chord.
func (s Slot) String() string {
	switch len(s.Pitches) {
	case 0:
		return "-"
	case 1:
		return NoteName(s.Pitches[0])
	}
	names := make([]string, len(s.Pitches))
	for i, p := range s.Pitches {
		names[i] = NoteName(p)
	}
	return "[" + strings.Join(names, ",") + "]"
}

// Bar is one measure of a track, exactly resolution slots long
type Bar []Slot

// IsSilent reports whether every slot of the bar is a rest
func (b Bar) IsSilent() bool {
	for _, s := range b {
		if !s.IsRest() {
			return false
		}
	}
	return true
}

// Equal reports whether both bars hold the same slots in the same order
func (b Bar) Equal(o Bar) bool {
	return slices.EqualFunc(b, o, Slot.Equal)
}

// NodeKind tells how a pattern node is built
type NodeKind int

const (
	// LeafNode is a slot followed by Span-1 rests
	LeafNode NodeKind = iota
	// GroupNode is a bracketed sequence of children
	GroupNode
	// RepeatNode is Count consecutive copies of the Children sequence
	RepeatNode
)

// Node is a compacted pattern tree. Flatten always yields the slots it was
// built from.
type Node struct {
	Kind     NodeKind
	Slot     Slot
	Span     int
	Children []Node
	Count    int
}

// Leaf returns a leaf node covering span slots
func Leaf(s Slot, span int) Node {
	return Node{Kind: LeafNode, Slot: s, Span: span}
}

// Group returns a bracketed group of children
func Group(children ...Node) Node {
	return Node{Kind: GroupNode, Children: children}
}

// Repeat returns count copies of unit
func Repeat(count int, unit ...Node) Node {
	return Node{Kind: RepeatNode, Children: unit, Count: count}
}

// Slots returns the number of grid slots the node covers
func (n Node) Slots() int {
	switch n.Kind {
	case LeafNode:
		return n.Span
	case RepeatNode:
		return n.Count * sumSlots(n.Children)
	default:
		return sumSlots(n.Children)
	}
}

// Flatten expands the node back into its slot sequence
func (n Node) Flatten() Bar {
	out := make(Bar, 0, n.Slots())
	return n.appendSlots(out)
}

func (n Node) appendSlots(out Bar) Bar {
	switch n.Kind {
	case LeafNode:
		if n.Span <= 0 {
			return out
		}
		out = append(out, n.Slot)
		for i := 1; i < n.Span; i++ {
			out = append(out, Rest())
		}
	case RepeatNode:
		for i := 0; i < n.Count; i++ {
			for _, c := range n.Children {
				out = c.appendSlots(out)
			}
		}
	default:
		for _, c := range n.Children {
			out = c.appendSlots(out)
		}
	}
	return out
}

// Equal reports structural equality of two trees
func (n Node) Equal(o Node) bool {
	if n.Kind != o.Kind {
		return false
	}
	switch n.Kind {
	case LeafNode:
		return n.Span == o.Span && n.Slot.Equal(o.Slot)
	case RepeatNode:
		if n.Count != o.Count {
			return false
		}
	}
	return slices.EqualFunc(n.Children, o.Children, Node.Equal)
}

func sumSlots(nodes []Node) int {
	total := 0
	for _, n := range nodes {
		total += n.Slots()
	}
	return total
}

// TrackPattern is the compacted output of one track
type TrackPattern struct {
	Track int
	Name  string
	Sound string
	Bars  []Node
}

// Result holds everything produced by one conversion
type Result struct {
	Tempo  Tempo
	Tracks []TrackPattern
	Text   string
}
