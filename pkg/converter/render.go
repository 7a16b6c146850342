package converter

import (
	"fmt"
	"strconv"
	"strings"
)

// barsPerLine is how many bars share one output line
const barsPerLine = 4

// RenderBar writes one bar tree in mini-notation
func RenderBar(n Node) string {
	switch n.Kind {
	case LeafNode:
		return n.Slot.String()
	case RepeatNode:
		return "[" + renderSequence([]Node{n}) + "]"
	default:
		return "[" + renderSequence(n.Children) + "]"
	}
}

// renderSequence writes sibling nodes. Weights are relative to the gcd of
// the siblings' step sizes so that each node keeps its share of time. The step
// of a repeat is one copy of its unit.
func renderSequence(nodes []Node) string {
	unit := 0
	for _, n := range nodes {
		unit = gcd(unit, step(n))
	}
	if unit == 0 {
		unit = 1
	}

	parts := make([]string, len(nodes))
	for i, n := range nodes {
		weight := n.Slots() / unit
		switch n.Kind {
		case LeafNode:
			parts[i] = weighted(n.Slot.String(), weight)
		case GroupNode:
			parts[i] = weighted("["+renderSequence(n.Children)+"]", weight)
		case RepeatNode:
			body := renderUnit(n.Children) + "!" + strconv.Itoa(n.Count)
			if step(n) == unit {
				parts[i] = body
			} else {
				parts[i] = weighted("["+body+"]", weight)
			}
		}
	}
	return strings.Join(parts, " ")
}

func step(n Node) int {
	if n.Kind == RepeatNode {
		return sumSlots(n.Children)
	}
	return n.Slots()
}

// renderUnit writes the repeated part of a repeat node as a single step
func renderUnit(unit []Node) string {
	if len(unit) == 1 {
		switch unit[0].Kind {
		case LeafNode:
			return unit[0].Slot.String()
		case GroupNode:
			return "[" + renderSequence(unit[0].Children) + "]"
		}
	}
	return "[" + renderSequence(unit) + "]"
}

func weighted(s string, weight int) string {
	if weight <= 1 {
		return s
	}
	return s + "@" + strconv.Itoa(weight)
}

// Render writes the full program text: the setcpm header and one $: block
// per track.
func Render(tempo Tempo, tracks []TrackPattern, tabSize int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "setcpm(%s)\n", tempo)

	for _, t := range tracks {
		b.WriteString("\n")
		b.WriteString(renderTrack(t, tabSize))
	}
	return b.String()
}

func renderTrack(t TrackPattern, tabSize int) string {
	var b strings.Builder
	b.WriteString("$: note(`<\n")
	for i := 0; i < len(t.Bars); i += barsPerLine {
		end := i + barsPerLine
		if end > len(t.Bars) {
			end = len(t.Bars)
		}
		line := make([]string, 0, end-i)
		for _, bar := range t.Bars[i:end] {
			line = append(line, RenderBar(bar))
		}
		b.WriteString(indent(tabSize, 2))
		b.WriteString(strings.Join(line, " "))
		b.WriteString("\n")
	}
	fmt.Fprintf(&b, "%s>`).sound(%q)\n", indent(tabSize, 1), t.Sound)
	return b.String()
}

func indent(tabSize, levels int) string {
	return strings.Repeat(" ", tabSize*levels)
}
