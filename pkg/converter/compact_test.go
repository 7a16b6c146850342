package converter

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// bar builds a bar from slot tokens: 0 is a rest, anything else a pitch
func bar(pitches ...uint8) Bar {
	b := make(Bar, len(pitches))
	for i, p := range pitches {
		if p != 0 {
			b[i] = Chord(p)
		}
	}
	return b
}

func TestCompactRender(t *testing.T) {
	const c, e, g = 60, 64, 67

	tests := []struct {
		name     string
		bar      Bar
		flat     bool
		expected string
	}{
		{"silent bar", bar(0, 0, 0, 0, 0, 0, 0, 0), false, "-"},
		{"single onset", bar(c, 0, 0, 0, 0, 0, 0, 0), false, "c4"},
		{"even onsets", bar(c, 0, 0, 0, e, 0, 0, 0), false, "[c4 e4]"},
		{"uneven onsets", bar(c, 0, 0, e), false, "[c4@3 e4]"},
		{"leading rest", bar(0, 0, c, 0), false, "[- c4]"},
		{"run of one note", bar(c, c, c, c), false, "[c4!4]"},
		{"run then long note", bar(c, c, c, e, 0, 0), false, "[c4!3 e4@3]"},
		{"repeated unit", bar(c, 0, e, 0, c, 0, e, 0), false, "[[c4 e4]!2]"},
		{"repeated unit then tail", bar(c, e, c, e, g, 0, 0, 0), false, "[[c4 e4]!2 g4@2]"},
		{"repeat of long notes", bar(c, 0, 0, c, 0, 0, e, 0), false, "[[c4!2]@6 e4@2]"},
		{"flat keeps every slot", bar(c, 0, e, 0), true, "[c4 - e4 -]"},
		{"flat silent bar", bar(0, 0, 0, 0), true, "-"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := Compact(tt.bar, tt.flat)
			assert.Equal(t, tt.expected, RenderBar(node))
			assert.True(t, node.Flatten().Equal(tt.bar))
		})
	}
}

func TestCompactChord(t *testing.T) {
	b := Bar{Chord(60, 56), Rest(), Rest(), Rest()}
	assert.Equal(t, "[g#3,c4]", RenderBar(Compact(b, false)))
	assert.Equal(t, "[[g#3,c4] - - -]", RenderBar(Compact(b, true)))
}

func TestCompactPrefersLargestSaving(t *testing.T) {
	const a, d = 69, 62
	// "a a" saves one token, "a d a d a d" saves four
	node := Compact(bar(a, a, d, a, d, a, d, a), false)
	require.Equal(t, GroupNode, node.Kind)
	require.Len(t, node.Children, 3)
	assert.Equal(t, RepeatNode, node.Children[1].Kind)
	assert.Equal(t, "[a4 [[a4 d4]!3]@6 a4]", RenderBar(node))
}

func TestCompactLossless(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	palette := []Slot{Rest(), Rest(), Rest(), Chord(60), Chord(64), Chord(60, 64, 67)}

	for _, resolution := range []int{1, 3, 4, 8, 12, 16, 64} {
		for i := 0; i < 50; i++ {
			b := make(Bar, resolution)
			for j := range b {
				b[j] = palette[rng.Intn(len(palette))]
			}
			for _, flat := range []bool{false, true} {
				node := Compact(b, flat)
				require.Equal(t, resolution, node.Slots())
				require.True(t, node.Flatten().Equal(b), "resolution %d flat %v: %s", resolution, flat, RenderBar(node))
			}
		}
	}
}

func TestNodeFlatten(t *testing.T) {
	n := Group(
		Leaf(Rest(), 2),
		Repeat(2, Leaf(Chord(60), 1), Leaf(Chord(62), 2)),
	)
	expected := Bar{Rest(), Rest(), Chord(60), Chord(62), Rest(), Chord(60), Chord(62), Rest()}
	assert.Equal(t, 8, n.Slots())
	assert.True(t, n.Flatten().Equal(expected))
}

func TestNodeEqual(t *testing.T) {
	a := Repeat(2, Leaf(Chord(60), 1))
	assert.True(t, a.Equal(Repeat(2, Leaf(Chord(60), 1))))
	assert.False(t, a.Equal(Repeat(3, Leaf(Chord(60), 1))))
	assert.False(t, a.Equal(Group(Leaf(Chord(60), 1))))
	assert.False(t, Leaf(Chord(60), 1).Equal(Leaf(Chord(60), 2)))
}

// exhaustiveRepeat scores every candidate run without pruning
func exhaustiveRepeat(tokens []Node) (repeat, bool) {
	var best repeat
	found := false
	n := len(tokens)
	for size := 1; size <= n/2; size++ {
		for start := 0; start+2*size <= n; start++ {
			count := 1
			for start+(count+1)*size <= n && unitsEqual(tokens, start, start+count*size, size) {
				count++
			}
			c := repeat{start: start, size: size, count: count}
			if count >= 2 && (!found || c.better(best)) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func TestFindRepeatMatchesExhaustiveSearch(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for i := 0; i < 300; i++ {
		tokens := make([]Node, 1+rng.Intn(40))
		for j := range tokens {
			tokens[j] = Leaf(Chord(uint8(60+rng.Intn(3))), 1+rng.Intn(2))
		}

		want, wantOK := exhaustiveRepeat(tokens)
		got, gotOK := findRepeat(tokens)
		require.Equal(t, wantOK, gotOK)
		assert.Equal(t, want, got)
	}
}

func TestCompactLargeUniformBar(t *testing.T) {
	b := make(Bar, 1024)
	for i := range b {
		b[i] = Chord(60)
	}

	n := Compact(b, false)
	assert.True(t, n.Equal(Group(Repeat(1024, Leaf(Chord(60), 1)))))
	assert.Equal(t, "[c4!1024]", RenderBar(n))
	assert.True(t, b.Equal(n.Flatten()))
}
