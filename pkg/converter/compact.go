package converter

// Compact turns a bar into a pattern tree. In flat mode every slot becomes
// its own leaf. Otherwise rests are folded into the preceding onset and runs
// of repeated units are grouped, recursively. Either way Flatten on the
// result returns bar unchanged.
func Compact(bar Bar, flat bool) Node {
	if bar.IsSilent() {
		return Leaf(Rest(), len(bar))
	}

	if flat {
		leaves := make([]Node, len(bar))
		for i, s := range bar {
			leaves[i] = Leaf(s, 1)
		}
		return Group(leaves...)
	}

	children := compactTokens(foldRests(bar))
	if len(children) == 1 && children[0].Kind == LeafNode {
		return children[0]
	}
	return Group(children...)
}

// foldRests merges every rest into the leaf before it. Leading rests form a
// single rest leaf.
func foldRests(bar Bar) []Node {
	var out []Node
	for _, s := range bar {
		if s.IsRest() && len(out) > 0 {
			out[len(out)-1].Span++
			continue
		}
		out = append(out, Leaf(s, 1))
	}
	return out
}

// repeat is a run of count identical units of length size starting at start
type repeat struct {
	start, size, count int
}

func (r repeat) saved() int {
	return (r.count - 1) * r.size
}

// better orders candidates: most tokens saved, then earliest, then shortest unit
func (r repeat) better(o repeat) bool {
	if r.saved() != o.saved() {
		return r.saved() > o.saved()
	}
	if r.start != o.start {
		return r.start < o.start
	}
	return r.size < o.size
}

func compactTokens(tokens []Node) []Node {
	best, ok := findRepeat(tokens)
	if !ok {
		return tokens
	}

	end := best.start + best.size*best.count
	out := make([]Node, 0, len(tokens)-best.saved())
	out = append(out, compactTokens(tokens[:best.start])...)
	unit := compactTokens(tokens[best.start : best.start+best.size])
	out = append(out, Repeat(best.count, append([]Node(nil), unit...)...))
	out = append(out, compactTokens(tokens[end:])...)
	return out
}

func findRepeat(tokens []Node) (repeat, bool) {
	var best repeat
	found := false
	n := len(tokens)
	for size := 1; size <= n/2; size++ {
		// a run from start saves at most n-start-size tokens
		if found && n-size < best.saved() {
			break
		}
		for start := 0; start+2*size <= n; start++ {
			if found && n-start-size < best.saved() {
				break
			}
			count := 1
			for start+(count+1)*size <= n && unitsEqual(tokens, start, start+count*size, size) {
				count++
			}
			if count < 2 {
				continue
			}
			c := repeat{start: start, size: size, count: count}
			if !found || c.better(best) {
				best, found = c, true
			}
		}
	}
	return best, found
}

func unitsEqual(tokens []Node, a, b, size int) bool {
	for i := 0; i < size; i++ {
		if !tokens[a+i].Equal(tokens[b+i]) {
			return false
		}
	}
	return true
}
