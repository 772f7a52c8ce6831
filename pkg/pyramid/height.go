package pyramid

// EstimateHeight returns the smallest strip height at which head and tail
// tiles cannot overlap: the maximum, over all columns, of head height plus
// tail height.
//
// Both profiles are walked together in order of span end. Each step pairs
// the current head span with the current tail span, then advances whichever
// ends first (both when they end on the same column). The result is not
// rounded to any alignment.
func EstimateHeight(head, tail Profile) int {
	best := 0
	i, j := 0, 0
	for i < len(head) && j < len(tail) {
		h, t := head[i], tail[j]
		best = max(best, h.Height+t.Height)
		if h.End <= t.End {
			i++
		}
		if h.End >= t.End {
			j++
		}
	}
	return best
}
