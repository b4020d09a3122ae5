package textutil

// Ratio scores the similarity of two strings on a 0-100 scale using
// Levenshtein distance over runes. Identical strings score 100; strings with
// nothing in common score 0. Comparison is byte-exact; callers fold case
// before scoring when they want case-insensitive matching.
func Ratio(a, b string) int {
	if a == b {
		return 100
	}
	ra, rb := []rune(a), []rune(b)
	longest := len(ra)
	if len(rb) > longest {
		longest = len(rb)
	}
	if longest == 0 {
		return 100
	}
	dist := levenshtein(ra, rb)
	return int(float64(longest-dist) / float64(longest) * 100)
}

// PartialRatio scores the best alignment of the shorter string against any
// equal-length window of the longer one. A query that appears verbatim inside
// a long text scores 100 regardless of the surrounding length.
func PartialRatio(a, b string) int {
	ra, rb := []rune(a), []rune(b)
	if len(ra) > len(rb) {
		ra, rb = rb, ra
	}
	if len(ra) == 0 {
		return 0
	}
	if len(ra) == len(rb) {
		return Ratio(string(ra), string(rb))
	}

	best := 0
	for start := 0; start+len(ra) <= len(rb); start++ {
		window := rb[start : start+len(ra)]
		if score := Ratio(string(ra), string(window)); score > best {
			best = score
			if best == 100 {
				break
			}
		}
	}
	return best
}

// levenshtein computes the edit distance between two rune slices using the
// two-row dynamic programming formulation.
func levenshtein(a, b []rune) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = minInt(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(b)]
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
