package strategy

import "strings"

// suggestName returns the registered name closest to unknown, or "" when
// nothing is within a few edits. Comparison ignores case.
func suggestName(unknown string, names []string) string {
	best := ""
	bestDist := 1000
	for _, name := range names {
		dist := levenshteinDistance(strings.ToLower(unknown), strings.ToLower(name))
		if dist < bestDist {
			bestDist = dist
			best = name
		}
	}
	if bestDist < 5 {
		return best
	}
	return ""
}

func levenshteinDistance(s1, s2 string) int {
	if s1 == s2 {
		return 0
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
