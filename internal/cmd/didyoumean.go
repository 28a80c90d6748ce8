package cmd

import "strings"

// maxSuggestDistance is the largest edit distance still worth suggesting.
const maxSuggestDistance = 3

// levenshtein computes the edit distance between two strings using a single
// rolling row.
func levenshtein(a, b string) int {
	if a == "" {
		return len(b)
	}
	if b == "" {
		return len(a)
	}
	row := make([]int, len(b)+1)
	for j := range row {
		row[j] = j
	}
	for i := 1; i <= len(a); i++ {
		prev := i - 1
		row[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			val := min(row[j]+1, row[j-1]+1, prev+cost)
			prev = row[j]
			row[j] = val
		}
	}
	return row[len(b)]
}

func closest(unknown string, candidates []string, key func(string) string) string {
	best := ""
	bestDist := maxSuggestDistance + 1
	for _, c := range candidates {
		if d := levenshtein(unknown, strings.ToLower(key(c))); d < bestDist {
			bestDist = d
			best = c
		}
	}
	return best
}

// suggestCommand returns the closest command name, or "" when nothing is
// within maxSuggestDistance.
func suggestCommand(unknown string, commands []string) string {
	return closest(strings.ToLower(unknown), commands, func(s string) string { return s })
}

// suggestFlag compares names without leading dashes but returns the match
// with its prefix.
func suggestFlag(unknown string, flagNames []string) string {
	stripped := strings.ToLower(strings.TrimLeft(unknown, "-"))
	if stripped == "" {
		return ""
	}
	return closest(stripped, flagNames, func(s string) string { return strings.TrimLeft(s, "-") })
}
