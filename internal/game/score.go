package game

import "sort"

// Tally counts one vote per voter with a recorded choice in the round.
// Resubmissions never appear here: the vote map holds a single entry per
// voter by construction.
func Tally(round *Round) map[string]int {
	counts := make(map[string]int)
	for _, teamID := range round.Votes {
		if teamID == "" {
			continue
		}
		counts[teamID]++
	}
	return counts
}

// applyScores adds each team's tally to its cumulative score. Teams absent
// from the tally keep their score; scores never reset mid-game.
func applyScores(teams []Team, tally map[string]int) {
	for i := range teams {
		teams[i].Score += tally[teams[i].ID]
	}
}

// Ranking returns teams ordered by cumulative score descending, stable on
// creation order for exact ties.
func Ranking(s *Session) []Team {
	ranked := make([]Team, len(s.Teams))
	copy(ranked, s.Teams)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked
}
