package domain

import "sort"

// ComputeRanking orders the players of a finished match into the final standing.
// Score descending, then TurnPosition ascending; positions are sequential 1..N even on equal scores.
func ComputeRanking(match *Match, players []Player) ([]RankingEntry, error) {
	if !match.IsFinished() {
		return nil, ErrMatchNotFinished
	}

	sorted := make([]Player, len(players))
	copy(sorted, players)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Score != sorted[j].Score {
			return sorted[i].Score > sorted[j].Score
		}
		return sorted[i].TurnPosition < sorted[j].TurnPosition
	})

	entries := make([]RankingEntry, 0, len(sorted))
	for i, p := range sorted {
		entries = append(entries, RankingEntry{
			MatchID:    match.ID,
			PlayerID:   p.ID,
			PlayerName: p.Name,
			Score:      p.Score,
			Position:   i + 1,
		})
	}
	return entries, nil
}
