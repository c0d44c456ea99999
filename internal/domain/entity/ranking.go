package entity

import (
	"sort"
)

// RankPlayers returns the player rows in final ranking order: final score
// descending, ties broken by earlier finish time, then by row creation order.
// Unfinished players (nil final score) sort last. The input slice is not
// modified.
func RankPlayers(players []CompetitionPlayer) []CompetitionPlayer {
	ranked := make([]CompetitionPlayer, len(players))
	copy(ranked, players)

	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		switch {
		case a.FinalScore == nil && b.FinalScore == nil:
			return false
		case a.FinalScore == nil:
			return false
		case b.FinalScore == nil:
			return true
		case *a.FinalScore != *b.FinalScore:
			return *a.FinalScore > *b.FinalScore
		}
		// Exact tie: the earlier finisher wins.
		switch {
		case a.FinishedAt == nil && b.FinishedAt == nil:
			return a.CreatedAt.Before(b.CreatedAt)
		case a.FinishedAt == nil:
			return false
		case b.FinishedAt == nil:
			return true
		case !a.FinishedAt.Equal(*b.FinishedAt):
			return a.FinishedAt.Before(*b.FinishedAt)
		}
		return a.CreatedAt.Before(b.CreatedAt)
	})

	return ranked
}

// WinnerOf returns the user ID of the top-ranked player, or "" for an empty
// player set. With the documented tie-break this is deterministic even for
// exact score ties.
func WinnerOf(players []CompetitionPlayer) string {
	ranked := RankPlayers(players)
	if len(ranked) == 0 {
		return ""
	}
	return ranked[0].UserID
}
