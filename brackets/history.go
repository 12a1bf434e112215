package brackets

import "github.com/FChavez82/highlander-tennis/models"

// HistoryFromMatches collects the matchups a category has already played or
// scheduled. Only round-robin matches count; cancelled matches free the pair
// again and bracket placeholders without both players are skipped.
func HistoryFromMatches(category models.Category, matches []models.Match) models.MatchupSet {
	set := models.NewMatchupSet()
	for i := range matches {
		m := &matches[i]
		if m.Category != category || m.Phase != models.PhaseRoundRobin || m.Status == models.MatchStatusCancelled {
			continue
		}
		if pair, ok := m.Matchup(); ok {
			set[pair] = struct{}{}
		}
	}
	return set
}

// ByeCountsFromRecords counts, per player, the weeks they were available for
// the category yet appear in none of that week's matches.
//
// Only weeks with at least one recorded match in the category are considered;
// a week that has not been scheduled yet would otherwise count everyone.
// Players with no byes are absent from the result.
func ByeCountsFromRecords(category models.Category, availability []models.Availability, matches []models.Match) map[models.PlayerID]int {
	playedInWeek := make(map[int]map[models.PlayerID]struct{})
	for i := range matches {
		m := &matches[i]
		if m.Category != category || m.WeekID == nil {
			continue
		}
		week, ok := playedInWeek[*m.WeekID]
		if !ok {
			week = make(map[models.PlayerID]struct{})
			playedInWeek[*m.WeekID] = week
		}
		if m.Player1ID != nil {
			week[*m.Player1ID] = struct{}{}
		}
		if m.Player2ID != nil {
			week[*m.Player2ID] = struct{}{}
		}
	}

	counts := make(map[models.PlayerID]int)
	for _, a := range availability {
		if a.Category != category || !a.Available {
			continue
		}
		week, scheduled := playedInWeek[a.WeekID]
		if !scheduled {
			continue
		}
		if _, played := week[a.PlayerID]; !played {
			counts[a.PlayerID]++
		}
	}
	return counts
}
