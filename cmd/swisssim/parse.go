package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/FChavez82/highlander-tennis/brackets"
	"github.com/FChavez82/highlander-tennis/models"
	"github.com/FChavez82/highlander-tennis/services"
)

func splitItems(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseIDs(raw string) ([]models.PlayerID, error) {
	items := splitItems(raw)
	ids := make([]models.PlayerID, 0, len(items))
	for _, item := range items {
		id, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid player id %q", item)
		}
		ids = append(ids, models.PlayerID(id))
	}
	return ids, nil
}

// parseMatchups reads "1-2,3-4".
func parseMatchups(raw string) (models.MatchupSet, error) {
	set := models.NewMatchupSet()
	for _, item := range splitItems(raw) {
		a, b, ok := strings.Cut(item, "-")
		if !ok {
			return nil, fmt.Errorf("invalid pair %q, want a-b", item)
		}
		p1, err1 := strconv.Atoi(strings.TrimSpace(a))
		p2, err2 := strconv.Atoi(strings.TrimSpace(b))
		if err1 != nil || err2 != nil || p1 == p2 {
			return nil, fmt.Errorf("invalid pair %q", item)
		}
		set.Add(models.PlayerID(p1), models.PlayerID(p2))
	}
	return set, nil
}

// parseCounts reads "id:n" entries; used for both bye counts and wins.
func parseCounts(raw string) (map[models.PlayerID]int, error) {
	counts := make(map[models.PlayerID]int)
	for _, item := range splitItems(raw) {
		k, v, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid entry %q, want id:n", item)
		}
		id, err1 := strconv.Atoi(strings.TrimSpace(k))
		n, err2 := strconv.Atoi(strings.TrimSpace(v))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("invalid entry %q", item)
		}
		if _, dup := counts[models.PlayerID(id)]; dup {
			return nil, fmt.Errorf("player %d listed twice", id)
		}
		counts[models.PlayerID(id)] = n
	}
	return counts, nil
}

// parseStandings keeps the order of the flag, which feeds the band shuffle.
func parseStandings(raw string) ([]brackets.SwissRecord, error) {
	items := splitItems(raw)
	if _, err := parseCounts(raw); err != nil {
		return nil, err
	}
	records := make([]brackets.SwissRecord, 0, len(items))
	for _, item := range items {
		k, v, _ := strings.Cut(item, ":")
		id, _ := strconv.Atoi(strings.TrimSpace(k))
		wins, _ := strconv.Atoi(strings.TrimSpace(v))
		records = append(records, brackets.SwissRecord{Player: models.PlayerID(id), Wins: wins})
	}
	return records, nil
}

func parseRatings(raw string) ([]services.SimPlayer, error) {
	items := splitItems(raw)
	players := make([]services.SimPlayer, 0, len(items))
	for i, item := range items {
		rating, err := strconv.Atoi(item)
		if err != nil {
			return nil, fmt.Errorf("invalid rating %q", item)
		}
		players = append(players, services.SimPlayer{ID: models.PlayerID(i + 1), Rating: rating})
	}
	return players, nil
}
