package models

import "sort"

// Matchup is an unordered pair of players kept in canonical order (Low <= High).
// Build it with NewMatchup so (a, b) and (b, a) always collide as map keys.
type Matchup struct {
	Low  PlayerID `json:"low"`
	High PlayerID `json:"high"`
}

func NewMatchup(a, b PlayerID) Matchup {
	if a > b {
		a, b = b, a
	}
	return Matchup{Low: a, High: b}
}

func (m Matchup) Contains(id PlayerID) bool {
	return m.Low == id || m.High == id
}

// Opponent returns the other member of the pair.
func (m Matchup) Opponent(id PlayerID) PlayerID {
	if m.Low == id {
		return m.High
	}
	return m.Low
}

type MatchupSet map[Matchup]struct{}

func NewMatchupSet(pairs ...Matchup) MatchupSet {
	s := make(MatchupSet, len(pairs))
	for _, p := range pairs {
		s[p] = struct{}{}
	}
	return s
}

// Add stores the pair in canonical form.
func (s MatchupSet) Add(a, b PlayerID) {
	s[NewMatchup(a, b)] = struct{}{}
}

// Has is safe on a nil set.
func (s MatchupSet) Has(a, b PlayerID) bool {
	_, ok := s[NewMatchup(a, b)]
	return ok
}

func (s MatchupSet) Len() int {
	return len(s)
}

// Clone returns an independent copy.
func (s MatchupSet) Clone() MatchupSet {
	out := make(MatchupSet, len(s))
	for k := range s {
		out[k] = struct{}{}
	}
	return out
}

// Sorted lists the pairs ordered by (Low, High).
func (s MatchupSet) Sorted() []Matchup {
	out := make([]Matchup, 0, len(s))
	for k := range s {
		out = append(out, k)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Low != out[j].Low {
			return out[i].Low < out[j].Low
		}
		return out[i].High < out[j].High
	})
	return out
}
