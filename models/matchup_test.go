package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMatchupIsSymmetric(t *testing.T) {
	for a := PlayerID(1); a <= 6; a++ {
		for b := PlayerID(1); b <= 6; b++ {
			if a == b {
				continue
			}
			assert.Equal(t, NewMatchup(a, b), NewMatchup(b, a), "pair (%d,%d)", a, b)
			m := NewMatchup(a, b)
			assert.True(t, m.Low <= m.High)
		}
	}
}

func TestMatchupSetCollidesBothOrders(t *testing.T) {
	s := NewMatchupSet()
	s.Add(7, 3)

	assert.True(t, s.Has(3, 7))
	assert.True(t, s.Has(7, 3))
	assert.False(t, s.Has(3, 4))

	s.Add(3, 7)
	assert.Equal(t, 1, s.Len())
}

func TestMatchupSetNilIsEmpty(t *testing.T) {
	var s MatchupSet
	assert.False(t, s.Has(1, 2))
	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Sorted())
}

func TestMatchupSetSorted(t *testing.T) {
	s := NewMatchupSet(NewMatchup(4, 2), NewMatchup(1, 9), NewMatchup(1, 3))
	assert.Equal(t, []Matchup{{1, 3}, {1, 9}, {2, 4}}, s.Sorted())

	c := s.Clone()
	c.Add(5, 6)
	assert.Equal(t, 3, s.Len())
	assert.Equal(t, 4, c.Len())
}

func TestMatchupOpponent(t *testing.T) {
	m := NewMatchup(8, 2)
	assert.True(t, m.Contains(8))
	assert.Equal(t, PlayerID(2), m.Opponent(8))
	assert.Equal(t, PlayerID(8), m.Opponent(2))
}

func TestMatchMatchupSkipsPlaceholders(t *testing.T) {
	p1, p2 := PlayerID(5), PlayerID(2)

	full := Match{Player1ID: &p1, Player2ID: &p2}
	m, ok := full.Matchup()
	require.True(t, ok)
	assert.Equal(t, Matchup{Low: 2, High: 5}, m)
	assert.True(t, full.Involves(2))
	assert.False(t, full.Involves(3))

	half := Match{Player1ID: &p1}
	_, ok = half.Matchup()
	assert.False(t, ok)
}

func TestParseCategory(t *testing.T) {
	cases := []struct {
		in      string
		want    Category
		wantErr bool
	}{
		{in: "male", want: CategoryMale},
		{in: " Female ", want: CategoryFemale},
		{in: "mixed", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, c := range cases {
		t.Run(c.in, func(t *testing.T) {
			got, err := ParseCategory(c.in)
			if c.wantErr {
				require.ErrorIs(t, err, ErrUnknownCategory)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, c.want, got)
		})
	}
}
