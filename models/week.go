package models

import "time"

// Week is one bi-weekly slot of the season.
type Week struct {
	ID        int       `json:"id" db:"id"`
	Number    int       `json:"number" db:"number"`
	StartDate time.Time `json:"start_date" db:"start_date"`
}

// Availability records whether a player declared themselves free for a week.
type Availability struct {
	WeekID    int      `json:"week_id" db:"week_id"`
	PlayerID  PlayerID `json:"player_id" db:"player_id"`
	Category  Category `json:"category" db:"category"`
	Available bool     `json:"available" db:"available"`
}
