package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// PlayerID стабилен на всё время турнира.
type PlayerID int

type Category string

const (
	CategoryMale   Category = "male"
	CategoryFemale Category = "female"
)

var ErrUnknownCategory = errors.New("unknown category")

// ParseCategory принимает только две категории турнира.
func ParseCategory(s string) (Category, error) {
	switch c := Category(strings.ToLower(strings.TrimSpace(s))); c {
	case CategoryMale, CategoryFemale:
		return c, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, s)
	}
}

type Player struct {
	ID        PlayerID  `json:"id" db:"id"`
	Name      string    `json:"name" db:"name"`
	Category  Category  `json:"category" db:"category"`
	Rating    int       `json:"rating" db:"rating"`
	Active    bool      `json:"active" db:"active"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
