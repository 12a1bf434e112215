package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/FChavez82/highlander-tennis/models"
)

type AvailabilityRepository interface {
	// AvailablePlayers lists active players who declared themselves free for the week.
	AvailablePlayers(ctx context.Context, weekID int, category models.Category) ([]models.PlayerID, error)
	// ByeCounts counts, per player, scheduled weeks they were available for but
	// not paired in. Players without byes are absent.
	ByeCounts(ctx context.Context, category models.Category) (map[models.PlayerID]int, error)
}

type postgresAvailabilityRepository struct {
	db *sql.DB
}

func NewPostgresAvailabilityRepository(db *sql.DB) AvailabilityRepository {
	return &postgresAvailabilityRepository{db: db}
}

func (r *postgresAvailabilityRepository) AvailablePlayers(ctx context.Context, weekID int, category models.Category) ([]models.PlayerID, error) {
	query := `
		SELECT a.player_id
		FROM availability a
		JOIN players p ON p.id = a.player_id
		WHERE a.week_id = $1
		  AND a.category = $2
		  AND a.available
		  AND p.active
		ORDER BY a.player_id ASC`

	rows, err := r.db.QueryContext(ctx, query, weekID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query availability for week %d: %w", weekID, err)
	}
	defer rows.Close()

	players := make([]models.PlayerID, 0)
	for rows.Next() {
		var id models.PlayerID
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("failed to scan availability row: %w", err)
		}
		players = append(players, id)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during availability rows iteration: %w", err)
	}
	return players, nil
}

func (r *postgresAvailabilityRepository) ByeCounts(ctx context.Context, category models.Category) (map[models.PlayerID]int, error) {
	// Only weeks that already have matches in the category are counted.
	query := `
		SELECT a.player_id, COUNT(*)
		FROM availability a
		WHERE a.category = $1
		  AND a.available
		  AND EXISTS (
			SELECT 1 FROM matches m
			WHERE m.week_id = a.week_id AND m.category = a.category)
		  AND NOT EXISTS (
			SELECT 1 FROM matches m
			WHERE m.week_id = a.week_id
			  AND m.category = a.category
			  AND (m.player1_id = a.player_id OR m.player2_id = a.player_id))
		GROUP BY a.player_id`

	rows, err := r.db.QueryContext(ctx, query, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query bye counts for category %s: %w", category, err)
	}
	defer rows.Close()

	counts := make(map[models.PlayerID]int)
	for rows.Next() {
		var (
			id    models.PlayerID
			count int
		)
		if err := rows.Scan(&id, &count); err != nil {
			return nil, fmt.Errorf("failed to scan bye count row: %w", err)
		}
		counts[id] = count
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during bye count rows iteration: %w", err)
	}
	return counts, nil
}
