package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/FChavez82/highlander-tennis/models"
)

type PlayerRepository interface {
	ListByCategory(ctx context.Context, category models.Category, activeOnly bool) ([]*models.Player, error)
}

type postgresPlayerRepository struct {
	db *sql.DB
}

func NewPostgresPlayerRepository(db *sql.DB) PlayerRepository {
	return &postgresPlayerRepository{db: db}
}

func (r *postgresPlayerRepository) ListByCategory(ctx context.Context, category models.Category, activeOnly bool) ([]*models.Player, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(`
		SELECT id, name, category, rating, active, created_at
		FROM players
		WHERE category = $1`)
	if activeOnly {
		queryBuilder.WriteString(" AND active")
	}
	queryBuilder.WriteString(" ORDER BY id ASC")

	rows, err := r.db.QueryContext(ctx, queryBuilder.String(), category)
	if err != nil {
		return nil, fmt.Errorf("failed to query players for category %s: %w", category, err)
	}
	defer rows.Close()

	players := make([]*models.Player, 0)
	for rows.Next() {
		var p models.Player
		if err := rows.Scan(&p.ID, &p.Name, &p.Category, &p.Rating, &p.Active, &p.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan player row: %w", err)
		}
		players = append(players, &p)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during player rows iteration: %w", err)
	}
	return players, nil
}
