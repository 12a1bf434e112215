package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/FChavez82/highlander-tennis/models"
)

var ErrWeekNotFound = errors.New("week not found")

type WeekRepository interface {
	GetByID(ctx context.Context, id int) (*models.Week, error)
}

type postgresWeekRepository struct {
	db *sql.DB
}

func NewPostgresWeekRepository(db *sql.DB) WeekRepository {
	return &postgresWeekRepository{db: db}
}

func (r *postgresWeekRepository) GetByID(ctx context.Context, id int) (*models.Week, error) {
	query := `SELECT id, number, start_date FROM weeks WHERE id = $1`

	week := &models.Week{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(&week.ID, &week.Number, &week.StartDate)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWeekNotFound
		}
		return nil, fmt.Errorf("failed to scan week by id %d: %w", id, err)
	}
	return week, nil
}
