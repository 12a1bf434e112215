package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/FChavez82/highlander-tennis/models"
	"github.com/lib/pq"
)

var (
	ErrMatchNotFound           = errors.New("match not found")
	ErrMatchWeekInvalid        = errors.New("match week conflict or invalid")
	ErrMatchParticipantInvalid = errors.New("match participant conflict or invalid")
	ErrMatchConflict           = errors.New("matchup already scheduled for this week")
)

type MatchRepository interface {
	// ExistingMatchups returns the round-robin pairs of a category that were
	// played or scheduled and not cancelled.
	ExistingMatchups(ctx context.Context, category models.Category) (models.MatchupSet, error)
	GetMatch(ctx context.Context, id int) (*models.Match, error)
	ListByWeek(ctx context.Context, weekID int, category models.Category) ([]*models.Match, error)
	// CreateBatch stores all matches or none.
	CreateBatch(ctx context.Context, matches []*models.Match) error
	UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error
}

type postgresMatchRepository struct {
	db *sql.DB
}

func NewPostgresMatchRepository(db *sql.DB) MatchRepository {
	return &postgresMatchRepository{db: db}
}

func (r *postgresMatchRepository) ExistingMatchups(ctx context.Context, category models.Category) (models.MatchupSet, error) {
	query := `
		SELECT player1_id, player2_id
		FROM matches
		WHERE category = $1
		  AND phase = $2
		  AND status <> $3
		  AND player1_id IS NOT NULL
		  AND player2_id IS NOT NULL`

	rows, err := r.db.QueryContext(ctx, query, category, models.PhaseRoundRobin, models.MatchStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to query matchups for category %s: %w", category, err)
	}
	defer rows.Close()

	set := models.NewMatchupSet()
	for rows.Next() {
		var p1, p2 models.PlayerID
		if err := rows.Scan(&p1, &p2); err != nil {
			return nil, fmt.Errorf("failed to scan matchup row: %w", err)
		}
		set.Add(p1, p2)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during matchup rows iteration: %w", err)
	}
	return set, nil
}

func (r *postgresMatchRepository) GetMatch(ctx context.Context, id int) (*models.Match, error) {
	query := `
		SELECT id, week_id, category, phase, player1_id, player2_id, score, status, winner_id, created_at
		FROM matches
		WHERE id = $1`

	match, err := scanMatch(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to scan match by id %d: %w", id, err)
	}
	return match, nil
}

func (r *postgresMatchRepository) ListByWeek(ctx context.Context, weekID int, category models.Category) ([]*models.Match, error) {
	query := `
		SELECT id, week_id, category, phase, player1_id, player2_id, score, status, winner_id, created_at
		FROM matches
		WHERE week_id = $1 AND category = $2
		ORDER BY id ASC`

	rows, err := r.db.QueryContext(ctx, query, weekID, category)
	if err != nil {
		return nil, fmt.Errorf("failed to query matches for week %d: %w", weekID, err)
	}
	defer rows.Close()

	matches := make([]*models.Match, 0)
	for rows.Next() {
		match, scanErr := scanMatch(rows)
		if scanErr != nil {
			return nil, fmt.Errorf("failed to scan match row: %w", scanErr)
		}
		matches = append(matches, match)
	}

	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error during match rows iteration: %w", err)
	}
	return matches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanMatch(row rowScanner) (*models.Match, error) {
	var match models.Match
	err := row.Scan(
		&match.ID,
		&match.WeekID,
		&match.Category,
		&match.Phase,
		&match.Player1ID,
		&match.Player2ID,
		&match.Score,
		&match.Status,
		&match.WinnerID,
		&match.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &match, nil
}

func (r *postgresMatchRepository) CreateBatch(ctx context.Context, matches []*models.Match) (err error) {
	if len(matches) == 0 {
		return nil
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("CreateBatch failed to begin transaction: %w", err)
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		} else if err != nil {
			_ = tx.Rollback()
		} else {
			err = tx.Commit()
		}
	}()

	for _, match := range matches {
		if err = r.create(ctx, tx, match); err != nil {
			return err
		}
	}
	return nil
}

func (r *postgresMatchRepository) create(ctx context.Context, exec SQLExecutor, match *models.Match) error {
	query := `
		INSERT INTO matches
			(week_id, category, phase, player1_id, player2_id, score, status, winner_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at`

	err := exec.QueryRowContext(ctx, query,
		match.WeekID,
		match.Category,
		match.Phase,
		match.Player1ID,
		match.Player2ID,
		match.Score,
		match.Status,
		match.WinnerID,
	).Scan(&match.ID, &match.CreatedAt)

	return r.handleMatchError(err)
}

func (r *postgresMatchRepository) UpdateStatus(ctx context.Context, id int, status models.MatchStatus) error {
	query := `UPDATE matches SET status = $1, updated_at = $2 WHERE id = $3`
	result, err := r.db.ExecContext(ctx, query, status, time.Now(), id)
	if err != nil {
		return r.handleMatchError(err)
	}
	return checkAffectedRows(result, ErrMatchNotFound)
}

func (r *postgresMatchRepository) handleMatchError(err error) error {
	if err == nil {
		return nil
	}
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Constraint {
		case "matches_week_id_fkey":
			return ErrMatchWeekInvalid
		case "matches_player1_id_fkey", "matches_player2_id_fkey", "matches_distinct_players_check":
			return ErrMatchParticipantInvalid
		case "matches_week_pair_key":
			return ErrMatchConflict
		}
	}
	return err
}
