package repository

import (
	"context"
	"fmt"

	"signalidea/pkg/metrics"
)

type signalRepository struct {
	db DB
}

func NewSignalRepository(db DB) SignalRepository {
	return &signalRepository{db: db}
}

// Add ставит сигнал; false - сигнал уже был
func (r *signalRepository) Add(ctx context.Context, userID, ideaID string) (bool, error) {
	query := `
		INSERT INTO signals (user_id, idea_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (user_id, idea_id) DO NOTHING
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "signals")
	result, err := r.db.Exec(ctx, query, userID, ideaID)
	timer.Done(err)
	if err != nil {
		return false, fmt.Errorf("failed to add signal: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *signalRepository) Remove(ctx context.Context, userID, ideaID string) (bool, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "signals")
	result, err := r.db.Exec(ctx, `DELETE FROM signals WHERE user_id = $1 AND idea_id = $2`, userID, ideaID)
	timer.Done(err)
	if err != nil {
		return false, fmt.Errorf("failed to remove signal: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *signalRepository) Exists(ctx context.Context, userID, ideaID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM signals WHERE user_id = $1 AND idea_id = $2)`,
		userID, ideaID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check signal: %w", err)
	}
	return exists, nil
}

func (r *signalRepository) CountForIdea(ctx context.Context, ideaID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM signals WHERE idea_id = $1`, ideaID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}
	return count, nil
}

// CountReceivedByUser - сколько сигналов собрали все идеи пользователя
func (r *signalRepository) CountReceivedByUser(ctx context.Context, userID string) (int, error) {
	query := `
		SELECT COUNT(*)
		FROM signals s
		JOIN ideas i ON i.id = s.idea_id
		WHERE i.user_id = $1
	`

	var count int
	if err := r.db.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count received signals: %w", err)
	}
	return count, nil
}
