package repository

import (
	"context"
	"fmt"

	"signalidea/pkg/metrics"
)

type followRepository struct {
	db DB
}

func NewFollowRepository(db DB) FollowRepository {
	return &followRepository{db: db}
}

// Create добавляет ребро follower -> following; false - ребро уже существовало
func (r *followRepository) Create(ctx context.Context, followerID, followingID string) (bool, error) {
	query := `
		INSERT INTO follows (follower_id, following_id, created_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (follower_id, following_id) DO NOTHING
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "follows")
	result, err := r.db.Exec(ctx, query, followerID, followingID)
	timer.Done(err)
	if err != nil {
		return false, fmt.Errorf("failed to create follow: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *followRepository) Delete(ctx context.Context, followerID, followingID string) (bool, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpDelete, "follows")
	result, err := r.db.Exec(ctx,
		`DELETE FROM follows WHERE follower_id = $1 AND following_id = $2`,
		followerID, followingID,
	)
	timer.Done(err)
	if err != nil {
		return false, fmt.Errorf("failed to delete follow: %w", err)
	}

	return result.RowsAffected() > 0, nil
}

func (r *followRepository) Exists(ctx context.Context, followerID, followingID string) (bool, error) {
	var exists bool
	err := r.db.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM follows WHERE follower_id = $1 AND following_id = $2)`,
		followerID, followingID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check follow: %w", err)
	}
	return exists, nil
}

// ListFollowees - на кого подписан пользователь
func (r *followRepository) ListFollowees(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx,
		`SELECT following_id FROM follows WHERE follower_id = $1 ORDER BY created_at DESC`, userID)
}

// ListFollowers - кто подписан на пользователя
func (r *followRepository) ListFollowers(ctx context.Context, userID string) ([]string, error) {
	return r.listIDs(ctx,
		`SELECT follower_id FROM follows WHERE following_id = $1 ORDER BY created_at DESC`, userID)
}

func (r *followRepository) listIDs(ctx context.Context, query string, userID string) ([]string, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "follows")
	rows, err := r.db.Query(ctx, query, userID)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list follows: %w", err)
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan follow: %w", err)
		}
		ids = append(ids, id)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating follows: %w", err)
	}

	return ids, nil
}

func (r *followRepository) CountFollowers(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE following_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count followers: %w", err)
	}
	return count, nil
}

func (r *followRepository) CountFollowees(ctx context.Context, userID string) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM follows WHERE follower_id = $1`, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count followees: %w", err)
	}
	return count, nil
}
