package repository

import (
	"context"
	"fmt"

	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"

	"github.com/Masterminds/squirrel"
)

type reviewRepository struct {
	db DB
}

func NewReviewRepository(db DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create сохраняет отзыв. Нарушение уникальности (reviewer, subject, review_type)
// распознается по SQLSTATE и возвращается как ErrDuplicateReview.
func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (id, reviewer_id, subject_id, review_type, rating, body, role, started_on, ended_on, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "reviews")
	_, err := r.db.Exec(ctx, query,
		review.ID, review.ReviewerID, review.SubjectID, string(review.ReviewType), review.Rating,
		review.Body, review.Role, review.StartedOn, review.EndedOn, review.CreatedAt,
	)
	if err != nil && isUniqueViolation(err) {
		// дубликат - ожидаемый исход, а не сбой хранилища
		timer.Done(nil)
		return ErrDuplicateReview
	}
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create review: %w", err)
	}

	return nil
}

// ListBySubject - отзывы о субъекте одного типа, новые первыми
func (r *reviewRepository) ListBySubject(ctx context.Context, subjectID string, reviewType entity.ReviewType) ([]entity.Review, error) {
	query, args, err := psql.Select(
		"id", "reviewer_id", "subject_id", "review_type", "rating", "body", "role", "started_on", "ended_on", "created_at",
	).
		From("reviews").
		Where(squirrel.Eq{"subject_id": subjectID, "review_type": string(reviewType)}).
		OrderBy("created_at DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build reviews query: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "reviews")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]entity.Review, 0)
	for rows.Next() {
		var rv entity.Review
		if err := rows.Scan(
			&rv.ID, &rv.ReviewerID, &rv.SubjectID, &rv.ReviewType, &rv.Rating,
			&rv.Body, &rv.Role, &rv.StartedOn, &rv.EndedOn, &rv.CreatedAt,
		); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating reviews: %w", err)
	}

	return reviews, nil
}

func (r *reviewRepository) RatingsBySubject(ctx context.Context, subjectID string) (map[entity.ReviewType][]int, error) {
	rows, err := r.db.Query(ctx, `SELECT review_type, rating FROM reviews WHERE subject_id = $1`, subjectID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}
	defer rows.Close()

	ratings := make(map[entity.ReviewType][]int)
	for rows.Next() {
		var (
			reviewType string
			rating     int
		)
		if err := rows.Scan(&reviewType, &rating); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		t := entity.ReviewType(reviewType)
		ratings[t] = append(ratings[t], rating)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}
