package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/infrastructure"
	"signalidea/social-service/internal/app/social/repository"

	"github.com/google/uuid"
)

const (
	dateLayout               = "2006-01-02"
	defaultSubjectSearchSize = 20
	maxSubjectSearchSize     = 50
)

type ReviewService struct {
	reviewRepo  repository.ReviewRepository
	profileRepo repository.ProfileRepository
	publisher   infrastructure.MessagePublisher
}

func NewReviewService(
	reviewRepo repository.ReviewRepository,
	profileRepo repository.ProfileRepository,
	publisher infrastructure.MessagePublisher,
) *ReviewService {
	return &ReviewService{
		reviewRepo:  reviewRepo,
		profileRepo: profileRepo,
		publisher:   publisher,
	}
}

// Eligibility - может ли reviewer оставить отзыв subjectID в категории
func (s *ReviewService) Eligibility(ctx context.Context, reviewer *entity.Session, subjectID string, category entity.ReviewCategory) (*entity.Eligibility, error) {
	subject, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get subject profile: %w", err)
	}

	result := CheckEligibility(reviewer, subject, category)
	return &result, nil
}

// Submit проверяет права и оценку, затем сохраняет отзыв.
// Повторный отзыв той же тройки (reviewer, subject, type) - ErrAlreadyReviewed.
func (s *ReviewService) Submit(ctx context.Context, reviewer *entity.Session, req *entity.SubmitReviewRequest) (*entity.Review, error) {
	if reviewer == nil || reviewer.UserID == "" {
		return nil, ErrAuthRequired
	}

	category := entity.ReviewCategory(req.Category)

	body := strings.TrimSpace(req.Body)
	if body == "" {
		return nil, fmt.Errorf("%w: review text is required", ErrValidation)
	}

	if err := ValidateRating(category, req.Rating); err != nil {
		metrics.ReviewsSubmitted.WithLabelValues(req.Category, "rejected").Inc()
		return nil, err
	}

	startedOn, endedOn, err := parseReviewPeriod(req.StartedOn, req.EndedOn)
	if err != nil {
		return nil, err
	}

	eligibility, err := s.Eligibility(ctx, reviewer, req.SubjectID, category)
	if err != nil {
		return nil, err
	}
	if !eligibility.Allowed {
		metrics.ReviewsSubmitted.WithLabelValues(req.Category, "rejected").Inc()
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, eligibility.Reason)
	}

	review := &entity.Review{
		ID:         uuid.NewString(),
		ReviewerID: reviewer.UserID,
		SubjectID:  req.SubjectID,
		ReviewType: eligibility.ReviewType,
		Rating:     req.Rating,
		Body:       body,
		Role:       optionalStringPtr(req.Role),
		StartedOn:  startedOn,
		EndedOn:    endedOn,
		CreatedAt:  time.Now().UTC(),
	}

	if err := s.reviewRepo.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicateReview) {
			metrics.ReviewsSubmitted.WithLabelValues(req.Category, "duplicate").Inc()
			return nil, ErrAlreadyReviewed
		}
		return nil, fmt.Errorf("failed to create review: %w", err)
	}

	metrics.ReviewsSubmitted.WithLabelValues(req.Category, "created").Inc()
	logger.Ctx(ctx).Info().
		Str("review_id", review.ID).
		Str("reviewer_id", review.ReviewerID).
		Str("subject_id", review.SubjectID).
		Str("review_type", string(review.ReviewType)).
		Msg("Review created")

	publishEvent(ctx, s.publisher, entity.DomainEvent{
		EventType: entity.EventReviewCreated,
		ActorID:   review.ReviewerID,
		SubjectID: review.SubjectID,
		ReviewID:  review.ID,
	})

	return review, nil
}

func parseReviewPeriod(started, ended *string) (*time.Time, *time.Time, error) {
	startedOn, err := parseDate(started)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid start date", ErrValidation)
	}
	endedOn, err := parseDate(ended)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: invalid end date", ErrValidation)
	}
	if startedOn != nil && endedOn != nil && endedOn.Before(*startedOn) {
		return nil, nil, fmt.Errorf("%w: end date is before start date", ErrValidation)
	}
	return startedOn, endedOn, nil
}

func parseDate(value *string) (*time.Time, error) {
	if value == nil || strings.TrimSpace(*value) == "" {
		return nil, nil
	}
	t, err := time.Parse(dateLayout, strings.TrimSpace(*value))
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// ListForSubject - отзывы о субъекте в категории с именами авторов
func (s *ReviewService) ListForSubject(ctx context.Context, subjectID string, category entity.ReviewCategory) ([]entity.ReviewView, error) {
	rule, ok := ruleFor(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown review category %q", ErrValidation, category)
	}

	reviews, err := s.reviewRepo.ListBySubject(ctx, subjectID, rule.reviewType)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}

	reviewerIDs := make([]string, 0, len(reviews))
	seen := make(map[string]struct{}, len(reviews))
	for _, r := range reviews {
		if _, ok := seen[r.ReviewerID]; !ok {
			seen[r.ReviewerID] = struct{}{}
			reviewerIDs = append(reviewerIDs, r.ReviewerID)
		}
	}

	reviewers, err := s.profileRepo.GetByIDs(ctx, reviewerIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get reviewer profiles: %w", err)
	}

	views := make([]entity.ReviewView, 0, len(reviews))
	for _, r := range reviews {
		view := entity.ReviewView{Review: r, ReviewerName: placeholderName}
		if p, ok := reviewers[r.ReviewerID]; ok {
			view.ReviewerName = displayNameOr(p.DisplayName)
			view.ReviewerPhotoURL = p.PhotoURL
		}
		views = append(views, view)
	}

	return views, nil
}

// Summaries - агрегаты по категориям, в которых субъект принимает отзывы
func (s *ReviewService) Summaries(ctx context.Context, subject *entity.Profile) ([]entity.ReviewSummary, error) {
	categories := categoriesForSubject(subject)
	if len(categories) == 0 {
		return []entity.ReviewSummary{}, nil
	}

	ratings, err := s.reviewRepo.RatingsBySubject(ctx, subject.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to get ratings: %w", err)
	}

	summaries := make([]entity.ReviewSummary, 0, len(categories))
	for _, category := range categories {
		summaries = append(summaries, Summarize(category, ratings[reviewRules[category].reviewType]))
	}

	return summaries, nil
}

// SummariesFor загружает профиль и возвращает его агрегаты
func (s *ReviewService) SummariesFor(ctx context.Context, subjectID string) ([]entity.ReviewSummary, error) {
	subject, err := s.profileRepo.GetByID(ctx, subjectID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	return s.Summaries(ctx, subject)
}

// SearchSubjects ищет профили, которым reviewer может оставить отзыв в категории:
// нужный тип аккаунта, флаг не выключен, сам reviewer исключен
func (s *ReviewService) SearchSubjects(ctx context.Context, reviewer *entity.Session, category entity.ReviewCategory, query string, limit int) ([]entity.Profile, error) {
	if reviewer == nil || reviewer.UserID == "" {
		return nil, ErrAuthRequired
	}

	rule, ok := ruleFor(category)
	if !ok {
		return nil, fmt.Errorf("%w: unknown review category %q", ErrValidation, category)
	}
	if reviewer.AccountType != rule.reviewerType {
		return nil, fmt.Errorf("%w: %s", ErrNotEligible, entity.ReasonReviewerType)
	}

	if limit <= 0 {
		limit = defaultSubjectSearchSize
	}
	if limit > maxSubjectSearchSize {
		limit = maxSubjectSearchSize
	}

	profiles, err := s.profileRepo.Search(ctx, repository.ProfileFilter{
		Query:       query,
		AccountType: rule.subjectType,
		EnabledFlag: rule.flagColumn,
		ExcludeID:   reviewer.UserID,
		Limit:       uint64(limit),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to search subjects: %w", err)
	}

	return profiles, nil
}

func optionalStringPtr(value *string) *string {
	if value == nil {
		return nil
	}
	return optionalString(*value)
}
