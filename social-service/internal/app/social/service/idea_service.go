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

// DefaultIdeaTitle - заголовок идеи, опубликованной без заголовка
const DefaultIdeaTitle = "Untitled idea"

type IdeaService struct {
	ideaRepo   repository.IdeaRepository
	signalRepo repository.SignalRepository
	publisher  infrastructure.MessagePublisher
}

func NewIdeaService(
	ideaRepo repository.IdeaRepository,
	signalRepo repository.SignalRepository,
	publisher infrastructure.MessagePublisher,
) *IdeaService {
	return &IdeaService{
		ideaRepo:   ideaRepo,
		signalRepo: signalRepo,
		publisher:  publisher,
	}
}

func (s *IdeaService) CreateIdea(ctx context.Context, ownerID string, req *entity.CreateIdeaRequest) (*entity.Idea, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = DefaultIdeaTitle
	}

	idea := &entity.Idea{
		ID:          uuid.NewString(),
		UserID:      ownerID,
		Title:       title,
		Description: description,
		PhotoURL:    optionalStringPtr(req.PhotoURL),
		VideoURL:    optionalStringPtr(req.VideoURL),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.ideaRepo.Create(ctx, idea); err != nil {
		return nil, fmt.Errorf("failed to create idea: %w", err)
	}

	metrics.IdeasPosted.WithLabelValues("idea").Inc()
	logger.Ctx(ctx).Info().Str("idea_id", idea.ID).Str("user_id", ownerID).Msg("Idea created")

	return idea, nil
}

// GetIdea возвращает идею со счетчиком сигналов; Signalled - дал ли сигнал зритель
func (s *IdeaService) GetIdea(ctx context.Context, viewerID, ideaID string) (*entity.IdeaDetails, error) {
	idea, err := s.getIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}

	count, err := s.signalRepo.CountForIdea(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to count signals: %w", err)
	}

	details := &entity.IdeaDetails{Idea: *idea, SignalCount: count}

	if viewerID != "" {
		signalled, err := s.signalRepo.Exists(ctx, viewerID, ideaID)
		if err != nil {
			return nil, fmt.Errorf("failed to check signal: %w", err)
		}
		details.Signalled = signalled
	}

	return details, nil
}

func (s *IdeaService) getIdea(ctx context.Context, ideaID string) (*entity.Idea, error) {
	idea, err := s.ideaRepo.GetByID(ctx, ideaID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrIdeaNotFound
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}
	return idea, nil
}

// ListIdeasByUser - идеи автора, новые первыми
func (s *IdeaService) ListIdeasByUser(ctx context.Context, userID string) ([]entity.Idea, error) {
	ideas, err := s.ideaRepo.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	return ideas, nil
}

// PostUpdate добавляет обновление к идее; писать может только автор идеи
func (s *IdeaService) PostUpdate(ctx context.Context, ownerID, ideaID string, req *entity.PostUpdateRequest) (*entity.IdeaUpdate, error) {
	if ownerID == "" {
		return nil, ErrAuthRequired
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fmt.Errorf("%w: description is required", ErrValidation)
	}

	idea, err := s.getIdea(ctx, ideaID)
	if err != nil {
		return nil, err
	}
	if idea.UserID != ownerID {
		return nil, ErrForbidden
	}

	update := &entity.IdeaUpdate{
		ID:          uuid.NewString(),
		IdeaID:      idea.ID,
		UserID:      ownerID,
		Description: description,
		PhotoURL:    optionalStringPtr(req.PhotoURL),
		VideoURL:    optionalStringPtr(req.VideoURL),
		CreatedAt:   time.Now().UTC(),
	}

	if err := s.ideaRepo.CreateUpdate(ctx, update); err != nil {
		return nil, fmt.Errorf("failed to create idea update: %w", err)
	}

	metrics.IdeasPosted.WithLabelValues("update").Inc()
	logger.Ctx(ctx).Info().Str("update_id", update.ID).Str("idea_id", idea.ID).Msg("Idea update posted")

	publishEvent(ctx, s.publisher, entity.DomainEvent{
		EventType: entity.EventIdeaUpdatePosted,
		ActorID:   ownerID,
		IdeaID:    idea.ID,
		UpdateID:  update.ID,
	})

	return update, nil
}

// ListUpdates - обновления идеи, старые первыми
func (s *IdeaService) ListUpdates(ctx context.Context, ideaID string) ([]entity.IdeaUpdate, error) {
	if _, err := s.getIdea(ctx, ideaID); err != nil {
		return nil, err
	}

	updates, err := s.ideaRepo.ListUpdates(ctx, ideaID)
	if err != nil {
		return nil, fmt.Errorf("failed to list idea updates: %w", err)
	}
	return updates, nil
}

// GiveSignal ставит сигнал идее и возвращает новое число сигналов.
// Свою идею поддержать нельзя, повторный сигнал ничего не меняет.
func (s *IdeaService) GiveSignal(ctx context.Context, userID, ideaID string) (int, error) {
	if userID == "" {
		return 0, ErrAuthRequired
	}

	idea, err := s.getIdea(ctx, ideaID)
	if err != nil {
		return 0, err
	}
	if idea.UserID == userID {
		return 0, fmt.Errorf("%w: cannot signal your own idea", ErrValidation)
	}

	added, err := s.signalRepo.Add(ctx, userID, ideaID)
	if err != nil {
		return 0, fmt.Errorf("failed to add signal: %w", err)
	}

	if added {
		metrics.SignalsGiven.Inc()
		publishEvent(ctx, s.publisher, entity.DomainEvent{
			EventType: entity.EventSignalGiven,
			ActorID:   userID,
			SubjectID: idea.UserID,
			IdeaID:    idea.ID,
		})
	}

	return s.countSignals(ctx, ideaID)
}

func (s *IdeaService) WithdrawSignal(ctx context.Context, userID, ideaID string) (int, error) {
	if userID == "" {
		return 0, ErrAuthRequired
	}

	if _, err := s.signalRepo.Remove(ctx, userID, ideaID); err != nil {
		return 0, fmt.Errorf("failed to remove signal: %w", err)
	}

	return s.countSignals(ctx, ideaID)
}

func (s *IdeaService) countSignals(ctx context.Context, ideaID string) (int, error) {
	count, err := s.signalRepo.CountForIdea(ctx, ideaID)
	if err != nil {
		return 0, fmt.Errorf("failed to count signals: %w", err)
	}
	return count, nil
}
