package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"signalidea/pkg/logger"
	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"
	"signalidea/social-service/internal/app/social/repository"
	"signalidea/social-service/internal/app/social/util"

	"github.com/google/uuid"
)

type AuthEventType string

const (
	AuthSignedIn       AuthEventType = "SIGNED_IN"
	AuthSignedOut      AuthEventType = "SIGNED_OUT"
	AuthUserUpdated    AuthEventType = "USER_UPDATED"
	AuthTokenRefreshed AuthEventType = "TOKEN_REFRESHED"
)

// AuthEvent - изменение состояния аутентификации пользователя
type AuthEvent struct {
	Type   AuthEventType
	UserID string
	At     time.Time
}

type AuthListener func(AuthEvent)

// SessionService - адаптер провайдера аутентификации и резолвер сессии.
// Единственная точка, откуда остальной код получает текущую личность.
type SessionService struct {
	userRepo    repository.UserRepository
	profileRepo repository.ProfileRepository
	tokenRepo   repository.TokenRepository
	jwtManager  *util.JWTManager

	mu        sync.RWMutex
	listeners map[uint64]AuthListener
	nextID    uint64
}

func NewSessionService(
	userRepo repository.UserRepository,
	profileRepo repository.ProfileRepository,
	tokenRepo repository.TokenRepository,
	jwtManager *util.JWTManager,
) *SessionService {
	return &SessionService{
		userRepo:    userRepo,
		profileRepo: profileRepo,
		tokenRepo:   tokenRepo,
		jwtManager:  jwtManager,
		listeners:   make(map[uint64]AuthListener),
	}
}

// Subscribe регистрирует слушателя событий аутентификации.
// Возвращаемая функция отписывает его; повторный вызов ничего не делает.
func (s *SessionService) Subscribe(listener AuthListener) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners[id] = listener
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.listeners, id)
			s.mu.Unlock()
		})
	}
}

// emit вызывает слушателей синхронно, вне блокировки
func (s *SessionService) emit(eventType AuthEventType, userID string) {
	s.mu.RLock()
	listeners := make([]AuthListener, 0, len(s.listeners))
	for _, l := range s.listeners {
		listeners = append(listeners, l)
	}
	s.mu.RUnlock()

	event := AuthEvent{Type: eventType, UserID: userID, At: time.Now()}
	for _, l := range listeners {
		l(event)
	}
}

// SignUp регистрирует пользователя, создает профиль и сразу открывает сессию
func (s *SessionService) SignUp(ctx context.Context, req *entity.SignUpRequest) (*entity.AuthResponse, error) {
	if err := util.ValidatePasswordPolicy(req.Password); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrValidation, err)
	}

	accountType := entity.AccountTypePrivate
	if req.AccountType != "" {
		accountType = entity.AccountType(req.AccountType)
		if !accountType.Valid() {
			return nil, fmt.Errorf("%w: unknown account type %q", ErrValidation, req.AccountType)
		}
	}

	email := normalizeEmail(req.Email)

	// 1. Email должен быть свободен
	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check existing user: %w", err)
	}
	if existing != nil {
		return nil, ErrUserExists
	}

	// 2. Учетная запись с метаданными
	passwordHash, err := util.HashPassword(req.Password)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	now := time.Now().UTC()
	user := &entity.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		DisplayName:  strings.TrimSpace(req.DisplayName),
		Language:     optionalString(req.Language),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrUserExists) {
			return nil, ErrUserExists
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	// 3. Профиль с выбранным типом аккаунта
	profile := newProfileFor(user, accountType)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	metrics.AuthSignUps.Inc()
	logger.Ctx(ctx).Info().Str("user_id", user.ID).Str("account_type", string(accountType)).Msg("User signed up")

	return s.openSession(ctx, user, sessionFrom(user, profile), AuthSignedIn)
}

// SignInWithPassword проверяет пароль и открывает сессию; профиль создается при первом входе
func (s *SessionService) SignInWithPassword(ctx context.Context, req *entity.SignInRequest) (*entity.AuthResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			metrics.AuthSignIns.WithLabelValues("failed").Inc()
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !util.CheckPassword(req.Password, user.PasswordHash) {
		metrics.AuthSignIns.WithLabelValues("failed").Inc()
		return nil, ErrInvalidCredentials
	}

	session, err := s.resolveForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	metrics.AuthSignIns.WithLabelValues("success").Inc()
	return s.openSession(ctx, user, session, AuthSignedIn)
}

// RefreshSession меняет refresh токен на новую пару (ротация)
func (s *SessionService) RefreshSession(ctx context.Context, refreshToken string) (*entity.AuthResponse, error) {
	userID, err := s.tokenRepo.GetRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, repository.ErrRefreshNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get refresh token: %w", err)
	}

	if err := s.tokenRepo.DeleteRefreshToken(ctx, refreshToken); err != nil {
		return nil, fmt.Errorf("failed to delete refresh token: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrInvalidRefreshToken
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	session, err := s.resolveForUser(ctx, user)
	if err != nil {
		return nil, err
	}

	return s.openSession(ctx, user, session, AuthTokenRefreshed)
}

// ValidateToken проверяет access токен: подпись, срок и blacklist
func (s *SessionService) ValidateToken(ctx context.Context, accessToken string) (*util.SessionClaims, error) {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		if errors.Is(err, util.ErrExpiredToken) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	blacklisted, err := s.tokenRepo.IsBlacklisted(ctx, accessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to check token blacklist: %w", err)
	}
	if blacklisted {
		return nil, ErrTokenBlacklisted
	}

	return claims, nil
}

// GetSession возвращает текущую сессию пользователя
func (s *SessionService) GetSession(ctx context.Context, userID string) (*entity.Session, error) {
	return s.Resolve(ctx, userID)
}

// Resolve - резолвер сессии: идентичность плюс тип аккаунта из профиля.
// Отсутствующий профиль создается (первый вход).
func (s *SessionService) Resolve(ctx context.Context, userID string) (*entity.Session, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	profile, err := s.profileRepo.GetByID(ctx, userID)
	if err == nil {
		return &entity.Session{
			UserID:      profile.ID,
			AccountType: profile.AccountType,
			DisplayName: profile.DisplayName,
			Language:    profile.Language,
		}, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAuthRequired
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return s.resolveForUser(ctx, user)
}

func (s *SessionService) resolveForUser(ctx context.Context, user *entity.User) (*entity.Session, error) {
	profile, err := s.profileRepo.GetByID(ctx, user.ID)
	if err == nil {
		return sessionFrom(user, profile), nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	profile = newProfileFor(user, entity.AccountTypePrivate)
	if err := s.profileRepo.Create(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to create profile: %w", err)
	}

	logger.Ctx(ctx).Info().Str("user_id", user.ID).Msg("Profile created on first login")
	return sessionFrom(user, profile), nil
}

func (s *SessionService) GetUser(ctx context.Context, userID string) (*entity.User, error) {
	if userID == "" {
		return nil, ErrAuthRequired
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// UpdateUser пишет метаданные учетной записи, затем профиль.
// Транзакции между таблицами нет: сбой второго шага только логируется.
func (s *SessionService) UpdateUser(ctx context.Context, userID string, req *entity.UpdateUserRequest) (*entity.User, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	if req.DisplayName != nil {
		name := strings.TrimSpace(*req.DisplayName)
		if name == "" {
			return nil, fmt.Errorf("%w: display name cannot be empty", ErrValidation)
		}
		user.DisplayName = name
	}
	if req.Language != nil {
		user.Language = optionalString(*req.Language)
	}

	if err := s.userRepo.UpdateMetadata(ctx, user.ID, user.DisplayName, user.Language); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to update user: %w", err)
	}

	s.syncProfile(ctx, user)
	s.emit(AuthUserUpdated, user.ID)

	return user, nil
}

func (s *SessionService) syncProfile(ctx context.Context, user *entity.User) {
	profile, err := s.profileRepo.GetByID(ctx, user.ID)
	if err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("Profile sync skipped: profile lookup failed")
		return
	}

	if user.DisplayName != "" {
		profile.DisplayName = user.DisplayName
	}
	profile.Language = user.Language

	if err := s.profileRepo.Update(ctx, profile); err != nil {
		logger.Ctx(ctx).Warn().Err(err).Str("user_id", user.ID).Msg("Profile sync failed after user update")
	}
}

// SignOut отзывает access токен до конца его срока и все refresh токены пользователя
func (s *SessionService) SignOut(ctx context.Context, accessToken string) error {
	claims, err := s.jwtManager.ValidateToken(accessToken)
	if err != nil {
		// просроченный или битый токен и так не пропустят
		return nil
	}

	if err := s.tokenRepo.AddToBlacklist(ctx, accessToken, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("failed to blacklist token: %w", err)
	}

	if err := s.tokenRepo.DeleteUserRefreshTokens(ctx, claims.UserID); err != nil {
		return fmt.Errorf("failed to revoke refresh tokens: %w", err)
	}

	logger.Ctx(ctx).Info().Str("user_id", claims.UserID).Msg("User signed out")
	s.emit(AuthSignedOut, claims.UserID)

	return nil
}

func (s *SessionService) openSession(ctx context.Context, user *entity.User, session *entity.Session, eventType AuthEventType) (*entity.AuthResponse, error) {
	accessToken, err := s.jwtManager.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to generate access token: %w", err)
	}

	refreshToken, err := s.jwtManager.GenerateRefreshToken()
	if err != nil {
		return nil, err
	}

	expiresAt := s.jwtManager.RefreshExpiry(time.Now())
	if err := s.tokenRepo.SaveRefreshToken(ctx, user.ID, refreshToken, expiresAt); err != nil {
		return nil, fmt.Errorf("failed to save refresh token: %w", err)
	}

	s.emit(eventType, user.ID)

	return &entity.AuthResponse{
		TokenPair: entity.TokenPair{
			AccessToken:  accessToken,
			RefreshToken: refreshToken,
			ExpiresIn:    int64(s.jwtManager.AccessTTL().Seconds()),
		},
		Session: *session,
	}, nil
}

func newProfileFor(user *entity.User, accountType entity.AccountType) *entity.Profile {
	now := time.Now().UTC()
	return &entity.Profile{
		ID:          user.ID,
		DisplayName: user.DisplayName,
		AccountType: accountType,
		Language:    user.Language,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

func sessionFrom(user *entity.User, profile *entity.Profile) *entity.Session {
	return &entity.Session{
		UserID:      user.ID,
		Email:       user.Email,
		AccountType: profile.AccountType,
		DisplayName: profile.DisplayName,
		Language:    profile.Language,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func optionalString(value string) *string {
	value = strings.TrimSpace(value)
	if value == "" {
		return nil
	}
	return &value
}
