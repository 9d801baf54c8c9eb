package repository

import (
	"context"
	"errors"
	"time"

	"signalidea/social-service/internal/app/social/entity"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const serviceName = "social-service"

var (
	ErrNotFound        = errors.New("not found")
	ErrUserExists      = errors.New("user already exists")
	ErrDuplicateReview = errors.New("duplicate review")
	ErrRefreshNotFound = errors.New("refresh token not found")
)

// DB - общий интерфейс pgxpool.Pool и pgxmock для репозиториев на pgx
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// psql - билдер запросов с плейсхолдерами $N
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// isUniqueViolation проверяет SQLSTATE 23505
func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}

// isInvalidID - SQLSTATE 22P02: id не приводится к uuid, такой строки быть не может
func isInvalidID(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "22P02"
}

// isMissingRow - строки нет или id заведомо невалиден
func isMissingRow(err error) bool {
	return errors.Is(err, pgx.ErrNoRows) || isInvalidID(err)
}

type UserRepository interface {
	Create(ctx context.Context, user *entity.User) error
	GetByID(ctx context.Context, id string) (*entity.User, error)
	GetByEmail(ctx context.Context, email string) (*entity.User, error)
	UpdateMetadata(ctx context.Context, id string, displayName string, language *string) error
}

// ProfileFilter - условия поиска профилей
type ProfileFilter struct {
	Query       string             // подстрока имени, без учета регистра
	AccountType entity.AccountType // пусто - любой тип
	EnabledFlag string             // колонка флага отзывов, которая не должна быть FALSE
	ExcludeID   string
	Limit       uint64
}

type ProfileRepository interface {
	Create(ctx context.Context, profile *entity.Profile) error
	GetByID(ctx context.Context, id string) (*entity.Profile, error)
	GetByIDs(ctx context.Context, ids []string) (map[string]entity.Profile, error)
	Update(ctx context.Context, profile *entity.Profile) error
	UpdateReviewSettings(ctx context.Context, id string, settings entity.ReviewSettingsRequest) (*entity.Profile, error)
	Search(ctx context.Context, filter ProfileFilter) ([]entity.Profile, error)
}

type IdeaRepository interface {
	Create(ctx context.Context, idea *entity.Idea) error
	GetByID(ctx context.Context, id string) (*entity.Idea, error)
	ListByUser(ctx context.Context, userID string) ([]entity.Idea, error)
	CountByUser(ctx context.Context, userID string) (int, error)
	// ListDiscover - идеи авторов, которые не являются зрителем и на которых он не подписан
	ListDiscover(ctx context.Context, viewerID string, before *time.Time, limit int) ([]entity.Idea, error)
	GetTitles(ctx context.Context, ids []string) (map[string]string, error)

	CreateUpdate(ctx context.Context, update *entity.IdeaUpdate) error
	ListUpdates(ctx context.Context, ideaID string) ([]entity.IdeaUpdate, error)
	// ListDiscoverUpdates - обновления идей, прошедших тот же anti-join, что и ListDiscover
	ListDiscoverUpdates(ctx context.Context, viewerID string, before *time.Time, limit int) ([]entity.DiscoverUpdate, error)
	// ResolveUpdateParents возвращает update_id -> idea_id
	ResolveUpdateParents(ctx context.Context, updateIDs []string) (map[string]string, error)
}

type SignalRepository interface {
	Add(ctx context.Context, userID, ideaID string) (bool, error)
	Remove(ctx context.Context, userID, ideaID string) (bool, error)
	Exists(ctx context.Context, userID, ideaID string) (bool, error)
	CountForIdea(ctx context.Context, ideaID string) (int, error)
	CountReceivedByUser(ctx context.Context, userID string) (int, error)
}

type FollowRepository interface {
	Create(ctx context.Context, followerID, followingID string) (bool, error)
	Delete(ctx context.Context, followerID, followingID string) (bool, error)
	Exists(ctx context.Context, followerID, followingID string) (bool, error)
	ListFollowees(ctx context.Context, userID string) ([]string, error)
	ListFollowers(ctx context.Context, userID string) ([]string, error)
	CountFollowers(ctx context.Context, userID string) (int, error)
	CountFollowees(ctx context.Context, userID string) (int, error)
}

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	ListBySubject(ctx context.Context, subjectID string, reviewType entity.ReviewType) ([]entity.Review, error)
	// RatingsBySubject возвращает оценки субъекта, сгруппированные по типу отзыва
	RatingsBySubject(ctx context.Context, subjectID string) (map[entity.ReviewType][]int, error)
}

type NotificationRepository interface {
	ListByRecipient(ctx context.Context, recipientID string, limit int) ([]entity.Notification, error)
	// MarkReadUpTo помечает прочитанными непрочитанные уведомления, созданные не позже cutoff
	MarkReadUpTo(ctx context.Context, recipientID string, cutoff time.Time) (int64, error)
	CountUnread(ctx context.Context, recipientID string) (int, error)
}

type TokenRepository interface {
	SaveRefreshToken(ctx context.Context, userID string, token string, expiresAt time.Time) error
	GetRefreshToken(ctx context.Context, token string) (string, error)
	DeleteRefreshToken(ctx context.Context, token string) error
	DeleteUserRefreshTokens(ctx context.Context, userID string) error

	AddToBlacklist(ctx context.Context, token string, expiresAt time.Time) error
	IsBlacklisted(ctx context.Context, token string) (bool, error)
}

type MessageRepository interface {
	Create(ctx context.Context, message *entity.Message) error
	GetByID(ctx context.Context, id string) (*entity.Message, error)
	ListConversation(ctx context.Context, userID, otherID string, limit int64) ([]entity.Message, error)
	ListInbox(ctx context.Context, userID string) ([]InboxRow, error)
	MarkRead(ctx context.Context, id string) error
	CountUnread(ctx context.Context, recipientID string) (int64, error)
}

// InboxRow - результат агрегации диалогов пользователя
type InboxRow struct {
	CounterpartID string         `bson:"_id"`
	LastMessage   entity.Message `bson:"last_message"`
	UnreadCount   int            `bson:"unread_count"`
}

type JobListingRepository interface {
	Create(ctx context.Context, listing *entity.JobListing) error
	GetByID(ctx context.Context, id string) (*entity.JobListing, error)
	ListOpen(ctx context.Context, query string, limit int) ([]entity.JobListing, error)
	ListByBusiness(ctx context.Context, businessID string) ([]entity.JobListing, error)
	UpdateStatus(ctx context.Context, id string, status entity.JobListingStatus) error
}
