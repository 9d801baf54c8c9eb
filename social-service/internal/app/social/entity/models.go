package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// AccountType - тип аккаунта профиля
type AccountType string

const (
	AccountTypePrivate  AccountType = "private"
	AccountTypeBusiness AccountType = "business"
)

func (t AccountType) Valid() bool {
	return t == AccountTypePrivate || t == AccountTypeBusiness
}

// User - учетная запись провайдера аутентификации
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	DisplayName  string    `json:"display_name"` // метаданные пользователя
	Language     *string   `json:"language,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Profile - публичный профиль, создается при первом входе
type Profile struct {
	ID          string      `json:"id"`
	DisplayName string      `json:"display_name"`
	PhotoURL    *string     `json:"photo_url"`
	Headline    string      `json:"headline"`
	AccountType AccountType `json:"account_type"`

	// Флаги видимости отзывов: nil означает "включено"
	ReviewsFromEmployeesEnabled *bool `json:"reviews_from_employees_enabled"`
	ReviewsFromEmployersEnabled *bool `json:"reviews_from_employers_enabled"`
	ReviewsFromCustomersEnabled *bool `json:"reviews_from_customers_enabled"`

	Language  *string   `json:"language,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// FlagEnabled реализует трехзначную политику флагов: не задан = включен
func FlagEnabled(flag *bool) bool {
	return flag == nil || *flag
}

// Session - текущая личность запроса
type Session struct {
	UserID      string      `json:"user_id"`
	Email       string      `json:"email,omitempty"`
	AccountType AccountType `json:"account_type"`
	DisplayName string      `json:"display_name"`
	Language    *string     `json:"language,omitempty"`
}

// Idea - корневой пост
type Idea struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	Title       string    `json:"title"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	VideoURL    *string   `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// IdeaUpdate - продолжение идеи, без заголовка
type IdeaUpdate struct {
	ID          string    `json:"id"`
	IdeaID      string    `json:"idea_id"`
	UserID      string    `json:"user_id"`
	Description string    `json:"description"`
	PhotoURL    *string   `json:"photo_url"`
	VideoURL    *string   `json:"video_url"`
	CreatedAt   time.Time `json:"created_at"`
}

// DiscoverUpdate - обновление для ленты вместе с заголовком родительской идеи
type DiscoverUpdate struct {
	IdeaUpdate
	IdeaTitle string `json:"idea_title"`
}

// Follow - направленное ребро follower -> following
type Follow struct {
	FollowerID  string    `json:"follower_id"`
	FollowingID string    `json:"following_id"`
	CreatedAt   time.Time `json:"created_at"`
}

type NotificationType string

const (
	NotificationFollow     NotificationType = "follow"
	NotificationSignal     NotificationType = "signal"
	NotificationIdeaUpdate NotificationType = "idea_update"
	NotificationReview     NotificationType = "review"
	NotificationMessage    NotificationType = "message"
)

// Notification - сырое событие для получателя
type Notification struct {
	ID          string           `json:"id"`
	RecipientID string           `json:"recipient_id"`
	ActorID     string           `json:"actor_id"`
	Type        NotificationType `json:"type"`
	IdeaID      *string          `json:"idea_id"`
	UpdateID    *string          `json:"update_id"`
	Read        bool             `json:"read"`
	CreatedAt   time.Time        `json:"created_at"`
}

// Message - личное сообщение, хранится в MongoDB
type Message struct {
	ID          primitive.ObjectID `json:"id" bson:"_id,omitempty"`
	SenderID    string             `json:"sender_id" bson:"sender_id"`
	RecipientID string             `json:"recipient_id" bson:"recipient_id"`
	Body        string             `json:"body" bson:"body"`
	Read        bool               `json:"read" bson:"read"`
	CreatedAt   time.Time          `json:"created_at" bson:"created_at"`
}

type EmploymentType string

const (
	EmploymentFullTime   EmploymentType = "full_time"
	EmploymentPartTime   EmploymentType = "part_time"
	EmploymentContract   EmploymentType = "contract"
	EmploymentInternship EmploymentType = "internship"
)

type JobListingStatus string

const (
	JobListingOpen    JobListingStatus = "open"
	JobListingClosed  JobListingStatus = "closed"
	JobListingExpired JobListingStatus = "expired"
)

// JobListing - вакансия бизнес-аккаунта (GORM модель)
type JobListing struct {
	ID             string           `json:"id" gorm:"type:uuid;primaryKey"`
	BusinessID     string           `json:"business_id" gorm:"type:uuid;not null;index"`
	Title          string           `json:"title" gorm:"not null"`
	Description    string           `json:"description" gorm:"not null"`
	Location       string           `json:"location"`
	EmploymentType EmploymentType   `json:"employment_type" gorm:"not null"`
	Status         JobListingStatus `json:"status" gorm:"not null;default:open"`
	ExpiresAt      time.Time        `json:"expires_at" gorm:"not null"`
	CreatedAt      time.Time        `json:"created_at"`
	UpdatedAt      time.Time        `json:"updated_at"`
}

func (JobListing) TableName() string {
	return "job_listings"
}

// DomainEvent - событие в Kafka, из которого воркер строит уведомления
type DomainEvent struct {
	EventType string    `json:"event_type"`
	ActorID   string    `json:"actor_id"`
	SubjectID string    `json:"subject_id,omitempty"` // адресат: на кого подписались, владелец идеи и т.д.
	IdeaID    string    `json:"idea_id,omitempty"`
	UpdateID  string    `json:"update_id,omitempty"`
	ReviewID  string    `json:"review_id,omitempty"`
	MessageID string    `json:"message_id,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

const (
	EventFollowCreated    = "FOLLOW_CREATED"
	EventSignalGiven      = "SIGNAL_GIVEN"
	EventIdeaUpdatePosted = "IDEA_UPDATE_POSTED"
	EventReviewCreated    = "REVIEW_CREATED"
	EventMessageSent      = "MESSAGE_SENT"
)
