package entity

import (
	"time"
)

// DomainEvent - событие social-service из Kafka топика signal_events
type DomainEvent struct {
	EventType string    `json:"event_type"`
	ActorID   string    `json:"actor_id"`
	SubjectID string    `json:"subject_id,omitempty"`
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

type NotificationType string

const (
	NotificationFollow     NotificationType = "follow"
	NotificationSignal     NotificationType = "signal"
	NotificationIdeaUpdate NotificationType = "idea_update"
	NotificationReview     NotificationType = "review"
	NotificationMessage    NotificationType = "message"
)

// Notification - строка таблицы notifications, которую читает social-service
type Notification struct {
	ID          string           `gorm:"type:uuid;primaryKey"`
	RecipientID string           `gorm:"type:uuid;not null"`
	ActorID     string           `gorm:"type:uuid;not null"`
	Type        NotificationType `gorm:"type:text;not null"`
	IdeaID      *string          `gorm:"type:uuid"`
	UpdateID    *string          `gorm:"type:uuid"`
	Read        bool             `gorm:"not null"`
	CreatedAt   time.Time        `gorm:"autoCreateTime"`
}

func (Notification) TableName() string {
	return "notifications"
}

type JobListingStatus string

const (
	JobListingOpen    JobListingStatus = "open"
	JobListingExpired JobListingStatus = "expired"
)

// JobListing - только поля, нужные для истечения срока вакансий
type JobListing struct {
	ID        string           `gorm:"type:uuid;primaryKey"`
	Status    JobListingStatus `gorm:"not null"`
	ExpiresAt time.Time        `gorm:"not null"`
	UpdatedAt time.Time
}

func (JobListing) TableName() string {
	return "job_listings"
}
