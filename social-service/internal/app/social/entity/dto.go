package entity

import "time"

// --- Auth ---

type SignUpRequest struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
	DisplayName string `json:"display_name" validate:"omitempty,max=80"`
	AccountType string `json:"account_type" validate:"omitempty,oneof=private business"`
	Language    string `json:"language" validate:"omitempty,max=10"`
}

type SignInRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// UpdateUserRequest - метаданные пользователя; nil поля не меняются
type UpdateUserRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=80"`
	Language    *string `json:"language" validate:"omitempty,max=10"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int64  `json:"expires_in"`
}

type AuthResponse struct {
	TokenPair
	Session Session `json:"session"`
}

// --- Profiles ---

type UpdateProfileRequest struct {
	DisplayName *string `json:"display_name" validate:"omitempty,min=1,max=80"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	Headline    *string `json:"headline" validate:"omitempty,max=160"`
	AccountType *string `json:"account_type" validate:"omitempty,oneof=private business"`
	Language    *string `json:"language" validate:"omitempty,max=10"`
}

// ReviewSettingsRequest - флаги видимости отзывов; nil поле не трогаем
type ReviewSettingsRequest struct {
	EmployeesEnabled *bool `json:"reviews_from_employees_enabled"`
	EmployersEnabled *bool `json:"reviews_from_employers_enabled"`
	CustomersEnabled *bool `json:"reviews_from_customers_enabled"`
}

type ProfilePage struct {
	Profile         Profile         `json:"profile"`
	FollowerCount   int             `json:"follower_count"`
	FollowingCount  int             `json:"following_count"`
	IdeaCount       int             `json:"idea_count"`
	SignalsReceived int             `json:"signals_received"`
	IsFollowing     bool            `json:"is_following"`
	IsOwn           bool            `json:"is_own"`
	ReviewSummaries []ReviewSummary `json:"review_summaries"`
}

type FollowCounts struct {
	Followers int `json:"followers"`
	Following int `json:"following"`
}

// --- Ideas ---

type CreateIdeaRequest struct {
	Title       string  `json:"title" validate:"max=200"`
	Description string  `json:"description" validate:"required,max=5000"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
}

type PostUpdateRequest struct {
	Description string  `json:"description" validate:"required,max=5000"`
	PhotoURL    *string `json:"photo_url" validate:"omitempty,url"`
	VideoURL    *string `json:"video_url" validate:"omitempty,url"`
}

type IdeaDetails struct {
	Idea
	SignalCount int  `json:"signal_count"`
	Signalled   bool `json:"signalled"`
}

// --- Feed ---

type FeedItemKind string

const (
	FeedItemIdea   FeedItemKind = "idea"
	FeedItemUpdate FeedItemKind = "update"
)

type AuthorView struct {
	ID          string  `json:"id"`
	DisplayName string  `json:"display_name"`
	PhotoURL    *string `json:"photo_url"`
}

// FeedItem - элемент ленты discover: идея или обновление идеи
type FeedItem struct {
	Kind        FeedItemKind `json:"kind"`
	ID          string       `json:"id"`
	IdeaID      string       `json:"idea_id"`
	Title       string       `json:"title,omitempty"` // только у идей
	IdeaTitle   string       `json:"idea_title,omitempty"`
	Description string       `json:"description"`
	PhotoURL    *string      `json:"photo_url"`
	VideoURL    *string      `json:"video_url"`
	Author      AuthorView   `json:"author"`
	CreatedAt   time.Time    `json:"created_at"`
}

// FeedQuery - параметры страницы ленты
type FeedQuery struct {
	Limit  int
	Before *time.Time
}

type FeedResponse struct {
	Items []FeedItem `json:"items"`
	Total int        `json:"total"`
}

// --- Reviews ---

type SubmitReviewRequest struct {
	SubjectID string  `json:"subject_id" validate:"required,uuid"`
	Category  string  `json:"category" validate:"required,oneof=workplace employee service"`
	Rating    int     `json:"rating" validate:"required,min=1,max=10"`
	Body      string  `json:"body" validate:"required,max=4000"`
	Role      *string `json:"role" validate:"omitempty,max=120"`
	StartedOn *string `json:"started_on" validate:"omitempty,datetime=2006-01-02"`
	EndedOn   *string `json:"ended_on" validate:"omitempty,datetime=2006-01-02"`
}

type ReviewListResponse struct {
	Reviews []ReviewView `json:"reviews"`
	Total   int          `json:"total"`
}

// --- Notifications ---

// NotificationView - уведомление, готовое к показу
type NotificationView struct {
	ID            string           `json:"id"`
	Type          NotificationType `json:"type"`
	ActorID       string           `json:"actor_id"`
	ActorName     string           `json:"actor_name"`
	ActorPhotoURL *string          `json:"actor_photo_url"`
	IdeaID        *string          `json:"idea_id"`
	IdeaTitle     *string          `json:"idea_title"`
	Text          string           `json:"text"`
	Read          bool             `json:"read"` // состояние до пометки прочитанным
	CreatedAt     time.Time        `json:"created_at"`
}

type NotificationListResponse struct {
	Notifications []NotificationView `json:"notifications"`
	Total         int                `json:"total"`
}

// --- Messages ---

type SendMessageRequest struct {
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
	Body        string `json:"body" validate:"required,max=4000"`
}

// InboxEntry - последний диалог с собеседником
type InboxEntry struct {
	CounterpartID       string  `json:"counterpart_id"`
	CounterpartName     string  `json:"counterpart_name"`
	CounterpartPhotoURL *string `json:"counterpart_photo_url"`
	LastMessage         Message `json:"last_message"`
	UnreadCount         int     `json:"unread_count"`
}

// --- Jobs ---

type CreateJobListingRequest struct {
	Title          string     `json:"title" validate:"required,max=200"`
	Description    string     `json:"description" validate:"required,max=5000"`
	Location       string     `json:"location" validate:"omitempty,max=120"`
	EmploymentType string     `json:"employment_type" validate:"required,oneof=full_time part_time contract internship"`
	ExpiresAt      *time.Time `json:"expires_at"`
}

// --- Media ---

type MediaKind string

const (
	MediaAvatar MediaKind = "avatar"
	MediaIdea   MediaKind = "idea"
)

type UploadResult struct {
	URL  string    `json:"url"`
	Path string    `json:"path"`
	Kind MediaKind `json:"kind"`
}

// --- Common ---

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

type SuccessResponse struct {
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

type CountResponse struct {
	Count int `json:"count"`
}
