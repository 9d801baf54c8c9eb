package entity

import "time"

// ReviewCategory - категория отзыва, которую выбирает пользователь
type ReviewCategory string

const (
	CategoryWorkplace ReviewCategory = "workplace" // сотрудник оценивает работодателя
	CategoryEmployee  ReviewCategory = "employee"  // работодатель оценивает сотрудника
	CategoryService   ReviewCategory = "service"   // клиент оценивает сервис бизнеса
)

// ReviewType - тип ребра отзыва в хранилище
type ReviewType string

const (
	ReviewEmployeeToBusiness ReviewType = "employee_to_business"
	ReviewBusinessToEmployee ReviewType = "business_to_employee"
	ReviewCustomerToEmployee ReviewType = "customer_to_employee"
)

// Categories возвращает категории в порядке отображения
func Categories() []ReviewCategory {
	return []ReviewCategory{CategoryWorkplace, CategoryEmployee, CategoryService}
}

// Review - отзыв reviewer -> subject
type Review struct {
	ID         string     `json:"id"`
	ReviewerID string     `json:"reviewer_id"`
	SubjectID  string     `json:"subject_id"`
	ReviewType ReviewType `json:"review_type"`
	Rating     int        `json:"rating"`
	Body       string     `json:"body"`
	Role       *string    `json:"role,omitempty"`
	StartedOn  *time.Time `json:"started_on,omitempty"`
	EndedOn    *time.Time `json:"ended_on,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ReviewView - отзыв с именем автора
type ReviewView struct {
	Review
	ReviewerName     string  `json:"reviewer_name"`
	ReviewerPhotoURL *string `json:"reviewer_photo_url"`
}

// ReviewSummary - агрегат оценок по категории
type ReviewSummary struct {
	Category       ReviewCategory `json:"category"`
	ReviewType     ReviewType     `json:"review_type"`
	Count          int            `json:"count"`
	Average        float64        `json:"average"`
	AverageDisplay string         `json:"average_display"`
	Stars          int            `json:"stars"`
	Scale          int            `json:"scale"`
}

// EligibilityReason - почему отзыв запрещен
type EligibilityReason string

const (
	ReasonAuthRequired    EligibilityReason = "auth_required"
	ReasonUnknownCategory EligibilityReason = "unknown_category"
	ReasonReviewerType    EligibilityReason = "reviewer_account_type"
	ReasonSubjectType     EligibilityReason = "subject_account_type"
	ReasonReviewsDisabled EligibilityReason = "reviews_disabled"
	ReasonSelfReview      EligibilityReason = "self_review"
)

// Eligibility - результат проверки права оставить отзыв
type Eligibility struct {
	Allowed    bool              `json:"allowed"`
	Reason     EligibilityReason `json:"reason,omitempty"`
	Category   ReviewCategory    `json:"category"`
	ReviewType ReviewType        `json:"review_type,omitempty"`
	Scale      int               `json:"scale,omitempty"`
}
