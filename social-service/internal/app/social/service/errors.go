package service

import "errors"

var (
	ErrAuthRequired        = errors.New("authentication required")
	ErrInvalidCredentials  = errors.New("invalid email or password")
	ErrInvalidRefreshToken = errors.New("invalid or expired refresh token")
	ErrUserExists          = errors.New("user with this email already exists")
	ErrUserNotFound        = errors.New("user not found")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrIdeaNotFound        = errors.New("idea not found")
	ErrMessageNotFound     = errors.New("message not found")
	ErrListingNotFound     = errors.New("job listing not found")
	ErrForbidden           = errors.New("access forbidden")
	ErrValidation          = errors.New("validation error")
	ErrTokenExpired        = errors.New("token has expired")
	ErrInvalidToken        = errors.New("invalid token")
	ErrTokenBlacklisted    = errors.New("token is blacklisted")

	// Отзывы
	ErrNotEligible      = errors.New("review not permitted")
	ErrRatingOutOfRange = errors.New("rating is out of range for this category")
	ErrAlreadyReviewed  = errors.New("you have already reviewed this profile in this category")

	// Медиа
	ErrUnsupportedMedia = errors.New("unsupported media type")
	ErrFileTooLarge     = errors.New("file is too large")
	ErrStorage          = errors.New("object storage unavailable")

	// Запрос вытеснен более новым с тем же ключом
	ErrSuperseded = errors.New("request superseded by a newer one")
	ErrSignedOut  = errors.New("session signed out")
)
