package repository

import (
	"context"
	"fmt"

	"signalidea/social-service/internal/app/social/entity"
)

type userRepository struct {
	db DB
}

// NewUserRepository создает репозиторий учетных записей
func NewUserRepository(db DB) UserRepository {
	return &userRepository{db: db}
}

// Create создает пользователя; занятый email возвращает ErrUserExists
func (r *userRepository) Create(ctx context.Context, user *entity.User) error {
	query := `
		INSERT INTO users (id, email, password_hash, display_name, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.db.Exec(
		ctx, query,
		user.ID, user.Email, user.PasswordHash, user.DisplayName, user.Language, user.CreatedAt, user.UpdatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrUserExists
		}
		return fmt.Errorf("failed to create user: %w", err)
	}

	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*entity.User, error) {
	query := `SELECT id, email, password_hash, display_name, language, created_at, updated_at FROM users WHERE id = $1`
	return r.getOne(ctx, query, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*entity.User, error) {
	query := `SELECT id, email, password_hash, display_name, language, created_at, updated_at FROM users WHERE email = $1`
	return r.getOne(ctx, query, email)
}

func (r *userRepository) getOne(ctx context.Context, query string, arg any) (*entity.User, error) {
	var user entity.User
	err := r.db.QueryRow(ctx, query, arg).Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.Language,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		if isMissingRow(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return &user, nil
}

// UpdateMetadata обновляет метаданные пользователя (имя, язык)
func (r *userRepository) UpdateMetadata(ctx context.Context, id string, displayName string, language *string) error {
	query := `UPDATE users SET display_name = $1, language = $2, updated_at = NOW() WHERE id = $3`

	result, err := r.db.Exec(ctx, query, displayName, language, id)
	if err != nil {
		return fmt.Errorf("failed to update user metadata: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}
