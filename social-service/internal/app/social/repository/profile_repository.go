package repository

import (
	"context"
	"fmt"
	"strings"

	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

// Колонки флагов отзывов; имя колонки подставляется в SQL только из этого списка
const (
	FlagEmployeesEnabled = "reviews_from_employees_enabled"
	FlagEmployersEnabled = "reviews_from_employers_enabled"
	FlagCustomersEnabled = "reviews_from_customers_enabled"
)

var reviewFlagColumns = map[string]bool{
	FlagEmployeesEnabled: true,
	FlagEmployersEnabled: true,
	FlagCustomersEnabled: true,
}

var profileColumns = []string{
	"id",
	"display_name",
	"photo_url",
	"headline",
	"account_type",
	"reviews_from_employees_enabled",
	"reviews_from_employers_enabled",
	"reviews_from_customers_enabled",
	"language",
	"created_at",
	"updated_at",
}

const defaultSearchLimit = 20

type profileRepository struct {
	db DB
}

func NewProfileRepository(db DB) ProfileRepository {
	return &profileRepository{db: db}
}

func scanProfile(row pgx.Row, p *entity.Profile) error {
	return row.Scan(
		&p.ID,
		&p.DisplayName,
		&p.PhotoURL,
		&p.Headline,
		&p.AccountType,
		&p.ReviewsFromEmployeesEnabled,
		&p.ReviewsFromEmployersEnabled,
		&p.ReviewsFromCustomersEnabled,
		&p.Language,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
}

// Create создает профиль; повторное создание при гонке первого входа игнорируется
func (r *profileRepository) Create(ctx context.Context, profile *entity.Profile) error {
	query := `
		INSERT INTO profiles (id, display_name, photo_url, headline, account_type, language, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (id) DO NOTHING
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "profiles")
	_, err := r.db.Exec(
		ctx, query,
		profile.ID, profile.DisplayName, profile.PhotoURL, profile.Headline,
		profile.AccountType, profile.Language, profile.CreatedAt, profile.UpdatedAt,
	)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create profile: %w", err)
	}

	return nil
}

func (r *profileRepository) GetByID(ctx context.Context, id string) (*entity.Profile, error) {
	query, args, err := psql.Select(profileColumns...).From("profiles").Where(squirrel.Eq{"id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile query: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "profiles")
	var profile entity.Profile
	err = scanProfile(r.db.QueryRow(ctx, query, args...), &profile)
	timer.Done(err)
	if err != nil {
		if isMissingRow(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	return &profile, nil
}

// GetByIDs - пакетная загрузка профилей одним запросом; отсутствующие id просто не попадают в map
func (r *profileRepository) GetByIDs(ctx context.Context, ids []string) (map[string]entity.Profile, error) {
	result := make(map[string]entity.Profile, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE id = ANY($1)`, strings.Join(profileColumns, ", "))

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "profiles")
	rows, err := r.db.Query(ctx, query, ids)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to get profiles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var p entity.Profile
		if err := scanProfile(rows, &p); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		result[p.ID] = p
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return result, nil
}

// Update сохраняет редактируемые поля профиля
func (r *profileRepository) Update(ctx context.Context, profile *entity.Profile) error {
	query := `
		UPDATE profiles
		SET display_name = $1, photo_url = $2, headline = $3, account_type = $4, language = $5, updated_at = NOW()
		WHERE id = $6
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "profiles")
	result, err := r.db.Exec(
		ctx, query,
		profile.DisplayName, profile.PhotoURL, profile.Headline, profile.AccountType, profile.Language, profile.ID,
	)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to update profile: %w", err)
	}

	if result.RowsAffected() == 0 {
		return ErrNotFound
	}

	return nil
}

// UpdateReviewSettings меняет только переданные флаги и возвращает профиль после изменения
func (r *profileRepository) UpdateReviewSettings(ctx context.Context, id string, settings entity.ReviewSettingsRequest) (*entity.Profile, error) {
	builder := psql.Update("profiles").Set("updated_at", squirrel.Expr("NOW()"))
	if settings.EmployeesEnabled != nil {
		builder = builder.Set(FlagEmployeesEnabled, *settings.EmployeesEnabled)
	}
	if settings.EmployersEnabled != nil {
		builder = builder.Set(FlagEmployersEnabled, *settings.EmployersEnabled)
	}
	if settings.CustomersEnabled != nil {
		builder = builder.Set(FlagCustomersEnabled, *settings.CustomersEnabled)
	}

	query, args, err := builder.
		Where(squirrel.Eq{"id": id}).
		Suffix("RETURNING " + strings.Join(profileColumns, ", ")).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build review settings update: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpUpdate, "profiles")
	var profile entity.Profile
	err = scanProfile(r.db.QueryRow(ctx, query, args...), &profile)
	timer.Done(err)
	if err != nil {
		if isMissingRow(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to update review settings: %w", err)
	}

	return &profile, nil
}

// Search ищет профили по подстроке имени (ILIKE) с учетом типа аккаунта и флага отзывов.
// Флаг NULL трактуется как включенный.
func (r *profileRepository) Search(ctx context.Context, filter ProfileFilter) ([]entity.Profile, error) {
	builder := psql.Select(profileColumns...).From("profiles")

	if q := strings.TrimSpace(filter.Query); q != "" {
		builder = builder.Where(squirrel.ILike{"display_name": "%" + escapeLike(q) + "%"})
	}
	if filter.AccountType != "" {
		builder = builder.Where(squirrel.Eq{"account_type": filter.AccountType})
	}
	if filter.EnabledFlag != "" {
		if !reviewFlagColumns[filter.EnabledFlag] {
			return nil, fmt.Errorf("unknown review flag column %q", filter.EnabledFlag)
		}
		builder = builder.Where(fmt.Sprintf("COALESCE(%s, TRUE)", filter.EnabledFlag))
	}
	if filter.ExcludeID != "" {
		builder = builder.Where(squirrel.NotEq{"id": filter.ExcludeID})
	}

	limit := filter.Limit
	if limit == 0 {
		limit = defaultSearchLimit
	}

	query, args, err := builder.OrderBy("display_name ASC", "id ASC").Limit(limit).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build profile search: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "profiles")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to search profiles: %w", err)
	}
	defer rows.Close()

	profiles := make([]entity.Profile, 0)
	for rows.Next() {
		var p entity.Profile
		if err := scanProfile(rows, &p); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan profile: %w", err)
		}
		profiles = append(profiles, p)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating profiles: %w", err)
	}

	return profiles, nil
}

// escapeLike экранирует спецсимволы LIKE, чтобы поиск был подстрокой, а не шаблоном
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
