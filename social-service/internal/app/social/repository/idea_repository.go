package repository

import (
	"context"
	"fmt"
	"time"

	"signalidea/pkg/metrics"
	"signalidea/social-service/internal/app/social/entity"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
)

var (
	ideaColumns   = []string{"i.id", "i.user_id", "i.title", "i.description", "i.photo_url", "i.video_url", "i.created_at"}
	updateColumns = []string{"u.id", "u.idea_id", "u.user_id", "u.description", "u.photo_url", "u.video_url", "u.created_at"}

	discoverUpdateColumns = append(append([]string{}, updateColumns...), "i.title")
)

type ideaRepository struct {
	db DB
}

func NewIdeaRepository(db DB) IdeaRepository {
	return &ideaRepository{db: db}
}

func scanIdea(row pgx.Row, i *entity.Idea) error {
	return row.Scan(&i.ID, &i.UserID, &i.Title, &i.Description, &i.PhotoURL, &i.VideoURL, &i.CreatedAt)
}

func scanUpdate(row pgx.Row, u *entity.IdeaUpdate) error {
	return row.Scan(&u.ID, &u.IdeaID, &u.UserID, &u.Description, &u.PhotoURL, &u.VideoURL, &u.CreatedAt)
}

func (r *ideaRepository) Create(ctx context.Context, idea *entity.Idea) error {
	query := `
		INSERT INTO ideas (id, user_id, title, description, photo_url, video_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "ideas")
	_, err := r.db.Exec(ctx, query,
		idea.ID, idea.UserID, idea.Title, idea.Description, idea.PhotoURL, idea.VideoURL, idea.CreatedAt,
	)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create idea: %w", err)
	}

	return nil
}

func (r *ideaRepository) GetByID(ctx context.Context, id string) (*entity.Idea, error) {
	query, args, err := psql.Select(ideaColumns...).From("ideas i").Where(squirrel.Eq{"i.id": id}).ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build idea query: %w", err)
	}

	var idea entity.Idea
	if err := scanIdea(r.db.QueryRow(ctx, query, args...), &idea); err != nil {
		if isMissingRow(err) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get idea: %w", err)
	}

	return &idea, nil
}

// ListByUser - идеи автора, новые первыми
func (r *ideaRepository) ListByUser(ctx context.Context, userID string) ([]entity.Idea, error) {
	query, args, err := psql.Select(ideaColumns...).
		From("ideas i").
		Where(squirrel.Eq{"i.user_id": userID}).
		OrderBy("i.created_at DESC", "i.id DESC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build ideas query: %w", err)
	}

	return r.queryIdeas(ctx, query, args...)
}

func (r *ideaRepository) CountByUser(ctx context.Context, userID string) (int, error) {
	var count int
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM ideas WHERE user_id = $1`, userID).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count ideas: %w", err)
	}
	return count, nil
}

// ListDiscover исключает автора-зрителя и всех, на кого он подписан, через anti-join,
// поэтому размер множества подписок не влияет на текст запроса
func (r *ideaRepository) ListDiscover(ctx context.Context, viewerID string, before *time.Time, limit int) ([]entity.Idea, error) {
	builder := psql.Select(ideaColumns...).
		From("ideas i").
		Where("i.user_id <> ?", viewerID).
		Where("NOT EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = ? AND f.following_id = i.user_id)", viewerID)

	if before != nil {
		builder = builder.Where(squirrel.Lt{"i.created_at": *before})
	}

	query, args, err := builder.
		OrderBy("i.created_at DESC", "i.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build discover query: %w", err)
	}

	return r.queryIdeas(ctx, query, args...)
}

func (r *ideaRepository) queryIdeas(ctx context.Context, query string, args ...any) ([]entity.Idea, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "ideas")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list ideas: %w", err)
	}
	defer rows.Close()

	ideas := make([]entity.Idea, 0)
	for rows.Next() {
		var idea entity.Idea
		if err := scanIdea(rows, &idea); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan idea: %w", err)
		}
		ideas = append(ideas, idea)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating ideas: %w", err)
	}

	return ideas, nil
}

// GetTitles возвращает id -> title для найденных идей
func (r *ideaRepository) GetTitles(ctx context.Context, ids []string) (map[string]string, error) {
	titles := make(map[string]string, len(ids))
	if len(ids) == 0 {
		return titles, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, title FROM ideas WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("failed to get idea titles: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, title string
		if err := rows.Scan(&id, &title); err != nil {
			return nil, fmt.Errorf("failed to scan idea title: %w", err)
		}
		titles[id] = title
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating idea titles: %w", err)
	}

	return titles, nil
}

func (r *ideaRepository) CreateUpdate(ctx context.Context, update *entity.IdeaUpdate) error {
	query := `
		INSERT INTO idea_updates (id, idea_id, user_id, description, photo_url, video_url, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpInsert, "idea_updates")
	_, err := r.db.Exec(ctx, query,
		update.ID, update.IdeaID, update.UserID, update.Description, update.PhotoURL, update.VideoURL, update.CreatedAt,
	)
	timer.Done(err)
	if err != nil {
		return fmt.Errorf("failed to create idea update: %w", err)
	}

	return nil
}

// ListUpdates - обновления идеи в порядке создания
func (r *ideaRepository) ListUpdates(ctx context.Context, ideaID string) ([]entity.IdeaUpdate, error) {
	query, args, err := psql.Select(updateColumns...).
		From("idea_updates u").
		Where(squirrel.Eq{"u.idea_id": ideaID}).
		OrderBy("u.created_at ASC", "u.id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build updates query: %w", err)
	}

	return r.queryUpdates(ctx, query, args...)
}

// ListDiscoverUpdates - отдельный поток обновлений для ленты, новые первыми.
// Родительская идея фильтруется тем же anti-join, курсор и лимит применяются к самим обновлениям,
// поэтому свежее обновление старой идеи попадает на первую страницу.
func (r *ideaRepository) ListDiscoverUpdates(ctx context.Context, viewerID string, before *time.Time, limit int) ([]entity.DiscoverUpdate, error) {
	builder := psql.Select(discoverUpdateColumns...).
		From("idea_updates u").
		Join("ideas i ON i.id = u.idea_id").
		Where("i.user_id <> ?", viewerID).
		Where("NOT EXISTS (SELECT 1 FROM follows f WHERE f.follower_id = ? AND f.following_id = i.user_id)", viewerID)

	if before != nil {
		builder = builder.Where(squirrel.Lt{"u.created_at": *before})
	}

	query, args, err := builder.
		OrderBy("u.created_at DESC", "u.id DESC").
		Limit(uint64(limit)).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build discover updates query: %w", err)
	}

	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "idea_updates")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list discover updates: %w", err)
	}
	defer rows.Close()

	updates := make([]entity.DiscoverUpdate, 0)
	for rows.Next() {
		var u entity.DiscoverUpdate
		if err := rows.Scan(&u.ID, &u.IdeaID, &u.UserID, &u.Description, &u.PhotoURL, &u.VideoURL, &u.CreatedAt, &u.IdeaTitle); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan discover update: %w", err)
		}
		updates = append(updates, u)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating discover updates: %w", err)
	}

	return updates, nil
}

func (r *ideaRepository) queryUpdates(ctx context.Context, query string, args ...any) ([]entity.IdeaUpdate, error) {
	timer := metrics.NewDbTimer(serviceName, metrics.DbOpSelect, "idea_updates")
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		timer.Done(err)
		return nil, fmt.Errorf("failed to list idea updates: %w", err)
	}
	defer rows.Close()

	updates := make([]entity.IdeaUpdate, 0)
	for rows.Next() {
		var u entity.IdeaUpdate
		if err := scanUpdate(rows, &u); err != nil {
			timer.Done(err)
			return nil, fmt.Errorf("failed to scan idea update: %w", err)
		}
		updates = append(updates, u)
	}
	err = rows.Err()
	timer.Done(err)
	if err != nil {
		return nil, fmt.Errorf("error iterating idea updates: %w", err)
	}

	return updates, nil
}

func (r *ideaRepository) ResolveUpdateParents(ctx context.Context, updateIDs []string) (map[string]string, error) {
	parents := make(map[string]string, len(updateIDs))
	if len(updateIDs) == 0 {
		return parents, nil
	}

	rows, err := r.db.Query(ctx, `SELECT id, idea_id FROM idea_updates WHERE id = ANY($1)`, updateIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve update parents: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var id, ideaID string
		if err := rows.Scan(&id, &ideaID); err != nil {
			return nil, fmt.Errorf("failed to scan update parent: %w", err)
		}
		parents[id] = ideaID
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating update parents: %w", err)
	}

	return parents, nil
}
