package post

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/internal/repositories"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
)

const postsTable = "feed_posts"

// row mirrors one feed_posts record before it becomes a domain.FeedItem.
type row struct {
	ID           string
	Title        string
	Description  string
	Category     string
	LikeCount    int
	CommentCount int
	AuthorName   string
	AuthorAvatar string
	CreatedAt    time.Time
}

type Pgx struct {
	pg     *pgxpool.Pool
	logger logger.Logger
	limit  int
}

func NewPgx(pg *pgxpool.Pool, logger logger.Logger, limit int) *Pgx {
	return &Pgx{
		pg:     pg,
		logger: logger.WithComponent("FeedPostRepo"),
		limit:  limit,
	}
}

var _ Repository = (*Pgx)(nil)

// Fetch returns the newest posts. Rows keep their stored ids, so like and
// tag state for a post survives refreshes.
func (p *Pgx) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	query, args, err := selectLatestQuery(p.limit)
	if err != nil {
		return nil, errors.FetchFailed(repositories.ErrBadQuery, "build feed query")
	}

	rows, err := p.pg.Query(ctx, query, args...)
	if err != nil {
		return nil, errors.FetchFailed(err, "query feed posts")
	}
	defer rows.Close()

	var items []domain.FeedItem
	for rows.Next() {
		var r row
		if err := rows.Scan(&r.ID, &r.Title, &r.Description, &r.Category, &r.LikeCount,
			&r.CommentCount, &r.AuthorName, &r.AuthorAvatar, &r.CreatedAt); err != nil {
			return nil, errors.FetchFailed(err, "scan feed post")
		}

		item, err := r.toItem()
		if err != nil {
			p.logger.Warn("Skipping malformed feed post", "id", r.ID, "error", err)
			continue
		}
		items = append(items, item)
	}

	if err := rows.Err(); err != nil {
		return nil, errors.FetchFailed(err, "iterate feed posts")
	}

	return items, nil
}

func selectLatestQuery(limit int) (string, []interface{}, error) {
	return repositories.SqBuilder.
		Select("id::text", "title", "description", "category", "like_count",
			"comment_count", "author_name", "author_avatar", "created_at").
		From(postsTable).
		OrderBy("created_at DESC").
		Limit(uint64(limit)).
		ToSql()
}

func (r row) toItem() (domain.FeedItem, error) {
	id, err := uuid.Parse(r.ID)
	if err != nil {
		return domain.FeedItem{}, errors.WrapWithCode(err, errors.CodeInvalidInput, "parse id")
	}
	category := domain.Category(r.Category)
	if !category.Valid() {
		return domain.FeedItem{}, errors.WrapWithCode(errors.ErrInvalidInput, errors.CodeInvalidInput, "unknown category "+r.Category)
	}
	if r.Title == "" || r.Description == "" {
		return domain.FeedItem{}, errors.WrapWithCode(errors.ErrInvalidInput, errors.CodeInvalidInput, "empty title or description")
	}

	item := domain.FeedItem{
		ID:                id,
		Title:             r.Title,
		Description:       r.Description,
		Timestamp:         r.CreatedAt,
		Category:          category,
		LikeCount:         r.LikeCount,
		CommentCount:      r.CommentCount,
		AuthorDisplayName: r.AuthorName,
		AuthorAvatarToken: r.AuthorAvatar,
	}
	return item.Normalized(), nil
}
