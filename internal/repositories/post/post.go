package post

import (
	"context"

	"github.com/orgball2608/frugal-feed/internal/domain"
)

//go:generate go run go.uber.org/mock/mockgen -source=post.go -destination=mocks/mock.go

// Repository supplies the authoritative collection of feed items.
// Every call returns a complete collection, never a diff, and every item
// already satisfies domain.NormalizeLikes. Failures are FetchFailed.
type Repository interface {
	Fetch(ctx context.Context) ([]domain.FeedItem, error)
}
