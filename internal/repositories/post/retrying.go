package post

import (
	"context"

	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"github.com/orgball2608/frugal-feed/pkg/retry"
)

// Retrying retries a failing source with exponential backoff before the
// failure reaches the store.
type Retrying struct {
	next   Repository
	logger logger.Logger
	cfg    retry.Config
}

func NewRetrying(next Repository, logger logger.Logger, cfg retry.Config) *Retrying {
	return &Retrying{
		next:   next,
		logger: logger.WithComponent("RetryingFeedRepo"),
		cfg:    cfg,
	}
}

var _ Repository = (*Retrying)(nil)

func (r *Retrying) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	var items []domain.FeedItem
	err := retry.Do(ctx, r.logger, "feed.fetch", func() error {
		var err error
		items, err = r.next.Fetch(ctx)
		if err != nil && ctx.Err() != nil {
			return retry.Permanent(err)
		}
		return err
	}, r.cfg)
	if err != nil {
		return nil, errors.FetchFailed(err, "fetch feed")
	}
	return items, nil
}
