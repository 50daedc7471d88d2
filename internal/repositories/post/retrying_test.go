package post_test

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/internal/repositories/post"
	mock_post "github.com/orgball2608/frugal-feed/internal/repositories/post/mocks"
	apperrors "github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"github.com/orgball2608/frugal-feed/pkg/retry"
	"go.uber.org/mock/gomock"
)

func fastRetry(n uint64) retry.Config {
	return retry.Config{
		MaxRetries:      n,
		InitialInterval: time.Millisecond,
		MaxInterval:     time.Millisecond,
		Multiplier:      1,
	}
}

func quietLogger() logger.Logger {
	return logger.New(logger.Opts{Env: "test", Writer: io.Discard})
}

func TestRetryingRecoversFromTransientFailures(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_post.NewMockRepository(ctrl)

	want := []domain.FeedItem{{ID: uuid.New(), Title: "t", Description: "d", Category: domain.CategoryHealth}}
	gomock.InOrder(
		repo.EXPECT().Fetch(gomock.Any()).Return(nil, errors.New("flaky")).Times(2),
		repo.EXPECT().Fetch(gomock.Any()).Return(want, nil),
	)

	got, err := post.NewRetrying(repo, quietLogger(), fastRetry(3)).Fetch(context.Background())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(got) != 1 || got[0].ID != want[0].ID {
		t.Fatalf("got %+v", got)
	}
}

func TestRetryingReportsFetchFailedWhenExhausted(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_post.NewMockRepository(ctrl)

	cause := errors.New("down")
	repo.EXPECT().Fetch(gomock.Any()).Return(nil, cause).Times(3)

	_, err := post.NewRetrying(repo, quietLogger(), fastRetry(2)).Fetch(context.Background())
	if !apperrors.IsFetchFailed(err) {
		t.Fatalf("err = %v, want FetchFailed", err)
	}
	if !errors.Is(err, cause) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestRetryingStopsWhenContextIsDone(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_post.NewMockRepository(ctrl)

	ctx, cancel := context.WithCancel(context.Background())
	repo.EXPECT().Fetch(gomock.Any()).DoAndReturn(func(ctx context.Context) ([]domain.FeedItem, error) {
		cancel()
		return nil, ctx.Err()
	}).Times(1)

	_, err := post.NewRetrying(repo, quietLogger(), fastRetry(5)).Fetch(ctx)
	if !apperrors.IsFetchFailed(err) {
		t.Fatalf("err = %v, want FetchFailed", err)
	}
}
