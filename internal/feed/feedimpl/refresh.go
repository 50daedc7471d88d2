package feedimpl

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/pkg/errors"
)

// Refresh fetches a new collection and installs it in one step. A call
// made while another refresh is loading returns nil without fetching.
func (s *StoreImpl) Refresh(ctx context.Context) error {
	s.mu.Lock()
	if s.state == domain.StateLoading {
		s.mu.Unlock()
		s.logger.Debug("Refresh already in flight, skipping")
		return nil
	}
	s.state = domain.StateLoading
	s.mu.Unlock()
	s.changed()

	start := time.Now()
	items, err := s.repo.Fetch(ctx)

	s.mu.Lock()
	if err != nil {
		err = errors.FetchFailed(err, "refresh feed")
		s.err = err
		s.state = domain.StateErrored
	} else {
		s.installLocked(items)
		s.state = domain.StateLoaded
	}
	count := len(s.items)
	s.mu.Unlock()
	s.changed()

	if err != nil {
		s.logger.Error("Feed refresh failed", "error", err, "kept_items", count)
		return err
	}
	s.logger.Info("Feed refreshed", "items", count, "took", time.Since(start).Round(time.Millisecond).String())
	return nil
}

// installLocked replaces the collection and drops interaction state for
// ids that did not survive, so nothing leaks into a new generation.
func (s *StoreImpl) installLocked(items []domain.FeedItem) {
	s.items = append([]domain.FeedItem(nil), items...)

	s.present = make(map[uuid.UUID]struct{}, len(items))
	for _, item := range items {
		s.present[item.ID] = struct{}{}
	}

	for id := range s.liked {
		if _, ok := s.present[id]; !ok {
			delete(s.liked, id)
		}
	}
	for id := range s.tags {
		if _, ok := s.present[id]; !ok {
			delete(s.tags, id)
		}
	}
}

func (s *StoreImpl) ClearError() {
	s.mu.Lock()
	if s.err == nil {
		s.mu.Unlock()
		return
	}
	s.err = nil
	s.mu.Unlock()
	s.changed()
}

func (s *StoreImpl) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.err
}

func (s *StoreImpl) IsLoading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state == domain.StateLoading
}

func (s *StoreImpl) State() domain.FeedState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}
