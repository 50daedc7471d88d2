package feedimpl

import (
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/samber/lo"
)

// SetFilter changes which categories are visible. It never refetches.
func (s *StoreImpl) SetFilter(f domain.Filter) {
	if !f.Valid() {
		return
	}
	s.mu.Lock()
	if s.filter == f {
		s.mu.Unlock()
		return
	}
	s.filter = f
	s.mu.Unlock()
	s.changed()
}

func (s *StoreImpl) Filter() domain.Filter {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.filter
}

// VisibleItems returns the items passing the active filter in the order
// the repository produced them.
func (s *StoreImpl) VisibleItems() []domain.FeedItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.visibleLocked()
}

func (s *StoreImpl) visibleLocked() []domain.FeedItem {
	return lo.Filter(s.items, func(item domain.FeedItem, _ int) bool {
		return s.filter.Includes(item.Category)
	})
}

func (s *StoreImpl) View() domain.FeedView {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *StoreImpl) viewLocked() domain.FeedView {
	items := lo.Map(s.visibleLocked(), func(item domain.FeedItem, _ int) domain.ItemView {
		_, liked := s.liked[item.ID]
		return domain.ItemView{
			Item:           item,
			Liked:          liked,
			EffectiveLikes: item.EffectiveLikes(liked),
			TaggedFriends:  s.taggedLocked(item.ID),
		}
	})
	return domain.FeedView{
		Version: s.version,
		Items:   items,
		State:   s.state,
		Loading: s.state == domain.StateLoading,
		Err:     s.err,
		Filter:  s.filter,
	}
}
