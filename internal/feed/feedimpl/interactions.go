package feedimpl

import (
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/samber/lo"
)

// ToggleLike flips the user's like on id. Two calls cancel out.
func (s *StoreImpl) ToggleLike(id uuid.UUID) {
	s.mu.Lock()
	if _, ok := s.present[id]; !ok {
		s.mu.Unlock()
		return
	}
	if _, ok := s.liked[id]; ok {
		delete(s.liked, id)
	} else {
		s.liked[id] = struct{}{}
	}
	s.mu.Unlock()
	s.changed()
}

func (s *StoreImpl) IsLiked(id uuid.UUID) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.liked[id]
	return ok
}

// ToggleFriendTag adds friend to the post's tags, or removes it if already
// tagged. Blank names are ignored.
func (s *StoreImpl) ToggleFriendTag(id uuid.UUID, friend string) {
	friend = strings.TrimSpace(friend)
	if friend == "" {
		return
	}

	s.mu.Lock()
	if _, ok := s.present[id]; !ok {
		s.mu.Unlock()
		return
	}
	set, ok := s.tags[id]
	if !ok {
		set = make(map[string]struct{})
		s.tags[id] = set
	}
	if _, tagged := set[friend]; tagged {
		delete(set, friend)
		if len(set) == 0 {
			delete(s.tags, id)
		}
	} else {
		set[friend] = struct{}{}
	}
	s.mu.Unlock()
	s.changed()
}

// TaggedFriends returns the names tagged on id in ascending order.
func (s *StoreImpl) TaggedFriends(id uuid.UUID) []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.taggedLocked(id)
}

func (s *StoreImpl) taggedLocked(id uuid.UUID) []string {
	names := lo.Keys(s.tags[id])
	slices.Sort(names)
	return names
}

func (s *StoreImpl) IsFriendTagged(id uuid.UUID, friend string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.tags[id][strings.TrimSpace(friend)]
	return ok
}
