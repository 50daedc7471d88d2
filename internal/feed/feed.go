package feed

import (
	"context"

	"github.com/google/uuid"
	"github.com/orgball2608/frugal-feed/internal/domain"
)

// Store is the feed state machine a presenter renders from. Intents on
// unknown ids are silent no-ops.
type Store interface {
	// Refresh replaces the item collection from the repository. It is a
	// no-op while another refresh is in flight. Existing items stay
	// visible until the new collection is installed.
	Refresh(ctx context.Context) error

	ToggleLike(id uuid.UUID)
	IsLiked(id uuid.UUID) bool

	ToggleFriendTag(id uuid.UUID, friend string)
	TaggedFriends(id uuid.UUID) []string
	IsFriendTagged(id uuid.UUID, friend string) bool

	SetFilter(f domain.Filter)
	Filter() domain.Filter
	VisibleItems() []domain.FeedItem

	ClearError()
	Err() error
	IsLoading() bool
	State() domain.FeedState

	View() domain.FeedView
	// Subscribe registers fn to be called with a fresh view after every
	// change. Calls to fn never overlap and carry increasing versions; a
	// burst of changes during a slow call may be collapsed into the
	// latest view. The returned func removes the subscription.
	Subscribe(fn func(domain.FeedView)) (unsubscribe func())
}
