package feedimpl

import (
	"sync"

	"github.com/google/uuid"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/internal/feed"
	"github.com/orgball2608/frugal-feed/internal/repositories/post"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	Repo   post.Repository
	Logger logger.Logger
}

// StoreImpl owns the feed. All fields below mu are guarded by it; the
// repository is called without holding it so reads and toggles keep
// working against the previous items while a refresh is in flight.
type StoreImpl struct {
	repo   post.Repository
	logger logger.Logger

	mu      sync.Mutex
	items   []domain.FeedItem
	present map[uuid.UUID]struct{}
	liked   map[uuid.UUID]struct{}
	tags    map[uuid.UUID]map[string]struct{}
	filter  domain.Filter
	state   domain.FeedState
	err     error

	version uint64
	subs    map[int]*subscriber
	nextSub int
}

func New(opts Opts) *StoreImpl {
	return &StoreImpl{
		repo:    opts.Repo,
		logger:  opts.Logger.WithComponent("FeedStore"),
		present: make(map[uuid.UUID]struct{}),
		liked:   make(map[uuid.UUID]struct{}),
		tags:    make(map[uuid.UUID]map[string]struct{}),
		filter:  domain.FilterAll,
		state:   domain.StateIdle,
		subs:    make(map[int]*subscriber),
	}
}

var _ feed.Store = (*StoreImpl)(nil)

func (s *StoreImpl) Subscribe(fn func(domain.FeedView)) func() {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = &subscriber{fn: fn}
	s.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			s.mu.Lock()
			delete(s.subs, id)
			s.mu.Unlock()
		})
	}
}

// changed publishes the current view to subscribers. It must be called
// without holding mu so subscribers may call back into the store.
func (s *StoreImpl) changed() {
	s.mu.Lock()
	s.version++
	if len(s.subs) == 0 {
		s.mu.Unlock()
		return
	}
	view := s.viewLocked()
	subs := make([]*subscriber, 0, len(s.subs))
	for _, sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.deliver(view)
	}
}

// subscriber hands views to fn one at a time in version order. A view
// that arrives while fn is running is queued, replacing any older queued
// view, and the goroutine already inside deliver passes it on once fn
// returns. Views older than one already accepted are dropped.
type subscriber struct {
	fn func(domain.FeedView)

	mu         sync.Mutex
	accepted   uint64
	pending    domain.FeedView
	hasPending bool
	delivering bool
}

func (sub *subscriber) deliver(view domain.FeedView) {
	sub.mu.Lock()
	if view.Version <= sub.accepted {
		sub.mu.Unlock()
		return
	}
	sub.accepted = view.Version
	sub.pending = view
	sub.hasPending = true
	if sub.delivering {
		sub.mu.Unlock()
		return
	}

	sub.delivering = true
	for sub.hasPending {
		next := sub.pending
		sub.hasPending = false
		sub.mu.Unlock()
		sub.fn(next)
		sub.mu.Lock()
	}
	sub.delivering = false
	sub.mu.Unlock()
}
