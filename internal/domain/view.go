package domain

type FeedState int

const (
	StateIdle FeedState = iota
	StateLoading
	StateLoaded
	StateErrored
)

func (s FeedState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateErrored:
		return "errored"
	}
	return "unknown"
}

// ItemView is a FeedItem decorated with the current user's interaction.
type ItemView struct {
	Item           FeedItem
	Liked          bool
	EffectiveLikes int
	TaggedFriends  []string
}

// FeedView is a consistent snapshot of everything a presenter renders.
// Version grows with every change, so a newer view always has a larger
// Version than an older one.
type FeedView struct {
	Version uint64
	Items   []ItemView
	State   FeedState
	Loading bool
	Err     error
	Filter  Filter
}
