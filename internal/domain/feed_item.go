package domain

import (
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/samber/lo"
)

type Category string

const (
	CategorySpending       Category = "spending"
	CategoryPurchase       Category = "purchase"
	CategoryHealth         Category = "health"
	CategoryAchievement    Category = "achievement"
	CategorySocial         Category = "social"
	CategoryRecommendation Category = "recommendation"
)

var Categories = []Category{
	CategorySpending,
	CategoryPurchase,
	CategoryHealth,
	CategoryAchievement,
	CategorySocial,
	CategoryRecommendation,
}

func (c Category) Valid() bool {
	return lo.Contains(Categories, c)
}

// FeedItem is one social post. Items are produced by a repository and
// never modified afterwards; per-user interaction lives in the store.
type FeedItem struct {
	ID                uuid.UUID
	Title             string
	Description       string
	Timestamp         time.Time // When the event nominally happened
	Category          Category
	LikeCount         int // Baseline count from the source, before the user's own like
	CommentCount      int
	AuthorDisplayName string
	AuthorAvatarToken string
}

// PostedAgo renders the item's age relative to now, e.g. "3 hours ago".
func (f FeedItem) PostedAgo(now time.Time) string {
	return humanize.RelTime(f.Timestamp, now, "ago", "from now")
}

// EffectiveLikes is the count shown to a user who may have liked the item.
func (f FeedItem) EffectiveLikes(liked bool) int {
	if liked {
		return f.LikeCount + 1
	}
	return f.LikeCount
}

// NormalizeLikes enforces LikeCount >= CommentCount-2 by raising LikeCount
// when it falls short. Compliant counts are returned unchanged. Negative
// inputs are floored at zero first.
func NormalizeLikes(likes, comments int) (int, int) {
	if comments < 0 {
		comments = 0
	}
	if likes < 0 {
		likes = 0
	}
	if likes < comments-2 {
		likes = comments - 2
	}
	return likes, comments
}

// Normalized returns a copy of f whose counts satisfy NormalizeLikes.
func (f FeedItem) Normalized() FeedItem {
	f.LikeCount, f.CommentCount = NormalizeLikes(f.LikeCount, f.CommentCount)
	return f
}
