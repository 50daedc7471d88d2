package server

import (
	"time"

	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/pkg/formatter"
)

type itemResponse struct {
	ID            string    `json:"id"`
	Title         string    `json:"title"`
	Description   string    `json:"description"`
	Category      string    `json:"category"`
	Author        string    `json:"author"`
	Avatar        string    `json:"avatar"`
	Timestamp     time.Time `json:"timestamp"`
	PostedAgo     string    `json:"posted_ago"`
	Likes         int       `json:"likes"`
	LikesDisplay  string    `json:"likes_display"`
	Comments      int       `json:"comments"`
	Liked         bool      `json:"liked"`
	TaggedFriends []string  `json:"tagged_friends"`
	WithFriends   string    `json:"with_friends,omitempty"`
}

type feedResponse struct {
	Items   []itemResponse `json:"items"`
	State   string         `json:"state"`
	Loading bool           `json:"loading"`
	Filter  string         `json:"filter"`
	Error   string         `json:"error,omitempty"`
}

type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
}

func (s *Server) render(v domain.FeedView) feedResponse {
	now := s.clock.Now()
	items := make([]itemResponse, 0, len(v.Items))
	for _, iv := range v.Items {
		items = append(items, itemResponse{
			ID:            iv.Item.ID.String(),
			Title:         iv.Item.Title,
			Description:   iv.Item.Description,
			Category:      string(iv.Item.Category),
			Author:        iv.Item.AuthorDisplayName,
			Avatar:        iv.Item.AuthorAvatarToken,
			Timestamp:     iv.Item.Timestamp,
			PostedAgo:     iv.Item.PostedAgo(now),
			Likes:         iv.EffectiveLikes,
			LikesDisplay:  formatter.FormatNumber(iv.EffectiveLikes),
			Comments:      iv.Item.CommentCount,
			Liked:         iv.Liked,
			TaggedFriends: iv.TaggedFriends,
			WithFriends:   formatter.WithFriends(iv.TaggedFriends),
		})
	}

	resp := feedResponse{
		Items:   items,
		State:   v.State.String(),
		Loading: v.Loading,
		Filter:  v.Filter.String(),
	}
	if v.Err != nil {
		resp.Error = v.Err.Error()
	}
	return resp
}
