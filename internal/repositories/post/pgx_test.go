package post

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/orgball2608/frugal-feed/internal/domain"
)

func TestSelectLatestQuery(t *testing.T) {
	query, args, err := selectLatestQuery(25)
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"FROM feed_posts", "ORDER BY created_at DESC", "LIMIT 25", "id::text"} {
		if !strings.Contains(query, want) {
			t.Errorf("query %q missing %q", query, want)
		}
	}
	if len(args) != 0 {
		t.Errorf("unexpected args %v", args)
	}
}

func TestRowToItemNormalizes(t *testing.T) {
	id := uuid.New()
	created := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	r := row{
		ID: id.String(), Title: "t", Description: "d", Category: "health",
		LikeCount: 3, CommentCount: 10, AuthorName: "Adam", AuthorAvatar: "👤", CreatedAt: created,
	}

	item, err := r.toItem()
	if err != nil {
		t.Fatal(err)
	}
	if item.ID != id || item.Category != domain.CategoryHealth || !item.Timestamp.Equal(created) {
		t.Fatalf("unexpected item %+v", item)
	}
	if item.LikeCount != 8 {
		t.Fatalf("LikeCount = %d, want 8", item.LikeCount)
	}
}

func TestRowToItemRejectsMalformedRows(t *testing.T) {
	good := row{ID: uuid.NewString(), Title: "t", Description: "d", Category: "social"}

	tests := map[string]func(r *row){
		"bad id":            func(r *row) { r.ID = "nope" },
		"unknown category":  func(r *row) { r.Category = "tea" },
		"empty title":       func(r *row) { r.Title = "" },
		"empty description": func(r *row) { r.Description = "" },
	}
	for name, mutate := range tests {
		t.Run(name, func(t *testing.T) {
			r := good
			mutate(&r)
			if _, err := r.toItem(); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}
