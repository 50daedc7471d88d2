package post

import (
	"context"
	"io"
	"math/rand/v2"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
)

func testLogger() logger.Logger {
	return logger.New(logger.Opts{Env: "test", Writer: io.Discard})
}

func seeded() *rand.Rand {
	return rand.New(rand.NewPCG(1, 2))
}

func TestDefaultTemplatesParse(t *testing.T) {
	templates, err := DefaultTemplates()
	if err != nil {
		t.Fatalf("DefaultTemplates: %v", err)
	}
	if len(templates) != 12 {
		t.Fatalf("got %d templates, want 12", len(templates))
	}
	seen := map[domain.Category]bool{}
	for _, tmpl := range templates {
		seen[tmpl.Category] = true
	}
	for _, c := range domain.Categories {
		if !seen[c] {
			t.Errorf("built-in fixtures have no %s post", c)
		}
	}
	if templates[0].Age != time.Hour {
		t.Errorf("first template age = %s, want 1h", templates[0].Age)
	}
}

func TestParseTemplatesRejectsBadFixtures(t *testing.T) {
	tests := map[string]string{
		"empty":            `posts: []`,
		"unknown category": "posts:\n  - {title: t, description: d, category: tea, likes: {min: 0, max: 1}, comments: {min: 0, max: 1}}",
		"missing title":    "posts:\n  - {description: d, category: health, likes: {min: 0, max: 1}, comments: {min: 0, max: 1}}",
		"inverted range":   "posts:\n  - {title: t, description: d, category: health, likes: {min: 5, max: 1}, comments: {min: 0, max: 1}}",
		"negative range":   "posts:\n  - {title: t, description: d, category: health, likes: {min: 0, max: 1}, comments: {min: -1, max: 1}}",
		"not yaml":         "posts: [",
	}
	for name, data := range tests {
		t.Run(name, func(t *testing.T) {
			if _, err := ParseTemplates([]byte(data)); err == nil {
				t.Fatal("expected an error")
			}
		})
	}
}

func TestGeneratedItemsSatisfyLikeInvariant(t *testing.T) {
	templates, err := DefaultTemplates()
	if err != nil {
		t.Fatal(err)
	}
	gen := NewGenerator(GeneratorOpts{Templates: templates, Rand: seeded(), Logger: testLogger()})

	for i := 0; i < 200; i++ {
		items, err := gen.Fetch(context.Background())
		if err != nil {
			t.Fatalf("Fetch: %v", err)
		}
		for _, item := range items {
			if item.LikeCount < item.CommentCount-2 {
				t.Fatalf("item %q: likes %d < comments %d - 2", item.Title, item.LikeCount, item.CommentCount)
			}
			if item.LikeCount < 0 || item.CommentCount < 0 {
				t.Fatalf("negative counts on %q", item.Title)
			}
		}
	}
}

func TestGeneratorClampsLowLikes(t *testing.T) {
	gen := NewGenerator(GeneratorOpts{
		Templates: []Template{{
			Title: "X", Description: "d", Category: domain.CategoryPurchase,
			Likes: Range{3, 3}, Comments: Range{10, 10},
		}},
		Rand:   seeded(),
		Logger: testLogger(),
	})

	items, err := gen.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if items[0].LikeCount != 8 || items[0].CommentCount != 10 {
		t.Fatalf("got likes=%d comments=%d, want 8/10", items[0].LikeCount, items[0].CommentCount)
	}
}

func TestGeneratorReturnsFreshIDsInTemplateOrder(t *testing.T) {
	templates, err := DefaultTemplates()
	if err != nil {
		t.Fatal(err)
	}
	clock := clockwork.NewFakeClock()
	gen := NewGenerator(GeneratorOpts{Templates: templates, Clock: clock, Rand: seeded(), Logger: testLogger()})

	first, err := gen.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	second, err := gen.Fetch(context.Background())
	if err != nil {
		t.Fatal(err)
	}

	ids := map[uuid.UUID]bool{}
	for _, item := range first {
		ids[item.ID] = true
	}
	for i, item := range second {
		if ids[item.ID] {
			t.Fatalf("id %s reused across fetches", item.ID)
		}
		if item.Title != templates[i].Title {
			t.Fatalf("item %d title = %q, want %q", i, item.Title, templates[i].Title)
		}
		if want := clock.Now().Add(-templates[i].Age); !item.Timestamp.Equal(want) {
			t.Fatalf("item %d timestamp = %s, want %s", i, item.Timestamp, want)
		}
	}
}

func TestGeneratorWaitsForLatency(t *testing.T) {
	clock := clockwork.NewFakeClock()
	gen := NewGenerator(GeneratorOpts{
		Templates: []Template{{Title: "t", Description: "d", Category: domain.CategoryHealth}},
		Latency:   time.Second,
		Clock:     clock,
		Rand:      seeded(),
		Logger:    testLogger(),
	})

	done := make(chan []domain.FeedItem, 1)
	go func() {
		items, _ := gen.Fetch(context.Background())
		done <- items
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := clock.BlockUntilContext(ctx, 1); err != nil {
		t.Fatalf("fetch never started waiting: %v", err)
	}

	select {
	case <-done:
		t.Fatal("fetch completed before the latency elapsed")
	default:
	}

	clock.Advance(time.Second)
	select {
	case items := <-done:
		if len(items) != 1 {
			t.Fatalf("got %d items", len(items))
		}
	case <-ctx.Done():
		t.Fatal("fetch did not complete after advancing the clock")
	}
}

func TestGeneratorHonoursCancellation(t *testing.T) {
	gen := NewGenerator(GeneratorOpts{
		Templates: []Template{{Title: "t", Description: "d", Category: domain.CategoryHealth}},
		Latency:   time.Hour,
		Clock:     clockwork.NewFakeClock(),
		Logger:    testLogger(),
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := gen.Fetch(ctx)
	if !errors.IsFetchFailed(err) {
		t.Fatalf("err = %v, want FetchFailed", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("cause lost: %v", err)
	}
}

func TestGeneratorSimulatedFailure(t *testing.T) {
	gen := NewGenerator(GeneratorOpts{
		Templates:   []Template{{Title: "t", Description: "d", Category: domain.CategoryHealth}},
		FailureRate: 1,
		Rand:        seeded(),
		Logger:      testLogger(),
	})

	items, err := gen.Fetch(context.Background())
	if items != nil {
		t.Fatalf("got items on failure: %v", items)
	}
	if !errors.IsFetchFailed(err) || !errors.Is(err, ErrSimulatedFailure) {
		t.Fatalf("err = %v", err)
	}
}

func TestLoadTemplatesMissingFile(t *testing.T) {
	_, err := LoadTemplates(t.TempDir() + "/absent.yaml")
	if err == nil {
		t.Fatal("expected an error for a missing fixture file")
	}
	if got := errors.GetMessage(err); got != "reading fixtures" {
		t.Fatalf("GetMessage = %q, want %q", got, "reading fixtures")
	}
}
