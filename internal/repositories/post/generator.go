package post

import (
	"context"
	_ "embed"
	"fmt"
	"math/rand/v2"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/orgball2608/frugal-feed/internal/domain"
	"github.com/orgball2608/frugal-feed/pkg/errors"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"gopkg.in/yaml.v3"
)

//go:embed fixtures.yaml
var defaultFixtures []byte

// ErrSimulatedFailure is returned when the configured failure rate fires.
var ErrSimulatedFailure = errors.New("simulated source outage")

type Range struct {
	Min int `yaml:"min"`
	Max int `yaml:"max"`
}

// Template describes one post the generator emits on every fetch.
type Template struct {
	Title       string          `yaml:"title"`
	Description string          `yaml:"description"`
	Category    domain.Category `yaml:"category"`
	Author      string          `yaml:"author"`
	Avatar      string          `yaml:"avatar"`
	Age         time.Duration   `yaml:"age"`
	Likes       Range           `yaml:"likes"`
	Comments    Range           `yaml:"comments"`
}

type fixtureFile struct {
	Posts []Template `yaml:"posts"`
}

// DefaultTemplates returns the built-in post set.
func DefaultTemplates() ([]Template, error) {
	return ParseTemplates(defaultFixtures)
}

// LoadTemplates reads a fixture file. An empty path means DefaultTemplates.
func LoadTemplates(path string) ([]Template, error) {
	if path == "" {
		return DefaultTemplates()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading fixtures")
	}
	return ParseTemplates(data)
}

func ParseTemplates(data []byte) ([]Template, error) {
	var f fixtureFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, errors.Wrap(err, "parsing fixtures")
	}
	if len(f.Posts) == 0 {
		return nil, fmt.Errorf("fixtures contain no posts")
	}
	for i, t := range f.Posts {
		if err := t.validate(); err != nil {
			return nil, fmt.Errorf("fixture %d (%q): %w", i, t.Title, err)
		}
	}
	return f.Posts, nil
}

func (t Template) validate() error {
	switch {
	case t.Title == "":
		return fmt.Errorf("empty title")
	case t.Description == "":
		return fmt.Errorf("empty description")
	case !t.Category.Valid():
		return fmt.Errorf("unknown category %q", t.Category)
	case t.Age < 0:
		return fmt.Errorf("negative age")
	}
	for name, r := range map[string]Range{"likes": t.Likes, "comments": t.Comments} {
		if r.Min < 0 || r.Max < r.Min {
			return fmt.Errorf("bad %s range [%d, %d]", name, r.Min, r.Max)
		}
	}
	return nil
}

type GeneratorOpts struct {
	Templates   []Template
	Latency     time.Duration
	FailureRate float64
	Clock       clockwork.Clock
	Rand        *rand.Rand
	Logger      logger.Logger
}

// Generator manufactures a fresh feed from templates after a fixed
// simulated latency. It stands in for a network source.
type Generator struct {
	templates   []Template
	latency     time.Duration
	failureRate float64
	clock       clockwork.Clock
	logger      logger.Logger

	mu  sync.Mutex
	rng *rand.Rand
}

func NewGenerator(opts GeneratorOpts) *Generator {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Rand == nil {
		opts.Rand = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), rand.Uint64()))
	}
	return &Generator{
		templates:   opts.Templates,
		latency:     opts.Latency,
		failureRate: opts.FailureRate,
		clock:       opts.Clock,
		logger:      opts.Logger.WithComponent("FeedGenerator"),
		rng:         opts.Rand,
	}
}

var _ Repository = (*Generator)(nil)

func (g *Generator) Fetch(ctx context.Context) ([]domain.FeedItem, error) {
	if g.latency > 0 {
		select {
		case <-g.clock.After(g.latency):
		case <-ctx.Done():
			return nil, errors.FetchFailed(ctx.Err(), "generate feed")
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()

	if g.failureRate > 0 && g.rng.Float64() < g.failureRate {
		g.logger.Warn("Simulating feed source failure", "failure_rate", g.failureRate)
		return nil, errors.FetchFailed(ErrSimulatedFailure, "generate feed")
	}

	now := g.clock.Now()
	items := make([]domain.FeedItem, 0, len(g.templates))
	for _, t := range g.templates {
		item := domain.FeedItem{
			ID:                uuid.New(),
			Title:             t.Title,
			Description:       t.Description,
			Timestamp:         now.Add(-t.Age),
			Category:          t.Category,
			LikeCount:         g.draw(t.Likes),
			CommentCount:      g.draw(t.Comments),
			AuthorDisplayName: t.Author,
			AuthorAvatarToken: t.Avatar,
		}
		items = append(items, item.Normalized())
	}

	g.logger.Debug("Generated feed", "count", len(items))
	return items, nil
}

// draw picks uniformly from [r.Min, r.Max].
func (g *Generator) draw(r Range) int {
	return r.Min + g.rng.IntN(r.Max-r.Min+1)
}
