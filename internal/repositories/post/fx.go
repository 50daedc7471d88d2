package post

import (
	"github.com/orgball2608/frugal-feed/pkg/config"
	"github.com/orgball2608/frugal-feed/pkg/logger"
	"github.com/orgball2608/frugal-feed/pkg/pgx"
	"github.com/orgball2608/frugal-feed/pkg/retry"
	"go.uber.org/fx"
)

type Opts struct {
	fx.In

	LC     fx.Lifecycle
	Config *config.Config
	Logger logger.Logger
}

var Module = fx.Module("feed_repository",
	fx.Provide(NewFromConfig),
)

// NewFromConfig picks the source named by FEED_SOURCE and wraps it with
// retries when RETRY_MAX > 0. The postgres pool is only opened when the
// postgres source is selected.
func NewFromConfig(opts Opts) (Repository, error) {
	var repo Repository
	switch opts.Config.Feed.Source {
	case config.SourcePostgres:
		pool, err := pgx.New(pgx.Opts{LC: opts.LC, Logger: opts.Logger, Config: opts.Config})
		if err != nil {
			return nil, err
		}
		repo = NewPgx(pool, opts.Logger, opts.Config.Feed.Limit)
	default:
		templates, err := LoadTemplates(opts.Config.Feed.Fixtures)
		if err != nil {
			return nil, err
		}
		repo = NewGenerator(GeneratorOpts{
			Templates:   templates,
			Latency:     opts.Config.Feed.Latency,
			FailureRate: opts.Config.Feed.FailureRate,
			Logger:      opts.Logger,
		})
	}

	if opts.Config.Retry.Max > 0 {
		repo = NewRetrying(repo, opts.Logger, retry.FromConfig(opts.Config))
	}

	opts.Logger.Info("Feed source ready", "source", opts.Config.Feed.Source, "retries", opts.Config.Retry.Max)
	return repo, nil
}
