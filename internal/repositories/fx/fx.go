package fx

import (
	"github.com/orgball2608/frugal-feed/internal/repositories/post"
	"go.uber.org/fx"
)

// Module groups every repository the app can provide. Only one feed
// source is live at a time; post.NewFromConfig picks it.
var Module = fx.Options(
	post.Module,
)
