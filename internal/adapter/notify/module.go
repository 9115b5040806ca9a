package notify

import (
	"log/slog"

	"go.uber.org/fx"

	"github.com/dcakery/standingd/internal/config"
)

// Module exposes notifier implementation to fx graph.
var Module = fx.Provide(newNotifier)

type notifierParams struct {
	fx.In

	Config *config.Config
	Logger *slog.Logger
}

func newNotifier(p notifierParams) (Notifier, error) {
	if p.Config.NotifyWebhookURL == "" {
		return NoopNotifier{}, nil
	}
	return NewWebhookClient(p.Config.NotifyWebhookURL, p.Logger)
}
