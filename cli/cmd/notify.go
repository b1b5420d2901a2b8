package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/justapithecus/sluice/adapter"
	"github.com/justapithecus/sluice/adapter/redis"
	"github.com/justapithecus/sluice/adapter/webhook"
	"github.com/justapithecus/sluice/cli/config"
	"github.com/justapithecus/sluice/stream"
)

// publishTimeout bounds one terminal-event publish, on top of the
// adapter's own per-request timeout and retries.
const publishTimeout = 30 * time.Second

// buildAdapter constructs the terminal-event adapter named by the config
// file. Returns nil when none is configured.
func buildAdapter(cfg *config.Config) (adapter.Adapter, error) {
	ac := cfg.Adapter
	switch ac.Type {
	case "":
		return nil, nil
	case "webhook":
		wcfg := webhook.Config{
			URL:     ac.URL,
			Headers: ac.Headers,
			Timeout: ac.Timeout.Duration,
			Retries: webhook.DefaultRetries,
		}
		if ac.Retries != nil {
			wcfg.Retries = *ac.Retries
		}
		return webhook.New(wcfg)
	case "redis":
		rcfg := redis.Config{
			URL:     ac.URL,
			Channel: ac.Channel,
			Timeout: ac.Timeout.Duration,
			Retries: redis.DefaultRetries,
		}
		if ac.Retries != nil {
			rcfg.Retries = *ac.Retries
		}
		return redis.New(rcfg)
	default:
		return nil, fmt.Errorf("unsupported adapter type: %s (must be webhook or redis)", ac.Type)
	}
}

// notifyTerminal publishes the stream's terminal event. A nil adapter is
// a no-op.
func notifyTerminal(a adapter.Adapter, s *stream.Stream) error {
	if a == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), publishTimeout)
	defer cancel()
	return a.Publish(ctx, adapter.NewStreamClosedEvent(s))
}
