package discord

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/hay-kot/fauxplay/internal/core/activity"
	"github.com/hay-kot/fauxplay/internal/core/presence"
)

// Connector opens presence sessions through the local Discord client.
type Connector struct {
	path string
	subs presence.Subscriptions
	log  zerolog.Logger
	dial func(ctx context.Context, appID uint64, opts Options) (*Client, error)
}

// NewConnector creates a Connector. path may be empty to auto-discover the
// IPC endpoint.
func NewConnector(path string, subs presence.Subscriptions, log zerolog.Logger) *Connector {
	return &Connector{
		path: path,
		subs: subs,
		log:  log,
		dial: Dial,
	}
}

// Connect dials Discord for d.AppID, requests the configured subscriptions and
// publishes d. There is no retry; any failure closes the connection.
func (c *Connector) Connect(ctx context.Context, d activity.Descriptor) (*presence.Session, error) {
	client, err := c.dial(ctx, d.AppID, Options{Path: c.path, Logger: c.log})
	if err != nil {
		return nil, err
	}

	for _, evt := range subscriptionEvents(c.subs) {
		if err := client.Subscribe(ctx, evt); err != nil {
			// Discord refuses some events for unapproved apps; presence still works.
			c.log.Warn().Err(err).Str("evt", evt).Msg("subscribe failed")
		}
	}

	if err := client.SetActivity(ctx, d); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("update activity: %w", err)
	}

	c.log.Info().
		Uint64("app_id", d.AppID).
		Str("user", client.User().DisplayName()).
		Stringer("kind", d.Kind).
		Msg("presence published")

	return &presence.Session{
		AppID:         d.AppID,
		Conn:          client,
		Subscriptions: c.subs,
		User:          client.User(),
		ConnectedAt:   time.Now(),
	}, nil
}
