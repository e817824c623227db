package notify

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/slack-go/slack"
)

// Service posts run summaries to a notification channel
type Service interface {
	Notify(ctx context.Context, message string) error
}

// client implements Service over the Slack Web API
type client struct {
	api     *slack.Client
	channel string
}

// New creates a Slack-backed notifier for the given channel
func New(token, channel string) (Service, error) {
	if token == "" {
		return nil, goerr.New("Slack bot token is required")
	}
	if channel == "" {
		return nil, goerr.New("Slack channel is required")
	}

	return &client{
		api:     slack.New(token),
		channel: channel,
	}, nil
}

func (c *client) Notify(ctx context.Context, message string) error {
	_, _, err := c.api.PostMessageContext(ctx, c.channel,
		slack.MsgOptionText(message, false),
	)
	if err != nil {
		return goerr.Wrap(err, "failed to post notification", goerr.V("channel", c.channel))
	}
	return nil
}

// UpdateMessage formats a reconciliation summary for notification
func UpdateMessage(collectionName string, added, removed, final int) string {
	return fmt.Sprintf("Collection %q updated: +%d / -%d (now %d games)",
		collectionName, added, removed, final)
}

// SyncMessage formats a sync summary for notification
func SyncMessage(ok, failed int) string {
	return fmt.Sprintf("Remote sync finished: %d ok, %d failed", ok, failed)
}
