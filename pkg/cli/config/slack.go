package config

import (
	"log/slog"

	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/service/notify"
)

// Slack holds CLI flags for run-summary notifications
type Slack struct {
	botToken string
	channel  string
}

// Flags returns CLI flags for Slack configuration
func (x *Slack) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "slack-bot-token",
			Usage:       "Slack Bot User OAuth Token",
			Category:    "Slack",
			Sources:     cli.EnvVars("GAMESHELF_SLACK_BOT_TOKEN"),
			Destination: &x.botToken,
		},
		&cli.StringFlag{
			Name:        "slack-channel",
			Usage:       "Slack channel for run summaries",
			Category:    "Slack",
			Sources:     cli.EnvVars("GAMESHELF_SLACK_CHANNEL"),
			Destination: &x.channel,
		},
	}
}

func (x Slack) LogValue() slog.Value {
	return slog.GroupValue(
		slog.Int("bot-token.len", len(x.botToken)),
		slog.String("channel", x.channel),
	)
}

// IsConfigured checks if Slack notification is fully configured
func (x *Slack) IsConfigured() bool {
	return x.botToken != "" && x.channel != ""
}

// Configure creates the notifier, or nil when Slack is not configured
func (x *Slack) Configure() (notify.Service, error) {
	if !x.IsConfigured() {
		return nil, nil
	}
	return notify.New(x.botToken, x.channel)
}
