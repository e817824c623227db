package config

import (
	"log/slog"
	"time"

	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/service/bridge"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
)

// Bridge holds CLI flags for the remote persistence bridge
type Bridge struct {
	endpoint  string
	batchSize int
	delay     time.Duration
}

// Flags returns CLI flags for bridge configuration
func (b *Bridge) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "bridge-endpoint",
			Usage:       "URL of the batch persistence bridge",
			Category:    "Bridge",
			Sources:     cli.EnvVars("GAMESHELF_BRIDGE_ENDPOINT"),
			Destination: &b.endpoint,
		},
		&cli.IntFlag{
			Name:        "batch-size",
			Usage:       "Number of ids per persistence batch",
			Category:    "Bridge",
			Value:       usecase.DefaultBatchSize,
			Sources:     cli.EnvVars("GAMESHELF_BATCH_SIZE"),
			Destination: &b.batchSize,
		},
		&cli.DurationFlag{
			Name:        "batch-delay",
			Usage:       "Delay between persistence batches",
			Category:    "Bridge",
			Value:       usecase.DefaultBatchDelay,
			Sources:     cli.EnvVars("GAMESHELF_BATCH_DELAY"),
			Destination: &b.delay,
		},
	}
}

func (b Bridge) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("endpoint", b.endpoint),
		slog.Int("batch_size", b.batchSize),
		slog.Duration("delay", b.delay),
	)
}

// BatchSize returns the configured batch size
func (b *Bridge) BatchSize() int {
	return b.batchSize
}

// Delay returns the configured inter-batch delay
func (b *Bridge) Delay() time.Duration {
	return b.delay
}

// IsConfigured checks if a bridge endpoint is set
func (b *Bridge) IsConfigured() bool {
	return b.endpoint != ""
}

// Configure creates the bridge client, or nil when no endpoint is set
func (b *Bridge) Configure() (*bridge.Client, error) {
	if b.endpoint == "" {
		return nil, nil
	}
	return bridge.New(b.endpoint)
}
