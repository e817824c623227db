package cli

import (
	"context"

	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

func Run(ctx context.Context, args []string, version string) error {
	var loggerCfg config.Logger
	var closer func()

	app := &cli.Command{
		Name:    "gameshelf",
		Usage:   "Game collection aggregation and reconciliation engine",
		Version: version,
		Flags:   loggerCfg.Flags(),
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closer = f

			logging.Default().Info("Starting gameshelf", "logger", loggerCfg)
			return ctx, nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			if closer != nil {
				closer()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdSources(),
			cmdFetch(),
			cmdUpdate(),
			cmdSync(),
			cmdBindings(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}

// newRegistry wires the concrete providers behind every source type
func newRegistry() *provider.Registry {
	registry := provider.NewRegistry()

	httpProvider := provider.NewHTTP()
	registry.Register(types.SourceTypeRankedList, httpProvider)
	registry.Register(types.SourceTypeCategory, httpProvider)
	registry.Register(types.SourceTypeCompany, httpProvider)
	registry.Register(types.SourceTypeCuratedList, provider.NewFile())

	return registry
}
