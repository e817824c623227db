package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/service/catalog"
)

func cmdSources() *cli.Command {
	var catalogCfg config.Catalog

	return &cli.Command{
		Name:    "sources",
		Aliases: []string{"s"},
		Usage:   "List selectable sources from the catalog",
		Flags:   catalogCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := catalogCfg.Configure()
			if err != nil {
				return err
			}

			descriptors := catalog.New(cfg).List()
			if len(descriptors) == 0 {
				fmt.Println("No sources configured. Provide a catalog file with --config.")
				return nil
			}

			keyColor := color.New(color.FgCyan)
			for _, d := range descriptors {
				fmt.Printf("%s  %-14s %s\n",
					keyColor.Sprintf("%-32s", d.Key), d.Type, d.DisplayName)
			}
			return nil
		},
	}
}
