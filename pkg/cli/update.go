package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/catalog"
	"github.com/ludo-lab/gameshelf/pkg/service/notify"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/ludo-lab/gameshelf/pkg/utils/errutil"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

func cmdUpdate() *cli.Command {
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var slackCfg config.Slack
	var collectionID string
	var sourceKeys []string
	var curatedPaths []string
	var companies []string
	var mode string
	var forceRefresh bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Aliases:     []string{"i"},
			Usage:       "Target collection ID",
			Required:    true,
			Destination: &collectionID,
		},
		&cli.StringSliceFlag{
			Name:        "source",
			Aliases:     []string{"s"},
			Usage:       "Catalog source key to fetch (repeatable)",
			Destination: &sourceKeys,
		},
		&cli.StringSliceFlag{
			Name:        "curated",
			Usage:       "Curated list file to fetch (repeatable)",
			Destination: &curatedPaths,
		},
		&cli.StringSliceFlag{
			Name:        "company",
			Usage:       "Company name to look up (repeatable)",
			Destination: &companies,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Update mode (incremental, incremental_archive, replace)",
			Value:       "incremental",
			Destination: &mode,
		},
		&cli.BoolFlag{
			Name:        "force-refresh",
			Usage:       "Bypass provider caches for this run",
			Destination: &forceRefresh,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:    "update",
		Aliases: []string{"u"},
		Usage:   "Re-fetch sources and reconcile a collection",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			updateMode, err := parseUpdateMode(mode)
			if err != nil {
				return err
			}

			cfg, err := catalogCfg.Configure()
			if err != nil {
				return err
			}
			descriptors, err := buildSelection(catalog.New(cfg), sourceKeys, curatedPaths, companies)
			if err != nil {
				return err
			}

			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return err
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			uc := usecase.New(repo, newRegistry())
			uc.Fetch.SetForceRefresh(forceRefresh)

			results, err := runFetch(ctx, uc, descriptors)
			if err != nil {
				return err
			}
			printFetchResults(results)

			merged, err := usecase.Merge(results)
			if err != nil {
				return err
			}

			id := types.CollectionID(collectionID)
			updated, err := uc.Collection.UpdateFromResult(ctx, id, merged, updateMode)
			if err != nil {
				return err
			}
			printUpdateResult(updated)

			if notifier, err := slackCfg.Configure(); err != nil {
				return err
			} else if notifier != nil {
				collection, err := uc.Collection.Get(ctx, id)
				if err != nil {
					return err
				}
				message := notify.UpdateMessage(collection.Name,
					updated.Added, updated.Removed, updated.FinalCount)
				if err := notifier.Notify(ctx, message); err != nil {
					_ = errutil.Handle(ctx, err, "failed to send notification")
				}
			}

			return nil
		},
	}
}

func printUpdateResult(r *usecase.UpdateResult) {
	switch r.State {
	case types.RunStateNoChange:
		fmt.Println("No change needed")
	case types.RunStateUpdated:
		fmt.Printf("Updated: %s / %s (now %d games)\n",
			color.GreenString("+%d", r.Added),
			color.RedString("-%d", r.Removed),
			r.FinalCount)
		if r.ArchiveID != "" {
			fmt.Printf("Displaced ids archived to %s\n", r.ArchiveID)
		}
	default:
		fmt.Println("Update failed")
	}
}
