package cli

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/notify"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/ludo-lab/gameshelf/pkg/utils/errutil"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

func cmdBindings() *cli.Command {
	return &cli.Command{
		Name:    "bindings",
		Aliases: []string{"b"},
		Usage:   "Manage source bindings of collections",
		Commands: []*cli.Command{
			cmdBindingsList(),
			cmdBindingsRemove(),
			cmdBindingsCleanup(),
			cmdBindingsRefetch(),
		},
	}
}

// withRepository opens the configured repository, runs the action and
// closes it afterwards.
func withRepository(ctx context.Context, repoCfg *config.Repository, action func(repo interfaces.Repository) error) error {
	repo, err := repoCfg.Configure(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logging.Default().Error("failed to close repository", "error", err.Error())
		}
	}()

	return action(repo)
}

func cmdBindingsList() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:    "list",
		Aliases: []string{"ls"},
		Usage:   "List recorded source bindings",
		Flags:   repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return withRepository(ctx, &repoCfg, func(repo interfaces.Repository) error {
				uc := usecase.New(repo, newRegistry())
				bindings, err := uc.Binding.List(ctx)
				if err != nil {
					return err
				}
				if len(bindings) == 0 {
					fmt.Println("No bindings recorded")
					return nil
				}
				for _, b := range bindings {
					fmt.Printf("%s  %-14s %-20s %s\n",
						b.CollectionID, b.SourceType, b.UpdateMode, b.DisplayName)
				}
				return nil
			})
		},
	}
}

func cmdBindingsRemove() *cli.Command {
	var repoCfg config.Repository
	var collectionID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Aliases:     []string{"i"},
			Usage:       "Collection whose binding is removed",
			Required:    true,
			Destination: &collectionID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "remove",
		Aliases: []string{"rm"},
		Usage:   "Remove the binding of a collection (the collection is kept)",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return withRepository(ctx, &repoCfg, func(repo interfaces.Repository) error {
				uc := usecase.New(repo, newRegistry())
				if err := uc.Binding.Remove(ctx, types.CollectionID(collectionID)); err != nil {
					return err
				}
				fmt.Printf("Removed binding of %s\n", collectionID)
				return nil
			})
		},
	}
}

func cmdBindingsCleanup() *cli.Command {
	var repoCfg config.Repository

	return &cli.Command{
		Name:  "cleanup",
		Usage: "Remove bindings whose collection no longer exists",
		Flags: repoCfg.Flags(),
		Action: func(ctx context.Context, c *cli.Command) error {
			return withRepository(ctx, &repoCfg, func(repo interfaces.Repository) error {
				uc := usecase.New(repo, newRegistry())
				removed, err := uc.Binding.CleanupOrphans(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("Removed %d orphaned bindings\n", removed)
				return nil
			})
		},
	}
}

func cmdBindingsRefetch() *cli.Command {
	var repoCfg config.Repository
	var slackCfg config.Slack
	var collectionID string
	var forceRefresh bool

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Aliases:     []string{"i"},
			Usage:       "Collection to re-fetch from its bound source",
			Required:    true,
			Destination: &collectionID,
		},
		&cli.BoolFlag{
			Name:        "force-refresh",
			Usage:       "Bypass provider caches for this run",
			Destination: &forceRefresh,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "refetch",
		Usage: "Re-run a collection's bound source and reconcile",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			return withRepository(ctx, &repoCfg, func(repo interfaces.Repository) error {
				uc := usecase.New(repo, newRegistry())
				uc.Fetch.SetForceRefresh(forceRefresh)

				id := types.CollectionID(collectionID)
				updated, err := uc.Binding.Refetch(ctx, id, func(ev usecase.ProgressEvent) {
					fmt.Printf("[%d/%d] %s: %s\n", ev.Index, ev.Total, ev.Phase, ev.Detail)
				})
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
			})
		},
	}
}
