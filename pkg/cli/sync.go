package cli

import (
	"context"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/notify"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/ludo-lab/gameshelf/pkg/utils/errutil"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

func cmdSync() *cli.Command {
	var repoCfg config.Repository
	var bridgeCfg config.Bridge
	var slackCfg config.Slack
	var collectionID string

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "collection",
			Aliases:     []string{"i"},
			Usage:       "Collection whose members are persisted",
			Required:    true,
			Destination: &collectionID,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, bridgeCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "sync",
		Usage: "Persist a collection's members through the bridge in batches",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			persister, err := bridgeCfg.Configure()
			if err != nil {
				return err
			}
			if persister == nil {
				return goerr.New("bridge-endpoint is required for sync")
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

			uc := usecase.New(repo, newRegistry(), usecase.WithPersister(persister))

			collection, err := uc.Collection.Get(ctx, types.CollectionID(collectionID))
			if err != nil {
				return goerr.Wrap(err, "failed to load collection", goerr.V("id", collectionID))
			}

			run, err := uc.Sync.Start(ctx, collection.MemberIDs.IDs(),
				bridgeCfg.BatchSize(), bridgeCfg.Delay())
			if err != nil {
				return err
			}

			var eg errgroup.Group
			eg.Go(func() error {
				for p := range run.Progress {
					fmt.Printf("persisted %d/%d\n", p.Completed, p.Total)
				}
				return nil
			})

			result := <-run.Done
			if err := eg.Wait(); err != nil {
				return err
			}

			fmt.Printf("Sync finished: %d ok, %d failed\n", result.OK, result.Failed)

			if notifier, err := slackCfg.Configure(); err != nil {
				return err
			} else if notifier != nil {
				message := notify.SyncMessage(result.OK, result.Failed)
				if err := notifier.Notify(ctx, message); err != nil {
					_ = errutil.Handle(ctx, err, "failed to send notification")
				}
			}

			return nil
		},
	}
}
