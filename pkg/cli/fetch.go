package cli

import (
	"context"
	"fmt"

	"github.com/fatih/color"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"golang.org/x/sync/errgroup"

	"github.com/ludo-lab/gameshelf/pkg/cli/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/catalog"
	"github.com/ludo-lab/gameshelf/pkg/service/export"
	"github.com/ludo-lab/gameshelf/pkg/usecase"
	"github.com/ludo-lab/gameshelf/pkg/utils/logging"
)

func cmdFetch() *cli.Command {
	var catalogCfg config.Catalog
	var repoCfg config.Repository
	var sourceKeys []string
	var curatedPaths []string
	var companies []string
	var forceRefresh bool
	var createName string
	var mode string
	var exportDest string

	flags := []cli.Flag{
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
		&cli.BoolFlag{
			Name:        "force-refresh",
			Usage:       "Bypass provider caches for this run",
			Destination: &forceRefresh,
		},
		&cli.StringFlag{
			Name:        "create",
			Usage:       "Create a collection with this name from the merged result",
			Destination: &createName,
		},
		&cli.StringFlag{
			Name:        "mode",
			Usage:       "Update mode recorded on the new collection's binding (incremental, incremental_archive, replace)",
			Value:       "incremental",
			Destination: &mode,
		},
		&cli.StringFlag{
			Name:        "export",
			Usage:       "Write the merged id set to a file path or gs:// URL",
			Destination: &exportDest,
		},
	}
	flags = append(flags, catalogCfg.Flags()...)
	flags = append(flags, repoCfg.Flags()...)

	return &cli.Command{
		Name:    "fetch",
		Aliases: []string{"f"},
		Usage:   "Fetch game ids from the selected sources",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			cfg, err := catalogCfg.Configure()
			if err != nil {
				return err
			}

			descriptors, err := buildSelection(catalog.New(cfg), sourceKeys, curatedPaths, companies)
			if err != nil {
				return err
			}

			uc := usecase.New(nil, newRegistry())
			uc.Fetch.SetForceRefresh(forceRefresh)

			results, err := runFetch(ctx, uc, descriptors)
			if err != nil {
				return err
			}
			printFetchResults(results)

			if createName == "" && exportDest == "" {
				return nil
			}

			merged, err := usecase.Merge(results)
			if err != nil {
				return err
			}

			if exportDest != "" {
				if err := export.New().Export(ctx, exportDest, merged.DisplayName, merged.IDs); err != nil {
					return err
				}
				fmt.Printf("Exported %d ids to %s\n", merged.IDs.Len(), exportDest)
			}

			if createName != "" {
				updateMode, err := parseUpdateMode(mode)
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

				created, err := usecase.New(repo, newRegistry()).
					Collection.CreateFromResult(ctx, createName, merged, updateMode)
				if err != nil {
					return err
				}
				fmt.Printf("Created collection %q (%s) with %d games\n",
					created.Name, created.ID, created.MemberIDs.Len())
			}

			return nil
		},
	}
}

// runFetch drives one orchestration, printing progress while the
// worker runs.
func runFetch(ctx context.Context, uc *usecase.UseCases, descriptors []model.SourceDescriptor) ([]model.FetchResult, error) {
	run, err := uc.Fetch.Start(ctx, descriptors)
	if err != nil {
		return nil, err
	}

	var eg errgroup.Group
	eg.Go(func() error {
		for ev := range run.Progress {
			fmt.Printf("[%d/%d] %s: %s\n", ev.Index, ev.Total, ev.Phase, ev.Detail)
		}
		return nil
	})

	results := <-run.Done
	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// buildSelection resolves the selection flags into descriptors
func buildSelection(cat *catalog.Catalog, sourceKeys, curatedPaths, companies []string) ([]model.SourceDescriptor, error) {
	var descriptors []model.SourceDescriptor

	for _, key := range sourceKeys {
		d, err := cat.Get(key)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, *d)
	}
	for _, path := range curatedPaths {
		descriptors = append(descriptors, cat.CuratedList(path))
	}
	for _, name := range companies {
		d, err := cat.Company(name)
		if err != nil {
			return nil, err
		}
		descriptors = append(descriptors, *d)
	}

	if len(descriptors) == 0 {
		return nil, goerr.New("no source selected: use --source, --curated or --company")
	}
	return descriptors, nil
}

func printFetchResults(results []model.FetchResult) {
	okColor := color.New(color.FgGreen)
	failColor := color.New(color.FgRed)

	for _, r := range results {
		if r.Succeeded() {
			fmt.Printf("%s %s: %d games\n", okColor.Sprint("ok"), r.DisplayName, r.IDs.Len())
		} else {
			fmt.Printf("%s %s: %s\n", failColor.Sprint("failed"), r.DisplayName, r.Err)
		}
	}
}

func parseUpdateMode(s string) (types.UpdateMode, error) {
	m := types.UpdateMode(s).Normalize()
	if !m.IsValid() {
		return "", goerr.New("invalid update mode", goerr.V("mode", s))
	}
	return m, nil
}
