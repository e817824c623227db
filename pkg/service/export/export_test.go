package export_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/ludo-lab/gameshelf/pkg/service/export"
	"github.com/ludo-lab/gameshelf/pkg/service/provider"
	"github.com/m-mizutani/gt"
)

func TestExporter_LocalFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.toml")

	e := export.New()
	ids := model.NewGameSet("3", "1", "2")
	gt.NoError(t, e.Export(context.Background(), path, "My List", ids)).Required()

	// exported file round-trips through the curated-list provider
	p := provider.NewFile()
	fetched, err := p.Fetch(context.Background(), path, interfaces.FetchOptions{}, nil)
	gt.NoError(t, err).Required()
	gt.Value(t, fetched).Equal([]types.GameID{"1", "2", "3"})
}

func TestExporter_EmptyDest(t *testing.T) {
	e := export.New()
	err := e.Export(context.Background(), "", "x", model.NewGameSet("1"))
	gt.Value(t, err).NotNil()
}

func TestExporter_InvalidGCSDest(t *testing.T) {
	e := export.New()
	err := e.Export(context.Background(), "gs://bucket-only", "x", model.NewGameSet("1"))
	gt.Value(t, err).NotNil()
}
