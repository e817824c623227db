package provider

import (
	"context"
	"fmt"
	"os"

	"github.com/ludo-lab/gameshelf/pkg/domain/interfaces"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
)

// FileProvider reads curated lists from local TOML files. The file
// format matches what the exporter writes, so exported lists can be
// fetched back as curated-list sources.
type FileProvider struct{}

var _ interfaces.SourceProvider = &FileProvider{}

// NewFile creates a new curated-list file provider
func NewFile() *FileProvider {
	return &FileProvider{}
}

type curatedListFile struct {
	Name string   `toml:"name"`
	IDs  []string `toml:"ids"`
}

// Fetch reads the id list from the file behind the locator path
func (p *FileProvider) Fetch(ctx context.Context, locator string, opts interfaces.FetchOptions, progress interfaces.FetchProgressFunc) ([]types.GameID, error) {
	// #nosec G304 - path is user-selected by design
	data, err := os.ReadFile(locator)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read curated list", goerr.V("path", locator))
	}

	var list curatedListFile
	if err := toml.Unmarshal(data, &list); err != nil {
		return nil, goerr.Wrap(err, "failed to parse curated list", goerr.V("path", locator))
	}

	ids := make([]types.GameID, 0, len(list.IDs))
	for _, id := range list.IDs {
		ids = append(ids, types.GameID(id))
	}

	if progress != nil {
		progress(fmt.Sprintf("%d ids", len(ids)))
	}

	return ids, nil
}
