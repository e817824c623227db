package catalog

import (
	"fmt"
	"strings"

	"github.com/ludo-lab/gameshelf/pkg/domain/model"
	"github.com/ludo-lab/gameshelf/pkg/domain/model/config"
	"github.com/ludo-lab/gameshelf/pkg/domain/types"
	"github.com/m-mizutani/goerr/v2"
)

// Catalog enumerates the selectable source descriptors: the configured
// ranked lists and category taxonomy, plus on-demand descriptors for
// curated-list files and company lookups. Descriptors are per-session
// and never persisted.
type Catalog struct {
	cfg *config.CatalogConfig
}

// New creates a catalog from the loaded configuration
func New(cfg *config.CatalogConfig) *Catalog {
	if cfg == nil {
		cfg = &config.CatalogConfig{}
	}
	return &Catalog{cfg: cfg}
}

// List returns the static descriptors: ranked lists followed by
// category taxonomy entries. Keys are unique within the returned set.
func (c *Catalog) List() []model.SourceDescriptor {
	descriptors := make([]model.SourceDescriptor, 0, len(c.cfg.RankedLists)+len(c.cfg.Categories))

	for _, rl := range c.cfg.RankedLists {
		descriptors = append(descriptors, model.SourceDescriptor{
			Key:         descriptorKey(types.SourceTypeRankedList, rl.ID),
			Type:        types.SourceTypeRankedList,
			Locator:     rl.URL,
			DisplayName: rl.Name,
		})
	}

	for _, cat := range c.cfg.Categories {
		descriptors = append(descriptors, model.SourceDescriptor{
			Key:         descriptorKey(types.SourceTypeCategory, cat.ID),
			Type:        types.SourceTypeCategory,
			Locator:     c.categoryLocator(cat.ID),
			DisplayName: cat.Name,
		})
	}

	return descriptors
}

// Get resolves a descriptor by its key
func (c *Catalog) Get(key string) (*model.SourceDescriptor, error) {
	for _, d := range c.List() {
		if d.Key == key {
			return &d, nil
		}
	}
	return nil, goerr.New("unknown source key", goerr.V("key", key))
}

// CuratedList builds an on-demand descriptor for a curated list file
func (c *Catalog) CuratedList(path string) model.SourceDescriptor {
	return model.SourceDescriptor{
		Key:         descriptorKey(types.SourceTypeCuratedList, path),
		Type:        types.SourceTypeCuratedList,
		Locator:     path,
		DisplayName: curatedListName(path),
	}
}

// Company builds an on-demand descriptor for a company lookup
func (c *Catalog) Company(name string) (*model.SourceDescriptor, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, goerr.New("company name is required")
	}
	if c.cfg.CompanyURLPattern == "" {
		return nil, goerr.New("company lookup is not configured")
	}
	return &model.SourceDescriptor{
		Key:         descriptorKey(types.SourceTypeCompany, name),
		Type:        types.SourceTypeCompany,
		Locator:     fmt.Sprintf(c.cfg.CompanyURLPattern, name),
		DisplayName: name,
	}, nil
}

func (c *Catalog) categoryLocator(id string) string {
	if c.cfg.CategoryURLPattern == "" {
		return id
	}
	return fmt.Sprintf(c.cfg.CategoryURLPattern, id)
}

func curatedListName(path string) string {
	name := path
	if idx := strings.LastIndexAny(name, "/\\"); idx >= 0 {
		name = name[idx+1:]
	}
	if idx := strings.LastIndex(name, "."); idx > 0 {
		name = name[:idx]
	}
	return name
}

func descriptorKey(sourceType types.SourceType, id string) string {
	return string(sourceType) + ":" + id
}
