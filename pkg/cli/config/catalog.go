package config

import (
	"os"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/pelletier/go-toml/v2"
	"github.com/urfave/cli/v3"

	domainConfig "github.com/ludo-lab/gameshelf/pkg/domain/model/config"
)

// Catalog holds the CLI flag pointing at the catalog configuration file
type Catalog struct {
	path string
}

// Flags returns CLI flags for catalog configuration
func (c *Catalog) Flags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:        "config",
			Aliases:     []string{"c"},
			Usage:       "Path to catalog configuration file (TOML)",
			Category:    "Catalog",
			Sources:     cli.EnvVars("GAMESHELF_CONFIG"),
			Destination: &c.path,
		},
	}
}

// Configure loads and validates the catalog configuration. Without a
// --config flag an empty catalog is returned: curated-list and company
// sources still work, ranked lists and categories are just absent.
func (c *Catalog) Configure() (*domainConfig.CatalogConfig, error) {
	if c.path == "" {
		return &domainConfig.CatalogConfig{}, nil
	}
	app, err := LoadCatalogConfiguration(c.path)
	if err != nil {
		return nil, err
	}
	return app.ToDomainCatalogConfig(), nil
}

// AppConfig represents the catalog configuration file
type AppConfig struct {
	RankedLists        []RankedList `toml:"ranked_list"`
	Categories         []Category   `toml:"category"`
	CategoryURLPattern string       `toml:"category_url_pattern"`
	CompanyURLPattern  string       `toml:"company_url_pattern"`
}

// RankedList represents a built-in ranking source configuration
type RankedList struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
	URL  string `toml:"url"`
}

// Validate checks if the RankedList is valid
func (r *RankedList) Validate() error {
	if r.ID == "" {
		return goerr.New("ranked list ID is required")
	}
	if r.Name == "" {
		return goerr.New("ranked list name is required", goerr.V("id", r.ID))
	}
	if r.URL == "" {
		return goerr.New("ranked list URL is required", goerr.V("id", r.ID))
	}
	return nil
}

// Category represents one entry of the category taxonomy
type Category struct {
	ID   string `toml:"id"`
	Name string `toml:"name"`
}

// Validate checks if the Category is valid
func (c *Category) Validate() error {
	if c.ID == "" {
		return goerr.New("category ID is required")
	}
	if c.Name == "" {
		return goerr.New("category name is required", goerr.V("id", c.ID))
	}
	return nil
}

// Validate checks if the AppConfig is valid
func (a *AppConfig) Validate() error {
	listIDs := make(map[string]bool)
	for _, rl := range a.RankedLists {
		if err := rl.Validate(); err != nil {
			return goerr.Wrap(err, "invalid ranked list")
		}
		if listIDs[rl.ID] {
			return goerr.New("duplicate ranked list ID", goerr.V("id", rl.ID))
		}
		listIDs[rl.ID] = true
	}

	categoryIDs := make(map[string]bool)
	for _, cat := range a.Categories {
		if err := cat.Validate(); err != nil {
			return goerr.Wrap(err, "invalid category")
		}
		if categoryIDs[cat.ID] {
			return goerr.New("duplicate category ID", goerr.V("id", cat.ID))
		}
		categoryIDs[cat.ID] = true
	}

	if len(a.Categories) > 0 && !strings.Contains(a.CategoryURLPattern, "%s") {
		return goerr.New("category_url_pattern must contain %s when categories are configured")
	}
	if a.CompanyURLPattern != "" && !strings.Contains(a.CompanyURLPattern, "%s") {
		return goerr.New("company_url_pattern must contain %s")
	}

	return nil
}

// LoadCatalogConfiguration loads the catalog configuration from a TOML file
func LoadCatalogConfiguration(path string) (*AppConfig, error) {
	// #nosec G304 - path is expected to be provided by CLI argument
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read config file", goerr.V("path", path))
	}

	var config AppConfig
	if err := toml.Unmarshal(data, &config); err != nil {
		return nil, goerr.Wrap(err, "failed to parse TOML config", goerr.V("path", path))
	}

	if err := config.Validate(); err != nil {
		return nil, goerr.Wrap(err, "config validation failed", goerr.V("path", path))
	}

	return &config, nil
}

// ToDomainCatalogConfig converts AppConfig to the domain CatalogConfig
func (a *AppConfig) ToDomainCatalogConfig() *domainConfig.CatalogConfig {
	rankedLists := make([]domainConfig.RankedList, len(a.RankedLists))
	for i, rl := range a.RankedLists {
		rankedLists[i] = domainConfig.RankedList{
			ID:   rl.ID,
			Name: rl.Name,
			URL:  rl.URL,
		}
	}

	categories := make([]domainConfig.Category, len(a.Categories))
	for i, cat := range a.Categories {
		categories[i] = domainConfig.Category{
			ID:   cat.ID,
			Name: cat.Name,
		}
	}

	return &domainConfig.CatalogConfig{
		RankedLists:        rankedLists,
		Categories:         categories,
		CategoryURLPattern: a.CategoryURLPattern,
		CompanyURLPattern:  a.CompanyURLPattern,
	}
}
