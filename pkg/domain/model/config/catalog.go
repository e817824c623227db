package config

// CatalogConfig holds the source catalog configuration: the built-in
// ranked lists and the category taxonomy users can select from, plus
// URL templates for lookup-style sources.
type CatalogConfig struct {
	RankedLists        []RankedList
	Categories         []Category
	CategoryURLPattern string
	CompanyURLPattern  string
}

// RankedList is a built-in ranking page source
type RankedList struct {
	ID   string
	Name string
	URL  string
}

// Category is one entry of the category taxonomy
type Category struct {
	ID   string
	Name string
}
