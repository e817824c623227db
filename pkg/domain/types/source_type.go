package types

import "fmt"

// SourceType represents the kind of external catalog a source reads from
type SourceType string

const (
	SourceTypeRankedList  SourceType = "ranked_list"
	SourceTypeCuratedList SourceType = "curated_list"
	SourceTypeCategory    SourceType = "category"
	SourceTypeCompany     SourceType = "company"
)

// AllSourceTypes returns all valid source types
func AllSourceTypes() []SourceType {
	return []SourceType{
		SourceTypeRankedList,
		SourceTypeCuratedList,
		SourceTypeCategory,
		SourceTypeCompany,
	}
}

// IsValid checks if the source type is valid
func (s SourceType) IsValid() bool {
	switch s {
	case SourceTypeRankedList,
		SourceTypeCuratedList,
		SourceTypeCategory,
		SourceTypeCompany:
		return true
	default:
		return false
	}
}

// String returns the string representation of the source type
func (s SourceType) String() string {
	return string(s)
}

// ParseSourceType parses a string into a SourceType
func ParseSourceType(s string) (SourceType, error) {
	st := SourceType(s)
	if !st.IsValid() {
		return "", fmt.Errorf("invalid source type: %s", s)
	}
	return st, nil
}
