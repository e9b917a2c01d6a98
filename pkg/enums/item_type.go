package enums

import "fmt"

// ItemType distinguishes individually-priced items from fixed bundles.
type ItemType string

const (
	ItemTypeSingle ItemType = "single"
	ItemTypeBundle ItemType = "bundle"
)

var validItemTypes = []ItemType{
	ItemTypeSingle,
	ItemTypeBundle,
}

// String implements fmt.Stringer.
func (i ItemType) String() string {
	return string(i)
}

// IsValid reports whether the value is a known ItemType.
func (i ItemType) IsValid() bool {
	for _, candidate := range validItemTypes {
		if candidate == i {
			return true
		}
	}
	return false
}

// ParseItemType converts the raw string to ItemType.
func ParseItemType(value string) (ItemType, error) {
	for _, candidate := range validItemTypes {
		if string(candidate) == value {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("invalid item type %q", value)
}
