package domain

import "time"

// DropdownOption is one selectable entry in a list. ParentValue, when set,
// ties the option to a value in the parent list of a dependent relationship.
type DropdownOption struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	ParentValue string `json:"parent_value,omitempty"`
}

// DropdownList is a named, ordered option set referenced by dropdown fields.
type DropdownList struct {
	ID        string
	Name      string
	Options   []DropdownOption
	CreatedAt time.Time
	UpdatedAt time.Time
}

// DuplicateValues returns option values that appear more than once.
// Values must be unique within a list.
func (l *DropdownList) DuplicateValues() []string {
	seen := make(map[string]bool, len(l.Options))
	var dupes []string
	for _, opt := range l.Options {
		if seen[opt.Value] {
			dupes = append(dupes, opt.Value)
			continue
		}
		seen[opt.Value] = true
	}
	return dupes
}

// OptionsFor returns the options visible for the given parent selection.
// A nil parentValue returns every option (top-level or independent lists).
func (l *DropdownList) OptionsFor(parentValue *string) []DropdownOption {
	if parentValue == nil {
		return l.Options
	}
	filtered := make([]DropdownOption, 0, len(l.Options))
	for _, opt := range l.Options {
		if opt.ParentValue == *parentValue {
			filtered = append(filtered, opt)
		}
	}
	return filtered
}

// HasValue reports whether value is a valid selection, optionally
// constrained to the options visible under parentValue.
func (l *DropdownList) HasValue(value string, parentValue *string) bool {
	for _, opt := range l.OptionsFor(parentValue) {
		if opt.Value == value {
			return true
		}
	}
	return false
}
