package domain

import (
	"strings"
	"time"
)

// Company scopes tickets, roles and numbering sequences.
type Company struct {
	ID        string
	Name      string
	Code      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// ValidateCompanyCode checks the 3-5 uppercase letter convention used in
// ticket numbers.
func ValidateCompanyCode(code string) bool {
	if len(code) < 3 || len(code) > 5 {
		return false
	}
	for _, r := range code {
		if r < 'A' || r > 'Z' {
			return false
		}
	}
	return true
}

// NormalizeCode uppercases and trims a company or ticket type code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
