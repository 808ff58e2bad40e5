package utils

import (
	"strings"

	"github.com/user/movienote/internal/model"
)

// MaxCastNames is how many cast names a detail lookup keeps.
const MaxCastNames = 5

// ExtractYear returns the year part of a provider date such as
// "1999-03-21", or "N/A" when the date is empty or has no 4-digit year.
func ExtractYear(date string) string {
	year, _, _ := strings.Cut(strings.TrimSpace(date), "-")
	if len(year) != 4 {
		return model.NotAvailable
	}
	for _, r := range year {
		if r < '0' || r > '9' {
			return model.NotAvailable
		}
	}
	return year
}

// PosterURL joins an image base, a size such as "w342" and a provider
// poster path. A missing path yields "N/A".
func PosterURL(base, size, path string) string {
	if path == "" {
		return model.NotAvailable
	}
	return strings.TrimRight(base, "/") + "/" + size + path
}

// JoinNames joins up to max names with ", ".
func JoinNames(names []string, max int) string {
	if len(names) > max {
		names = names[:max]
	}
	return strings.Join(names, ", ")
}

// TrimNameList cuts a comma-separated name list such as OMDB's Actors
// field down to max entries.
func TrimNameList(list string, max int) string {
	if list == "" || list == model.NotAvailable {
		return list
	}
	parts := strings.Split(list, ",")
	names := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			names = append(names, p)
		}
	}
	return JoinNames(names, max)
}
