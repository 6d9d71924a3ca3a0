package domain

import (
	"sort"
	"strings"
)

// ValidationErrors maps form field names to human-readable messages. All
// violations found in a single validation pass are reported together so a
// caller can display every problem at once.
type ValidationErrors map[string]string

func (v ValidationErrors) Error() string {
	fields := make([]string, 0, len(v))
	for f := range v {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		parts = append(parts, f+": "+v[f])
	}
	return strings.Join(parts, "; ")
}
