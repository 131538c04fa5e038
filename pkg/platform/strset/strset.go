// Package strset provides ordered string sets backed by plain slices.
//
// The onboarding form keeps several "set" fields (countries of business,
// business purposes, sanctioned countries) whose storage is a set but whose
// display order is insertion order. All functions return new slices and never
// modify their input.
package strset

import "strings"

// Add appends value when it is non-blank and not yet present.
// Comparison is exact after trimming whitespace.
func Add(values []string, value string) []string {
	value = strings.TrimSpace(value)
	out := clone(values)
	if value == "" || Contains(out, value) {
		return out
	}
	return append(out, value)
}

// Remove drops every occurrence of value.
func Remove(values []string, value string) []string {
	value = strings.TrimSpace(value)
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v != value {
			out = append(out, v)
		}
	}
	return out
}

// Contains reports whether value is present.
func Contains(values []string, value string) bool {
	for _, v := range values {
		if v == value {
			return true
		}
	}
	return false
}

// Normalize trims, drops blanks and removes duplicates, preserving first-seen order.
//
// Example:
//
//	Normalize([]string{"  Switzerland ", "Germany", "Switzerland", ""})
//	// Returns: []string{"Switzerland", "Germany"}
func Normalize(values []string) []string {
	if values == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, ok := seen[trimmed]; ok {
			continue
		}
		seen[trimmed] = struct{}{}
		out = append(out, trimmed)
	}
	return out
}

// ContainsFold reports whether value is present ignoring case.
func ContainsFold(values []string, value string) bool {
	for _, v := range values {
		if strings.EqualFold(v, value) {
			return true
		}
	}
	return false
}

func clone(values []string) []string {
	out := make([]string, len(values), len(values)+1)
	copy(out, values)
	return out
}
