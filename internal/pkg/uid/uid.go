// Package uid generates identifiers for rows, tokens and correlation IDs.
package uid

// NumberID generates sortable numeric identifiers.
type NumberID interface {
	Generate() int64
}

// StringID generates opaque string identifiers.
type StringID interface {
	Generate() string
}
