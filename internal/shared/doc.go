// Package shared provides common utilities and test helpers used across the
// ChurnLens codebase. It serves as a central location for functionality that
// doesn't belong to any specific domain or architectural layer.
//
// The testutil subpackage provides a buffered slog handler for asserting on
// structured log output in tests. This package should never contain business
// logic or depend on other internal packages.
package shared
