// Package textutil provides small text helpers shared by the CLI and the
// renderers: filesystem-safe names for generated charts and human-readable
// labels for FIT profile identifiers.
package textutil
