// Package file provides the TOML-backed configuration store.
//
// Settings live in ~/.reporeader/config.toml as nested tables and are
// addressed with dot-notation keys such as "github.token".
package file
