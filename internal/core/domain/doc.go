// Package domain defines the core business entities for reporeader.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - RemoteFile: A file listed by a reader, not yet fetched
//   - RawDocument: Content fetched from a remote repository
//   - Document: The uniform record handed to downstream ingestion
//   - LoadReport: Per-batch summary of loaded and skipped files
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. All other packages depend on
// domain, never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library, uuid (document IDs), ozzo-validation
//     (settings rules)
//   - Cannot Import: Any internal/ package
package domain
