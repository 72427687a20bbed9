// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
//   - Reader: Lists and fetches files from a remote repository host
//   - Normaliser: Turns fetched content into document records
//   - NormaliserRegistry: Selects the normaliser for a MIME type
//   - TokenProvider: Supplies the access token for a reader
//   - ConfigStore: Application configuration
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - Extractor: Rich PDF/EPUB extraction service. Without it, binary files
//     are not listed and only local fallback extraction exists.
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter, connector, or normaliser package
package driven
