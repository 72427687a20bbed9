// Package normalisers provides implementations of the Normaliser interface
// for the document formats readers fetch. Each normaliser turns one fetched
// file into one or more documents.
//
// Normalisers are registered with a Registry at startup. The Registry
// dispatches on MIME type: exact matches first, then the "*" fallback.
package normalisers
