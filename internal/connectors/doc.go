// Package connectors holds the repository readers. Each reader parses a
// location string, lists the eligible files under it and fetches their
// content from one host's REST API (github, gitlab).
//
// Readers are registered with the ReaderFactory at startup. throttle and
// filetype are shared helpers for request pacing and extension filtering.
package connectors
