// Package github implements a reader for files in GitHub repositories.
//
// # Locations
//
// A location addresses a folder on a branch:
//
//	owner/repo[/branch[/folder...]]
//
// The branch defaults to "main". The folder is optional; without it the
// whole repository is listed.
//
// # Listing
//
// Files are listed with one recursive Trees API call per location. Only
// blobs under the folder whose extension is in the allow-list are kept:
// .md, .mdx, .txt and .json, plus .pdf and .epub when an extraction
// service is configured. The order returned by the API is preserved.
//
// # Fetching
//
// Text files are read through the Contents API and base64-decoded. Binary
// files (.pdf, .epub) are downloaded from the download_url returned by the
// Contents API and base64-encoded for transport.
//
// # Authentication
//
// A personal access token is sent as a bearer token. Without a token
// requests are made anonymously and are subject to GitHub's much lower
// unauthenticated rate limit.
//
// # Rate Limiting
//
// Requests may be throttled proactively with a token bucket. Quota headers
// are recorded for logging; the reader never waits for a quota reset and
// never retries.
//
// # Document Structure
//
// Files are emitted with URIs of the form github://{owner}/{repo}/blob/{branch}/{path}.
package github
