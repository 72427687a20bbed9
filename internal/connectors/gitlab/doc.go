// Package gitlab implements a reader for files in GitLab repositories.
//
// A location addresses a folder on a branch of a project:
//
//	project/branch[/folder...]
//
// The project is a numeric ID or a URL-encoded path such as
// group%2Fproject. The branch is mandatory.
//
// Folders are listed one level per API call and walked depth-first with an
// explicit stack, so deeply nested repositories do not grow the call stack.
// A folder that fails to list is skipped; the rest of the location is still
// returned together with a [domain.PartialListingError].
//
// Raw file contents are fetched from the repository files API. Binary
// files (.pdf) are base64-encoded for transport.
package gitlab
