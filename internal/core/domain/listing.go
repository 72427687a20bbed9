package domain

import (
	"fmt"
	"strings"
)

// FolderError records a folder whose listing failed.
type FolderError struct {
	Folder string
	Err    error
}

// PartialListingError is returned alongside the files that could be listed
// when some sub-folders of a location failed. Callers keep the files and
// record each failed folder as a skip.
type PartialListingError struct {
	Failed []FolderError
}

func (e *PartialListingError) Error() string {
	folders := make([]string, 0, len(e.Failed))
	for _, f := range e.Failed {
		folders = append(folders, f.Folder)
	}
	return fmt.Sprintf("partial listing: %d folder(s) failed: %s", len(e.Failed), strings.Join(folders, ", "))
}

// Unwrap returns the underlying folder errors.
func (e *PartialListingError) Unwrap() []error {
	errs := make([]error, 0, len(e.Failed))
	for _, f := range e.Failed {
		errs = append(errs, f.Err)
	}
	return errs
}
