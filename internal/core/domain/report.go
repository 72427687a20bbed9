package domain

// SkippedFile records a file or location that produced no documents.
type SkippedFile struct {
	// Location is the location string being processed.
	Location string

	// Path is the file path, empty when the whole location was skipped.
	Path string

	// Reason is the error message explaining the skip.
	Reason string
}

// LoadReport summarises one batch load.
// Skips are only visible here and in logs; they never fail the batch.
type LoadReport struct {
	// Locations is the number of location strings processed.
	Locations int

	// Listed is the number of eligible files found by the tree listers.
	Listed int

	// Loaded is the number of files that produced at least one document.
	Loaded int

	// Documents is the total number of documents produced.
	Documents int

	// Skipped lists every file or location that produced nothing.
	Skipped []SkippedFile
}

// Skip records a skipped file or location.
func (r *LoadReport) Skip(location, path string, err error) {
	reason := ""
	if err != nil {
		reason = err.Error()
	}
	r.Skipped = append(r.Skipped, SkippedFile{
		Location: location,
		Path:     path,
		Reason:   reason,
	})
}
