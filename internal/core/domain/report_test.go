package domain

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadReport_Skip(t *testing.T) {
	var report LoadReport

	report.Skip("acme/docs", "guide/a.pdf", errors.New("extraction failed"))
	report.Skip("acme", "", nil)

	require.Len(t, report.Skipped, 2)
	assert.Equal(t, SkippedFile{Location: "acme/docs", Path: "guide/a.pdf", Reason: "extraction failed"}, report.Skipped[0])
	assert.Equal(t, "", report.Skipped[1].Reason)
}
