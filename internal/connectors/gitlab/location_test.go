package gitlab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/reporeader/internal/core/domain"
)

func TestParseLocation(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  Location
	}{
		{
			name:  "project and branch",
			input: "42/main",
			want:  Location{Project: "42", Branch: "main"},
		},
		{
			name:  "branch is taken verbatim",
			input: "42/develop/docs",
			want:  Location{Project: "42", Branch: "develop", Folder: "docs"},
		},
		{
			name:  "nested folder",
			input: "42/main/docs/guide/advanced",
			want:  Location{Project: "42", Branch: "main", Folder: "docs/guide/advanced"},
		},
		{
			name:  "encoded project path is unescaped",
			input: "group%2Fdocs/main",
			want:  Location{Project: "group/docs", Branch: "main"},
		},
		{
			name:  "surrounding slashes ignored",
			input: "/42/main/docs/",
			want:  Location{Project: "42", Branch: "main", Folder: "docs"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseLocation(tt.input)

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseLocation_Invalid(t *testing.T) {
	for _, input := range []string{"", "42", "42/", "/main", "bad%zz/main"} {
		t.Run(input, func(t *testing.T) {
			_, err := ParseLocation(input)

			assert.ErrorIs(t, err, domain.ErrInvalidLocation)
		})
	}
}

func TestLocation_String(t *testing.T) {
	loc := Location{Project: "group/docs", Branch: "main", Folder: "guide"}

	assert.Equal(t, "group%2Fdocs/main/guide", loc.String())
}

func TestResolveWebURL(t *testing.T) {
	tests := []struct {
		name     string
		uri      string
		metadata map[string]any
		want     string
	}{
		{"web_url wins", "gitlab://42/-/blob/main/a.md", map[string]any{"web_url": "https://git.example.com/g/p/-/blob/main/a.md"}, "https://git.example.com/g/p/-/blob/main/a.md"},
		{"uri fallback", "gitlab://g/p/-/blob/main/a.md", nil, "https://gitlab.com/g/p/-/blob/main/a.md"},
		{"foreign uri", "github://o/r/blob/main/a.md", nil, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveWebURL(tt.uri, tt.metadata))
		})
	}
}
