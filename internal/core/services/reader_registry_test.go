package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReaderRegistry_List(t *testing.T) {
	r := NewReaderRegistry()

	readers := r.List()

	require.Len(t, readers, 2)
	assert.Equal(t, "github", readers[0].ID)
	assert.Equal(t, "GithubReader", readers[0].Name)
	assert.Equal(t, "{owner}/{repo}/{branch}/{folder}", readers[0].LocationFormat)
	assert.Equal(t, KeyGitHubToken, readers[0].TokenKey)
	assert.Equal(t, EnvGitHubToken, readers[0].TokenEnv)

	assert.Equal(t, "gitlab", readers[1].ID)
	assert.Equal(t, "GitLabReader", readers[1].Name)
	assert.Equal(t, "{project}/{branch}/{folder}", readers[1].LocationFormat)
}

func TestReaderRegistry_Get(t *testing.T) {
	r := NewReaderRegistry()

	rt, ok := r.Get("gitlab")
	assert.True(t, ok)
	assert.Equal(t, "GitLabReader", rt.Name)

	_, ok = r.Get("bitbucket")
	assert.False(t, ok)
}
