package cli

import (
	"context"
	"sort"

	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
)

// mockSettingsService implements driving.SettingsService for testing.
type mockSettingsService struct {
	values map[string]string
	env    map[string]string
	getErr error
	setErr error
}

func newMockSettingsService() *mockSettingsService {
	return &mockSettingsService{
		values: map[string]string{"gitlab.url": "https://gitlab.com"},
		env:    map[string]string{"github.token": "GITHUB_TOKEN"},
	}
}

func (m *mockSettingsService) Get() (*domain.Settings, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	s := domain.DefaultSettings()
	return &s, nil
}

func (m *mockSettingsService) Set(key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	if value == "" {
		delete(m.values, key)
		return nil
	}
	m.values[key] = value
	return nil
}

func (m *mockSettingsService) Keys() []string {
	return []string{"github.token", "gitlab.token", "gitlab.url", "fetch.workers"}
}

func (m *mockSettingsService) Effective(key string) (string, string) {
	v, ok := m.values[key]
	if !ok {
		return "", "default"
	}
	return v, "config"
}

func (m *mockSettingsService) EnvVar(key string) string {
	return m.env[key]
}

func (m *mockSettingsService) Path() string {
	return "/home/test/.reporeader/config.toml"
}

// mockReaderRegistry implements driving.ReaderRegistry for testing.
type mockReaderRegistry struct {
	readers map[string]domain.ReaderType
}

func newMockReaderRegistry() *mockReaderRegistry {
	return &mockReaderRegistry{readers: map[string]domain.ReaderType{
		"github": {
			ID: "github", Name: "GithubReader", Description: "GitHub files",
			LocationFormat: "{owner}/{repo}/{branch}/{folder}",
			TokenKey:       "github.token", TokenEnv: "GITHUB_TOKEN",
		},
		"gitlab": {
			ID: "gitlab", Name: "GitLabReader", Description: "GitLab files",
			LocationFormat: "{project}/{branch}/{folder}",
			TokenKey:       "gitlab.token", TokenEnv: "GITLAB_TOKEN",
		},
	}}
}

func (m *mockReaderRegistry) List() []domain.ReaderType {
	ids := make([]string, 0, len(m.readers))
	for id := range m.readers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	result := make([]domain.ReaderType, 0, len(ids))
	for _, id := range ids {
		result = append(result, m.readers[id])
	}
	return result
}

func (m *mockReaderRegistry) Get(id string) (domain.ReaderType, bool) {
	rt, ok := m.readers[id]
	return rt, ok
}

// mockLoader implements driving.Loader for testing.
type mockLoader struct {
	opts      LoadOptions
	docs      []domain.Document
	report    *domain.LoadReport
	err       error
	reader    string
	locations []string
	docType   string
}

func (m *mockLoader) Load(
	_ context.Context,
	readerType string,
	locations []string,
	docType string,
) ([]domain.Document, *domain.LoadReport, error) {
	m.reader = readerType
	m.locations = locations
	m.docType = docType
	if m.opts.Progress != nil {
		for _, loc := range locations {
			m.opts.Progress(domain.RemoteFile{Location: loc, Path: "x"}, nil)
		}
	}
	return m.docs, m.report, m.err
}

// setupServices installs mocks and returns a cleanup func.
func setupServices(loader *mockLoader) (*mockSettingsService, func()) {
	oldSettings, oldRegistry, oldLoader := settingsService, readerRegistry, newLoader

	settings := newMockSettingsService()
	settingsService = settings
	readerRegistry = newMockReaderRegistry()
	newLoader = func(opts LoadOptions) (driving.Loader, error) {
		loader.opts = opts
		return loader, nil
	}

	return settings, func() {
		settingsService, readerRegistry, newLoader = oldSettings, oldRegistry, oldLoader
	}
}
