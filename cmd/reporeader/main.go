// Command reporeader fetches documents from GitHub and GitLab repositories.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	_ "github.com/joho/godotenv/autoload"

	"github.com/custodia-labs/reporeader/internal/adapters/driven/auth"
	"github.com/custodia-labs/reporeader/internal/adapters/driven/config/file"
	"github.com/custodia-labs/reporeader/internal/adapters/driven/extraction/unstructured"
	"github.com/custodia-labs/reporeader/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/reporeader/internal/adapters/driving/cli"
	"github.com/custodia-labs/reporeader/internal/connectors/github"
	"github.com/custodia-labs/reporeader/internal/connectors/gitlab"
	"github.com/custodia-labs/reporeader/internal/core/domain"
	"github.com/custodia-labs/reporeader/internal/core/ports/driven"
	"github.com/custodia-labs/reporeader/internal/core/ports/driving"
	"github.com/custodia-labs/reporeader/internal/core/services"
	"github.com/custodia-labs/reporeader/internal/logger"
	"github.com/custodia-labs/reporeader/internal/normalisers"
	"github.com/custodia-labs/reporeader/internal/normalisers/epub"
	"github.com/custodia-labs/reporeader/internal/normalisers/markdown"
	"github.com/custodia-labs/reporeader/internal/normalisers/pdf"
	"github.com/custodia-labs/reporeader/internal/normalisers/plaintext"
	"github.com/custodia-labs/reporeader/internal/normalisers/structured"
	"github.com/custodia-labs/reporeader/internal/postprocessors"
	"github.com/custodia-labs/reporeader/internal/postprocessors/chunker"
)

// version is set at build time via -ldflags "-X main.version=...".
var version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logger.Error(err, "reporeader failed")
		stop()
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	settingsService := services.NewSettingsService(openConfigStore())

	factory := services.NewReaderFactory(settingsService.Get, auth.ForReader)
	factory.Register(github.ReaderType, func(s domain.Settings, tp driven.TokenProvider) (driven.Reader, error) {
		return github.New(s, tp)
	})
	factory.Register(gitlab.ReaderType, func(s domain.Settings, tp driven.TokenProvider) (driven.Reader, error) {
		return gitlab.New(s, tp)
	})

	registry := normalisers.NewRegistry(
		plaintext.New(),
		markdown.New(),
		structured.New(),
		pdf.New(),
		epub.New(),
	)

	cli.SetVersion(version)
	cli.Configure(cli.Services{
		Settings: settingsService,
		Readers:  services.NewReaderRegistry(),
		NewLoader: func(opts cli.LoadOptions) (driving.Loader, error) {
			return buildLoader(settingsService, factory, registry, opts)
		},
	})

	return cli.Execute(ctx)
}

// openConfigStore opens the user's config file. Without a usable home
// directory settings come from the environment only and are not saved.
func openConfigStore() driven.ConfigStore {
	store, err := file.NewConfigStore("")
	if err != nil {
		logger.Warn("Config file unavailable, using environment only: %v", err)
		return memory.NewConfigStore()
	}
	return store
}

// buildLoader resolves settings and assembles a loader for one fetch.
func buildLoader(
	settingsService *services.SettingsService,
	factory *services.ReaderFactory,
	registry *normalisers.Registry,
	opts cli.LoadOptions,
) (driving.Loader, error) {
	settings, err := settingsService.Get()
	if err != nil {
		return nil, err
	}

	var extractor driven.Extractor
	if settings.Extraction.IsConfigured() {
		extractor = unstructured.FromSettings(settings.Extraction, 0)
	}

	workers := settings.Fetch.Workers
	if opts.Workers > 0 {
		workers = opts.Workers
	}
	if workers > domain.MaxWorkers {
		return nil, fmt.Errorf("%w: --workers must be at most %d", domain.ErrInvalidInput, domain.MaxWorkers)
	}

	loaderOpts := []services.LoaderOption{
		services.WithWorkers(workers),
		services.WithValidation(opts.Validate),
		services.WithProgress(opts.Progress),
	}
	if opts.ChunkSize > 0 {
		loaderOpts = append(loaderOpts, services.WithPostProcessing(postprocessors.NewPipeline(
			chunker.New(chunker.WithChunkSize(opts.ChunkSize), chunker.WithOverlap(opts.ChunkOverlap)),
		)))
	}

	return services.NewLoader(factory, services.NewAssembler(registry, extractor), loaderOpts...), nil
}
