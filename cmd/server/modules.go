package main

import (
	"log/slog"
	"net/http"

	"github.com/aganswers/spotlight/internal/config"
	"github.com/aganswers/spotlight/internal/infrastructure"
	"github.com/aganswers/spotlight/internal/ingestion"
	"github.com/aganswers/spotlight/internal/records"
	"github.com/aganswers/spotlight/pkg/handlers"
	"github.com/aganswers/spotlight/pkg/middleware"
	"github.com/aganswers/spotlight/pkg/routes"
)

// buildHandler wires the domain systems and assembles the HTTP handler.
func buildHandler(cfg *config.Config, infra *infrastructure.Infrastructure, logger *slog.Logger) http.Handler {
	catalog := records.New(infra.Database.Connection(), logger)

	resolver := ingestion.NewResolver(infra.Vector, cfg.Ingest.CorpusMaxRetries, logger)

	selector := ingestion.NewSelector(logger,
		ingestion.NewStagedImport(infra.Staging, infra.Vector),
		ingestion.NewDirectUpload(infra.Vector),
		ingestion.NewLocalExtract(infra.AI.Embedder,
			cfg.Ingest.ChunkSize, cfg.Ingest.ChunkOverlap, logger),
	)

	metadata := ingestion.NewExtractor(infra.AI.Summarizer,
		cfg.Ingest.MetadataTimeoutDuration(), logger)

	orchestrator := ingestion.NewOrchestrator(
		&cfg.Ingest,
		infra.RawStore,
		resolver,
		selector,
		infra.Vector,
		metadata,
		catalog,
		logger,
	)

	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		handlers.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"version": cfg.Version,
		})
	})

	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		if !infra.Lifecycle.Ready() {
			handlers.RespondJSON(w, http.StatusServiceUnavailable,
				map[string]string{"status": "starting"})
			return
		}
		handlers.RespondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
	})

	routes.Register(mux,
		ingestion.NewHandler(orchestrator, cfg.Ingest.BatchConcurrency, logger).Routes(),
		records.NewHandler(catalog, logger).Routes(),
	)

	stack := middleware.New()
	stack.Use(middleware.Logger(logger))
	if cfg.CORS.Enabled {
		stack.Use(middleware.CORS(&cfg.CORS))
	}

	return stack.Apply(mux)
}
