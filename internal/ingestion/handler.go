package ingestion

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/aganswers/spotlight/pkg/handlers"
	"github.com/aganswers/spotlight/pkg/routes"
)

// Handler exposes the ingestion endpoints.
type Handler struct {
	orchestrator *Orchestrator
	concurrency  int
	logger       *slog.Logger
}

// NewHandler creates the ingestion HTTP handler.
func NewHandler(orchestrator *Orchestrator, concurrency int, logger *slog.Logger) *Handler {
	return &Handler{
		orchestrator: orchestrator,
		concurrency:  concurrency,
		logger:       logger.With("handler", "ingestion"),
	}
}

// Routes returns the ingestion route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Routes: []routes.Route{
			routes.Post("/ingest", h.ingest),
			routes.Post("/ingest/batch", h.ingestBatch),
			routes.Delete("/documents", h.remove),
		},
	}
}

func (h *Handler) ingest(w http.ResponseWriter, r *http.Request) {
	var req Request
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}

	result, err := h.orchestrator.Ingest(r.Context(), req)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, result)
}

type batchRequest struct {
	Documents []Request `json:"documents"`
}

type batchItem struct {
	SourcePointer string  `json:"s3_path"`
	Result        *Result `json:"result,omitempty"`
	Error         string  `json:"error,omitempty"`
}

// ingestBatch processes documents concurrently. Individual failures are
// reported per item; the batch itself always returns 200 once every item
// has an outcome.
func (h *Handler) ingestBatch(w http.ResponseWriter, r *http.Request) {
	var req batchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("invalid request body: %w", err))
		return
	}
	if len(req.Documents) == 0 {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("documents list is empty"))
		return
	}

	items := make([]batchItem, len(req.Documents))

	group, ctx := errgroup.WithContext(r.Context())
	group.SetLimit(h.concurrency)

	for i, doc := range req.Documents {
		group.Go(func() error {
			result, err := h.orchestrator.Ingest(ctx, doc)
			item := batchItem{SourcePointer: doc.SourcePointer, Result: result}
			if err != nil {
				item.Error = err.Error()
			}
			items[i] = item
			return nil
		})
	}

	// Workers never return errors; Wait only observes context cancellation.
	_ = group.Wait()

	handlers.RespondJSON(w, http.StatusOK, map[string]any{"items": items})
}

func (h *Handler) remove(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("course_name")
	sourcePointer := r.URL.Query().Get("s3_path")
	if tenantID == "" || sourcePointer == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("course_name and s3_path query parameters are required"))
		return
	}

	if err := h.orchestrator.Remove(r.Context(), tenantID, sourcePointer); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
