package records

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/aganswers/spotlight/pkg/handlers"
	"github.com/aganswers/spotlight/pkg/routes"
)

// Handler exposes read-only catalog endpoints.
type Handler struct {
	system *System
	logger *slog.Logger
}

// NewHandler creates the records HTTP handler.
func NewHandler(system *System, logger *slog.Logger) *Handler {
	return &Handler{
		system: system,
		logger: logger.With("handler", "records"),
	}
}

// Routes returns the catalog route group.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/documents",
		Routes: []routes.Route{
			routes.Get("", h.list),
			routes.Get("/{id}", h.find),
		},
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("course_name")
	if tenantID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("course_name query parameter is required"))
		return
	}

	results, err := h.system.ListByTenant(r.Context(), tenantID)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, results)
}

func (h *Handler) find(w http.ResponseWriter, r *http.Request) {
	tenantID := r.URL.Query().Get("course_name")
	if tenantID == "" {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("course_name query parameter is required"))
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest,
			fmt.Errorf("invalid document id: %w", err))
		return
	}

	record, err := h.system.Find(r.Context(), tenantID, id)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	handlers.RespondJSON(w, http.StatusOK, record)
}
