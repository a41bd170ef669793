package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// DocumentRenderer is the slice of *reporting.Service the handler uses.
type DocumentRenderer interface {
	Render(ctx context.Context, id uuid.UUID, format reporting.ReportFormat) (*reporting.RenderResult, error)
}

type SDSHandler struct {
	docs   DocumentRenderer
	logger logging.Logger
}

func NewSDSHandler(docs DocumentRenderer, logger logging.Logger) *SDSHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &SDSHandler{docs: docs, logger: logger.Named("sds_handler")}
}

// Document handles GET /api/v1/sds/{id}/document and streams the PDF as an
// attachment.
func (h *SDSHandler) Document(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, reporting.FormatPDF, "attachment")
}

// Preview handles GET /api/v1/sds/{id}/preview.
func (h *SDSHandler) Preview(w http.ResponseWriter, r *http.Request) {
	h.render(w, r, reporting.FormatHTML, "")
}

func (h *SDSHandler) render(w http.ResponseWriter, r *http.Request, format reporting.ReportFormat, disposition string) {
	raw := chi.URLParam(r, "id")
	id, err := uuid.Parse(raw)
	if err != nil {
		writeAppError(w, h.logger, errors.InvalidParam("invalid record id").WithDetail(raw))
		return
	}

	res, err := h.docs.Render(r.Context(), id, format)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Length", strconv.Itoa(len(res.Content)))
	if disposition != "" {
		w.Header().Set("Content-Disposition", disposition+`; filename="`+res.FileName+`"`)
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(res.Content)
}

//Personal.AI order the ending
