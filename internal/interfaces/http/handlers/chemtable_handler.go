package handlers

import (
	"context"
	"net/http"

	"github.com/turtacn/sds-wizard/internal/application/chemtable"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

type ChemtableService interface {
	Autopopulate(ctx context.Context, cas string) (*chemtable.Entry, error)
}

type ChemtableHandler struct {
	svc    ChemtableService
	logger logging.Logger
}

func NewChemtableHandler(svc ChemtableService, logger logging.Logger) *ChemtableHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &ChemtableHandler{svc: svc, logger: logger.Named("chemtable_handler")}
}

// Autopopulate handles GET /api/v1/chemtable/autopopulate?cas=.
func (h *ChemtableHandler) Autopopulate(w http.ResponseWriter, r *http.Request) {
	entry, err := h.svc.Autopopulate(r.Context(), r.URL.Query().Get("cas"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

//Personal.AI order the ending
