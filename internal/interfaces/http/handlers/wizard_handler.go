package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/turtacn/sds-wizard/internal/application/wizard"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

// WizardService is the slice of *wizard.Service the handler drives.
type WizardService interface {
	Start(ctx context.Context) (wizard.WizardState, error)
	State(ctx context.Context, id string) (wizard.WizardState, error)
	InitialData(ctx context.Context, id string, step wizard.Step) (wizard.Fields, error)
	Submit(ctx context.Context, id string, step wizard.Step, raw wizard.Fields) (*wizard.SubmitResult, error)
	Back(ctx context.Context, id string) (wizard.WizardState, error)
}

type WizardHandler struct {
	svc    WizardService
	logger logging.Logger
}

func NewWizardHandler(svc WizardService, logger logging.Logger) *WizardHandler {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	return &WizardHandler{svc: svc, logger: logger.Named("wizard_handler")}
}

type CreateSessionResponse struct {
	SessionID string      `json:"session_id"`
	Step      wizard.Step `json:"step"`
}

type StepDataResponse struct {
	Step   wizard.Step   `json:"step"`
	Fields wizard.Fields `json:"fields"`
}

type AdvanceResponse struct {
	Step   wizard.Step   `json:"step"`
	Next   wizard.Step   `json:"next"`
	Fields wizard.Fields `json:"fields"`
}

type CompleteResponse struct {
	RecordID    string `json:"record_id"`
	DocumentURL string `json:"document_url"`
}

// DocumentPath is the download route of a completed record.
func DocumentPath(recordID string) string {
	return "/api/v1/sds/" + recordID + "/document"
}

// CreateSession handles POST /api/v1/wizard/sessions.
func (h *WizardHandler) CreateSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Start(r.Context())
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, CreateSessionResponse{SessionID: st.SessionID, Step: st.Current})
}

// GetSession handles GET /api/v1/wizard/sessions/{id}.
func (h *WizardHandler) GetSession(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.State(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Summary())
}

// GetStep handles GET /api/v1/wizard/sessions/{id}/steps/{step}.
func (h *WizardHandler) GetStep(w http.ResponseWriter, r *http.Request) {
	step, ok := h.parseStep(w, r)
	if !ok {
		return
	}
	f, err := h.svc.InitialData(r.Context(), chi.URLParam(r, "id"), step)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if f == nil {
		f = wizard.Fields{}
	}
	writeJSON(w, http.StatusOK, StepDataResponse{Step: step, Fields: f})
}

// SubmitStep handles POST /api/v1/wizard/sessions/{id}/steps/{step}.
// Rejected input is a 422 carrying the per-field messages; accepting
// section16 answers 201 with the new record.
func (h *WizardHandler) SubmitStep(w http.ResponseWriter, r *http.Request) {
	step, ok := h.parseStep(w, r)
	if !ok {
		return
	}
	var raw wizard.Fields
	if err := decodeJSON(w, r, &raw); err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if raw == nil {
		raw = wizard.Fields{}
	}

	res, err := h.svc.Submit(r.Context(), chi.URLParam(r, "id"), step, raw)
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	if !res.Outcome.Valid() {
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{
			Code:    errors.ErrCodeSDSValidation.String(),
			Message: errors.DefaultMessageForCode(errors.ErrCodeSDSValidation),
			Fields:  res.Outcome.Errors,
		})
		return
	}
	if res.Record != nil {
		id := res.Record.ID.String()
		writeJSON(w, http.StatusCreated, CompleteResponse{RecordID: id, DocumentURL: DocumentPath(id)})
		return
	}
	writeJSON(w, http.StatusOK, AdvanceResponse{Step: res.Outcome.Step, Next: res.Outcome.Next, Fields: res.Outcome.Fields})
}

// Back handles POST /api/v1/wizard/sessions/{id}/back.
func (h *WizardHandler) Back(w http.ResponseWriter, r *http.Request) {
	st, err := h.svc.Back(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(w, h.logger, err)
		return
	}
	writeJSON(w, http.StatusOK, st.Summary())
}

func (h *WizardHandler) parseStep(w http.ResponseWriter, r *http.Request) (wizard.Step, bool) {
	raw := chi.URLParam(r, "step")
	step, ok := wizard.ParseStep(raw)
	if !ok {
		writeAppError(w, h.logger, errors.InvalidParam("unknown step").WithDetail(raw))
		return "", false
	}
	return step, true
}

//Personal.AI order the ending
