package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

// Step names a wizard step in URL form, e.g. "section1".
type Step string

// Terminal steps reported by the server.
const (
	StepDone  Step = "done"
	StepError Step = "error"
)

// Fields is the form payload of one step.  Values are strings, string
// slices, or numbers as the step's form defines.
type Fields map[string]interface{}

// Session is returned when a session is created.
type Session struct {
	SessionID string `json:"session_id"`
	Step      Step   `json:"step"`
}

// SessionSummary is the server's view of a session.
type SessionSummary struct {
	SessionID string    `json:"session_id"`
	Step      Step      `json:"step"`
	Completed []Step    `json:"completed"`
	Cached    []Step    `json:"cached"`
	RecordID  string    `json:"record_id,omitempty"`
	Failure   string    `json:"failure,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Done reports whether the session completed.
func (s *SessionSummary) Done() bool { return s.Step == StepDone }

// StepData is the prefill for one step.
type StepData struct {
	Step   Step   `json:"step"`
	Fields Fields `json:"fields"`
}

// Advance is the result of an accepted step that was not the last.
type Advance struct {
	Step   Step   `json:"step"`
	Next   Step   `json:"next"`
	Fields Fields `json:"fields"`
}

// Completion is the result of accepting the last step.
type Completion struct {
	RecordID    string `json:"record_id"`
	DocumentURL string `json:"document_url"`
}

// SubmitResult holds exactly one of Advance or Completion.
type SubmitResult struct {
	Advance    *Advance
	Completion *Completion
}

// WizardClient drives wizard sessions.
type WizardClient struct {
	client *Client
}

func sessionPath(id string) string {
	return apiPrefix + "/wizard/sessions/" + url.PathEscape(id)
}

func requireSession(id string) error {
	if id == "" {
		return errors.InvalidParam("session id is required")
	}
	return nil
}

// CreateSession starts a new session at the first step.
func (w *WizardClient) CreateSession(ctx context.Context) (*Session, error) {
	var out Session
	if _, err := w.client.post(ctx, apiPrefix+"/wizard/sessions/", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (w *WizardClient) GetSession(ctx context.Context, id string) (*SessionSummary, error) {
	if err := requireSession(id); err != nil {
		return nil, err
	}
	var out SessionSummary
	if err := w.client.get(ctx, sessionPath(id)+"/", &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// GetStep returns the prefill for step, drawn from PubChem for the
// enriched steps.
func (w *WizardClient) GetStep(ctx context.Context, id string, step Step) (*StepData, error) {
	if err := requireSession(id); err != nil {
		return nil, err
	}
	var out StepData
	if err := w.client.get(ctx, sessionPath(id)+"/steps/"+url.PathEscape(string(step)), &out); err != nil {
		return nil, err
	}
	if out.Fields == nil {
		out.Fields = Fields{}
	}
	return &out, nil
}

// SubmitStep posts the step's form.  A rejected form is returned as an
// *APIError whose IsValidation is true and whose Fields name the offending
// inputs.
func (w *WizardClient) SubmitStep(ctx context.Context, id string, step Step, fields Fields) (*SubmitResult, error) {
	if err := requireSession(id); err != nil {
		return nil, err
	}
	if fields == nil {
		fields = Fields{}
	}

	// Both response shapes decode from one object; the status tells them
	// apart.
	var raw struct {
		Advance
		Completion
	}
	status, err := w.client.post(ctx, sessionPath(id)+"/steps/"+url.PathEscape(string(step)), fields, &raw)
	if err != nil {
		return nil, err
	}
	if status == http.StatusCreated {
		c := raw.Completion
		return &SubmitResult{Completion: &c}, nil
	}
	a := raw.Advance
	return &SubmitResult{Advance: &a}, nil
}

// Back moves the session to the previous step.
func (w *WizardClient) Back(ctx context.Context, id string) (*SessionSummary, error) {
	if err := requireSession(id); err != nil {
		return nil, err
	}
	var out SessionSummary
	if _, err := w.client.post(ctx, sessionPath(id)+"/back", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

//Personal.AI order the ending
