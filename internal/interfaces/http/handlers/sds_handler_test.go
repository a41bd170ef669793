package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/turtacn/sds-wizard/internal/application/reporting"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/pkg/errors"
)

type mockDocumentRenderer struct {
	mock.Mock
}

func (m *mockDocumentRenderer) Render(ctx context.Context, id uuid.UUID, format reporting.ReportFormat) (*reporting.RenderResult, error) {
	args := m.Called(ctx, id, format)
	res, _ := args.Get(0).(*reporting.RenderResult)
	return res, args.Error(1)
}

func TestSDSHandler_Document(t *testing.T) {
	docs := new(mockDocumentRenderer)
	h := NewSDSHandler(docs, logging.NewNopLogger())
	id := uuid.New()
	docs.On("Render", mock.Anything, id, reporting.FormatPDF).Return(&reporting.RenderResult{
		Content:     []byte("%PDF-1.4"),
		ContentType: "application/pdf",
		FileName:    "SDS_" + id.String() + ".pdf",
	}, nil)

	w := httptest.NewRecorder()
	h.Document(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.Equal(t, `attachment; filename="SDS_`+id.String()+`.pdf"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "%PDF-1.4", w.Body.String())
}

func TestSDSHandler_Preview(t *testing.T) {
	docs := new(mockDocumentRenderer)
	h := NewSDSHandler(docs, nil)
	id := uuid.New()
	docs.On("Render", mock.Anything, id, reporting.FormatHTML).Return(&reporting.RenderResult{
		Content:     []byte("<html></html>"),
		ContentType: reporting.FormatHTML.ContentType(),
	}, nil)

	w := httptest.NewRecorder()
	h.Preview(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, w.Header().Get("Content-Disposition"))
	assert.Contains(t, w.Header().Get("Content-Type"), "text/html")
}

func TestSDSHandler_InvalidID(t *testing.T) {
	docs := new(mockDocumentRenderer)
	h := NewSDSHandler(docs, nil)

	w := httptest.NewRecorder()
	h.Document(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": "not-a-uuid"}))

	assert.Equal(t, http.StatusBadRequest, w.Code)
	docs.AssertNotCalled(t, "Render", mock.Anything, mock.Anything, mock.Anything)
}

func TestSDSHandler_NotFound(t *testing.T) {
	docs := new(mockDocumentRenderer)
	h := NewSDSHandler(docs, nil)
	id := uuid.New()
	docs.On("Render", mock.Anything, id, reporting.FormatPDF).
		Return(nil, errors.New(errors.ErrCodeSDSNotFound, "safety data sheet not found"))

	w := httptest.NewRecorder()
	h.Document(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestSDSHandler_RenderFailure(t *testing.T) {
	docs := new(mockDocumentRenderer)
	h := NewSDSHandler(docs, nil)
	id := uuid.New()
	docs.On("Render", mock.Anything, id, reporting.FormatPDF).
		Return(nil, errors.Wrap(assert.AnError, errors.ErrCodeSDSRender, "failed to print pdf"))

	w := httptest.NewRecorder()
	h.Document(w, withURLParams(httptest.NewRequest(http.MethodGet, "/", nil), map[string]string{"id": id.String()}))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), errors.ErrCodeSDSRender.String())
}

//Personal.AI order the ending
