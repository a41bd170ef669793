package client

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turtacn/sds-wizard/pkg/errors"
)

const (
	testSessionID = "6f1c1d7e-2c36-4a0e-9a39-2b8f1f0b2f51"
	testRecordID  = "0b9a7f64-5b8e-4d0b-a8a7-3c8c3f2e9d10"
)

func TestWizard_CreateSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/api/v1/wizard/sessions/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"session_id":"` + testSessionID + `","step":"section1"}`))
	})

	sess, err := c.Wizard().CreateSession(context.Background())
	require.NoError(t, err)
	assert.Equal(t, testSessionID, sess.SessionID)
	assert.Equal(t, Step("section1"), sess.Step)
}

func TestWizard_GetSession(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wizard/sessions/"+testSessionID+"/", r.URL.Path)
		_, _ = w.Write([]byte(`{"session_id":"` + testSessionID + `","step":"done","completed":["section1"],"cached":[],"record_id":"` + testRecordID + `","updated_at":"2024-03-01T10:00:00Z"}`))
	})

	sum, err := c.Wizard().GetSession(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.True(t, sum.Done())
	assert.Equal(t, []Step{"section1"}, sum.Completed)
	assert.Equal(t, testRecordID, sum.RecordID)
	assert.Equal(t, 2024, sum.UpdatedAt.Year())
}

func TestWizard_RequiresSessionID(t *testing.T) {
	c, err := NewClient("http://sds.example.com")
	require.NoError(t, err)
	ctx := context.Background()

	_, err = c.Wizard().GetSession(ctx, "")
	assert.True(t, errors.IsValidation(err))
	_, err = c.Wizard().GetStep(ctx, "", "section2")
	assert.True(t, errors.IsValidation(err))
	_, err = c.Wizard().SubmitStep(ctx, "", "section2", nil)
	assert.True(t, errors.IsValidation(err))
	_, err = c.Wizard().Back(ctx, "")
	assert.True(t, errors.IsValidation(err))
}

func TestWizard_GetStep(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wizard/sessions/"+testSessionID+"/steps/section2", r.URL.Path)
		_, _ = w.Write([]byte(`{"step":"section2","fields":{"signal_word":"Danger","pictograms":["GHS02"]}}`))
	})

	data, err := c.Wizard().GetStep(context.Background(), testSessionID, "section2")
	require.NoError(t, err)
	assert.Equal(t, "Danger", data.Fields["signal_word"])
	assert.Equal(t, []interface{}{"GHS02"}, data.Fields["pictograms"])
}

func TestWizard_GetStep_NilFields(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"step":"section5"}`))
	})

	data, err := c.Wizard().GetStep(context.Background(), testSessionID, "section5")
	require.NoError(t, err)
	assert.NotNil(t, data.Fields)
}

func TestWizard_SubmitStep_Advance(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "108-88-3", body["cas_number"])
		_, _ = w.Write([]byte(`{"step":"section1","next":"section2","fields":{"cas_number":"108-88-3"}}`))
	})

	res, err := c.Wizard().SubmitStep(context.Background(), testSessionID, "section1", Fields{"cas_number": "108-88-3"})
	require.NoError(t, err)
	require.NotNil(t, res.Advance)
	assert.Nil(t, res.Completion)
	assert.Equal(t, Step("section2"), res.Advance.Next)
}

func TestWizard_SubmitStep_Completion(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"record_id":"` + testRecordID + `","document_url":"/api/v1/sds/` + testRecordID + `/document"}`))
	})

	res, err := c.Wizard().SubmitStep(context.Background(), testSessionID, "section16", Fields{})
	require.NoError(t, err)
	require.NotNil(t, res.Completion)
	assert.Nil(t, res.Advance)
	assert.Equal(t, testRecordID, res.Completion.RecordID)
	assert.Contains(t, res.Completion.DocumentURL, testRecordID)
}

func TestWizard_SubmitStep_Validation(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnprocessableEntity)
		_, _ = w.Write([]byte(`{"code":"SDS_001","message":"step data is invalid","fields":{"cas_number":"invalid CAS number"}}`))
	})

	_, err := c.Wizard().SubmitStep(context.Background(), testSessionID, "section1", Fields{"cas_number": "1-2-3"})
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsValidation())
	assert.Equal(t, "invalid CAS number", apiErr.Fields["cas_number"])
	assert.True(t, errors.IsValidation(err))
}

func TestWizard_Back(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/wizard/sessions/"+testSessionID+"/back", r.URL.Path)
		_, _ = w.Write([]byte(`{"session_id":"` + testSessionID + `","step":"section1","completed":[],"cached":["section2"]}`))
	})

	sum, err := c.Wizard().Back(context.Background(), testSessionID)
	require.NoError(t, err)
	assert.Equal(t, Step("section1"), sum.Step)
	assert.Equal(t, []Step{"section2"}, sum.Cached)
}

func TestWizard_Back_Conflict(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		_, _ = w.Write([]byte(`{"code":"SDS_002","message":"invalid wizard transition"}`))
	})

	_, err := c.Wizard().Back(context.Background(), testSessionID)
	var apiErr *APIError
	require.ErrorAs(t, err, &apiErr)
	assert.True(t, apiErr.IsConflict())
	assert.True(t, errors.IsCode(err, errors.ErrCodeSDSState))
}

func TestDocuments_Download(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sds/"+testRecordID+"/document", r.URL.Path)
		assert.Equal(t, "application/pdf", r.Header.Get("Accept"))
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", `attachment; filename="sds-toluene.pdf"`)
		_, _ = w.Write([]byte("%PDF-1.4"))
	})

	doc, err := c.Documents().Download(context.Background(), testRecordID)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.ContentType)
	assert.Equal(t, "sds-toluene.pdf", doc.FileName)
	assert.Equal(t, []byte("%PDF-1.4"), doc.Content)
}

func TestDocuments_Preview(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/sds/"+testRecordID+"/preview", r.URL.Path)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte("<html></html>"))
	})

	doc, err := c.Documents().Preview(context.Background(), testRecordID)
	require.NoError(t, err)
	assert.Empty(t, doc.FileName)
	assert.Equal(t, "<html></html>", string(doc.Content))
}

func TestDocuments_InvalidRecordID(t *testing.T) {
	c, err := NewClient("http://sds.example.com")
	require.NoError(t, err)
	_, err = c.Documents().Download(context.Background(), "not-a-uuid")
	assert.True(t, errors.IsCode(err, errors.ErrCodeBadRequest))
}

func TestChemtable_Autopopulate(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/chemtable/autopopulate", r.URL.Path)
		assert.Equal(t, "108-88-3", r.URL.Query().Get("cas"))
		_, _ = w.Write([]byte(`{"chemical_name":"Toluene","boiling_point":"110.6 °C"}`))
	})

	entry, err := c.Chemtable().Autopopulate(context.Background(), " 108-88-3 ")
	require.NoError(t, err)
	assert.Equal(t, "Toluene", entry.ChemicalName)
	assert.Equal(t, "110.6 °C", entry.BoilingPoint)
}

func TestChemtable_Autopopulate_Errors(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"code":"PUBCHEM_001","message":"compound not found in PubChem"}`))
	})

	_, err := c.Chemtable().Autopopulate(context.Background(), "  ")
	assert.True(t, errors.IsValidation(err))

	_, err = c.Chemtable().Autopopulate(context.Background(), "0000-00-0")
	assert.True(t, errors.IsNotFound(err))
}

//Personal.AI order the ending
