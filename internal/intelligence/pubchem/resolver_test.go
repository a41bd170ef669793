package pubchem_test

import (
	"context"
	"net/http"
	"regexp"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem/pubchemtest"
)

func newResolver(t *testing.T) (*pubchem.Resolver, *httpmock.MockTransport, *observer.ObservedLogs) {
	t.Helper()
	core, logs := observer.New(zapcore.DebugLevel)
	mt := pubchemtest.NewTransport()
	return pubchemtest.NewResolver(mt, logging.NewLoggerFromCore(core)), mt, logs
}

func warnCount(logs *observer.ObservedLogs) int {
	return logs.FilterLevelExact(zapcore.WarnLevel).Len()
}

// ─────────────────────────────────────────────────────────────────────────────
// Toluene end to end
// ─────────────────────────────────────────────────────────────────────────────

func TestResolver_Toluene(t *testing.T) {
	r, _, logs := newResolver(t)
	ctx := context.Background()

	cid := r.ResolveID(ctx, pubchemtest.TolueneCAS)
	require.True(t, cid.OK())
	assert.Equal(t, pubchemtest.TolueneCID, cid.Value())

	word := r.SignalWord(ctx, cid.Value())
	require.True(t, word.OK())
	assert.Equal(t, sds.SignalDanger, word.Value())

	hazards := r.HazardCodes(ctx, cid.Value()).Value()
	require.Len(t, hazards, 6)
	assert.Equal(t, "H225: Highly Flammable liquid and vapor [Danger Flammable liquids]", hazards[0])
	assert.Equal(t, "H361d: Suspected of damaging the unborn child [Warning Reproductive toxicity]", hazards[4])

	pset := r.PrecautionaryCodes(ctx, cid.Value())
	require.True(t, pset.OK())
	assert.Equal(t, 29, pset.Value().Len())
	assert.Contains(t, pset.Value().Statements(sds.CategoryPrevention), "P210: Keep away from heat")
	assert.Contains(t, pset.Value().Statements(sds.CategoryResponse), "P301+P316: IF SWALLOWED: Get emergency medical help immediately.")
	assert.Equal(t, "P501: Dispose of contents/container to ...", pset.Value().Statements(sds.CategoryDisposal))
	assert.Equal(t, "", pset.Value().Statements(sds.CategoryGeneral))

	icons := r.Pictograms(ctx, cid.Value()).Value()
	assert.Equal(t, []string{"Flammable", "Irritant", "Health Hazard"}, descriptions(icons))

	class := r.Classification(ctx, cid.Value())
	require.True(t, class.OK())
	assert.Contains(t, class.Value(), "Flam. Liq. 2")

	name := r.IUPACName(ctx, pubchemtest.TolueneCAS)
	require.True(t, name.OK())
	assert.Equal(t, "toluene", name.Value())

	syn := r.Synonyms(ctx, pubchemtest.TolueneCAS).Value()
	assert.Equal(t, "Toluene", syn[0])
	assert.Contains(t, syn, "methylbenzene")

	assert.Equal(t, 0, warnCount(logs))
}

func descriptions(els []sds.LabelElement) []string {
	out := make([]string, len(els))
	for i, e := range els {
		out[i] = e.Description
	}
	return out
}

func TestResolver_AnnotationNumberRows(t *testing.T) {
	r, _, _ := newResolver(t)

	ann := r.FetchAnnotation(context.Background(), pubchemtest.TolueneCID, pubchem.HeadingBoilingPoint)
	require.True(t, ann.OK())
	assert.Equal(t, []string{"110.6 °C", "231.1 °F at 760 mmHg"}, ann.Value().Texts())

	aid := r.FetchAnnotation(context.Background(), pubchemtest.TolueneCID, pubchem.HeadingFirstAid)
	require.True(t, aid.OK())
	assert.Equal(t, "Rinse mouth. Do NOT induce vomiting. Refer for medical attention.", aid.Value().Rows[3].Text)
}

// ─────────────────────────────────────────────────────────────────────────────
// Failure kinds
// ─────────────────────────────────────────────────────────────────────────────

func TestResolver_UnknownCAS(t *testing.T) {
	r, _, logs := newResolver(t)

	res := r.ResolveID(context.Background(), pubchemtest.UnknownCAS)
	assert.False(t, res.OK())
	assert.Equal(t, pubchem.CID(0), res.Value())
	require.NotNil(t, res.FetchErr())
	assert.Equal(t, pubchem.KindNotFound, res.FetchErr().Kind)
	assert.Equal(t, 1, warnCount(logs))
}

func TestResolver_EmptyIdentifier(t *testing.T) {
	r, mt, _ := newResolver(t)
	res := r.ResolveID(context.Background(), "  ")
	assert.Equal(t, pubchem.KindNotFound, res.FetchErr().Kind)
	assert.Equal(t, 0, mt.GetTotalCallCount())
}

func TestResolver_MissingHeadingIsNotFound(t *testing.T) {
	r, _, logs := newResolver(t)
	res := r.FetchAnnotation(context.Background(), pubchemtest.TolueneCID, pubchem.HeadingUNNumber)
	assert.Equal(t, pubchem.KindNotFound, res.FetchErr().Kind)
	assert.Empty(t, res.Value().Rows)
	assert.Equal(t, 1, warnCount(logs))
}

func TestResolver_UnresolvedCIDFallbacks(t *testing.T) {
	r, mt, logs := newResolver(t)
	ctx := context.Background()

	assert.Equal(t, sds.SignalWarning, r.SignalWord(ctx, 0).Value())
	assert.Empty(t, r.HazardCodes(ctx, 0).Value())
	assert.NotNil(t, r.HazardCodes(ctx, 0).Value())
	assert.Equal(t, 0, r.PrecautionaryCodes(ctx, 0).Value().Len())
	assert.Empty(t, r.Pictograms(ctx, 0).Value())
	assert.Equal(t, "", r.Classification(ctx, 0).Value())

	assert.Equal(t, 0, mt.GetTotalCallCount())
	assert.Equal(t, 6, warnCount(logs))
}

func TestResolver_ShapeOnEmptyTable(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/pug_view/`),
		httpmock.NewStringResponder(http.StatusOK, `{"Record": {"Section": [{"TOCHeading": "GHS Classification"}]}}`))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.FetchAnnotation(context.Background(), 1, pubchem.HeadingGHSClassification)
	assert.Equal(t, pubchem.KindShape, res.FetchErr().Kind)

	word := r.SignalWord(context.Background(), 1)
	assert.Equal(t, sds.SignalWarning, word.Value())
	assert.Equal(t, pubchem.KindShape, word.FetchErr().Kind)
}

func TestResolver_UnrecognizedSignalWord(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/pug_view/`),
		httpmock.NewStringResponder(http.StatusOK, `{"Record": {"Section": [{"TOCHeading": "GHS Classification", "Information": [
		  {"Name": "Signal", "Value": {"StringWithMarkup": [{"String": "Caution"}]}}]}]}}`))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	word := r.SignalWord(context.Background(), 1)
	assert.Equal(t, sds.SignalWarning, word.Value())
	assert.Equal(t, pubchem.KindShape, word.FetchErr().Kind)
}

func TestResolver_LocalizedSignalWord(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/pug_view/`),
		httpmock.NewStringResponder(http.StatusOK, `{"Record": {"Section": [{"TOCHeading": "GHS Classification", "Information": [
		  {"Value": {"StringWithMarkup": [{"String": "nota"}]}},
		  {"Value": {"StringWithMarkup": [{"String": " "}]}},
		  {"Value": {"StringWithMarkup": [{"String": "Peligro"}]}}]}]}}`))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	assert.Equal(t, sds.SignalDanger, r.SignalWord(context.Background(), 1).Value())
}

func TestResolver_DecodeError(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		httpmock.NewStringResponder(http.StatusOK, `<html>`))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	assert.Equal(t, pubchem.KindDecode, res.FetchErr().Kind)
}

func TestResolver_EmptyCIDList(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		httpmock.NewStringResponder(http.StatusOK, `{"IdentifierList": {"CID": []}}`))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	assert.Equal(t, pubchem.KindNotFound, res.FetchErr().Kind)
}

// ─────────────────────────────────────────────────────────────────────────────
// Transport behaviour
// ─────────────────────────────────────────────────────────────────────────────

func TestResolver_RetriesServerErrors(t *testing.T) {
	mt := httpmock.NewMockTransport()
	var calls int32
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		func(*http.Request) (*http.Response, error) {
			if atomic.AddInt32(&calls, 1) == 1 {
				return httpmock.NewStringResponse(http.StatusServiceUnavailable, "busy"), nil
			}
			return httpmock.NewStringResponse(http.StatusOK, `{"IdentifierList": {"CID": [712]}}`), nil
		})
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	require.True(t, res.OK())
	assert.Equal(t, pubchem.CID(712), res.Value())
	assert.Equal(t, int32(2), atomic.LoadInt32(&calls))
}

func TestResolver_StatusAfterRetries(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		httpmock.NewStringResponder(http.StatusBadGateway, "down"))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	require.NotNil(t, res.FetchErr())
	assert.Equal(t, pubchem.KindStatus, res.FetchErr().Kind)
	assert.Equal(t, http.StatusBadGateway, res.FetchErr().Status)
	// One initial attempt plus MaxRetries.
	assert.Equal(t, 2, mt.GetTotalCallCount())
}

func TestResolver_ClientErrorNotRetried(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		httpmock.NewStringResponder(http.StatusBadRequest, "bad"))
	r := pubchemtest.NewResolver(mt, logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	assert.Equal(t, pubchem.KindStatus, res.FetchErr().Kind)
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

func TestResolver_Timeout(t *testing.T) {
	mt := httpmock.NewMockTransport()
	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`/cids/JSON`),
		func(req *http.Request) (*http.Response, error) {
			<-req.Context().Done()
			return nil, req.Context().Err()
		})
	cfg := pubchemtest.Config()
	cfg.Timeout = 50 * time.Millisecond
	client := pubchem.NewClient(cfg, pubchem.WithHTTPClient(&http.Client{Transport: mt}))
	r := pubchem.NewResolver(client, sds.DefaultCodeTable(), logging.NewNopLogger())

	res := r.ResolveID(context.Background(), "50-00-0")
	require.NotNil(t, res.FetchErr())
	assert.Equal(t, pubchem.KindTimeout, res.FetchErr().Kind)
}

func TestResolver_MemoizesCID(t *testing.T) {
	r, mt, _ := newResolver(t)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		require.Equal(t, pubchemtest.TolueneCID, r.ResolveID(ctx, pubchemtest.TolueneCAS).Value())
	}
	assert.Equal(t, 1, mt.GetTotalCallCount())

	r.Purge()
	r.ResolveID(ctx, pubchemtest.TolueneCAS)
	assert.Equal(t, 2, mt.GetTotalCallCount())
}

func TestResolver_SharesGHSDocument(t *testing.T) {
	r, mt, _ := newResolver(t)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 4; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r.SignalWord(ctx, pubchemtest.TolueneCID)
			r.HazardCodes(ctx, pubchemtest.TolueneCID)
			r.PrecautionaryCodes(ctx, pubchemtest.TolueneCID)
			r.Pictograms(ctx, pubchemtest.TolueneCID)
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, mt.GetTotalCallCount())
}

type recordingMetrics struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *recordingMetrics) ObservePubChemRequest(endpoint, outcome string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, endpoint+":"+outcome)
}

func TestClient_ReportsMetrics(t *testing.T) {
	mt := pubchemtest.NewTransport()
	m := &recordingMetrics{}
	client := pubchem.NewClient(pubchemtest.Config(),
		pubchem.WithHTTPClient(&http.Client{Transport: mt}),
		pubchem.WithMetrics(m))
	r := pubchem.NewResolver(client, sds.DefaultCodeTable(), nil)

	r.ResolveID(context.Background(), pubchemtest.TolueneCAS)
	r.ResolveID(context.Background(), pubchemtest.UnknownCAS)

	assert.Equal(t, []string{"resolve_id:ok", "resolve_id:not_found"}, m.outcomes)
}

func TestNewClient_Defaults(t *testing.T) {
	c := pubchem.NewClient(pubchem.Config{BaseURL: "https://example.test/rest/"})
	cfg := c.Config()
	assert.Equal(t, "https://example.test/rest", cfg.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
	assert.Equal(t, float64(5), cfg.RateLimit)
	assert.Equal(t, 4, cfg.Concurrency)
	assert.Equal(t, pubchem.DefaultConfig().UserAgent, cfg.UserAgent)
}

//Personal.AI order the ending
