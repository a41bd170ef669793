// Package pubchemtest serves recorded PubChem responses for toluene through an
// httpmock transport so resolver callers can be tested offline.
package pubchemtest

import (
	"embed"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/jarcoal/httpmock"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
)

//go:embed fixtures
var fixtures embed.FS

const (
	BaseURL     = "https://pubchem.test/rest"
	TolueneCAS  = "108-88-3"
	TolueneCID  = pubchem.CID(1140)
	UnknownCAS  = "0000-00-0"
	notFoundDoc = `{"Fault": {"Code": "PUGREST.NotFound", "Message": "No CID found"}}`
)

var nonWord = regexp.MustCompile(`[^a-z0-9]+`)

// FixtureName maps a PUG View heading to its recorded file name.
func FixtureName(cid pubchem.CID, heading string) string {
	slug := strings.Trim(nonWord.ReplaceAllString(strings.ToLower(heading), "_"), "_")
	return "fixtures/view_" + cid.String() + "_" + slug + ".json"
}

func fixture(name string) ([]byte, bool) {
	b, err := fixtures.ReadFile(name)
	return b, err == nil
}

// ViewPattern matches PUG View annotation requests.  Registering another
// responder under it replaces the recorded one.
func ViewPattern() *regexp.Regexp {
	return regexp.MustCompile(`^` + regexp.QuoteMeta(BaseURL) + `/pug_view/data/compound/(\d+)/JSON`)
}

func notFound() (*http.Response, error) {
	return httpmock.NewStringResponse(http.StatusNotFound, notFoundDoc), nil
}

// NewTransport returns a mock transport answering PUG REST and PUG View calls
// for toluene.  Every other identifier and every unrecorded heading is a 404.
func NewTransport() *httpmock.MockTransport {
	mt := httpmock.NewMockTransport()
	base := regexp.QuoteMeta(BaseURL)

	mt.RegisterRegexpResponder(http.MethodGet, regexp.MustCompile(`^`+base+`/pug/compound/name/([^/]+)/(cids/JSON|synonyms/TXT|property/IUPACName,Title/JSON)`),
		func(req *http.Request) (*http.Response, error) {
			name, err := httpmock.GetSubmatch(req, 1)
			if err != nil || !strings.EqualFold(name, TolueneCAS) {
				return notFound()
			}
			kind, _ := httpmock.GetSubmatch(req, 2)
			var file string
			switch kind {
			case "cids/JSON":
				file = "fixtures/cids_1140.json"
			case "synonyms/TXT":
				file = "fixtures/synonyms_1140.txt"
			default:
				file = "fixtures/properties_1140.json"
			}
			b, _ := fixture(file)
			return httpmock.NewBytesResponse(http.StatusOK, b), nil
		})

	mt.RegisterRegexpResponder(http.MethodGet, ViewPattern(),
		func(req *http.Request) (*http.Response, error) {
			cid, _ := httpmock.GetSubmatchAsInt(req, 1)
			b, ok := fixture(FixtureName(pubchem.CID(cid), req.URL.Query().Get("heading")))
			if !ok {
				return notFound()
			}
			return httpmock.NewBytesResponse(http.StatusOK, b), nil
		})
	return mt
}

// Config is a fast client configuration pointed at BaseURL.
func Config() pubchem.Config {
	return pubchem.Config{
		BaseURL:      BaseURL,
		Timeout:      2 * time.Second,
		MaxRetries:   1,
		RetryWaitMin: time.Millisecond,
		RetryWaitMax: 2 * time.Millisecond,
		RateLimit:    1000,
		Burst:        100,
		Concurrency:  4,
		CacheTTL:     time.Minute,
	}
}

// NewResolver builds a resolver whose HTTP traffic goes to mt.
func NewResolver(mt http.RoundTripper, logger logging.Logger) *pubchem.Resolver {
	client := pubchem.NewClient(Config(), pubchem.WithHTTPClient(&http.Client{Transport: mt}))
	return pubchem.NewResolver(client, sds.DefaultCodeTable(), logger)
}

//Personal.AI order the ending
