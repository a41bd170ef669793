package pubchem

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/patrickmn/go-cache"
	"golang.org/x/sync/singleflight"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
)

// CID is a PubChem compound id.  Zero means unresolved.
type CID int64

func (c CID) String() string { return strconv.FormatInt(int64(c), 10) }

var hazardQualifier = regexp.MustCompile(`\s*\(.*?\)`)

// Resolver answers compound questions against PubChem.  CIDs and annotations
// are memoized in-process and concurrent identical lookups share one request.
type Resolver struct {
	client *Client
	codes  sds.CodeTable
	logger logging.Logger

	cids        *cache.Cache
	annotations *cache.Cache
	flight      singleflight.Group
}

// NewResolver wires a Resolver.  codes describes P-codes; pass
// sds.DefaultCodeTable() outside tests.
func NewResolver(client *Client, codes sds.CodeTable, logger logging.Logger) *Resolver {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	ttl := client.Config().CacheTTL
	return &Resolver{
		client:      client,
		codes:       codes,
		logger:      logger.Named("pubchem"),
		cids:        cache.New(ttl, 2*ttl),
		annotations: cache.New(ttl/6, ttl/3),
	}
}

// Concurrency is the configured per-step fan-out limit.
func (r *Resolver) Concurrency() int { return r.client.Config().Concurrency }

// report logs a failed lookup once, at warn.
func (r *Resolver) report(ferr *FetchError) {
	if ferr == nil {
		return
	}
	fields := []logging.Field{
		logging.String("op", ferr.Op),
		logging.String("target", ferr.Target),
		logging.String("kind", string(ferr.Kind)),
	}
	if ferr.Status != 0 {
		fields = append(fields, logging.Int("status", ferr.Status))
	}
	if ferr.Cause != nil {
		fields = append(fields, logging.Err(ferr.Cause))
	}
	r.logger.Warn("pubchem lookup failed", fields...)
}

// ─────────────────────────────────────────────────────────────────────────────
// CID resolution
// ─────────────────────────────────────────────────────────────────────────────

type identifierList struct {
	IdentifierList struct {
		CID []int64 `json:"CID"`
	} `json:"IdentifierList"`
}

// ResolveID maps a CAS number or name to the first matching CID.  The fallback
// is CID 0.
func (r *Resolver) ResolveID(ctx context.Context, identifier string) Result[CID] {
	res := r.resolveID(ctx, identifier)
	r.report(res.err)
	return res
}

func (r *Resolver) resolveID(ctx context.Context, identifier string) Result[CID] {
	const op = "resolve_id"
	key := strings.ToLower(strings.TrimSpace(identifier))
	if key == "" {
		return Failed(CID(0), newFetchError(KindNotFound, op, identifier, fmt.Errorf("empty identifier")))
	}
	if v, ok := r.cids.Get(key); ok {
		return Ok(v.(CID))
	}

	v, _, _ := r.flight.Do("cid:"+key, func() (interface{}, error) {
		body, ferr := r.client.get(ctx, op, "/pug/compound/name/"+url.PathEscape(key)+"/cids/JSON")
		if ferr != nil {
			return Failed(CID(0), ferr), nil
		}
		var list identifierList
		if err := json.Unmarshal(body, &list); err != nil {
			return Failed(CID(0), newFetchError(KindDecode, op, identifier, err)), nil
		}
		if len(list.IdentifierList.CID) == 0 || list.IdentifierList.CID[0] <= 0 {
			return Failed(CID(0), newFetchError(KindNotFound, op, identifier, nil)), nil
		}
		cid := CID(list.IdentifierList.CID[0])
		r.cids.SetDefault(key, cid)
		return Ok(cid), nil
	})
	return v.(Result[CID])
}

// ─────────────────────────────────────────────────────────────────────────────
// Annotations
// ─────────────────────────────────────────────────────────────────────────────

// FetchAnnotation reads the PUG View rows for heading.  An empty table is a
// Shape failure; the fallback is an Annotation with no rows.
func (r *Resolver) FetchAnnotation(ctx context.Context, cid CID, heading string) Result[Annotation] {
	res := r.fetchAnnotation(ctx, cid, heading)
	r.report(res.err)
	return res
}

func (r *Resolver) fetchAnnotation(ctx context.Context, cid CID, heading string) Result[Annotation] {
	const op = "fetch_annotation"
	empty := Annotation{CID: cid, Heading: heading}
	target := cid.String() + "/" + heading
	if cid <= 0 {
		return Failed(empty, newFetchError(KindNotFound, op, target, fmt.Errorf("unresolved cid")))
	}
	key := target
	if v, ok := r.annotations.Get(key); ok {
		return Ok(v.(Annotation))
	}

	v, _, _ := r.flight.Do("ann:"+key, func() (interface{}, error) {
		q := url.Values{}
		q.Set("response_type", "display")
		q.Set("heading", heading)
		path := "/pug_view/data/compound/" + cid.String() + "/JSON/?" + q.Encode()

		body, ferr := r.client.get(ctx, op, path)
		if ferr != nil {
			ferr.Target = target
			return Failed(empty, ferr), nil
		}
		ann, err := decodeAnnotation(body, cid, heading)
		if err != nil {
			return Failed(empty, newFetchError(KindDecode, op, target, err)), nil
		}
		if len(ann.Rows) == 0 {
			return Failed(empty, newFetchError(KindShape, op, target, fmt.Errorf("no rows"))), nil
		}
		r.annotations.SetDefault(key, ann)
		return Ok(ann), nil
	})
	return v.(Result[Annotation])
}

// field reads one named row of heading through layout.
func (r *Resolver) field(ctx context.Context, op string, cid CID, layout Layout, name string) (string, *FetchError) {
	res := r.fetchAnnotation(ctx, cid, layout.Heading)
	if res.err != nil {
		return "", res.err.withOp(op)
	}
	s, err := res.value.Field(layout, name)
	if err != nil {
		return "", newFetchError(KindShape, op, cid.String(), err)
	}
	return s, nil
}

// ─────────────────────────────────────────────────────────────────────────────
// GHS classification
// ─────────────────────────────────────────────────────────────────────────────

// SignalWord reads and normalizes the GHS signal word.  Unrecognized text and
// every failure fall back to Warning.
func (r *Resolver) SignalWord(ctx context.Context, cid CID) Result[sds.SignalWord] {
	const op = "signal_word"
	raw, ferr := r.field(ctx, op, cid, GHSClassificationLayout, "signal_word")
	if ferr != nil {
		r.report(ferr)
		return Failed(sds.SignalWarning, ferr)
	}
	word, known := sds.ParseSignalWord(raw)
	if !known {
		ferr := newFetchError(KindShape, op, cid.String(), fmt.Errorf("unrecognized signal word %q", raw))
		r.report(ferr)
		return Failed(sds.SignalWarning, ferr)
	}
	return Ok(word)
}

// HazardCodes returns the hazard statements with their notifier percentages
// removed, e.g. "H225: Highly Flammable liquid and vapor".
func (r *Resolver) HazardCodes(ctx context.Context, cid CID) Result[[]string] {
	raw, ferr := r.field(ctx, "hazard_codes", cid, GHSClassificationLayout, "hazard_codes")
	if ferr != nil {
		r.report(ferr)
		return Failed([]string{}, ferr)
	}
	return Ok(ParseHazardCodes(raw))
}

// ParseHazardCodes splits a hazard row on ";" and strips parenthesized
// qualifiers.
func ParseHazardCodes(row string) []string {
	out := make([]string, 0)
	for _, part := range strings.Split(row, ";") {
		p := strings.TrimSpace(hazardQualifier.ReplaceAllString(strings.TrimSpace(part), ""))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// PrecautionaryCodes returns described P-codes bucketed by category.  Codes
// that are malformed or missing from the code table are dropped.
func (r *Resolver) PrecautionaryCodes(ctx context.Context, cid CID) Result[sds.PrecautionarySet] {
	raw, ferr := r.field(ctx, "precautionary_codes", cid, GHSClassificationLayout, "precautionary_codes")
	if ferr != nil {
		r.report(ferr)
		return Failed(sds.NewPrecautionarySet(), ferr)
	}
	set, dropped := sds.ParsePrecautionary(raw, r.codes, r.logger)
	if len(dropped) > 0 {
		r.logger.Debug("precautionary codes dropped",
			logging.String("cid", cid.String()),
			logging.Strings("codes", dropped))
	}
	return Ok(set)
}

// Pictograms collects the GHS label icons.
func (r *Resolver) Pictograms(ctx context.Context, cid CID) Result[[]sds.LabelElement] {
	res := r.fetchAnnotation(ctx, cid, HeadingGHSClassification)
	if res.err != nil {
		ferr := res.err.withOp("pictograms")
		r.report(ferr)
		return Failed([]sds.LabelElement{}, ferr)
	}
	icons := res.value.Icons
	if icons == nil {
		icons = []sds.LabelElement{}
	}
	return Ok(icons)
}

// Classification reads the hazard class summary.
func (r *Resolver) Classification(ctx context.Context, cid CID) Result[string] {
	s, ferr := r.field(ctx, "classification", cid, HazardClassesLayout, "classification")
	if ferr != nil {
		r.report(ferr)
		return Failed("", ferr)
	}
	return Ok(s)
}

// ─────────────────────────────────────────────────────────────────────────────
// Names
// ─────────────────────────────────────────────────────────────────────────────

// Synonyms lists every name PubChem knows for identifier, in PubChem order.
func (r *Resolver) Synonyms(ctx context.Context, identifier string) Result[[]string] {
	const op = "synonyms"
	body, ferr := r.client.get(ctx, op, "/pug/compound/name/"+url.PathEscape(strings.TrimSpace(identifier))+"/synonyms/TXT")
	if ferr != nil {
		ferr.Target = identifier
		r.report(ferr)
		return Failed([]string{}, ferr)
	}
	out := make([]string, 0)
	for _, line := range strings.Split(string(body), "\n") {
		if s := strings.TrimSpace(line); s != "" {
			out = append(out, s)
		}
	}
	return Ok(out)
}

type propertyTable struct {
	PropertyTable struct {
		Properties []struct {
			CID       int64  `json:"CID"`
			IUPACName string `json:"IUPACName"`
			Title     string `json:"Title"`
		} `json:"Properties"`
	} `json:"PropertyTable"`
}

// IUPACName returns the IUPAC name, or the PubChem title when no IUPAC name
// is recorded.
func (r *Resolver) IUPACName(ctx context.Context, identifier string) Result[string] {
	const op = "iupac_name"
	body, ferr := r.client.get(ctx, op, "/pug/compound/name/"+url.PathEscape(strings.TrimSpace(identifier))+"/property/IUPACName,Title/JSON")
	if ferr != nil {
		ferr.Target = identifier
		r.report(ferr)
		return Failed("", ferr)
	}
	var pt propertyTable
	if err := json.Unmarshal(body, &pt); err != nil {
		ferr := newFetchError(KindDecode, op, identifier, err)
		r.report(ferr)
		return Failed("", ferr)
	}
	if len(pt.PropertyTable.Properties) == 0 {
		ferr := newFetchError(KindShape, op, identifier, fmt.Errorf("no properties"))
		r.report(ferr)
		return Failed("", ferr)
	}
	p := pt.PropertyTable.Properties[0]
	if p.IUPACName != "" {
		return Ok(p.IUPACName)
	}
	return Ok(p.Title)
}

// Purge drops memoized CIDs and annotations.
func (r *Resolver) Purge() {
	r.cids.Flush()
	r.annotations.Flush()
}

//Personal.AI order the ending
