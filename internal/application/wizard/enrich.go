package wizard

import (
	"context"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem"
)

// DataNotAvailable fills physical properties when the compound is unknown.
const DataNotAvailable = "Data not available"

// Enricher computes the initial form values of a step from a CAS number.
type Enricher interface {
	Enrich(ctx context.Context, step Step, cas string) Fields
}

// CompoundResolver is the slice of *pubchem.Resolver the enricher uses.
type CompoundResolver interface {
	ResolveID(ctx context.Context, identifier string) pubchem.Result[pubchem.CID]
	FetchAnnotation(ctx context.Context, cid pubchem.CID, heading string) pubchem.Result[pubchem.Annotation]
	SignalWord(ctx context.Context, cid pubchem.CID) pubchem.Result[sds.SignalWord]
	HazardCodes(ctx context.Context, cid pubchem.CID) pubchem.Result[[]string]
	PrecautionaryCodes(ctx context.Context, cid pubchem.CID) pubchem.Result[sds.PrecautionarySet]
	Pictograms(ctx context.Context, cid pubchem.CID) pubchem.Result[[]sds.LabelElement]
	Classification(ctx context.Context, cid pubchem.CID) pubchem.Result[string]
	Synonyms(ctx context.Context, identifier string) pubchem.Result[[]string]
	IUPACName(ctx context.Context, identifier string) pubchem.Result[string]
	Concurrency() int
}

type enrichFunc func(ctx context.Context, cid pubchem.CID) Fields

// PubChemEnricher fills steps from PubChem annotations.  Headings needed by
// one step are fetched in parallel; results land in fixed slots so the
// produced Fields do not depend on completion order.
type PubChemEnricher struct {
	resolver   CompoundResolver
	pictograms sds.PictogramTable
	logger     logging.Logger
	byCID      map[Step]enrichFunc
}

// NewPubChemEnricher wires an enricher over resolver.
func NewPubChemEnricher(resolver CompoundResolver, pictograms sds.PictogramTable, logger logging.Logger) *PubChemEnricher {
	if logger == nil {
		logger = logging.NewNopLogger()
	}
	e := &PubChemEnricher{
		resolver:   resolver,
		pictograms: pictograms,
		logger:     logger.Named("enricher"),
	}
	e.byCID = map[Step]enrichFunc{
		Section2:  e.hazards,
		Section4:  e.firstAid,
		Section5:  e.fireFighting,
		Section6:  e.accidentalRelease,
		Section7:  e.handlingStorage,
		Section8:  e.exposureControls,
		Section9:  e.physicalProperties,
		Section10: e.stability,
		Section11: e.toxicology,
		Section12: e.ecology,
		Section14: e.transport,
	}
	return e
}

// Enrich returns the initial values for step.  Steps without enrichment and
// unresolvable compounds yield empty Fields, except section9 which reports
// every property as unavailable.
func (e *PubChemEnricher) Enrich(ctx context.Context, step Step, cas string) Fields {
	if step == Section3 {
		return e.composition(ctx, cas)
	}
	fn, ok := e.byCID[step]
	if !ok {
		return Fields{}
	}
	cid := e.resolver.ResolveID(ctx, cas)
	if !cid.OK() {
		if step == Section9 {
			return unavailableProperties()
		}
		return Fields{}
	}
	out := fn(ctx, cid.Value())
	e.logger.Debug("step enriched",
		logging.String("step", string(step)),
		logging.String("cas", cas),
		logging.Int("fields", len(out)))
	return out
}

// fetchAll reads headings concurrently, bounded by the resolver concurrency.
// Slot i holds the annotation of headings[i]; failures leave an empty table.
func (e *PubChemEnricher) fetchAll(ctx context.Context, cid pubchem.CID, headings ...string) []pubchem.Annotation {
	out := make([]pubchem.Annotation, len(headings))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.resolver.Concurrency())
	for i, h := range headings {
		i, h := i, h
		g.Go(func() error {
			out[i] = e.resolver.FetchAnnotation(gctx, cid, h).Value()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// setIf stores v under key when it is non-blank.
func setIf(f Fields, key, v string) {
	if strings.TrimSpace(v) != "" {
		f[key] = v
	}
}

func row(a pubchem.Annotation, i int) string {
	if i < len(a.Rows) {
		return a.Rows[i].Text
	}
	return ""
}

// ─────────────────────────────────────────────────────────────────────────────
// Section 2: hazards
// ─────────────────────────────────────────────────────────────────────────────

func (e *PubChemEnricher) hazards(ctx context.Context, cid pubchem.CID) Fields {
	var (
		classification string
		signal         sds.SignalWord
		hazards        []string
		pset           sds.PrecautionarySet
		icons          []sds.LabelElement
	)
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.resolver.Concurrency())
	g.Go(func() error { classification = e.resolver.Classification(gctx, cid).Value(); return nil })
	g.Go(func() error { signal = e.resolver.SignalWord(gctx, cid).Value(); return nil })
	g.Go(func() error { hazards = e.resolver.HazardCodes(gctx, cid).Value(); return nil })
	g.Go(func() error { pset = e.resolver.PrecautionaryCodes(gctx, cid).Value(); return nil })
	g.Go(func() error { icons = e.resolver.Pictograms(gctx, cid).Value(); return nil })
	_ = g.Wait()

	f := Fields{FieldSignalWord: signal.String()}
	setIf(f, "classification", classification)
	setIf(f, "hazard_statements", strings.Join(hazards, "; "))
	for _, cat := range sds.Categories {
		setIf(f, cat.FieldName(), pset.Statements(cat))
	}
	if len(icons) > 0 {
		f[FieldLabelElements] = icons
		f[FieldAdditionalPictograms] = e.pictograms.KeysIn(icons)
	}
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Section 3: composition
// ─────────────────────────────────────────────────────────────────────────────

func (e *PubChemEnricher) composition(ctx context.Context, cas string) Fields {
	var (
		name     string
		synonyms []string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error { name = e.resolver.IUPACName(gctx, cas).Value(); return nil })
	g.Go(func() error { synonyms = e.resolver.Synonyms(gctx, cas).Value(); return nil })
	_ = g.Wait()

	f := Fields{"chemical_name": name}
	if len(synonyms) > 0 {
		sorted := append([]string(nil), synonyms...)
		sort.SliceStable(sorted, func(i, j int) bool {
			return strings.ToLower(sorted[i]) < strings.ToLower(sorted[j])
		})
		f["synonyms"] = strings.Join(sorted, ", ")
	}
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Sections 4–8
// ─────────────────────────────────────────────────────────────────────────────

func (e *PubChemEnricher) firstAid(ctx context.Context, cid pubchem.CID) Fields {
	a := e.fetchAll(ctx, cid, pubchem.HeadingFirstAid)[0]
	f := Fields{}
	if len(a.Rows) == 0 {
		return f
	}
	// PubChem orders the routes inhalation, skin, eye, ingestion.
	f["aid_inhal"] = row(a, 0)
	f["aid_skin"] = row(a, 1)
	f["aid_eye"] = row(a, 2)
	f["aid_inges"] = row(a, 3)
	return f
}

func (e *PubChemEnricher) fireFighting(ctx context.Context, cid pubchem.CID) Fields {
	a := e.fetchAll(ctx, cid, pubchem.HeadingFireFighting)[0]
	f := Fields{}
	if len(a.Rows) == 0 {
		return f
	}
	f["suitable_extinguishing_media"] = row(a, 0)
	f["special_protective_actions"] = row(a, 1)
	return f
}

func (e *PubChemEnricher) accidentalRelease(ctx context.Context, cid pubchem.CID) Fields {
	a := e.fetchAll(ctx, cid, pubchem.HeadingAccidentalRelease)[0]
	f := Fields{}
	setIf(f, "personal_precautions", a.First())
	return f
}

func (e *PubChemEnricher) handlingStorage(ctx context.Context, cid pubchem.CID) Fields {
	anns := e.fetchAll(ctx, cid, pubchem.HeadingHandlingStorage, pubchem.HeadingSafeStorage)
	f := Fields{}
	setIf(f, "precautions_for_safe_handling", anns[0].First())
	setIf(f, "conditions_for_safe_storage", strings.Join(anns[1].NonEmpty(), "\n"))
	return f
}

func (e *PubChemEnricher) exposureControls(ctx context.Context, cid pubchem.CID) Fields {
	a := e.fetchAll(ctx, cid, pubchem.HeadingExposureLimits)[0]
	f := Fields{}
	var lines []string
	for _, r := range a.NonEmpty() {
		for _, part := range strings.Split(r, ";") {
			if p := strings.TrimSpace(part); p != "" {
				lines = append(lines, p)
			}
		}
	}
	if len(lines) > 0 {
		f["control_parameters"] = pubchem.HeadingExposureLimits + "\n" + strings.Join(lines, "\n")
	}
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Section 9: physical and chemical properties
// ─────────────────────────────────────────────────────────────────────────────

// physicalHeadings maps section 9 fields to their PubChem headings.
var physicalHeadings = []struct {
	field   string
	heading string
}{
	{"phys", pubchem.HeadingPhysicalDesc},
	{"odor", pubchem.HeadingOdor},
	{"t_change", pubchem.HeadingMeltingPoint},
	{"boiling_point", pubchem.HeadingBoilingPoint},
	{"flammability_information", pubchem.HeadingFlammableLimits},
	{"flash_point", pubchem.HeadingFlashPoint},
	{"auto_ignition_temperature", pubchem.HeadingAutoignition},
	{"pH", pubchem.HeadingPH},
	{"solubility", pubchem.HeadingSolubility},
	{"vapor_pressure", pubchem.HeadingVaporPressure},
	{"relative_vapour_density", pubchem.HeadingVaporDensity},
}

func unavailableProperties() Fields {
	f := make(Fields, len(physicalHeadings))
	for _, p := range physicalHeadings {
		f[p.field] = DataNotAvailable
	}
	return f
}

func (e *PubChemEnricher) physicalProperties(ctx context.Context, cid pubchem.CID) Fields {
	headings := make([]string, len(physicalHeadings))
	for i, p := range physicalHeadings {
		headings[i] = p.heading
	}
	anns := e.fetchAll(ctx, cid, headings...)
	f := Fields{}
	for i, p := range physicalHeadings {
		setIf(f, p.field, anns[i].First())
	}
	return f
}

// ─────────────────────────────────────────────────────────────────────────────
// Sections 10–14
// ─────────────────────────────────────────────────────────────────────────────

func (e *PubChemEnricher) stability(ctx context.Context, cid pubchem.CID) Fields {
	anns := e.fetchAll(ctx, cid,
		pubchem.HeadingReactivityProfile, pubchem.HeadingHazardousReactions, pubchem.HeadingDecomposition)
	f := Fields{}
	setIf(f, "reactivity", anns[0].First())
	setIf(f, "possibility_of_hazardous_reactions", anns[1].First())
	setIf(f, "hazardous_decomposition_products", anns[2].First())
	return f
}

func (e *PubChemEnricher) toxicology(ctx context.Context, cid pubchem.CID) Fields {
	anns := e.fetchAll(ctx, cid,
		pubchem.HeadingIrritations, pubchem.HeadingToxicityData,
		pubchem.HeadingAcuteEffects, pubchem.HeadingAdverseEffects)
	f := Fields{}
	setIf(f, "symptoms", strings.Join(anns[0].NonEmpty(), "\n"))
	setIf(f, "acute_toxicity_estimates", strings.Join(anns[1].NonEmpty(), ";"))
	setIf(f, "immediate_effects", strings.Join(anns[2].NonEmpty(), ";"))
	setIf(f, "chronic_effects", strings.Join(anns[3].NonEmpty(), ";"))
	return f
}

func (e *PubChemEnricher) ecology(ctx context.Context, cid pubchem.CID) Fields {
	anns := e.fetchAll(ctx, cid,
		pubchem.HeadingEcotoxicityValues, pubchem.HeadingEcotoxicityExcerpt,
		pubchem.HeadingBiologicalHalfLife, pubchem.HeadingSoilMobility, pubchem.HeadingBiodegradation)
	f := Fields{}
	setIf(f, "ecotoxicity", strings.Join(anns[0].NonEmpty(), ";"))
	setIf(f, "other_adverse_effects", strings.Join(anns[1].NonEmpty(), ";"))
	setIf(f, "bioaccumulative_potential", strings.Join(anns[2].NonEmpty(), ";"))
	setIf(f, "mobility_in_soil", strings.Join(anns[3].NonEmpty(), ";"))
	setIf(f, "persistence_and_degradability", strings.Join(anns[4].NonEmpty(), ";"))
	return f
}

func (e *PubChemEnricher) transport(ctx context.Context, cid pubchem.CID) Fields {
	anns := e.fetchAll(ctx, cid, pubchem.HeadingUNNumber, pubchem.HeadingShippingName)
	f := Fields{}
	setIf(f, "UN_number", strings.Join(anns[0].NonEmpty(), "\n"))
	setIf(f, "UN_proper_shipping_name", strings.Join(anns[1].NonEmpty(), "\n"))
	return f
}

//Personal.AI order the ending
