package wizard

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
	"github.com/turtacn/sds-wizard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/sds-wizard/internal/intelligence/pubchem/pubchemtest"
)

// The resolver's go-cache janitors live until their caches are collected.
func verifyNoLeaks(t *testing.T) {
	goleak.VerifyNone(t, goleak.IgnoreAnyFunction("github.com/patrickmn/go-cache.(*janitor).Run"))
}

func newTolueneEnricher(t *testing.T) *PubChemEnricher {
	t.Helper()
	r := pubchemtest.NewResolver(pubchemtest.NewTransport(), logging.NewNopLogger())
	return NewPubChemEnricher(r, sds.DefaultPictograms(), logging.NewNopLogger())
}

func TestEnrich_Hazards(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	f := e.Enrich(context.Background(), Section2, pubchemtest.TolueneCAS)

	assert.Equal(t, "Danger", f.String(FieldSignalWord))
	assert.Contains(t, f.String("classification"), "Flam. Liq. 2")
	assert.True(t, strings.HasPrefix(f.String("hazard_statements"),
		"H225: Highly Flammable liquid and vapor [Danger Flammable liquids]; H304:"))
	assert.NotContains(t, f.String("hazard_statements"), "%")
	assert.Contains(t, f.String("prevention_statements"), "P210: ")
	assert.Contains(t, f.String("response_statements"), "P301+P316: ")
	assert.Equal(t, "P501: Dispose of contents/container to ...", f.String("disposal_statements"))
	_, hasGeneral := f["general_statements"]
	assert.False(t, hasGeneral)

	icons := f.LabelElements()
	require.Len(t, icons, 3)
	assert.Equal(t, []string{"Flammable", "Irritant", "Health Hazard"}, f.Strings(FieldAdditionalPictograms))
}

func TestEnrich_Composition(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	f := e.Enrich(context.Background(), Section3, pubchemtest.TolueneCAS)

	assert.Equal(t, "toluene", f.String("chemical_name"))
	assert.Equal(t, "108-88-3, antisal 1a, methylbenzene, Phenylmethane, Toluene, Toluol", f.String("synonyms"))
}

func TestEnrich_FirstAidRouteOrder(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	f := e.Enrich(context.Background(), Section4, pubchemtest.TolueneCAS)

	assert.Equal(t, "Fresh air, rest. Refer for medical attention.", f.String("aid_inhal"))
	assert.True(t, strings.HasPrefix(f.String("aid_skin"), "Remove contaminated clothes."))
	assert.True(t, strings.HasPrefix(f.String("aid_eye"), "First rinse with plenty of water"))
	assert.Equal(t, "Rinse mouth. Do NOT induce vomiting. Refer for medical attention.", f.String("aid_inges"))
}

func TestEnrich_PhysicalProperties(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	f := e.Enrich(context.Background(), Section9, pubchemtest.TolueneCAS)

	assert.Equal(t, "-95 °C", f.String("t_change"))
	assert.Equal(t, "110.6 °C", f.String("boiling_point"))
	assert.Equal(t, "In water, 526 mg/L at 25 °C", f.String("solubility"))
	assert.True(t, strings.HasPrefix(f.String("phys"), "Toluene appears as a clear colorless liquid"))
	// Headings PubChem has no record of are left for the user.
	_, ok := f["flash_point"]
	assert.False(t, ok)
}

func TestEnrich_PhysicalPropertiesUnknownCompound(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	f := e.Enrich(context.Background(), Section9, pubchemtest.UnknownCAS)

	require.Len(t, f, len(physicalHeadings))
	for _, p := range physicalHeadings {
		assert.Equal(t, DataNotAvailable, f.String(p.field), p.field)
	}
}

func TestEnrich_ToxicologyAndEcology(t *testing.T) {
	defer verifyNoLeaks(t)
	e := newTolueneEnricher(t)

	tox := e.Enrich(context.Background(), Section11, pubchemtest.TolueneCAS)
	assert.Equal(t, "LC50 (rat) = 49,000 mg/m3/4h;LD50 (rat, oral) = 5,580 mg/kg", tox.String("acute_toxicity_estimates"))
	assert.Equal(t, "Inhalation may cause dizziness, drowsiness and headache.;"+
		"Aspiration into the lungs may cause chemical pneumonitis.", tox.String("immediate_effects"))
	_, ok := tox["symptoms"]
	assert.False(t, ok)

	eco := e.Enrich(context.Background(), Section12, pubchemtest.TolueneCAS)
	assert.Equal(t, Fields{"ecotoxicity": "LC50; Species: Oncorhynchus mykiss; Concentration: 5.8 mg/L for 96 hr"}, eco)
}

func TestEnrich_StepsWithoutEnrichment(t *testing.T) {
	e := newTolueneEnricher(t)
	for _, st := range []Step{Section1, Section13, Section15, Section16} {
		assert.Empty(t, e.Enrich(context.Background(), st, pubchemtest.TolueneCAS), st)
	}
}

func TestEnrich_UnknownCompound(t *testing.T) {
	e := newTolueneEnricher(t)
	assert.Empty(t, e.Enrich(context.Background(), Section2, pubchemtest.UnknownCAS))
	assert.Empty(t, e.Enrich(context.Background(), Section14, pubchemtest.UnknownCAS))
}

//Personal.AI order the ending
