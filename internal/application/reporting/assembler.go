package reporting

import (
	"strings"

	"github.com/turtacn/sds-wizard/internal/domain/sds"
)

// ============================================================================
// Constants
// ============================================================================

const (
	DocumentTitle = "Safety Data Sheet (SDS)"

	// NotAvailable stands in for an empty classification or hazard list.
	NotAvailable = "N/A"

	NoLabelElements           = "No label elements provided."
	NoPrecautionaryStatements = "No precautionary statements provided."
)

// alwaysEmitted is the number of leading sections rendered even when empty.
const alwaysEmitted = 11

// ============================================================================
// Assembler
// ============================================================================

// Assembler lays a Record out as a Document.  It is stateless and safe for
// concurrent use.
type Assembler struct {
	pictograms sds.PictogramTable
}

// NewAssembler builds an Assembler that resolves label element images through
// pictograms.
func NewAssembler(pictograms sds.PictogramTable) *Assembler {
	return &Assembler{pictograms: pictograms}
}

type sectionSpec struct {
	title string
	// fields decides inclusion for optional sections.
	fields func(*sds.Record) []string
	build  func(*Assembler, *sds.Record) []Block
}

var sections = []sectionSpec{
	{title: "Section 1: Identification", build: (*Assembler).identification},
	{title: "Section 2: Hazard(s) Identification", build: (*Assembler).hazards},
	{title: "Section 3: Composition/information on ingredients", build: (*Assembler).composition},
	{title: "Section 4: First aid measures", build: (*Assembler).firstAid},
	{title: "Section 5: Fire-fighting measures", build: (*Assembler).fireFighting},
	{title: "Section 6: Accidental release measures", build: (*Assembler).accidentalRelease},
	{title: "Section 7: Handling and storage", build: (*Assembler).handling},
	{title: "Section 8: Exposure Controls/Personal Protection", build: (*Assembler).exposure},
	{title: "Section 9: Physical and chemical properties", build: (*Assembler).physical},
	{title: "Section 10: Stability and Reactivity", build: (*Assembler).stability},
	{title: "Section 11: Toxicological Information", build: (*Assembler).toxicology},
	{
		title:  "Section 12: Ecological Information",
		fields: func(r *sds.Record) []string { return values(ecologyRows(r)) },
		build:  (*Assembler).ecology,
	},
	{
		title:  "Section 13: Disposal Considerations",
		fields: func(r *sds.Record) []string { return []string{r.DisposalMethods} },
		build: func(_ *Assembler, r *sds.Record) []Block {
			return []Block{text("", r.DisposalMethods)}
		},
	},
	{
		title:  "Section 14: Transport Information",
		fields: func(r *sds.Record) []string { return append(values(transportRows(r)), r.UNPicto) },
		build:  (*Assembler).transport,
	},
	{
		title:  "Section 15: Regulatory Information",
		fields: func(r *sds.Record) []string { return []string{r.SafetyHealthEnvironmentalRegulations} },
		build: func(_ *Assembler, r *sds.Record) []Block {
			return []Block{text("", strings.TrimSpace(r.SafetyHealthEnvironmentalRegulations))}
		},
	},
	{
		title: "Section 16: Other Information",
		fields: func(r *sds.Record) []string {
			return []string{r.OtherInformation, r.Disclaimer, r.Version, r.DateOfPreparation, r.LastRevisionDate}
		},
		build: (*Assembler).otherInformation,
	},
}

// Assemble produces the Document for rec.  Sections 1 to 11 are always
// present; later sections appear only when one of their fields is set.  The
// result depends on rec alone.
func (a *Assembler) Assemble(rec *sds.Record) Document {
	doc := Document{Title: DocumentTitle, Blocks: make([]Block, 0, 64)}
	if rec == nil {
		rec = &sds.Record{}
	}
	for i, s := range sections {
		if i >= alwaysEmitted && !anySet(s.fields(rec)) {
			continue
		}
		doc.Blocks = append(doc.Blocks, heading(s.title))
		doc.Blocks = append(doc.Blocks, s.build(a, rec)...)
	}
	return doc
}

// ============================================================================
// Sections
// ============================================================================

func (a *Assembler) identification(r *sds.Record) []Block {
	pairs := nonEmpty([]KeyValue{
		{"Product Name", r.ProductName},
		{"Product Number", r.ProductNumber},
		{"Index Number", r.IndexNumber},
		{"REACH No", r.ReachNo},
		{"CAS Number", r.CASNumber},
		{"Manufacturer Name", r.ManufacturerName},
		{"Manufacturer Address", r.ManufacturerAddress},
		{"Phone Number", r.PhoneNumber},
		{"Emergency Phone", r.EmergencyPhone},
		{"Recommended Use", r.RecommendedUse},
		{"Restrictions on Use", r.RestrictionsOnUse},
	})
	if len(pairs) == 0 {
		return nil
	}
	return []Block{kvTable(pairs)}
}

func (a *Assembler) hazards(r *sds.Record) []Block {
	out := []Block{kvTable([]KeyValue{
		{"Classification", orNotAvailable(sds.Bulletize(r.Classification, ";"))},
		{"Hazard Statements", orNotAvailable(sds.Bulletize(r.HazardStatements, ";"))},
	})}

	if len(r.LabelElements) > 0 {
		images := make([]Image, 0, len(r.LabelElements))
		for _, el := range r.LabelElements {
			if p, ok := a.pictograms.Get(el.Description); ok {
				images = append(images, Image{URL: p.URL, Caption: p.Name})
			}
		}
		if len(images) > 0 {
			out = append(out, imageGrid("Label Elements", images))
		} else {
			out = append(out, text("", NoLabelElements))
		}
	}

	out = append(out, Block{Kind: KindCentered, Label: "Signal Word", Text: r.SignalWord})

	precautionary := make([]KeyValue, 0, len(sds.Categories))
	for _, cat := range sds.Categories {
		if b := sds.Bulletize(statements(r, cat), ";"); b != "" {
			precautionary = append(precautionary, KeyValue{cat.Title(), b})
		}
	}
	if len(precautionary) > 0 {
		out = append(out, subheading("Precautionary Statements"), kvTable(precautionary))
	} else {
		out = append(out, text("", NoPrecautionaryStatements))
	}

	if strings.TrimSpace(r.OtherHazards) != "" {
		out = append(out, text("Hazards not otherwise classified (HNOC)", r.OtherHazards))
	}
	return out
}

func (a *Assembler) composition(r *sds.Record) []Block {
	kind := "Mixture"
	if r.SubstanceOrMixture == "substance" {
		kind = "Substance"
	}
	return []Block{table(
		[]string{"Substance/Mixture", "Chemical Name", "Synonyms", "Concentration", "Other Identifiers"},
		[]string{kind, r.ChemicalName, r.Synonyms, r.Concentration, r.OtherUniqueIdentifiers},
	)}
}

func (a *Assembler) firstAid(r *sds.Record) []Block {
	out := []Block{table(
		[]string{"Exposure route", "Symptom", "Medical attention"},
		[]string{"Inhalation", r.SympInhal, r.AidInhal},
		[]string{"Ingestion", r.SympInges, r.AidInges},
		[]string{"Eye Contact", r.SympEye, r.AidEye},
		[]string{"Skin contact", r.SympSkin, r.AidSkin},
	)}
	if strings.TrimSpace(r.ImmediateAttention) != "" {
		out = append(out, text("Indication of immediate medical attention and special treatment needed", r.ImmediateAttention))
	}
	return out
}

func (a *Assembler) fireFighting(r *sds.Record) []Block {
	return []Block{kvTable([]KeyValue{
		{"Extinguishing Media", sds.Bulletize(r.SuitableExtinguishingMedia, ";")},
		{"Specific hazards arising from the chemical", r.SpecificHazardsArising},
		{"Special protective measures to control fire", sds.Bulletize(r.SpecialProtectiveActions, ";")},
	})}
}

func (a *Assembler) accidentalRelease(r *sds.Record) []Block {
	pairs := nonEmpty([]KeyValue{
		{"Personal Precautions", sds.Bulletize(r.PersonalPrecautions, ";")},
		{"Protective Equipment", r.ProtectiveEquipment},
		{"Emergency Procedures", r.EmergencyProcedures},
		{"Environmental Precautions", r.EnvironmentalPrecautions},
		{"Methods and Materials for Containment", r.MethodsAndMaterialsForClean},
	})
	if len(pairs) == 0 {
		return nil
	}
	return []Block{kvTable(pairs)}
}

func (a *Assembler) handling(r *sds.Record) []Block {
	return []Block{table(
		[]string{"Precautions for safe handling", "Conditions for safe storage"},
		[]string{sds.Bulletize(r.PrecautionsForSafeHandling, ";"), r.ConditionsForSafeStorage},
	)}
}

func (a *Assembler) exposure(r *sds.Record) []Block {
	return []Block{table(
		[]string{"Control parameters", "Appropriate engineering controls", "Individual protection measures"},
		[]string{r.ControlParameters, r.AppropriateEngineeringControl, r.IndividualProtectionMeasures},
	)}
}

func (a *Assembler) physical(r *sds.Record) []Block {
	return []Block{propertyTable([]KeyValue{
		{"Physical State/Appearance", r.Phys},
		{"Colour", r.Colour},
		{"Odor", r.Odor},
		{"pH", r.PH},
		{"Melting Point/Freezing Point", r.TChange},
		{"Boiling Point", r.BoilingPoint},
		{"Flash Point", r.FlashPoint},
		{"Evaporation Rate", r.EvaporationRate},
		{"Flammability Information", r.FlammabilityInformation},
		{"Vapor Pressure", r.VaporPressure},
		{"Density and/or Relative Density", r.Density},
		{"Relative Vapour Density", r.RelativeVapourDensity},
		{"Solubility", r.Solubility},
		{"Partition Coefficient (n-octanol/water)", r.Partition},
		{"Auto-Ignition Temperature", r.AutoIgnitionTemperature},
		{"Decomposition Temperature", r.DecompositionTemperature},
		{"Kinematic Viscosity", r.KinematicViscosity},
		{"Particle Characteristics", r.ParticleCharacteristics},
	})}
}

func (a *Assembler) stability(r *sds.Record) []Block {
	return []Block{propertyTable([]KeyValue{
		{"Reactivity", r.Reactivity},
		{"Chemical stability", r.ChemicalStability},
		{"Possibility of hazardous reactions", r.PossibilityOfHazardousReaction},
		{"Conditions to avoid", r.ConditionsToAvoid},
		{"Incompatible materials", r.IncompatibleMaterials},
		{"Hazardous decomposition products", r.HazardousDecompositionProducts},
	})}
}

func (a *Assembler) toxicology(r *sds.Record) []Block {
	return []Block{propertyTable([]KeyValue{
		{"Inhalation Route of Exposure", r.InhalationRoute},
		{"Ingestion Route of Exposure", r.IngestionRoute},
		{"Skin Contact Route of Exposure", r.SkinContactRoute},
		{"Eye Contact Route of Exposure", r.EyeContactRoute},
		{"Symptoms Related to Physical, Chemical, and Toxicological Characteristics", r.Symptoms},
		{"Delayed Effects", r.DelayedEffects},
		{"Immediate Effects", r.ImmediateEffects},
		{"Chronic Effects", r.ChronicEffects},
		{"Numerical Measures of Toxicity", sds.Bulletize(r.AcuteToxicityEstimates, ";")},
	})}
}

func ecologyRows(r *sds.Record) []KeyValue {
	return []KeyValue{
		{"Ecotoxicity", r.Ecotoxicity},
		{"Persistence and Degradability", r.PersistenceAndDegradability},
		{"Bioaccumulative Potential", r.BioaccumulativePotential},
		{"Mobility in Soil", r.MobilityInSoil},
		{"Other Adverse Effects", r.OtherAdverseEffects},
	}
}

func (a *Assembler) ecology(r *sds.Record) []Block {
	return []Block{propertyTable(ecologyRows(r))}
}

func transportRows(r *sds.Record) []KeyValue {
	return []KeyValue{
		{"UN Number", r.UNNumber},
		{"UN Proper Shipping Name", r.UNProperShippingName},
		{"Transport Hazard Class", r.TransportHazardClass},
		{"Packing Group", r.PackingGroup},
		{"Environmental Hazards", r.EnvironmentalHazards},
		{"Special Precautions", r.SpecialPrecautions},
		{"Transport in Bulk", r.TransportInBulk},
	}
}

func (a *Assembler) transport(r *sds.Record) []Block {
	var out []Block
	if pairs := nonEmpty(transportRows(r)); len(pairs) > 0 {
		out = append(out, kvTable(pairs))
	}
	if images := unPictograms(r.UNPicto); len(images) > 0 {
		out = append(out, imageGrid("UN Model Regulation Pictograms", images))
	}
	return out
}

func (a *Assembler) otherInformation(r *sds.Record) []Block {
	out := make([]Block, 0, 5)
	for _, kv := range nonEmpty([]KeyValue{
		{"Other information", r.OtherInformation},
		{"Disclaimer", r.Disclaimer},
		{"Version", r.Version},
		{"Date of Preparation", r.DateOfPreparation},
		{"Last Revision Date", r.LastRevisionDate},
	}) {
		out = append(out, text(kv.Key, kv.Value))
	}
	return out
}

// ============================================================================
// Helpers
// ============================================================================

func statements(r *sds.Record, cat sds.Category) string {
	switch cat {
	case sds.CategoryGeneral:
		return r.GeneralStatements
	case sds.CategoryPrevention:
		return r.PreventionStatements
	case sds.CategoryResponse:
		return r.ResponseStatements
	case sds.CategoryStorage:
		return r.StorageStatements
	case sds.CategoryDisposal:
		return r.DisposalStatements
	}
	return ""
}

// unPictograms splits the comma-separated UN_picto URL list.
func unPictograms(s string) []Image {
	out := make([]Image, 0)
	for _, u := range strings.Split(s, ",") {
		if u = strings.TrimSpace(u); u != "" {
			out = append(out, Image{URL: u})
		}
	}
	return out
}

// propertyTable is the Property/Value layout of sections 9 to 12, listing
// only set values.
func propertyTable(pairs []KeyValue) Block {
	rows := make([][]string, 0, len(pairs))
	for _, kv := range nonEmpty(pairs) {
		rows = append(rows, []string{kv.Key, kv.Value})
	}
	return table([]string{"Property", "Value"}, rows...)
}

func nonEmpty(pairs []KeyValue) []KeyValue {
	out := make([]KeyValue, 0, len(pairs))
	for _, kv := range pairs {
		if v := strings.TrimSpace(kv.Value); v != "" {
			out = append(out, KeyValue{kv.Key, v})
		}
	}
	return out
}

func values(pairs []KeyValue) []string {
	out := make([]string, len(pairs))
	for i, kv := range pairs {
		out[i] = kv.Value
	}
	return out
}

func anySet(vs []string) bool {
	for _, v := range vs {
		if strings.TrimSpace(v) != "" {
			return true
		}
	}
	return false
}

func orNotAvailable(s string) string {
	if s == "" {
		return NotAvailable
	}
	return s
}

//Personal.AI order the ending
