// Package wizard drives the 16-step safety data sheet flow: it gates forward
// progress on validation, seeds each step with PubChem enrichment fetched at
// most once per session, and aggregates the submitted steps into an
// sds.Record on completion.
package wizard

import "strconv"

// Step names one wizard page.  section1 … section16 map one-to-one onto the
// record sections; done and error are terminal.
type Step string

const (
	Section1  Step = "section1"
	Section2  Step = "section2"
	Section3  Step = "section3"
	Section4  Step = "section4"
	Section5  Step = "section5"
	Section6  Step = "section6"
	Section7  Step = "section7"
	Section8  Step = "section8"
	Section9  Step = "section9"
	Section10 Step = "section10"
	Section11 Step = "section11"
	Section12 Step = "section12"
	Section13 Step = "section13"
	Section14 Step = "section14"
	Section15 Step = "section15"
	Section16 Step = "section16"

	StepDone  Step = "done"
	StepError Step = "error"
)

// Steps lists the form steps in order.
var Steps = []Step{
	Section1, Section2, Section3, Section4, Section5, Section6, Section7, Section8,
	Section9, Section10, Section11, Section12, Section13, Section14, Section15, Section16,
}

// Well-known field names.
const (
	FieldCASNumber            = "cas_number"
	FieldVersion              = "version"
	FieldSignalWord           = "signal_word"
	FieldLabelElements        = "label_elements"
	FieldAdditionalPictograms = "additional_pictograms"
)

// stepFields are the form fields accepted per step, in display order.
var stepFields = map[Step][]string{
	Section1: {
		"product_name", "product_number", "index_number", "reach_no", FieldCASNumber,
		"manufacturer_name", "manufacturer_address", "phone_number", "emergency_phone",
		"recommended_use", "restrictions_on_use",
	},
	Section2: {
		"classification", FieldLabelElements, FieldSignalWord, "hazard_statements",
		"general_statements", "prevention_statements", "response_statements",
		"storage_statements", "disposal_statements", "other_hazards",
		FieldAdditionalPictograms,
	},
	Section3: {
		"substance_or_mixture", "chemical_name", "synonyms", "concentration",
		"other_unique_identifiers",
	},
	Section4: {
		"aid_inhal", "aid_inges", "aid_eye", "aid_skin",
		"symp_inhal", "symp_inges", "symp_eye", "symp_skin", "immediate_attention",
	},
	Section5: {
		"suitable_extinguishing_media", "specific_hazards_arising", "special_protective_actions",
	},
	Section6: {
		"personal_precautions", "protective_equipment", "emergency_procedures",
		"environmental_precautions", "methods_and_materials_for_containment",
	},
	Section7: {
		"precautions_for_safe_handling", "conditions_for_safe_storage",
	},
	Section8: {
		"control_parameters", "appropriate_engineering_controls", "individual_protection_measures",
	},
	Section9: {
		"phys", "colour", "odor", "pH", "t_change", "boiling_point", "flash_point",
		"evaporation_rate", "flammability_information", "vapor_pressure", "density",
		"relative_vapour_density", "solubility", "partition", "auto_ignition_temperature",
		"decomposition_temperature", "kinematic_viscosity", "particle_characteristics",
	},
	Section10: {
		"reactivity", "chemical_stability", "possibility_of_hazardous_reactions",
		"conditions_to_avoid", "incompatible_materials", "hazardous_decomposition_products",
	},
	Section11: {
		"inhalation_route", "ingestion_route", "skin_contact_route", "eye_contact_route",
		"symptoms", "delayed_effects", "immediate_effects", "chronic_effects",
		"acute_toxicity_estimates",
	},
	Section12: {
		"ecotoxicity", "persistence_and_degradability", "bioaccumulative_potential",
		"mobility_in_soil", "other_adverse_effects",
	},
	Section13: {"disposal_methods"},
	Section14: {
		"UN_number", "UN_proper_shipping_name", "transport_hazard_class", "packing_group",
		"environmental_hazards", "special_precautions", "transport_in_bulk", "UN_picto",
	},
	Section15: {"safety_health_environmental_regulations"},
	Section16: {
		"date_of_preparation", "last_revision_date", "disclaimer", FieldVersion, "other_information",
	},
}

// ParseStep accepts "section1" … "section16".  Terminal steps are not
// addressable.
func ParseStep(s string) (Step, bool) {
	st := Step(s)
	return st, st.Index() > 0
}

// Index is the 1-based position of s, or 0 for terminal and unknown steps.
func (s Step) Index() int {
	const prefix = "section"
	if len(s) <= len(prefix) || string(s[:len(prefix)]) != prefix {
		return 0
	}
	n, err := strconv.Atoi(string(s[len(prefix):]))
	if err != nil || n < 1 || n > len(Steps) || Steps[n-1] != s {
		return 0
	}
	return n
}

// Terminal reports whether s is done or error.
func (s Step) Terminal() bool { return s == StepDone || s == StepError }

// Next returns the following step; section16 is followed by done.
func (s Step) Next() Step {
	i := s.Index()
	switch {
	case i == 0:
		return s
	case i == len(Steps):
		return StepDone
	default:
		return Steps[i]
	}
}

// Prev returns the preceding step.  It is false on section1 and terminal
// steps.
func (s Step) Prev() (Step, bool) {
	i := s.Index()
	if i <= 1 {
		return s, false
	}
	return Steps[i-2], true
}

// Fields returns the form field names of s.
func (s Step) Fields() []string {
	out := make([]string, len(stepFields[s]))
	copy(out, stepFields[s])
	return out
}

func (s Step) String() string { return string(s) }

//Personal.AI order the ending
