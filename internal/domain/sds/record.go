// Package sds holds the safety data sheet domain model: the aggregated Record,
// label elements, GHS statement codes and their classification, and the code
// and pictogram tables the enrichment pipeline is configured with.
package sds

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// ─────────────────────────────────────────────────────────────────────────────
// Domain Events
// ─────────────────────────────────────────────────────────────────────────────

// CompletedEvent is published once a Record has been persisted.
type CompletedEvent struct {
	RecordID    uuid.UUID `json:"record_id"`
	CASNumber   string    `json:"cas_number"`
	ProductName string    `json:"product_name"`
	CompletedAt time.Time `json:"completed_at"`
}

func (e CompletedEvent) EventType() string { return "sds.completed" }

// ─────────────────────────────────────────────────────────────────────────────
// Record aggregate
// ─────────────────────────────────────────────────────────────────────────────

// Record is the fully aggregated 16-section safety data sheet.  Every field
// is a plain string except LabelElements; unknown values are "".  JSON tags
// are the wizard field names, so a merged step map decodes straight into it.
type Record struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	// Section 1: Identification
	ProductName         string `json:"product_name"`
	ProductNumber       string `json:"product_number"`
	IndexNumber         string `json:"index_number"`
	ReachNo             string `json:"reach_no"`
	CASNumber           string `json:"cas_number"`
	ManufacturerName    string `json:"manufacturer_name"`
	ManufacturerAddress string `json:"manufacturer_address"`
	PhoneNumber         string `json:"phone_number"`
	EmergencyPhone      string `json:"emergency_phone"`
	RecommendedUse      string `json:"recommended_use"`
	RestrictionsOnUse   string `json:"restrictions_on_use"`

	// Section 2: Hazard(s) identification
	Classification       string         `json:"classification"`
	LabelElements        []LabelElement `json:"label_elements"`
	SignalWord           string         `json:"signal_word"`
	HazardStatements     string         `json:"hazard_statements"`
	GeneralStatements    string         `json:"general_statements"`
	PreventionStatements string         `json:"prevention_statements"`
	ResponseStatements   string         `json:"response_statements"`
	StorageStatements    string         `json:"storage_statements"`
	DisposalStatements   string         `json:"disposal_statements"`
	OtherHazards         string         `json:"other_hazards"`

	// Section 3: Composition
	SubstanceOrMixture     string `json:"substance_or_mixture"`
	ChemicalName           string `json:"chemical_name"`
	Synonyms               string `json:"synonyms"`
	Concentration          string `json:"concentration"`
	OtherUniqueIdentifiers string `json:"other_unique_identifiers"`

	// Section 4: First aid
	AidInhal           string `json:"aid_inhal"`
	AidInges           string `json:"aid_inges"`
	AidEye             string `json:"aid_eye"`
	AidSkin            string `json:"aid_skin"`
	SympInhal          string `json:"symp_inhal"`
	SympInges          string `json:"symp_inges"`
	SympEye            string `json:"symp_eye"`
	SympSkin           string `json:"symp_skin"`
	ImmediateAttention string `json:"immediate_attention"`

	// Section 5: Fire-fighting
	SuitableExtinguishingMedia string `json:"suitable_extinguishing_media"`
	SpecificHazardsArising     string `json:"specific_hazards_arising"`
	SpecialProtectiveActions   string `json:"special_protective_actions"`

	// Section 6: Accidental release
	PersonalPrecautions         string `json:"personal_precautions"`
	ProtectiveEquipment         string `json:"protective_equipment"`
	EmergencyProcedures         string `json:"emergency_procedures"`
	EnvironmentalPrecautions    string `json:"environmental_precautions"`
	MethodsAndMaterialsForClean string `json:"methods_and_materials_for_containment"`

	// Section 7: Handling and storage
	PrecautionsForSafeHandling string `json:"precautions_for_safe_handling"`
	ConditionsForSafeStorage   string `json:"conditions_for_safe_storage"`

	// Section 8: Exposure controls
	ControlParameters             string `json:"control_parameters"`
	AppropriateEngineeringControl string `json:"appropriate_engineering_controls"`
	IndividualProtectionMeasures  string `json:"individual_protection_measures"`

	// Section 9: Physical and chemical properties
	Phys                     string `json:"phys"`
	Colour                   string `json:"colour"`
	Odor                     string `json:"odor"`
	PH                       string `json:"pH"`
	TChange                  string `json:"t_change"`
	BoilingPoint             string `json:"boiling_point"`
	FlashPoint               string `json:"flash_point"`
	EvaporationRate          string `json:"evaporation_rate"`
	FlammabilityInformation  string `json:"flammability_information"`
	VaporPressure            string `json:"vapor_pressure"`
	Density                  string `json:"density"`
	RelativeVapourDensity    string `json:"relative_vapour_density"`
	Solubility               string `json:"solubility"`
	Partition                string `json:"partition"`
	AutoIgnitionTemperature  string `json:"auto_ignition_temperature"`
	DecompositionTemperature string `json:"decomposition_temperature"`
	KinematicViscosity       string `json:"kinematic_viscosity"`
	ParticleCharacteristics  string `json:"particle_characteristics"`

	// Section 10: Stability and reactivity
	Reactivity                     string `json:"reactivity"`
	ChemicalStability              string `json:"chemical_stability"`
	PossibilityOfHazardousReaction string `json:"possibility_of_hazardous_reactions"`
	ConditionsToAvoid              string `json:"conditions_to_avoid"`
	IncompatibleMaterials          string `json:"incompatible_materials"`
	HazardousDecompositionProducts string `json:"hazardous_decomposition_products"`

	// Section 11: Toxicological information
	InhalationRoute        string `json:"inhalation_route"`
	IngestionRoute         string `json:"ingestion_route"`
	SkinContactRoute       string `json:"skin_contact_route"`
	EyeContactRoute        string `json:"eye_contact_route"`
	Symptoms               string `json:"symptoms"`
	DelayedEffects         string `json:"delayed_effects"`
	ImmediateEffects       string `json:"immediate_effects"`
	ChronicEffects         string `json:"chronic_effects"`
	AcuteToxicityEstimates string `json:"acute_toxicity_estimates"`

	// Section 12: Ecological information
	Ecotoxicity                 string `json:"ecotoxicity"`
	PersistenceAndDegradability string `json:"persistence_and_degradability"`
	BioaccumulativePotential    string `json:"bioaccumulative_potential"`
	MobilityInSoil              string `json:"mobility_in_soil"`
	OtherAdverseEffects         string `json:"other_adverse_effects"`

	// Section 13: Disposal
	DisposalMethods string `json:"disposal_methods"`

	// Section 14: Transport
	UNNumber             string `json:"UN_number"`
	UNProperShippingName string `json:"UN_proper_shipping_name"`
	TransportHazardClass string `json:"transport_hazard_class"`
	PackingGroup         string `json:"packing_group"`
	EnvironmentalHazards string `json:"environmental_hazards"`
	SpecialPrecautions   string `json:"special_precautions"`
	TransportInBulk      string `json:"transport_in_bulk"`
	UNPicto              string `json:"UN_picto"`

	// Section 15: Regulatory
	SafetyHealthEnvironmentalRegulations string `json:"safety_health_environmental_regulations"`

	// Section 16: Other information
	DateOfPreparation string `json:"date_of_preparation"`
	LastRevisionDate  string `json:"last_revision_date"`
	Version           string `json:"version"`
	Disclaimer        string `json:"disclaimer"`
	OtherInformation  string `json:"other_information"`
}

// CompletedEvent builds the event published after rec is saved.
func (r *Record) CompletedEvent(at time.Time) CompletedEvent {
	return CompletedEvent{
		RecordID:    r.ID,
		CASNumber:   r.CASNumber,
		ProductName: r.ProductName,
		CompletedAt: at,
	}
}

// Repository is the persistence boundary for completed records.
type Repository interface {
	// Save persists rec and returns its id.  rec.ID is assigned when zero.
	Save(ctx context.Context, rec *Record) (uuid.UUID, error)

	// FindByID returns errors.ErrCodeSDSNotFound when no record matches.
	FindByID(ctx context.Context, id uuid.UUID) (*Record, error)
}

//Personal.AI order the ending
