package pubchem

// PUG View headings the wizard reads.
const (
	HeadingGHSClassification = "GHS Classification"
	HeadingHazardClasses     = "Hazard Classes and Categories"

	HeadingFirstAid           = "First Aid Measures"
	HeadingFireFighting       = "Fire Fighting Procedures"
	HeadingAccidentalRelease  = "Accidental Release Measures"
	HeadingHandlingStorage    = "Handling and Storage"
	HeadingSafeStorage        = "Safe Storage"
	HeadingExposureLimits     = "Occupational Exposure Limits (OEL)"
	HeadingPhysicalDesc       = "Physical Description"
	HeadingOdor               = "Odor"
	HeadingMeltingPoint       = "Melting Point"
	HeadingBoilingPoint       = "Boiling Point"
	HeadingFlammableLimits    = "Flammable Limits"
	HeadingFlashPoint         = "Flash Point"
	HeadingAutoignition       = "Autoignition Temperature"
	HeadingPH                 = "pH"
	HeadingSolubility         = "Solubility"
	HeadingVaporPressure      = "Vapor Pressure"
	HeadingVaporDensity       = "Vapor Density"
	HeadingReactivityProfile  = "Reactivity Profile"
	HeadingHazardousReactions = "Other Hazardous Reactions"
	HeadingDecomposition      = "Decomposition"
	HeadingIrritations        = "Skin, Eye, and Respiratory Irritations"
	HeadingToxicityData       = "Toxicity Data"
	HeadingAcuteEffects       = "Acute Effects"
	HeadingAdverseEffects     = "Adverse Effects"
	HeadingEcotoxicityValues  = "Ecotoxicity Values"
	HeadingEcotoxicityExcerpt = "Ecotoxicity Excerpts"
	HeadingBiologicalHalfLife = "Biological Half-Life"
	HeadingSoilMobility       = "Soil Adsorption/Mobility"
	HeadingBiodegradation     = "Environmental Biodegradation"
	HeadingUNNumber           = "UN number"
	HeadingShippingName       = "Shipping Name/ Number DOT/UN/NA/IMO"
)

//Personal.AI order the ending
