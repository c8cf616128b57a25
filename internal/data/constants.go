package data

// XP rewards.
const (
	XPKill               = 10
	XPGoldenBonus        = 40 // on top of XPKill
	XPBefriend           = 5
	XPGoldenTameBonus    = 20 // on top of XPBefriend
	XPHissedFleePenalty  = -250
	XPInsurancePayout    = 4 // compensation for an insured accident victim
	DetectorUsesPerBuy   = 10
	UpgradePriceFactor   = 2 // upgrade price doubles per purchased level
	MaxUpgradeLevel      = 5
)

// Probabilities. All are per-attempt and independent.
const (
	HissChance     = 0.05 // befriend miss turns the duck resistant (1/20)
	FrightenChance = 0.04 // a loud miss scares the duck away (silencer suppresses)
	WildFireChance = 0.03 // a miss redirects into a random bystander

	// Ricochet is rolled only when wild fire did not trigger, and only
	// with special ammunition loaded.
	RicochetChanceAP        = 0.02
	RicochetChanceExplosive = 0.05

	LootChance = 0.10 // qualifying kills roll the loot table
)

// Modifier shaping.
const (
	// Special ammunition closes this share of the gap to 100% accuracy.
	AccuracyGapClose = 0.25
	// Bread closes this share of the befriending gap.
	BreadGapClose = 0.5
	// Golden ducks resist befriending without bread.
	GoldenTameFactor = 0.5
	// A dazzled hunter (mirror, no sunglasses) shoots at half accuracy.
	MirrorAccuracyFactor = 0.5
	// Grease halves the jam chance; sand doubles it.
	GreaseJamFactor = 0.5
	SandJamFactor   = 2.0
)
