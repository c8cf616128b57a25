package model

// EffectKind is the closed set of timed/limited effects a record can carry.
// Each maps to a pair of persisted columns (<kind>_until, and for
// uses-limited kinds <kind>_uses).
type EffectKind string

const (
	EffectTriggerLock        EffectKind = "trigger_lock"
	EffectGrease             EffectKind = "grease"
	EffectSilencer           EffectKind = "silencer"
	EffectSunglasses         EffectKind = "sunglasses"
	EffectDucksDetector      EffectKind = "ducks_detector"
	EffectMirror             EffectKind = "mirror"
	EffectSand               EffectKind = "sand"
	EffectSoaked             EffectKind = "soaked"
	EffectLifeInsurance      EffectKind = "life_insurance"
	EffectLiabilityInsurance EffectKind = "liability_insurance"
)

// EffectKinds lists every kind in stable order, for persistence and display.
var EffectKinds = []EffectKind{
	EffectTriggerLock,
	EffectGrease,
	EffectSilencer,
	EffectSunglasses,
	EffectDucksDetector,
	EffectMirror,
	EffectSand,
	EffectSoaked,
	EffectLifeInsurance,
	EffectLiabilityInsurance,
}

// TimedEffect is one active effect on a record.
// Until is wall-clock expiry in unix seconds (0 = untracked). Uses is the
// remaining use count for uses-limited kinds (trigger lock, detector).
type TimedEffect struct {
	Until int64
	Uses  int
}

// ActiveAt reports whether the effect is live at the given unix time.
// Uses-limited kinds stay live while uses remain even without an expiry.
func (e TimedEffect) ActiveAt(now int64) bool {
	if e.Until > now {
		return true
	}
	return e.Until == 0 && e.Uses > 0
}
