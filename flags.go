package physics2d

// BodyFlags is the mutable bitmask carried per body sim. Modeled as a
// typed bitset rather than individual bools so atomic-style clear/copy
// operations across solver phases are explicit.
type BodyFlags uint16

const (
	FlagIsFast BodyFlags = 1 << iota
	FlagIsBullet
	FlagIsSpeedCapped
	FlagHadTimeOfImpact
	FlagEnlargeBounds
	FlagAllowFastRotation
	FlagLockLinearX
	FlagLockLinearY
	FlagLockAngularZ
)

func (f BodyFlags) Has(bit BodyFlags) bool { return f&bit != 0 }

func (f BodyFlags) Set(bit BodyFlags) BodyFlags { return f | bit }

func (f BodyFlags) Clear(bit BodyFlags) BodyFlags { return f &^ bit }

// CopyMasked copies the bits in mask from src onto f, leaving all other
// bits in f untouched. The Finalizer does not use it: it ORs
// isSpeedCapped/hadTimeOfImpact in, so bits already set are never cleared.
func (f BodyFlags) CopyMasked(src BodyFlags, mask BodyFlags) BodyFlags {
	return (f &^ mask) | (src & mask)
}
