package imageproc

// Tier is a named compression policy selected by source byte size.
type Tier string

const (
	TierNone       Tier = "none"
	TierLight      Tier = "light"
	TierStandard   Tier = "standard"
	TierAggressive Tier = "aggressive"
)

type Strategy struct {
	Tier         Tier
	MaxDimension int     // cap on the longer side; 0 means unlimited
	Quality      float64 // jpeg quality as a fraction; 1.0 means no re-encode
}

const (
	noneMaxBytes     = 500 << 10 // 500 KiB
	lightMaxBytes    = 1 << 20   // 1 MiB
	standardMaxBytes = 3 << 20   // 3 MiB
)

// SelectStrategy picks the compression tier for a source of the given byte
// size. The smallest matching tier wins.
func SelectStrategy(byteSize int64) Strategy {
	switch {
	case byteSize <= noneMaxBytes:
		return Strategy{Tier: TierNone, MaxDimension: 0, Quality: 1.0}
	case byteSize <= lightMaxBytes:
		return Strategy{Tier: TierLight, MaxDimension: 1200, Quality: 0.9}
	case byteSize <= standardMaxBytes:
		return Strategy{Tier: TierStandard, MaxDimension: 1000, Quality: 0.8}
	default:
		return Strategy{Tier: TierAggressive, MaxDimension: 800, Quality: 0.7}
	}
}

// Thumbnails always get the same treatment regardless of tier.
const (
	thumbMaxWidth  = 300
	thumbMaxHeight = 300
	thumbQuality   = 0.8
)
