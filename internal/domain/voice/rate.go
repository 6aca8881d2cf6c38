package voice

// Speech rate bounds, in words per minute. DefaultRate matches the backend default.
const (
	MinRate     = 100
	MaxRate     = 300
	DefaultRate = 175

	slowBelow = 140
	fastAbove = 210
)

const (
	RateSlow   = "Slow"
	RateNormal = "Normal"
	RateFast   = "Fast"
)

// RateLabel maps a speech rate to its display label. It does not change the
// value sent to the synthesizer.
func RateLabel(rate int) string {
	switch {
	case rate < slowBelow:
		return RateSlow
	case rate > fastAbove:
		return RateFast
	default:
		return RateNormal
	}
}

// ClampRate keeps a rate within the slider range.
func ClampRate(rate int) int {
	if rate < MinRate {
		return MinRate
	}
	if rate > MaxRate {
		return MaxRate
	}
	return rate
}
