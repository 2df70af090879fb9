package fusion

import (
	"github.com/litescript/ls-skylens/internal/mathutil"
)

// Strategy selects how successive orientation samples are blended.
type Strategy int

const (
	// StrategyComplementary spherically interpolates between the previous
	// and the new orientation with weight 1-alpha.
	StrategyComplementary Strategy = iota

	// StrategyLowpass blends quaternion components exponentially and
	// re-normalizes.
	StrategyLowpass

	// StrategyAdaptive behaves like the complementary filter but halves
	// alpha when the angular change between samples exceeds the motion
	// threshold, tracking fast motion while damping rest jitter.
	StrategyAdaptive
)

// String returns the strategy name.
func (s Strategy) String() string {
	switch s {
	case StrategyComplementary:
		return "complementary"
	case StrategyLowpass:
		return "lowpass"
	case StrategyAdaptive:
		return "adaptive"
	default:
		return "unknown"
	}
}

// ParseStrategy parses a strategy name, defaulting to complementary.
func ParseStrategy(s string) Strategy {
	switch s {
	case "lowpass":
		return StrategyLowpass
	case "adaptive":
		return StrategyAdaptive
	default:
		return StrategyComplementary
	}
}

// FilterConfig tunes a Filter.
type FilterConfig struct {
	Strategy Strategy

	// Alpha is the smoothing coefficient in [0,1): the share of the
	// previous orientation retained per sample. 0 disables smoothing.
	Alpha float64

	// MotionThresholdRad is the angular change per sample above which the
	// adaptive strategy halves alpha.
	MotionThresholdRad float64
}

// DefaultFilterConfig returns the tuning used when nothing is configured.
func DefaultFilterConfig() FilterConfig {
	return FilterConfig{
		Strategy:           StrategyComplementary,
		Alpha:              0.85,
		MotionThresholdRad: 0.35, // ~20°
	}
}

// Filter smooths a stream of orientation samples. Each Filter owns its state
// exclusively; it is created at sensor start and discarded at sensor stop,
// never shared.
type Filter struct {
	cfg           FilterConfig
	prev          mathutil.Quat
	prevHeading   float64
	initialized   bool
	headingSeeded bool
}

// NewFilter creates a filter in the uninitialized state.
func NewFilter(cfg FilterConfig) *Filter {
	if cfg.Alpha < 0 || cfg.Alpha >= 1 {
		cfg.Alpha = DefaultFilterConfig().Alpha
	}
	if cfg.MotionThresholdRad <= 0 {
		cfg.MotionThresholdRad = DefaultFilterConfig().MotionThresholdRad
	}
	return &Filter{cfg: cfg}
}

// Initialized reports whether the filter has seeded from a first sample.
func (f *Filter) Initialized() bool {
	return f.initialized
}

// Reset returns the filter to the uninitialized state.
func (f *Filter) Reset() {
	f.prev = mathutil.Quat{}
	f.prevHeading = 0
	f.initialized = false
	f.headingSeeded = false
}

// Orientation returns the current filtered orientation.
func (f *Filter) Orientation() mathutil.Quat {
	if !f.initialized {
		return mathutil.IdentityQuat()
	}
	return f.prev
}

// Apply feeds one orientation sample through the filter and returns the
// smoothed orientation. The first valid sample seeds the filter directly
// with no smoothing. The result is always unit magnitude.
func (f *Filter) Apply(next mathutil.Quat) mathutil.Quat {
	next = next.Normalized()

	if !f.initialized {
		f.prev = next
		f.initialized = true
		return f.prev
	}

	weight := 1 - f.alphaFor(next)

	switch f.cfg.Strategy {
	case StrategyLowpass:
		f.prev = mathutil.Lerp(f.prev, next, weight)
	default: // complementary and adaptive
		f.prev = mathutil.Slerp(f.prev, next, weight)
	}

	return f.prev
}

// ApplyHeading smooths a heading sample in degrees along the shorter arc,
// using the same coefficient schedule as Apply.
func (f *Filter) ApplyHeading(next float64) float64 {
	if !f.headingSeeded {
		f.prevHeading = normalizeHeading(next)
		f.headingSeeded = true
		return f.prevHeading
	}

	delta := mathutil.DegToRad(headingDelta(f.prevHeading, next))
	alpha := f.cfg.Alpha
	if f.cfg.Strategy == StrategyAdaptive && abs(delta) > f.cfg.MotionThresholdRad {
		alpha /= 2
	}

	f.prevHeading = blendHeading(f.prevHeading, next, 1-alpha)
	return f.prevHeading
}

// alphaFor returns the effective alpha for the next orientation sample.
func (f *Filter) alphaFor(next mathutil.Quat) float64 {
	alpha := f.cfg.Alpha
	if f.cfg.Strategy == StrategyAdaptive && f.prev.AngleTo(next) > f.cfg.MotionThresholdRad {
		alpha /= 2
	}
	return alpha
}

// headingDelta returns the signed shorter-arc difference next-prev in degrees.
func headingDelta(prev, next float64) float64 {
	d := next - prev
	for d > 180 {
		d -= 360
	}
	for d < -180 {
		d += 360
	}
	return d
}

func abs(v float64) float64 {
	if v < 0 {
		return -v
	}
	return v
}
