package fusion

import (
	"time"

	"github.com/litescript/ls-skylens/internal/mathutil"
)

// SkyPitchThresholdDeg is the single sky/ground boundary: an output is
// pointing skyward when pitch is strictly below this value. A pitch exactly
// at the threshold is ground-side.
const SkyPitchThresholdDeg = 8.0

// Tier identifies which rung of the fallback ladder produced a heading.
type Tier int

const (
	// TierMagnetic: tilt-compensated magnetometer heading, or an absolute
	// orientation sample.
	TierMagnetic Tier = iota

	// TierGyro: gyroscope rotation-rate integration; drifts over time.
	TierGyro

	// TierFixed: no directional sensor at all; heading pinned to true north.
	TierFixed
)

// String returns the tier name.
func (t Tier) String() string {
	switch t {
	case TierMagnetic:
		return "magnetic"
	case TierGyro:
		return "gyro"
	case TierFixed:
		return "fixed"
	default:
		return "unknown"
	}
}

// Confidence returns the documented confidence score for the tier.
func (t Tier) Confidence() float64 {
	switch t {
	case TierMagnetic:
		return 0.9
	case TierGyro:
		return 0.5
	default:
		return 0.1
	}
}

// Capabilities records which sensors the platform offers. Probed once at
// startup; the ladder never branches on event shape per callback.
type Capabilities struct {
	Magnetometer  bool
	Accelerometer bool
	Gyroscope     bool
	Orientation   bool // combined device-motion orientation events
}

// Output is the published fusion result. Consumers read outputs only; the
// internal filter state belongs to the engine alone.
type Output struct {
	HeadingDeg      float64 // [0,360), true north
	PitchDeg        float64
	RollDeg         float64
	Confidence      float64
	Tier            Tier
	PointingSkyward bool
	Orientation     mathutil.Quat
	Time            time.Time
}

// Config tunes a fusion engine.
type Config struct {
	Filter FilterConfig
	Caps   Capabilities

	// StaleAfter bounds how old a magnetometer or gravity reading may be
	// and still pair with a newer sample from the other sensor.
	StaleAfter time.Duration
}

// DefaultConfig returns the tuning used when nothing is configured.
func DefaultConfig() Config {
	return Config{
		Filter: DefaultFilterConfig(),
		Caps: Capabilities{
			Magnetometer:  true,
			Accelerometer: true,
			Gyroscope:     true,
		},
		StaleAfter: 500 * time.Millisecond,
	}
}

// Engine is the per-session sensor fusion state machine:
// Uninitialized → Tracking. It exclusively owns its FilterState; create one
// at sensor start, discard it at sensor stop.
type Engine struct {
	cfg    Config
	filter *Filter

	declDeg float64

	lastMag  SensorSample
	lastGrav SensorSample
	haveMag  bool
	haveGrav bool

	lastGyroTime   time.Time
	lastMagPublish time.Time

	calib     *Calibration
	offsetDeg float64

	out    Output
	closed bool
}

// NewEngine creates an engine in the uninitialized state.
func NewEngine(cfg Config) *Engine {
	if cfg.StaleAfter <= 0 {
		cfg.StaleAfter = DefaultConfig().StaleAfter
	}
	// Until a sample arrives the heading really is the pinned default, so
	// the output starts on the fixed rung; the first real sample promotes it.
	return &Engine{
		cfg:    cfg,
		filter: NewFilter(cfg.Filter),
		out: Output{
			Tier:            TierFixed,
			Confidence:      TierFixed.Confidence(),
			Orientation:     mathutil.IdentityQuat(),
			PointingSkyward: true, // pitch starts at 0, below the threshold
		},
	}
}

// SetDeclination sets the magnetic declination correction in degrees for the
// current location, from MagneticDeclination.
func (e *Engine) SetDeclination(declDeg float64) {
	e.declDeg = declDeg
}

// Output returns the most recent published result.
func (e *Engine) Output() Output {
	return e.out
}

// Update consumes one sensor sample and returns the new published output.
// Invalid samples are dropped and gimbal-locked updates skipped; in both
// cases the previous output is retained unchanged.
func (e *Engine) Update(s SensorSample) Output {
	if e.closed || !s.Valid() {
		return e.out
	}

	switch s.Kind {
	case KindOrientation:
		e.updateFromOrientation(s)
	case KindAccelerometer:
		e.lastGrav = s
		e.haveGrav = true
		e.updateTilt(s)
		e.updateMagneticHeading(s.Time)
	case KindMagnetometer:
		if e.cfg.Caps.Magnetometer {
			e.lastMag = s
			e.haveMag = true
			e.updateMagneticHeading(s.Time)
		}
	case KindGyroscope:
		e.updateFromGyro(s)
	}

	e.finishCalibrationIfDue(s.Time)
	return e.out
}

// updateFromOrientation consumes an absolute device-motion orientation.
func (e *Engine) updateFromOrientation(s SensorSample) {
	if !e.cfg.Caps.Orientation {
		return
	}

	filtered := e.filter.Apply(s.Orientation)
	h, p, r := HPRFromOrientation(filtered)
	h = normalizeHeading(h + e.offsetDeg)

	if e.calib != nil {
		e.calib.Add(normalizeHeading(h-e.offsetDeg), s.Time)
	}

	e.publish(h, p, r, TierMagnetic, filtered, s.Time)
	e.lastMagPublish = s.Time
}

// updateTilt refreshes pitch and roll from a gravity reading without
// touching the heading.
func (e *Engine) updateTilt(s SensorSample) {
	tilt, err := TiltFromGravity(s.Vec)
	if err != nil {
		return
	}

	e.out.PitchDeg = tilt.PitchDeg
	e.out.RollDeg = tilt.RollDeg
	e.out.PointingSkyward = tilt.PitchDeg < SkyPitchThresholdDeg
	e.out.Time = s.Time
}

// updateMagneticHeading pairs the freshest magnetometer and gravity readings
// into a tilt-compensated true heading. Gimbal lock skips the update.
func (e *Engine) updateMagneticHeading(now time.Time) {
	if !e.haveMag || !e.haveGrav {
		return
	}
	if now.Sub(e.lastMag.Time) > e.cfg.StaleAfter || now.Sub(e.lastGrav.Time) > e.cfg.StaleAfter {
		return
	}

	raw, err := TiltCompensatedHeading(e.lastMag.Vec, e.lastGrav.Vec, e.declDeg)
	if err != nil {
		// ErrGimbalLock or an invalid pairing: retain the previous output.
		return
	}

	if e.calib != nil {
		e.calib.Add(raw, now)
	}

	trueHeading := normalizeHeading(raw + e.offsetDeg)
	tilt, err := TiltFromGravity(e.lastGrav.Vec)
	if err != nil {
		return
	}

	smoothed := e.filter.ApplyHeading(trueHeading)
	orientation := e.filter.Apply(OrientationFromHPR(trueHeading, tilt.PitchDeg, tilt.RollDeg))

	e.publish(smoothed, tilt.PitchDeg, tilt.RollDeg, TierMagnetic, orientation, now)
	e.lastMagPublish = now
}

// updateFromGyro integrates rotation rate into the heading when no
// magnetometer is available: the second rung of the ladder.
func (e *Engine) updateFromGyro(s SensorSample) {
	if !e.cfg.Caps.Gyroscope {
		return
	}

	defer func() { e.lastGyroTime = s.Time }()

	// The magnetic rung wins whenever it is alive.
	if e.magneticFresh(s.Time) {
		return
	}

	if e.lastGyroTime.IsZero() {
		return
	}
	dt := s.Time.Sub(e.lastGyroTime).Seconds()
	if dt <= 0 {
		return
	}

	// Rotation rate about the local up axis changes the heading; the rest
	// is tilt, which gravity tracks on its own.
	up := mathutil.Vec3{Y: 1}
	if e.haveGrav {
		up = e.lastGrav.Vec.Normalized()
	}
	headingRate := -mathutil.RadToDeg(s.Vec.Dot(up))

	h := normalizeHeading(e.out.HeadingDeg + headingRate*dt)
	orientation := e.filter.Apply(OrientationFromHPR(h, e.out.PitchDeg, e.out.RollDeg))

	e.publish(h, e.out.PitchDeg, e.out.RollDeg, TierGyro, orientation, s.Time)
}

// magneticFresh reports whether the magnetic rung has produced a heading
// recently enough to outrank gyro integration. Freshness tracks the last
// magnetic publish specifically; tilt updates refresh the shared output time
// and must not keep the rung alive after the magnetometer dies.
func (e *Engine) magneticFresh(now time.Time) bool {
	return (e.cfg.Caps.Magnetometer || e.cfg.Caps.Orientation) &&
		!e.lastMagPublish.IsZero() &&
		now.Sub(e.lastMagPublish) <= e.cfg.StaleAfter
}

func (e *Engine) publish(heading, pitch, roll float64, tier Tier, orientation mathutil.Quat, t time.Time) {
	e.out = Output{
		HeadingDeg:      heading,
		PitchDeg:        pitch,
		RollDeg:         roll,
		Confidence:      tier.Confidence(),
		Tier:            tier,
		PointingSkyward: pitch < SkyPitchThresholdDeg,
		Orientation:     orientation,
		Time:            t,
	}
}

// StartCalibration opens a bounded heading-sample collection window at now.
// Any window already open is discarded.
func (e *Engine) StartCalibration(now time.Time) {
	if e.closed {
		return
	}
	e.calib = NewCalibration(now)
}

// CalibrationActive reports whether a collection window is open at now.
func (e *Engine) CalibrationActive(now time.Time) bool {
	return e.calib != nil && e.calib.Active(now)
}

// FinishCalibration closes the window and applies the computed offset. On
// ErrCalibrationTimeout the prior offset is left unchanged.
func (e *Engine) FinishCalibration() (float64, error) {
	if e.calib == nil {
		return e.offsetDeg, ErrCalibrationTimeout
	}

	offset, err := e.calib.Finish()
	e.calib = nil
	if err != nil {
		return e.offsetDeg, err
	}

	e.offsetDeg = offset
	return e.offsetDeg, nil
}

// finishCalibrationIfDue auto-applies a window whose time has elapsed.
func (e *Engine) finishCalibrationIfDue(now time.Time) {
	if e.calib == nil || e.calib.Active(now) {
		return
	}
	_, _ = e.FinishCalibration()
}

// HeadingOffset returns the calibration offset currently applied, degrees.
func (e *Engine) HeadingOffset() float64 {
	return e.offsetDeg
}

// Close releases the filter state. Further updates are ignored. Close never
// panics and is safe to call more than once.
func (e *Engine) Close() {
	e.closed = true
	e.calib = nil
	e.haveMag = false
	e.haveGrav = false
	if e.filter != nil {
		e.filter.Reset()
	}
}
