// Package classify maps channel readings to severity bands.
package classify

// Band is the severity of a channel reading.
type Band int

const (
	BandNormal Band = iota
	BandWarning
	BandDanger
)

// String returns the display name of the band.
func (b Band) String() string {
	switch b {
	case BandNormal:
		return "normal"
	case BandWarning:
		return "warning"
	case BandDanger:
		return "danger"
	default:
		return "unknown"
	}
}

// Thresholds defines the warning and danger envelopes for one channel.
// The warning range must sit inside the danger range; Validate in the
// config package enforces this at load time.
type Thresholds struct {
	WarningLow  float64 `json:"warning_low"`
	WarningHigh float64 `json:"warning_high"`
	DangerLow   float64 `json:"danger_low"`
	DangerHigh  float64 `json:"danger_high"`
}

// Classify returns the band for a value. Values strictly outside the
// danger envelope are danger, values strictly outside the warning
// envelope are warning, everything else is normal. A value exactly on
// a boundary belongs to the inner band.
func Classify(v float64, t Thresholds) Band {
	if v < t.DangerLow || v > t.DangerHigh {
		return BandDanger
	}
	if v < t.WarningLow || v > t.WarningHigh {
		return BandWarning
	}
	return BandNormal
}
