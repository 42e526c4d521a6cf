package classify

import "testing"

func TestClassify(t *testing.T) {
	th := Thresholds{WarningLow: 10, WarningHigh: 90, DangerLow: 0, DangerHigh: 100}

	tests := []struct {
		name  string
		value float64
		want  Band
	}{
		{"mid range", 50, BandNormal},
		{"above warning high", 95, BandWarning},
		{"above danger high", 105, BandDanger},
		{"below warning low", 5, BandWarning},
		{"below danger low", -1, BandDanger},
		{"on warning high boundary", 90, BandNormal},
		{"on warning low boundary", 10, BandNormal},
		{"on danger high boundary", 100, BandWarning},
		{"on danger low boundary", 0, BandWarning},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.value, th); got != tt.want {
				t.Errorf("Classify(%v) = %v, want %v", tt.value, got, tt.want)
			}
		})
	}
}

func TestClassifyDegenerateRanges(t *testing.T) {
	// Warning and danger envelopes may coincide, in which case there
	// is no warning band at all.
	th := Thresholds{WarningLow: 0, WarningHigh: 100, DangerLow: 0, DangerHigh: 100}

	if got := Classify(50, th); got != BandNormal {
		t.Errorf("Classify(50) = %v, want normal", got)
	}
	if got := Classify(101, th); got != BandDanger {
		t.Errorf("Classify(101) = %v, want danger", got)
	}
	if got := Classify(-0.5, th); got != BandDanger {
		t.Errorf("Classify(-0.5) = %v, want danger", got)
	}
}

func TestBandString(t *testing.T) {
	tests := []struct {
		band Band
		want string
	}{
		{BandNormal, "normal"},
		{BandWarning, "warning"},
		{BandDanger, "danger"},
		{Band(99), "unknown"},
	}

	for _, tt := range tests {
		if got := tt.band.String(); got != tt.want {
			t.Errorf("Band(%d).String() = %q, want %q", int(tt.band), got, tt.want)
		}
	}
}
