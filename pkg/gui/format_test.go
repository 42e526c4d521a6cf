package gui

import (
	"testing"
	"time"

	"github.com/mscrnt/vdash/pkg/classify"
)

func TestBandColor(t *testing.T) {
	if BandColor(classify.BandNormal) != ColorNormal {
		t.Error("Expected normal band to map to the normal color")
	}
	if BandColor(classify.BandWarning) != ColorWarning {
		t.Error("Expected warning band to map to the warning color")
	}
	if BandColor(classify.BandDanger) != ColorDanger {
		t.Error("Expected danger band to map to the danger color")
	}
}

func TestFormatChannelValue(t *testing.T) {
	tests := []struct {
		val  float64
		unit string
		want string
	}{
		{2412.7, "rpm", "2413 rpm"},
		{12.34, "km", "12.34 km"},
		{87.2, "km/h", "87.2 km/h"},
		{-300.0, "deg", "-300.0 deg"},
	}

	for _, tt := range tests {
		if got := formatChannelValue(tt.val, tt.unit); got != tt.want {
			t.Errorf("formatChannelValue(%v, %q) = %q, want %q", tt.val, tt.unit, got, tt.want)
		}
	}
}

func TestFormatDuration(t *testing.T) {
	tests := []struct {
		d    time.Duration
		want string
	}{
		{30 * time.Second, "30.0s"},
		{90 * time.Second, "1m30s"},
		{2*time.Hour + 5*time.Minute, "2h5m"},
	}

	for _, tt := range tests {
		if got := formatDuration(tt.d); got != tt.want {
			t.Errorf("formatDuration(%v) = %q, want %q", tt.d, got, tt.want)
		}
	}
}

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		bytes uint64
		want  string
	}{
		{512, "512 B"},
		{2048, "2.0 KiB"},
		{16 * 1024 * 1024 * 1024, "16.0 GiB"},
	}

	for _, tt := range tests {
		if got := FormatBytes(tt.bytes); got != tt.want {
			t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, tt.want, got)
		}
	}
}
