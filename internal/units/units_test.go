package units

import (
	"math"
	"testing"
)

func TestConvertSpeed(t *testing.T) {
	tests := []struct {
		name     string
		speedMPH float64
		units    string
		expected float64
	}{
		{"mph passthrough", 97.2, MPH, 97.2},
		{"100 mph to kmph", 100.0, KMPH, 160.9344},
		{"100 mph to kph", 100.0, KPH, 160.9344},
		{"100 mph to mps", 100.0, MPS, 44.704},
		{"unknown units default to mph", 90.0, "unknown", 90.0},
		{"zero", 0.0, KPH, 0.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := ConvertSpeed(tt.speedMPH, tt.units)
			if math.Abs(result-tt.expected) > 0.001 {
				t.Errorf("ConvertSpeed(%f, %s) = %f, want %f", tt.speedMPH, tt.units, result, tt.expected)
			}
		})
	}
}

func TestFormatSpeed(t *testing.T) {
	tests := []struct {
		speed float64
		units string
		want  string
	}{
		{97.2, MPH, "97.2 mph"},
		{97.25, MPH, "97.2 mph"},
		{88, MPH, "88.0 mph"},
		{100, KPH, "160.9 kph"},
		{95.04, "furlongs", "95.0 mph"},
	}

	for _, tt := range tests {
		if got := FormatSpeed(tt.speed, tt.units); got != tt.want {
			t.Errorf("FormatSpeed(%v, %q) = %q, want %q", tt.speed, tt.units, got, tt.want)
		}
	}
}

func TestIsValid(t *testing.T) {
	tests := []struct {
		name     string
		unit     string
		expected bool
	}{
		{"valid mps", MPS, true},
		{"valid mph", MPH, true},
		{"valid kmph", KMPH, true},
		{"valid kph", KPH, true},
		{"invalid unit", "invalid", false},
		{"empty string", "", false},
		{"case sensitive", "MPH", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := IsValid(tt.unit)
			if result != tt.expected {
				t.Errorf("IsValid(%s) = %v, want %v", tt.unit, result, tt.expected)
			}
		})
	}
}

func TestFeetToInches(t *testing.T) {
	if got := FeetToInches(0.708); math.Abs(got-8.496) > 1e-9 {
		t.Errorf("FeetToInches(0.708) = %v, want 8.496", got)
	}
}
