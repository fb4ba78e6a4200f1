// Package units provides shared constants, conversion and formatting for the
// speed and length units used by the statistics feed.
package units

import "fmt"

// Unit constants
const (
	MPS  = "mps"
	MPH  = "mph"
	KMPH = "kmph"
	KPH  = "kph"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{MPS, MPH, KMPH, KPH}

// InchesPerFoot converts plate coordinates (feet) into the inch scale used by
// movement charts.
const InchesPerFoot = 12.0

// IsValid checks if the given unit is in the list of valid units
func IsValid(unit string) bool {
	for _, validUnit := range ValidUnits {
		if unit == validUnit {
			return true
		}
	}
	return false
}

// GetValidUnitsString returns a comma-separated string of valid units for error messages
func GetValidUnitsString() string {
	return "mps, mph, kmph, kph"
}

// ConvertSpeed converts a speed from miles per hour to the target units.
// The statistics feed reports release_speed in mph.
func ConvertSpeed(speedMPH float64, targetUnits string) float64 {
	switch targetUnits {
	case MPH:
		return speedMPH
	case KMPH, KPH:
		return speedMPH * 1.609344
	case MPS:
		return speedMPH * 0.44704
	default:
		return speedMPH
	}
}

// FormatSpeed renders a pitch speed with one decimal place and a unit suffix,
// e.g. "97.2 mph". Unknown units fall back to mph.
func FormatSpeed(speedMPH float64, targetUnits string) string {
	if !IsValid(targetUnits) {
		targetUnits = MPH
	}
	return fmt.Sprintf("%.1f %s", ConvertSpeed(speedMPH, targetUnits), targetUnits)
}

// FeetToInches converts a length in feet to inches.
func FeetToInches(feet float64) float64 {
	return feet * InchesPerFoot
}
