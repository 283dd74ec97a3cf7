// Package units converts canonical mile distances to and from a user's
// preferred display unit and renders them as labels.
package units

import (
	"math"

	"github.com/dustin/go-humanize"

	"github.com/autotrackhq/autotrack/internal/models"
	"github.com/autotrackhq/autotrack/internal/validation"
)

// MilesToKilometers is the fixed conversion factor.
const MilesToKilometers = 1.60934

const defaultPlaceholder = "N/A"

// Converter renders stored mile values in a display unit. Rounding is
// math.Round (half away from zero) in both directions, so a km round trip is
// accurate to within one mile rather than exact.
type Converter struct {
	placeholder string
}

// NewConverter creates a converter with the default "N/A" placeholder.
func NewConverter() *Converter {
	return &Converter{placeholder: defaultPlaceholder}
}

// NewConverterWithPlaceholder creates a converter with a custom placeholder,
// for callers that substitute a translated "not available" string.
func NewConverterWithPlaceholder(placeholder string) *Converter {
	if placeholder == "" {
		placeholder = defaultPlaceholder
	}
	return &Converter{placeholder: placeholder}
}

// ToDisplay converts a canonical mile value into the display unit.
func (c *Converter) ToDisplay(miles int, unit models.DistanceUnit) (int, error) {
	if miles < 0 {
		return 0, validation.Errorf("distance", "must not be negative, got %d", miles)
	}

	switch unit {
	case models.UnitMiles:
		return miles, nil
	case models.UnitKilometers:
		return int(math.Round(float64(miles) * MilesToKilometers)), nil
	default:
		return 0, validation.Errorf("unit", "unknown distance unit %q", unit)
	}
}

// ToCanonical converts a displayed value back into canonical miles.
func (c *Converter) ToCanonical(value int, unit models.DistanceUnit) (int, error) {
	if value < 0 {
		return 0, validation.Errorf("distance", "must not be negative, got %d", value)
	}

	switch unit {
	case models.UnitMiles:
		return value, nil
	case models.UnitKilometers:
		return int(math.Round(float64(value) / MilesToKilometers)), nil
	default:
		return 0, validation.Errorf("unit", "unknown distance unit %q", unit)
	}
}

// FormatLabel renders a canonical mile value in the display unit with
// thousands separators and an optional unit suffix. A zero distance renders
// as the placeholder, never as "0".
func (c *Converter) FormatLabel(miles int, unit models.DistanceUnit, showUnit bool) (string, error) {
	display, err := c.ToDisplay(miles, unit)
	if err != nil {
		return "", err
	}

	if display == 0 {
		return c.placeholder, nil
	}

	label := humanize.Comma(int64(display))
	if showUnit {
		label += " " + unitSuffix(unit)
	}
	return label, nil
}

func unitSuffix(unit models.DistanceUnit) string {
	if unit == models.UnitKilometers {
		return "km"
	}
	return "mi"
}
