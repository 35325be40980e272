// Package pdnfmt formats solver output with SI-prefixed units.
package pdnfmt

import (
	"fmt"
	"math"
)

// Value formats value with an SI-scaled prefix on unit, e.g. "12.500000 mV".
func Value(value float64, unit string) string {
	absValue := math.Abs(value)
	switch {
	case absValue >= 1:
		return fmt.Sprintf("%.6f %s", value, unit)
	case absValue >= 1e-3:
		return fmt.Sprintf("%.6f m%s", value*1e3, unit)
	case absValue >= 1e-6:
		return fmt.Sprintf("%.6f u%s", value*1e6, unit)
	case absValue >= 1e-9:
		return fmt.Sprintf("%.6f n%s", value*1e9, unit)
	case absValue >= 1e-12:
		return fmt.Sprintf("%.6f p%s", value*1e12, unit)
	default:
		return fmt.Sprintf("%.6e %s", value, unit)
	}
}
