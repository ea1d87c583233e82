// Package units provides shared constants and validation for the length
// units turbine coordinates may be expressed in
package units

// Unit constants
const (
	M  = "m"
	KM = "km"
	FT = "ft"
)

// ValidUnits contains all valid unit values
var ValidUnits = []string{M, KM, FT}

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
	return "m, km, ft"
}

// ToMetres converts a coordinate from the source units to metres
// Density maps and evaluation all operate in metres
func ToMetres(v float64, sourceUnits string) float64 {
	switch sourceUnits {
	case KM:
		return v * 1000
	case FT:
		return v * 0.3048
	case M:
		return v // no conversion needed
	default:
		return v // default to metres if unknown unit
	}
}

// SliceToMetres converts a coordinate slice to metres, returning a new
// slice and leaving the input untouched
func SliceToMetres(vs []float64, sourceUnits string) []float64 {
	out := make([]float64, len(vs))
	for i, v := range vs {
		out[i] = ToMetres(v, sourceUnits)
	}
	return out
}
