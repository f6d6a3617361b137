package types

import "math"

// ParameterRecord is one lighting preset stored in a slot.
type ParameterRecord struct {
	// Light azimuth in degrees; wraps modulo 360.
	// example: 90
	Azimuth float64 `json:"azimuth" example:"90"`
	// Light elevation in degrees.
	// example: 30
	Elevation float64 `json:"elevation" example:"30"`
	// Light intensity (positive scalar).
	// example: 5
	Intensity float64 `json:"intensity" example:"5"`
	// CSS hex color of the light.
	// example: #FFFFFF
	ColorHex string `json:"colorHex" example:"#FFFFFF"`
}

// Defaults used for freshly created slots.
const (
	DefaultAzimuth   = 0.0
	DefaultElevation = 30.0
	DefaultIntensity = 5.0
	DefaultColorHex  = "#FFFFFF"
)

// DefaultRecord returns the record every new slot starts from.
func DefaultRecord() ParameterRecord {
	return ParameterRecord{
		Azimuth:   DefaultAzimuth,
		Elevation: DefaultElevation,
		Intensity: DefaultIntensity,
		ColorHex:  DefaultColorHex,
	}
}

// WrapAzimuth maps any angle in degrees into [0, 360).
func WrapAzimuth(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	if a >= 360 {
		a = 0
	}
	return a
}

// Document is the persisted form of a slot store, attached to the owning
// document on save. ActiveIndex is optional on input.
type Document struct {
	// Every slot in order; slot 0 is the primary slot.
	Slots []ParameterRecord `json:"slots"`
	// Index of the active slot.
	// example: 0
	ActiveIndex *int `json:"activeIndex,omitempty" example:"0"`
}

// Active returns the active index or 0 when unset.
func (d Document) Active() int {
	if d.ActiveIndex == nil {
		return 0
	}
	return *d.ActiveIndex
}
