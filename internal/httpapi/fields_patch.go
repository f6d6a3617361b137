package httpapi

import (
	"encoding/json"
	"fmt"
	"regexp"

	"lightd/internal/fields"
	"lightd/pkg/types"
)

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

func checkIntensity(f float64) error {
	if f <= 0 {
		return fmt.Errorf("intensity must be positive")
	}
	return nil
}

func checkColorHex(s string) error {
	if !hexColor.MatchString(s) {
		return fmt.Errorf("colorHex must look like #RRGGBB")
	}
	return nil
}

// validateDocument applies the PATCH /fields value rules to every slot.
func validateDocument(doc types.Document) error {
	for i, rec := range doc.Slots {
		if err := checkIntensity(rec.Intensity); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
		if err := checkColorHex(rec.ColorHex); err != nil {
			return fmt.Errorf("slot %d: %w", i, err)
		}
	}
	return nil
}

// validateFieldPatch type-checks a PATCH /fields body. Nothing is applied
// unless every entry is valid.
func validateFieldPatch(patch map[string]json.RawMessage) (map[fields.Key]any, error) {
	if len(patch) == 0 {
		return nil, fmt.Errorf("no fields given")
	}
	out := make(map[fields.Key]any, len(patch))
	for name, raw := range patch {
		k := fields.Key(name)
		switch k {
		case fields.Azimuth, fields.Elevation, fields.Intensity:
			var f float64
			if err := json.Unmarshal(raw, &f); err != nil {
				return nil, fmt.Errorf("%s must be a number", name)
			}
			if k == fields.Intensity {
				if err := checkIntensity(f); err != nil {
					return nil, err
				}
			}
			out[k] = f
		case fields.ColorHex:
			var s string
			if err := json.Unmarshal(raw, &s); err != nil {
				return nil, fmt.Errorf("colorHex must look like #RRGGBB")
			}
			if err := checkColorHex(s); err != nil {
				return nil, err
			}
			out[k] = s
		case fields.CinematicMode:
			var b bool
			if err := json.Unmarshal(raw, &b); err != nil {
				return nil, fmt.Errorf("cinematicMode must be a boolean")
			}
			out[k] = b
		default:
			return nil, fmt.Errorf("unknown field: %s", name)
		}
	}
	return out, nil
}
