// Package prompt renders a slot's lighting parameters as a relighting prompt
// for an image model.
package prompt

import (
	"fmt"

	"lightd/pkg/types"
)

// SceneLock is prepended to every prompt so only the lighting changes.
const SceneLock = "SCENE LOCK, CONSTANT BACKGROUND, FIXED SCENERY. " +
	"STATIC SHOT, FIXED VIEWPOINT, NO CAMERA MOVEMENT. " +
	"maintaining character consistency, " +
	"keeping the same character pose and action, " +
	"maintaining the same composition, " +
	"RELIGHTING ONLY: only the light rays and shadows change, the scene remains untouched. "

type band struct {
	below float64
	desc  string
}

// azimuth sectors are 45 degrees wide and centred on the cardinal directions.
var azimuthSectors = []band{
	{22.5, "light hitting from the front"},
	{67.5, "light hitting from the front-right side"},
	{112.5, "light hitting from the right (90 degrees)"},
	{157.5, "light hitting from the back-right"},
	{202.5, "backlighting, light from behind"},
	{247.5, "light hitting from the back-left"},
	{292.5, "light hitting from the left (90 degrees)"},
	{337.5, "light hitting from the front-left side"},
}

var intensityBands = []band{
	{3, "soft ambient"},
	{7, "bright directional"},
}

// Direction describes where the light comes from for an azimuth in degrees.
func Direction(azimuth float64) string {
	az := types.WrapAzimuth(azimuth)
	for _, b := range azimuthSectors {
		if az < b.below {
			return b.desc
		}
	}
	return azimuthSectors[0].desc
}

// Height describes the light's elevation in degrees.
func Height(elevation float64) string {
	switch {
	case elevation <= -60:
		return "extreme low-angle light source, strong bottom-up shadow"
	case elevation < -30:
		return "low-level light source, bottom-up shadow"
	case elevation < 20:
		return "horizontal light source"
	case elevation < 60:
		return "high-positioned light source"
	default:
		return "top-down ceiling light source"
	}
}

// Strength describes the light's intensity.
func Strength(intensity float64) string {
	for _, b := range intensityBands {
		if intensity < b.below {
			return b.desc
		}
	}
	return "strong dramatic contrast"
}

// Build renders one record. Cinematic mode wraps the detail in a cinematic
// relighting clause.
func Build(rec types.ParameterRecord, cinematic bool) string {
	detail := fmt.Sprintf("%s colored light (hex: %s), %s, %s",
		Strength(rec.Intensity), rec.ColorHex, Direction(rec.Azimuth), Height(rec.Elevation))
	if cinematic {
		return SceneLock + "professional cinematic relighting, " + detail +
			", raytraced shadows, realistic global illumination"
	}
	return SceneLock + detail
}

// BuildAll renders one prompt per record, in order.
func BuildAll(recs []types.ParameterRecord, cinematic bool) []string {
	out := make([]string, 0, len(recs))
	for _, r := range recs {
		out = append(out, Build(r, cinematic))
	}
	return out
}
