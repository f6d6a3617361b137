package httpapi

import (
	"encoding/json"
	"testing"

	"github.com/go-playground/assert/v2"

	"lightd/internal/fields"
	"lightd/pkg/types"
)

func rawPatch(t *testing.T, s string) map[string]json.RawMessage {
	t.Helper()
	var m map[string]json.RawMessage
	if err := json.Unmarshal([]byte(s), &m); err != nil {
		t.Fatalf("bad fixture %q: %v", s, err)
	}
	return m
}

func TestValidateFieldPatch_Accepts(t *testing.T) {
	got, err := validateFieldPatch(rawPatch(t, `{"azimuth":-45,"elevation":12.5,"intensity":0.5,"colorHex":"#a0B1c2","cinematicMode":false}`))
	assert.Equal(t, err, nil)
	assert.Equal(t, got[fields.Azimuth], -45.0)
	assert.Equal(t, got[fields.Elevation], 12.5)
	assert.Equal(t, got[fields.Intensity], 0.5)
	assert.Equal(t, got[fields.ColorHex], "#a0B1c2")
	assert.Equal(t, got[fields.CinematicMode], false)
}

func TestValidateFieldPatch_Rejects(t *testing.T) {
	cases := map[string]string{
		"empty":          `{}`,
		"unknown":        `{"hue":1}`,
		"string angle":   `{"azimuth":"90"}`,
		"zero intensity": `{"intensity":0}`,
		"short hex":      `{"colorHex":"#FFF"}`,
		"named color":    `{"colorHex":"red"}`,
		"string bool":    `{"cinematicMode":"yes"}`,
		"one bad of two": `{"elevation":10,"colorHex":"#GGGGGG"}`,
	}
	for name, body := range cases {
		got, err := validateFieldPatch(rawPatch(t, body))
		if err == nil {
			t.Fatalf("%s: expected error, got %+v", name, got)
		}
		assert.Equal(t, got == nil, true)
	}
}

func TestValidateDocument(t *testing.T) {
	ok := types.Document{Slots: []types.ParameterRecord{types.DefaultRecord()}}
	assert.Equal(t, validateDocument(ok), nil)
	assert.Equal(t, validateDocument(types.Document{}), nil)

	bad := types.DefaultRecord()
	bad.ColorHex = "#FFF"
	err := validateDocument(types.Document{Slots: []types.ParameterRecord{types.DefaultRecord(), bad}})
	if err == nil || err.Error() != "slot 1: colorHex must look like #RRGGBB" {
		t.Fatalf("unexpected error %v", err)
	}
}
