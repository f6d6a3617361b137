// Package fields defines the live field set contract: the externally owned
// editable controls the panel core reads and writes by key.
package fields

import (
	"encoding/json"
	"sync"

	"lightd/pkg/types"
)

// Key names one live field.
type Key string

const (
	Azimuth       Key = "azimuth"
	Elevation     Key = "elevation"
	Intensity     Key = "intensity"
	ColorHex      Key = "colorHex"
	CinematicMode Key = "cinematicMode"
)

// LightingKeys lists every field whose change must reach the rendering surface.
var LightingKeys = []Key{Azimuth, Elevation, Intensity, ColorHex, CinematicMode}

// IsLighting reports whether k is one of LightingKeys.
func IsLighting(k Key) bool {
	for _, lk := range LightingKeys {
		if lk == k {
			return true
		}
	}
	return false
}

// FieldSet is get/set by key. Absent keys are tolerated: Get reports false and
// Set is a no-op returning false.
type FieldSet interface {
	Get(k Key) (any, bool)
	Set(k Key, v any) bool
}

// MemoryFields is an in-memory FieldSet. Only keys present at construction
// exist; Set never adds new keys.
type MemoryFields struct {
	mu     sync.RWMutex
	values map[Key]any
}

// NewMemoryFields returns a field set holding all lighting keys at their
// defaults.
func NewMemoryFields() *MemoryFields {
	d := types.DefaultRecord()
	return NewMemoryFieldsWith(map[Key]any{
		Azimuth:       d.Azimuth,
		Elevation:     d.Elevation,
		Intensity:     d.Intensity,
		ColorHex:      d.ColorHex,
		CinematicMode: true,
	})
}

// NewMemoryFieldsWith returns a field set exposing exactly the given keys.
func NewMemoryFieldsWith(initial map[Key]any) *MemoryFields {
	values := make(map[Key]any, len(initial))
	for k, v := range initial {
		values[k] = v
	}
	return &MemoryFields{values: values}
}

func (m *MemoryFields) Get(k Key) (any, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[k]
	return v, ok
}

func (m *MemoryFields) Set(k Key, v any) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.values[k]; !ok {
		return false
	}
	m.values[k] = v
	return true
}

// Snapshot returns a copy of every field keyed by name.
func (m *MemoryFields) Snapshot() map[string]any {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]any, len(m.values))
	for k, v := range m.values {
		out[string(k)] = v
	}
	return out
}

// Float reads k as a number. Non-numeric values report false.
func Float(fs FieldSet, k Key) (float64, bool) {
	v, ok := fs.Get(k)
	if !ok {
		return 0, false
	}
	switch n := v.(type) {
	case float64:
		return n, true
	case float32:
		return float64(n), true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	default:
		return 0, false
	}
}

// String reads k as a string.
func String(fs FieldSet, k Key) (string, bool) {
	v, ok := fs.Get(k)
	if !ok {
		return "", false
	}
	s, ok := v.(string)
	return s, ok
}

// Bool reads k as a boolean.
func Bool(fs FieldSet, k Key) (bool, bool) {
	v, ok := fs.Get(k)
	if !ok {
		return false, false
	}
	b, ok := v.(bool)
	return b, ok
}
