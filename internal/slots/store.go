// Package slots holds the ordered list of lighting presets and the pointer to
// the active one. A Store always has at least one slot and exactly one active
// index; slot 0 is the primary slot and can never be removed.
//
// Store is not safe for concurrent use. The owning panel session serializes
// access.
package slots

import "lightd/pkg/types"

type Store struct {
	records []types.ParameterRecord
	active  int
}

// New returns a store holding a single default slot.
func New() *Store {
	return &Store{records: []types.ParameterRecord{types.DefaultRecord()}}
}

func (s *Store) Len() int    { return len(s.records) }
func (s *Store) Active() int { return s.active }

// At returns a copy of the record at index i.
func (s *Store) At(i int) (types.ParameterRecord, error) {
	if i < 0 || i >= len(s.records) {
		return types.ParameterRecord{}, outOfRangeError{index: i, length: len(s.records)}
	}
	return s.records[i], nil
}

// ActiveRecord returns a copy of the active slot.
func (s *Store) ActiveRecord() types.ParameterRecord { return s.records[s.active] }

// Put overwrites the record at index i.
func (s *Store) Put(i int, rec types.ParameterRecord) error {
	if i < 0 || i >= len(s.records) {
		return outOfRangeError{index: i, length: len(s.records)}
	}
	s.records[i] = rec
	return nil
}

// PutActive overwrites the active slot.
func (s *Store) PutActive(rec types.ParameterRecord) { s.records[s.active] = rec }

// Records returns a copy of every slot in order.
func (s *Store) Records() []types.ParameterRecord {
	out := make([]types.ParameterRecord, len(s.records))
	copy(out, s.records)
	return out
}

// Append adds rec at the end and returns the new length.
func (s *Store) Append(rec types.ParameterRecord) int {
	s.records = append(s.records, rec)
	return len(s.records)
}

// AppendActive adds rec at the end, makes it the active slot and returns its
// index.
func (s *Store) AppendActive(rec types.ParameterRecord) int {
	s.active = s.Append(rec) - 1
	return s.active
}

// RemoveAt deletes the slot at index and shifts the active pointer so it keeps
// pointing at a valid slot.
func (s *Store) RemoveAt(index int) error {
	if err := s.CanRemove(index); err != nil {
		return err
	}
	s.records = append(s.records[:index], s.records[index+1:]...)
	switch {
	case s.active == index:
		s.active = min(s.active, len(s.records)-1)
	case s.active > index:
		s.active--
	}
	return nil
}

// CanRemove reports why RemoveAt(index) would be refused, or nil.
func (s *Store) CanRemove(index int) error {
	if index == 0 || len(s.records) == 1 {
		return invariantViolationError{index: index, length: len(s.records)}
	}
	if index < 0 || index >= len(s.records) {
		return outOfRangeError{index: index, length: len(s.records)}
	}
	return nil
}

// SetActive moves the active pointer. It reports false without side effects
// when index is already active.
func (s *Store) SetActive(index int) (bool, error) {
	if index < 0 || index >= len(s.records) {
		return false, outOfRangeError{index: index, length: len(s.records)}
	}
	if index == s.active {
		return false, nil
	}
	s.active = index
	return true, nil
}

// Replace swaps the whole store for records, clamping active into bounds.
// An empty records slice leaves the store untouched and reports false.
func (s *Store) Replace(records []types.ParameterRecord, active int) bool {
	if len(records) == 0 {
		return false
	}
	s.records = make([]types.ParameterRecord, len(records))
	copy(s.records, records)
	s.active = clamp(active, 0, len(s.records)-1)
	return true
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
