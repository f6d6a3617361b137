package panel

import (
	"fmt"

	"lightd/internal/fields"
	"lightd/internal/metrics"
	"lightd/internal/prompt"
	"lightd/pkg/types"
)

// Switch makes slot i active: live edits are saved into the current slot, the
// target slot is loaded into the live fields and the surface is synced.
func (s *Session) Switch(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i == s.store.Active() {
		return nil
	}
	if _, err := s.store.At(i); err != nil {
		metrics.Transition("switch", err)
		return err
	}
	from := s.store.Active()
	s.saveActiveLocked()
	if _, err := s.store.SetActive(i); err != nil {
		metrics.Transition("switch", err)
		return err
	}
	s.bridge.apply(s.store.ActiveRecord())
	s.pushLocked()
	metrics.Transition("switch", nil)
	s.publisher.Publish(Event{Name: EventSlotSwitched, Slot: i, Fields: map[string]any{"from": from}})
	s.log.Debug().Int("from", from).Int("to", i).Msg("slot switched")
	return nil
}

// Add appends a default slot, makes it active and returns its index.
func (s *Session) Add() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveActiveLocked()
	idx := s.store.AppendActive(types.DefaultRecord())
	s.bridge.apply(s.store.ActiveRecord())
	metrics.Transition("add", nil)
	metrics.SetSlots(s.store.Len())
	s.publisher.Publish(Event{Name: EventSlotAdded, Slot: idx})
	s.log.Debug().Int("slot", idx).Int("slots", s.store.Len()).Msg("slot added")
	return idx
}

// Remove deletes slot i. The primary slot and a sole remaining slot are never
// removed. Unsaved live edits are discarded and the new active slot reloaded.
func (s *Session) Remove(i int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.store.CanRemove(i); err != nil {
		metrics.Transition("remove", err)
		s.log.Debug().Err(err).Int("slot", i).Msg("remove refused")
		return err
	}
	if err := s.store.RemoveAt(i); err != nil {
		metrics.Transition("remove", err)
		return err
	}
	s.bridge.apply(s.store.ActiveRecord())
	metrics.Transition("remove", nil)
	metrics.SetSlots(s.store.Len())
	s.publisher.Publish(Event{Name: EventSlotRemoved, Slot: i, Fields: map[string]any{"active": s.store.Active()}})
	s.log.Debug().Int("slot", i).Int("active", s.store.Active()).Msg("slot removed")
	return nil
}

// SetField writes one live field and notifies the controller. It reports
// false when the field set has no such key.
func (s *Session) SetField(k fields.Key, v any) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.fields.Set(k, v) {
		return false
	}
	s.fieldChangedLocked(k)
	return true
}

// FieldChanged is the widget callback: a change to any lighting field pushes
// the full state to the surface.
func (s *Session) FieldChanged(k fields.Key) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.fieldChangedLocked(k)
}

func (s *Session) fieldChangedLocked(k fields.Key) {
	if fields.IsLighting(k) {
		s.pushLocked()
	}
}

// Fields returns the live field values keyed by name.
func (s *Session) Fields() map[string]any {
	s.mu.Lock()
	defer s.mu.Unlock()
	if snap, ok := s.fields.(interface{ Snapshot() map[string]any }); ok {
		return snap.Snapshot()
	}
	out := make(map[string]any, len(fields.LightingKeys))
	for _, k := range fields.LightingKeys {
		if v, ok := s.fields.Get(k); ok {
			out[string(k)] = v
		}
	}
	return out
}

// Summary describes the store as shown in the panel's context menu.
func (s *Session) Summary() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Session) summaryLocked() string {
	return fmt.Sprintf("Outputs: %d | Active: %d", s.store.Len(), s.store.Active()+1)
}

// Slots returns every slot with live edits folded into the active one.
func (s *Session) Slots() types.SlotsResponse {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveActiveLocked()
	return types.SlotsResponse{
		Slots:       s.store.Records(),
		ActiveIndex: s.store.Active(),
		Summary:     s.summaryLocked(),
	}
}

// Prompts renders one relighting prompt per slot.
func (s *Session) Prompts() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveActiveLocked()
	cinematic := s.liveStateLocked().CinematicMode
	return prompt.BuildAll(s.store.Records(), cinematic)
}

// saveActiveLocked captures the live fields into the active slot.
func (s *Session) saveActiveLocked() {
	s.store.PutActive(s.bridge.capture(s.store.ActiveRecord()))
}
