package panel

import (
	"encoding/json"
	"fmt"

	"lightd/internal/metrics"
	"lightd/pkg/types"
)

// Document keys used inside a host document.
const (
	docKeySlots  = "slots"
	docKeyActive = "activeIndex"
)

// HostDocument is the owning document's save format: a JSON object whose
// other keys belong to the host.
type HostDocument map[string]json.RawMessage

// Serialize folds live edits into the active slot and returns a copy of the
// whole store.
func (s *Session) Serialize() types.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.serializeLocked()
}

func (s *Session) serializeLocked() types.Document {
	s.saveActiveLocked()
	active := s.store.Active()
	return types.Document{Slots: s.store.Records(), ActiveIndex: &active}
}

// Restore replaces the store with doc and loads its active slot into the live
// fields. A document without slots leaves the store untouched and reports
// false.
func (s *Session) Restore(doc types.Document) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restoreLocked(doc)
}

func (s *Session) restoreLocked(doc types.Document) bool {
	if !s.store.Replace(doc.Slots, doc.Active()) {
		return false
	}
	s.bridge.apply(s.store.ActiveRecord())
	metrics.SetSlots(s.store.Len())
	s.publisher.Publish(Event{Name: EventDocRestored, Slot: s.store.Active(), Fields: map[string]any{"slots": s.store.Len()}})
	s.log.Info().Int("slots", s.store.Len()).Int("active", s.store.Active()).Msg("slots restored")
	return true
}

// OnSerialize writes the store into the host document under "slots" and
// "activeIndex".
func (s *Session) OnSerialize(doc HostDocument) error {
	if doc == nil {
		return fmt.Errorf("serialize: nil host document")
	}
	d := s.Serialize()
	rawSlots, err := json.Marshal(d.Slots)
	if err != nil {
		return fmt.Errorf("serialize slots: %w", err)
	}
	rawActive, err := json.Marshal(d.ActiveIndex)
	if err != nil {
		return fmt.Errorf("serialize active index: %w", err)
	}
	doc[docKeySlots] = rawSlots
	doc[docKeyActive] = rawActive
	return nil
}

// OnRestore reads the store back from the host document. Missing keys leave
// the default store in place.
func (s *Session) OnRestore(doc HostDocument) error {
	var d types.Document
	if raw, ok := doc[docKeySlots]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &d.Slots); err != nil {
			return fmt.Errorf("restore slots: %w", err)
		}
	}
	if raw, ok := doc[docKeyActive]; ok && len(raw) > 0 {
		if err := json.Unmarshal(raw, &d.ActiveIndex); err != nil {
			return fmt.Errorf("restore active index: %w", err)
		}
	}
	s.Restore(d)
	return nil
}
