package panel

// Event represents a panel lifecycle or slot event.
// Minimal and stable: name + slot index and optional fields via key/values.
type Event struct {
	Name   string
	Slot   int
	Fields map[string]any
}

// Event names.
const (
	EventAttach        = "attach"
	EventDetach        = "detach"
	EventSurfaceReady  = "surface_ready"
	EventSlotAdded     = "slot_added"
	EventSlotRemoved   = "slot_removed"
	EventSlotSwitched  = "slot_switched"
	EventDocRestored   = "document_restored"
	EventImageBuffered = "image_buffered"
)

// EventPublisher receives events from the session. Implementations should be
// lightweight and non-blocking; Publish is called with the session lock held
// and must not call back into the session.
type EventPublisher interface {
	Publish(Event)
}

// noopPublisher is the default; it drops events.
type noopPublisher struct{}

func (noopPublisher) Publish(Event) {}
