// Package panel is the host-side core of a multi-slot lighting panel. A
// Session owns every piece of per-attachment state and is passed explicitly
// to the parts that need it. It is split into small files by concern:
//
//   - session.go: Session, Config, attach/detach and the surface host adapter.
//   - bridge.go: the field bridge (capture/apply between live fields and a record).
//   - controller.go: slot transitions (Switch, Add, Remove) and field notifications.
//   - persist.go: Serialize/Restore and the document hooks.
//   - lifecycle.go: the Lifecycle hook set and Chain composition.
//   - events.go, eventpub_memory.go: event publishing.
//   - statefile.go: saving/loading a document to disk for the daemon.
//   - errors.go: session lifecycle errors.
//
// Every exported Session method takes the session lock, as do inbound
// messages and timer callbacks, so all state changes run one at a time.
package panel
