package surface

import "github.com/oklog/ulid/v2"

// NewID returns a fresh, sortable instance id for hosts and surfaces.
func NewID() string { return ulid.Make().String() }
