package panel

import "errors"

var (
	errNotAttached     = errors.New("panel session not attached to a surface")
	errAlreadyAttached = errors.New("panel session already attached")
	errDetached        = errors.New("panel session detached")
)

// IsNotAttached reports whether err came from an operation that needs an
// attached surface.
func IsNotAttached(err error) bool { return errors.Is(err, errNotAttached) }

// IsDetached reports whether err came from a torn-down session.
func IsDetached(err error) bool { return errors.Is(err, errDetached) }
