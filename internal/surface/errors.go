package surface

import "errors"

// untrustedOriginError marks an envelope from a peer other than the owned surface.
type untrustedOriginError struct{ origin string }

func (e untrustedOriginError) Error() string { return "untrusted origin: " + e.origin }

// IsUntrustedOrigin reports whether err marks a message from a foreign peer.
func IsUntrustedOrigin(err error) bool {
	var e untrustedOriginError
	return errors.As(err, &e)
}

// malformedMessageError marks an undecodable or incomplete payload.
type malformedMessageError struct {
	typ    string
	reason string
}

func (e malformedMessageError) Error() string {
	if e.typ == "" {
		return "malformed message: " + e.reason
	}
	return "malformed " + e.typ + " message: " + e.reason
}

// IsMalformedMessage reports whether err marks a payload that could not be used.
func IsMalformedMessage(err error) bool {
	var e malformedMessageError
	return errors.As(err, &e)
}

// errClosed is returned by operations on a closed engine.
var errClosed = errors.New("surface engine closed")

// IsClosed reports whether err came from a closed engine.
func IsClosed(err error) bool { return errors.Is(err, errClosed) }
