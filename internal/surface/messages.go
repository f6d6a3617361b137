package surface

import (
	"encoding/json"
	"fmt"
)

// Host → surface message types.
const (
	TypeInit        = "INIT"
	TypeSyncAngles  = "SYNC_ANGLES"
	TypeUpdateImage = "UPDATE_IMAGE"
	TypeResize      = "RESIZE"
)

// Surface → host message types.
const (
	TypeReady       = "READY"
	TypeAngleUpdate = "ANGLE_UPDATE"
)

// State is the full lighting state carried by INIT and SYNC_ANGLES.
type State struct {
	Azimuth       float64 `json:"azimuth"`
	Elevation     float64 `json:"elevation"`
	Intensity     float64 `json:"intensity"`
	ColorHex      string  `json:"colorHex"`
	CinematicMode bool    `json:"cinematicMode"`
}

// AngleUpdate is the payload of ANGLE_UPDATE. Color and cinematic mode are not
// carried.
type AngleUpdate struct {
	Azimuth   float64 `json:"azimuth"`
	Elevation float64 `json:"elevation"`
	Intensity float64 `json:"intensity"`
}

type stateMessage struct {
	Type string `json:"type"`
	State
}

type imageMessage struct {
	Type      string `json:"type"`
	ImageData string `json:"imageData"`
}

type resizeMessage struct {
	Type   string  `json:"type"`
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
}

type readyMessage struct {
	Type string `json:"type"`
}

type angleUpdateMessage struct {
	Type string `json:"type"`
	AngleUpdate
}

// EncodeState renders an INIT or SYNC_ANGLES payload.
func EncodeState(typ string, s State) ([]byte, error) {
	if typ != TypeInit && typ != TypeSyncAngles {
		return nil, fmt.Errorf("encode state: unexpected type %q", typ)
	}
	return json.Marshal(stateMessage{Type: typ, State: s})
}

// EncodeImage renders an UPDATE_IMAGE payload.
func EncodeImage(data string) ([]byte, error) {
	return json.Marshal(imageMessage{Type: TypeUpdateImage, ImageData: data})
}

// EncodeResize renders a RESIZE payload.
func EncodeResize(width, height float64) ([]byte, error) {
	return json.Marshal(resizeMessage{Type: TypeResize, Width: width, Height: height})
}

// EncodeReady renders the surface's READY signal.
func EncodeReady() ([]byte, error) { return json.Marshal(readyMessage{Type: TypeReady}) }

// EncodeAngleUpdate renders the surface's ANGLE_UPDATE message.
func EncodeAngleUpdate(u AngleUpdate) ([]byte, error) {
	return json.Marshal(angleUpdateMessage{Type: TypeAngleUpdate, AngleUpdate: u})
}

// Inbound is a decoded surface → host message. Angles is set for ANGLE_UPDATE.
type Inbound struct {
	Type   string
	Angles AngleUpdate
}

type inboundWire struct {
	Type      string   `json:"type"`
	Azimuth   *float64 `json:"azimuth"`
	Elevation *float64 `json:"elevation"`
	Intensity *float64 `json:"intensity"`
}

// DecodeInbound parses a surface → host payload. Recognized types with a
// missing required field yield a malformed-message error; unknown types are
// returned as-is for the caller to ignore.
func DecodeInbound(payload []byte) (Inbound, error) {
	var w inboundWire
	if err := json.Unmarshal(payload, &w); err != nil {
		return Inbound{}, malformedMessageError{reason: err.Error()}
	}
	if w.Type == "" {
		return Inbound{}, malformedMessageError{reason: "missing type"}
	}
	in := Inbound{Type: w.Type}
	if w.Type == TypeAngleUpdate {
		if w.Azimuth == nil || w.Elevation == nil || w.Intensity == nil {
			return Inbound{}, malformedMessageError{typ: w.Type, reason: "missing angle field"}
		}
		in.Angles = AngleUpdate{Azimuth: *w.Azimuth, Elevation: *w.Elevation, Intensity: *w.Intensity}
	}
	return in, nil
}

// Outbound is a decoded host → surface message, as seen by a surface.
type Outbound struct {
	State
	Type      string  `json:"type"`
	ImageData string  `json:"imageData,omitempty"`
	Width     float64 `json:"width,omitempty"`
	Height    float64 `json:"height,omitempty"`
}

// DecodeOutbound parses a host → surface payload.
func DecodeOutbound(payload []byte) (Outbound, error) {
	var out Outbound
	if err := json.Unmarshal(payload, &out); err != nil {
		return Outbound{}, malformedMessageError{reason: err.Error()}
	}
	if out.Type == "" {
		return Outbound{}, malformedMessageError{reason: "missing type"}
	}
	return out, nil
}
