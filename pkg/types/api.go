package types

// SlotsResponse is returned by the /slots endpoints.
type SlotsResponse struct {
	// Stored slot records in order.
	Slots []ParameterRecord `json:"slots"`
	// Index of the slot bound to the live fields.
	// example: 0
	ActiveIndex int `json:"activeIndex" example:"0"`
	// Human-readable summary of the store.
	// example: Outputs: 2 | Active: 1
	Summary string `json:"summary" example:"Outputs: 2 | Active: 1"`
}

// FieldsResponse carries the live field values by key.
type FieldsResponse struct {
	Fields map[string]any `json:"fields"`
}

// PromptsResponse lists one lighting prompt per slot.
type PromptsResponse struct {
	Prompts []string `json:"prompts"`
}

// GeometryRequest reports a new container size.
type GeometryRequest struct {
	// example: 320
	Width float64 `json:"width" example:"320"`
	// example: 360
	Height float64 `json:"height" example:"360"`
}

// SurfaceStatus is returned by GET /surface.
type SurfaceStatus struct {
	// True once the rendering surface completed its handshake.
	Ready bool `json:"ready"`
	// True when an image is buffered awaiting the handshake.
	PendingImage bool `json:"pending_image"`
}

// ErrorResponse is a consistent JSON error payload.
type ErrorResponse struct {
	// Error message.
	// example: invalid JSON body
	Error string `json:"error" example:"invalid JSON body"`
	// HTTP status code.
	// example: 400
	Code int `json:"code" example:"400"`
}
