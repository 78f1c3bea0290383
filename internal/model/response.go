package model

// FieldError describes a single rejected request field. Value is omitted when
// the field was absent from the body.
type FieldError struct {
	Type     string `json:"type"`
	Path     string `json:"path"`
	Msg      string `json:"msg"`
	Value    any    `json:"value,omitempty"`
	Location string `json:"location"`
}

type ErrorResponse struct {
	Message          string       `json:"message"`
	ValidationErrors []FieldError `json:"validationErrors,omitempty"`
}

type LogoutResponse struct {
	Message string `json:"message"`
}
