package dto

type ErrorResponse struct {
	Error     string `json:"error"`
	RequestID string `json:"request_id,omitempty"`
}

// SuccessResponse is the body of every rendered view. Flash carries the
// one-shot messages queued by the previous redirect.
type SuccessResponse struct {
	OK    bool     `json:"ok"`
	Flash []string `json:"flash,omitempty"`
	Data  any      `json:"data,omitempty"`
}

type FormField struct {
	Name     string `json:"name"`
	Type     string `json:"type"`
	Required bool   `json:"required"`
}

type FormView struct {
	Action string      `json:"action"`
	Fields []FormField `json:"fields"`
	Values any         `json:"values,omitempty"`
}
