package calculator

import "calculator-widget/internal/tone"

// SessionResponse is the JSON response for every session endpoint.
type SessionResponse struct {
	SessionID string    `json:"session_id"`
	Display   string    `json:"display"`
	State     string    `json:"state"`
	Feedback  *tone.Cue `json:"feedback,omitempty"`

	// ErrorKind is "malformed_expression" or "non_finite_result" after a
	// failed evaluation.
	ErrorKind string `json:"error_kind,omitempty"`

	// ClearAfterMS is set while the error marker is waiting to be cleared.
	ClearAfterMS int64 `json:"clear_after_ms,omitempty"`
}

// InputRequest is the JSON body for POST /calculator/sessions/{id}/input.
type InputRequest struct {
	Token string `json:"token"` // one character from the token alphabet
}

// KeyRequest is the JSON body for POST /calculator/sessions/{id}/keys.
type KeyRequest struct {
	Key string `json:"key"` // KeyboardEvent.key, e.g. "7", "Enter", "Escape"
}

// EvaluateRequest is the JSON body for POST /calculator/evaluate.
type EvaluateRequest struct {
	Expression string `json:"expression"`
}

// EvaluateResponse is the JSON response for POST /calculator/evaluate.
type EvaluateResponse struct {
	Expression string  `json:"expression"`
	Display    string  `json:"display"`
	Value      float64 `json:"value"`
}
