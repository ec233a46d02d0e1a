package types

// SuccessEnvelope wraps every successful payload. Notice carries the
// human-readable outcome of connect/disconnect style operations.
type SuccessEnvelope struct {
	Data   any    `json:"data"`
	Notice string `json:"notice,omitempty"`
}

type APIError struct {
	Code      string `json:"code"`
	Message   string `json:"message"`
	Retryable bool   `json:"retryable"`
	Details   any    `json:"details,omitempty"`
}

type ErrorEnvelope struct {
	Error  APIError `json:"error"`
	Notice string   `json:"notice,omitempty"`
}
