package response

// APIResponse is the envelope every read endpoint returns.
type APIResponse[T any] struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    T      `json:"data,omitempty"`
}

// ErrorResponse is the envelope for failed requests.
type ErrorResponse struct {
	Error string `json:"error"`
}

func NewError(message string) *ErrorResponse {
	return &ErrorResponse{Error: message}
}
