package chi

// ErrorResponse is the body of a failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// ValidationErrorResponse lists rejected query parameters with their reasons.
type ValidationErrorResponse struct {
	Error   string              `json:"error"`
	Message string              `json:"message"`
	Details map[string][]string `json:"details"`
}

// RateLimitResponse is the body of a 429.
type RateLimitResponse struct {
	Error     string `json:"error"`
	Message   string `json:"message"`
	ResetTime string `json:"resetTime"`
}

// InvalidateResponse confirms a cache invalidation.
type InvalidateResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Pattern string `json:"pattern"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks"`
}
