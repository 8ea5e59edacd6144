package models

// StatusResponse represents the response structure for GET /api/status
type StatusResponse struct {
	Status    string `json:"status" example:"OK"`
	Message   string `json:"message" example:"Server is running successfully!"`
	Timestamp string `json:"timestamp" example:"2025-11-10T14:30:00.123Z"`
	Version   string `json:"version" example:"1.0.0"`
}

// InfoResponse represents the response structure for GET /api/info
type InfoResponse struct {
	Name           string `json:"name" example:"Deploy Test App"`
	Description    string `json:"description" example:"Simple web application for testing deployment"`
	Version        string `json:"version" example:"1.0.0"`
	RuntimeVersion string `json:"runtime_version" example:"go1.24.0"`
	// NodeVersion mirrors RuntimeVersion for clients reading the legacy node_version key
	NodeVersion string `json:"node_version" example:"go1.24.0"`
	Environment string `json:"environment" example:"development"`
}

// ErrorResponse is returned by the error boundary for unhandled failures
type ErrorResponse struct {
	Error   string `json:"error" example:"Something went wrong!"`
	Message string `json:"message" example:"Internal Server Error"`
}
