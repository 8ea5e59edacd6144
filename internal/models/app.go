package models

// Application identity reported by the API endpoints
const (
	AppName        = "Deploy Test App"
	AppDescription = "Simple web application for testing deployment"
	AppVersion     = "1.0.0"

	StatusOK      = "OK"
	StatusMessage = "Server is running successfully!"

	ErrorSummary        = "Something went wrong!"
	GenericErrorMessage = "Internal Server Error"
)
