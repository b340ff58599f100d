package usecase

import "errors"

var (
	// ErrUnauthorized is returned when a call carries no user identity
	ErrUnauthorized = errors.New("Unauthorized")
	// ErrInvalidAIResponse is returned when the model reply is not the expected JSON
	ErrInvalidAIResponse = errors.New("AI returned invalid response. Please try again.")
	// ErrInterviewNotFound is returned for unknown interviews and for interviews owned by someone else
	ErrInterviewNotFound = errors.New("interview not found")
	ErrInvalidInput      = errors.New("invalid input")
)
