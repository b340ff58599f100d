package websocket

import (
	"encoding/json"
	"fmt"

	"github.com/go-playground/validator/v10"
)

// MessageType defines the type of WebSocket message
type MessageType string

// Supported message types
const (
	MessageTypeListeningStart MessageType = "listening_start"
	MessageTypeListeningEnd   MessageType = "listening_end"
	MessageTypeTranscribing   MessageType = "transcribing"
	MessageTypeTranscript     MessageType = "transcript"
	MessageTypeError          MessageType = "error"
)

// BaseMessage defines the common structure for all WebSocket messages
type BaseMessage struct {
	Type MessageType `json:"type" validate:"required"`
}

// ListeningStartMessage opens a clip; binary frames that follow are its chunks
type ListeningStartMessage struct {
	BaseMessage
	Language string `json:"language,omitempty" validate:"omitempty,max=16"`
	MimeType string `json:"mime_type,omitempty" validate:"omitempty,max=128"`
}

// ListeningEndMessage closes the clip and asks for its transcript
type ListeningEndMessage struct {
	BaseMessage
}

// TranscribingMessage reports whether a transcription is in flight
type TranscribingMessage struct {
	BaseMessage
	Busy bool `json:"busy"`
}

// TranscriptMessage carries the transcript of the last clip; empty when none is available
type TranscriptMessage struct {
	BaseMessage
	Text string `json:"text"`
}

// ErrorMessage represents an error response
type ErrorMessage struct {
	BaseMessage
	Code    string `json:"error_code"`
	Message string `json:"message"`
}

// MessageValidator parses and validates control frames from the client
type MessageValidator struct {
	validate *validator.Validate
}

// NewMessageValidator creates a new message validator
func NewMessageValidator() *MessageValidator {
	return &MessageValidator{validate: validator.New()}
}

// ValidateMessage parses a text frame into one of the client message types
func (v *MessageValidator) ValidateMessage(messageBytes []byte) (interface{}, error) {
	var base BaseMessage
	if err := json.Unmarshal(messageBytes, &base); err != nil {
		return nil, fmt.Errorf("invalid JSON format: %w", err)
	}
	if err := v.validate.Struct(&base); err != nil {
		return nil, fmt.Errorf("invalid message: %w", err)
	}

	switch base.Type {
	case MessageTypeListeningStart:
		var msg ListeningStartMessage
		if err := json.Unmarshal(messageBytes, &msg); err != nil {
			return nil, fmt.Errorf("invalid listening_start message: %w", err)
		}
		if err := v.validate.Struct(&msg); err != nil {
			return nil, fmt.Errorf("invalid listening_start message: %w", err)
		}
		return &msg, nil

	case MessageTypeListeningEnd:
		return &ListeningEndMessage{BaseMessage: base}, nil

	default:
		return nil, fmt.Errorf("unsupported message type: %s", base.Type)
	}
}

// NewTranscribingMessage creates a transcribing status message
func NewTranscribingMessage(busy bool) *TranscribingMessage {
	return &TranscribingMessage{
		BaseMessage: BaseMessage{Type: MessageTypeTranscribing},
		Busy:        busy,
	}
}

// NewTranscriptMessage creates a transcript message
func NewTranscriptMessage(text string) *TranscriptMessage {
	return &TranscriptMessage{
		BaseMessage: BaseMessage{Type: MessageTypeTranscript},
		Text:        text,
	}
}

// CreateErrorMessage creates a standardized error message
func CreateErrorMessage(code, message string) *ErrorMessage {
	return &ErrorMessage{
		BaseMessage: BaseMessage{Type: MessageTypeError},
		Code:        code,
		Message:     message,
	}
}
