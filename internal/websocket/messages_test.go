package websocket

import (
	"encoding/json"
	"testing"
)

func TestMessageValidator_ValidateMessage(t *testing.T) {
	validator := NewMessageValidator()

	tests := []struct {
		name     string
		message  string
		wantType MessageType
		wantErr  bool
	}{
		{
			name:     "listening start",
			message:  `{"type": "listening_start", "language": "ko", "mime_type": "audio/webm;codecs=opus"}`,
			wantType: MessageTypeListeningStart,
		},
		{
			name:     "listening start without metadata",
			message:  `{"type": "listening_start"}`,
			wantType: MessageTypeListeningStart,
		},
		{
			name:     "listening end",
			message:  `{"type": "listening_end"}`,
			wantType: MessageTypeListeningEnd,
		},
		{
			name:    "missing type",
			message: `{"language": "en"}`,
			wantErr: true,
		},
		{
			name:    "unknown type",
			message: `{"type": "audio_chunk"}`,
			wantErr: true,
		},
		{
			name:    "language too long",
			message: `{"type": "listening_start", "language": "this-is-not-a-language-code"}`,
			wantErr: true,
		},
		{
			name:    "invalid json",
			message: `{"type": `,
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := validator.ValidateMessage([]byte(tt.message))
			if (err != nil) != tt.wantErr {
				t.Fatalf("ValidateMessage() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}

			switch m := msg.(type) {
			case *ListeningStartMessage:
				if m.Type != tt.wantType {
					t.Errorf("Expected type %s, got %s", tt.wantType, m.Type)
				}
			case *ListeningEndMessage:
				if m.Type != tt.wantType {
					t.Errorf("Expected type %s, got %s", tt.wantType, m.Type)
				}
			default:
				t.Errorf("Unexpected message %T", msg)
			}
		})
	}
}

func TestServerMessages_Encoding(t *testing.T) {
	data, err := json.Marshal(NewTranscribingMessage(true))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"transcribing","busy":true}` {
		t.Errorf("Unexpected transcribing payload %s", data)
	}

	data, err = json.Marshal(NewTranscriptMessage(""))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `{"type":"transcript","text":""}` {
		t.Errorf("Unexpected transcript payload %s", data)
	}

	errMsg := CreateErrorMessage("invalid_message", "bad frame")
	if errMsg.Type != MessageTypeError || errMsg.Code != "invalid_message" {
		t.Errorf("Unexpected error message %+v", errMsg)
	}
}
