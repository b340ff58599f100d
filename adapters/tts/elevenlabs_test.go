package tts

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestNewElevenLabsTTS(t *testing.T) {
	logger := zaptest.NewLogger(t)

	// Test without API key
	os.Unsetenv("ELEVEN_LABS_API_KEY")
	config := NewElevenLabsConfigFromEnv()
	_, err := NewElevenLabsTTS(config, logger)
	if err == nil {
		t.Error("Expected error when API key is not set")
	}

	// Test with API key
	os.Setenv("ELEVEN_LABS_API_KEY", "test-api-key")
	defer os.Unsetenv("ELEVEN_LABS_API_KEY")

	config = NewElevenLabsConfigFromEnv()
	tts, err := NewElevenLabsTTS(config, logger)
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if tts.apiKey != "test-api-key" {
		t.Errorf("Expected API key 'test-api-key', got '%s'", tts.apiKey)
	}

	if tts.femaleVoiceID != defaultFemaleVoiceID {
		t.Errorf("Expected default female voice ID '%s', got '%s'", defaultFemaleVoiceID, tts.femaleVoiceID)
	}

	if tts.outputFormat != defaultOutputFormat {
		t.Errorf("Expected default output format '%s', got '%s'", defaultOutputFormat, tts.outputFormat)
	}
}

func TestValidateElevenLabsConfig(t *testing.T) {
	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", OutputFormat: "pcm_24000"}); err == nil {
		t.Error("Expected error for non-mp3 output format")
	}

	if err := ValidateElevenLabsConfig(ElevenLabsConfig{APIKey: "k", Stability: 1.5}); err == nil {
		t.Error("Expected error for stability out of range")
	}
}

func TestElevenLabsTTS_Synthesize_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"detail":"invalid api key"}`))
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "bad-key", APIBaseURL: server.URL}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	if _, err := tts.Synthesize(context.Background(), "Hello", FemaleVoice); err == nil {
		t.Error("Expected error for 401 response")
	}
}

func TestElevenLabsTTS_Synthesize(t *testing.T) {
	var gotPath, gotFormat, gotKey string
	var gotRequest ElevenLabsRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotFormat = r.URL.Query().Get("output_format")
		gotKey = r.Header.Get("xi-api-key")
		_ = json.NewDecoder(r.Body).Decode(&gotRequest)
		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("mp3-bytes"))
	}))
	defer server.Close()

	tts, err := NewElevenLabsTTS(ElevenLabsConfig{
		APIKey:      "test-api-key",
		APIBaseURL:  server.URL,
		MaleVoiceID: "male-voice",
	}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	audio, err := tts.Synthesize(context.Background(), "Tell me about yourself.", MaleVoice)
	if err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}

	if string(audio) != "mp3-bytes" {
		t.Errorf("Unexpected audio %q", audio)
	}
	if gotPath != "/text-to-speech/male-voice" {
		t.Errorf("Expected male voice path, got %s", gotPath)
	}
	if gotFormat != defaultOutputFormat {
		t.Errorf("Expected output format %s, got %s", defaultOutputFormat, gotFormat)
	}
	if gotKey != "test-api-key" {
		t.Errorf("Expected api key header, got %q", gotKey)
	}
	if gotRequest.Text != "Tell me about yourself." {
		t.Errorf("Unexpected text %q", gotRequest.Text)
	}

	if _, err := tts.Synthesize(context.Background(), "Next question", FemaleVoice); err != nil {
		t.Fatalf("Synthesize failed: %v", err)
	}
	if gotPath != "/text-to-speech/"+defaultFemaleVoiceID {
		t.Errorf("Expected female voice path, got %s", gotPath)
	}
}

func TestElevenLabsTTS_Synthesize_EmptyText(t *testing.T) {
	tts, err := NewElevenLabsTTS(ElevenLabsConfig{APIKey: "test-api-key"}, zaptest.NewLogger(t))
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	ctx := context.Background()
	if _, err := tts.Synthesize(ctx, "", FemaleVoice); err == nil {
		t.Error("Expected error for empty text")
	}

	if _, err := tts.Synthesize(ctx, "   ", FemaleVoice); err == nil {
		t.Error("Expected error for whitespace-only text")
	}
}

// Integration test - only runs if ELEVEN_LABS_API_KEY is set with real API key
func TestElevenLabsTTS_Synthesize_Integration(t *testing.T) {
	apiKey := os.Getenv("ELEVEN_LABS_API_KEY")
	if apiKey == "" || apiKey == "test-api-key" {
		t.Skip("Skipping integration test - set ELEVEN_LABS_API_KEY environment variable with real API key")
	}

	tts, err := NewElevenLabsTTS(NewElevenLabsConfigFromEnv(), zap.NewNop())
	if err != nil {
		t.Fatalf("Failed to create ElevenLabsTTS: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	audio, err := tts.Synthesize(ctx, "Please introduce yourself.", FemaleVoice)
	if err != nil {
		t.Fatalf("Failed to convert text to speech: %v", err)
	}

	if len(audio) == 0 {
		t.Error("No audio data received")
	}
}
