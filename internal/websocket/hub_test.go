package websocket

import (
	"context"
	"errors"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/usecase"
)

type fakeTranscriber struct {
	mu       sync.Mutex
	text     string
	err      error
	requests []usecase.TranscribeRequest
}

func (f *fakeTranscriber) Transcribe(ctx context.Context, req usecase.TranscribeRequest) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, req)
	return f.text, f.err
}

func (f *fakeTranscriber) Requests() []usecase.TranscribeRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]usecase.TranscribeRequest(nil), f.requests...)
}

func setupTestServer(t *testing.T, transcriber Transcriber) (*Hub, *websocket.Conn) {
	t.Helper()
	logger := zap.NewNop()

	hub := NewHub(transcriber, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws/transcribe", func(c echo.Context) error {
		return HandleWebSocket(hub, c, "user@example.com", logger)
	})
	server := httptest.NewServer(e)

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/transcribe"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}

	t.Cleanup(func() {
		conn.Close()
		server.Close()
		cancel()
	})
	return hub, conn
}

func readJSON(t *testing.T, conn *websocket.Conn) map[string]interface{} {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var msg map[string]interface{}
	if err := conn.ReadJSON(&msg); err != nil {
		t.Fatalf("Failed to read message: %v", err)
	}
	return msg
}

func TestHub_StreamedTranscription(t *testing.T) {
	transcriber := &fakeTranscriber{text: "I led the migration to Go"}
	_, conn := setupTestServer(t, transcriber)

	if err := conn.WriteJSON(map[string]string{"type": "listening_start", "language": "ko", "mime_type": "audio/ogg;codecs=opus"}); err != nil {
		t.Fatal(err)
	}
	for _, chunk := range []string{"chunk-1", "chunk-2"} {
		if err := conn.WriteMessage(websocket.BinaryMessage, []byte(chunk)); err != nil {
			t.Fatal(err)
		}
	}
	if err := conn.WriteJSON(map[string]string{"type": "listening_end"}); err != nil {
		t.Fatal(err)
	}

	busy := readJSON(t, conn)
	if busy["type"] != "transcribing" || busy["busy"] != true {
		t.Fatalf("Expected transcribing busy, got %v", busy)
	}
	transcript := readJSON(t, conn)
	if transcript["type"] != "transcript" || transcript["text"] != "I led the migration to Go" {
		t.Fatalf("Unexpected transcript %v", transcript)
	}
	idle := readJSON(t, conn)
	if idle["type"] != "transcribing" || idle["busy"] != false {
		t.Fatalf("Expected transcribing idle, got %v", idle)
	}

	requests := transcriber.Requests()
	if len(requests) != 1 {
		t.Fatalf("Expected 1 transcription, got %d", len(requests))
	}
	if string(requests[0].Audio) != "chunk-1chunk-2" {
		t.Errorf("Unexpected audio %q", requests[0].Audio)
	}
	if requests[0].Language != "ko" || requests[0].Filename != "recording.webm" {
		t.Errorf("Unexpected request %+v", requests[0])
	}
}

func TestHub_EmptyClipSkipsTranscription(t *testing.T) {
	transcriber := &fakeTranscriber{text: "never"}
	_, conn := setupTestServer(t, transcriber)

	conn.WriteJSON(map[string]string{"type": "listening_start"})
	conn.WriteJSON(map[string]string{"type": "listening_end"})

	msg := readJSON(t, conn)
	if msg["type"] != "transcript" || msg["text"] != "" {
		t.Fatalf("Expected empty transcript, got %v", msg)
	}
	if len(transcriber.Requests()) != 0 {
		t.Error("Transcriber should not be called for an empty clip")
	}
}

func TestHub_TranscriptionFailureYieldsEmptyText(t *testing.T) {
	transcriber := &fakeTranscriber{err: errors.New("provider down")}
	_, conn := setupTestServer(t, transcriber)

	conn.WriteJSON(map[string]string{"type": "listening_start", "mime_type": "audio/mp4"})
	conn.WriteMessage(websocket.BinaryMessage, []byte("chunk"))
	conn.WriteJSON(map[string]string{"type": "listening_end"})

	readJSON(t, conn)
	msg := readJSON(t, conn)
	if msg["type"] != "transcript" || msg["text"] != "" {
		t.Fatalf("Expected empty transcript, got %v", msg)
	}
	if got := transcriber.Requests()[0].Filename; got != "recording.mp4" {
		t.Errorf("Expected recording.mp4, got %s", got)
	}
}

func TestHub_InvalidControlMessage(t *testing.T) {
	_, conn := setupTestServer(t, &fakeTranscriber{})

	conn.WriteMessage(websocket.TextMessage, []byte(`{"type":"bogus"}`))

	msg := readJSON(t, conn)
	if msg["type"] != "error" || msg["error_code"] != "invalid_message" {
		t.Fatalf("Expected error message, got %v", msg)
	}
}

func TestHub_RegisterAndUnregister(t *testing.T) {
	hub, conn := setupTestServer(t, &fakeTranscriber{})

	waitFor(t, func() bool { return hub.ActiveClients() == 1 })

	conn.Close()
	waitFor(t, func() bool { return hub.ActiveClients() == 0 })
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatal("condition not met in time")
}

func TestHub_StoppedHubRejectsClients(t *testing.T) {
	logger := zap.NewNop()
	hub := NewHub(&fakeTranscriber{}, logger)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	hub.Run(ctx)

	select {
	case <-hub.Done():
	default:
		t.Fatal("Expected Done to be closed after Run returns")
	}

	handled := make(chan error, 1)
	e := echo.New()
	e.GET("/ws/transcribe", func(c echo.Context) error {
		err := HandleWebSocket(hub, c, "user@example.com", logger)
		handled <- err
		return err
	})
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/transcribe"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	select {
	case err := <-handled:
		if err != nil {
			t.Errorf("Expected nil error, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Handler blocked on a stopped hub")
	}

	conn.SetReadDeadline(time.Now().Add(time.Second))
	if _, _, err := conn.ReadMessage(); err == nil {
		t.Error("Expected the connection to be closed")
	}
	if hub.ActiveClients() != 0 {
		t.Errorf("Expected no active clients, got %d", hub.ActiveClients())
	}
}

func TestHub_StopClosesConnectedClients(t *testing.T) {
	logger := zap.NewNop()
	hub := NewHub(&fakeTranscriber{}, logger)
	ctx, cancel := context.WithCancel(context.Background())
	go hub.Run(ctx)

	e := echo.New()
	e.GET("/ws/transcribe", func(c echo.Context) error {
		return HandleWebSocket(hub, c, "user@example.com", logger)
	})
	server := httptest.NewServer(e)
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http") + "/ws/transcribe"
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to connect: %v", err)
	}
	defer conn.Close()

	deadline := time.Now().Add(time.Second)
	for hub.ActiveClients() == 0 && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
	}
	if hub.ActiveClients() != 1 {
		t.Fatalf("Expected 1 active client, got %d", hub.ActiveClients())
	}

	cancel()
	select {
	case <-hub.Done():
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}

	// the read loop unwinds through its unregister without a running hub
	conn.SetReadDeadline(time.Now().Add(time.Second))
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}
	if hub.ActiveClients() != 0 {
		t.Errorf("Expected no active clients, got %d", hub.ActiveClients())
	}
}
