package apiclient

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/usecase"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{BaseURL: server.URL, Token: "secret"}, zaptest.NewLogger(t))
	require.NoError(t, err)
	return client
}

func TestValidateConfig(t *testing.T) {
	assert.Error(t, ValidateConfig(Config{}))
	assert.Error(t, ValidateConfig(Config{BaseURL: "not a url"}))
	assert.NoError(t, ValidateConfig(Config{BaseURL: "http://localhost:8080"}))
}

func TestTranscribe(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/transcribe", r.URL.Path)
		assert.Equal(t, "Bearer secret", r.Header.Get("Authorization"))

		file, header, err := r.FormFile("audio")
		require.NoError(t, err)
		data, _ := io.ReadAll(file)
		assert.Equal(t, "recording.webm", header.Filename)
		assert.Equal(t, []byte("opus"), data)
		assert.Equal(t, "ko", r.FormValue("language"))

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"text":"안녕하세요"}`))
	})

	text, err := client.Transcribe(context.Background(), []byte("opus"), "recording.webm", "ko")
	require.NoError(t, err)
	assert.Equal(t, "안녕하세요", text)
}

func TestTranscribe_ServerError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte(`{"error":"Transcription failed"}`))
	})

	_, err := client.Transcribe(context.Background(), []byte("opus"), "recording.webm", "en")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Transcription failed")
}

func TestSynthesize(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tts", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, map[string]string{"text": "Hello", "voice": "onyx"}, body)

		w.Header().Set("Content-Type", "audio/mpeg")
		_, _ = w.Write([]byte("ID3mp3"))
	})

	audio, err := client.Synthesize(context.Background(), "Hello", "onyx")
	require.NoError(t, err)
	assert.Equal(t, []byte("ID3mp3"), audio)
}

func TestSubmitAnswer(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/interviews/mock-1/answers", r.URL.Path)
		var input usecase.SubmitAnswerInput
		require.NoError(t, json.NewDecoder(r.Body).Decode(&input))
		assert.Equal(t, "REST uses resources", input.UserAns)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"rating":4,"feedback":"{\"rating\":4}"}`))
	})

	result, err := client.SubmitAnswer(context.Background(), usecase.SubmitAnswerInput{
		MockID:   "mock-1",
		Question: "What is REST?",
		UserAns:  "REST uses resources",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rating)
}

func TestSubmitAnswer_BadGateway(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadGateway)
		_, _ = w.Write([]byte(`{"error":"Bad Gateway","message":"AI returned invalid response. Please try again."}`))
	})

	_, err := client.SubmitAnswer(context.Background(), usecase.SubmitAnswerInput{MockID: "m", Question: "q"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "AI returned invalid response")
}

func TestUpload(t *testing.T) {
	calls := 0
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		assert.Equal(t, http.MethodPut, r.Method)
		assert.Equal(t, "/api/v1/interviews/mock-1/videos/3", r.URL.Path)
		assert.Equal(t, "video/webm;codecs=vp9,opus", r.Header.Get("Content-Type"))
		data, _ := io.ReadAll(r.Body)
		assert.Equal(t, []byte("webm"), data)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"url":"https://cdn.example.com/interview-videos/mock-1/3.webm"}`))
	})

	url := client.Upload(context.Background(), &entities.Blob{Data: []byte("webm"), MimeType: "video/webm;codecs=vp9,opus"}, "mock-1", 3)
	assert.Equal(t, "https://cdn.example.com/interview-videos/mock-1/3.webm", url)

	assert.Empty(t, client.Upload(context.Background(), nil, "mock-1", 4))
	assert.Equal(t, 1, calls)
}

func TestUpload_FailureYieldsEmpty(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	url := client.Upload(context.Background(), &entities.Blob{Data: []byte("webm")}, "mock-1", 0)
	assert.Empty(t, url)
}

func TestGetInterview(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		assert.Equal(t, "/api/v1/interviews/mock-1", r.URL.Path)

		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"mock_id":"mock-1","job_position":"Backend Engineer","language":"en","questions":[{"question":"Q1","answer":"A1"}]}`))
	})

	interview, err := client.GetInterview(context.Background(), "mock-1")
	require.NoError(t, err)
	assert.Equal(t, "Backend Engineer", interview.JobPosition)
	assert.Equal(t, []entities.QuestionAnswer{{Question: "Q1", Answer: "A1"}}, interview.Questions)
}

func TestGetInterview_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"error":"Interview not found"}`))
	})

	_, err := client.GetInterview(context.Background(), "missing")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Interview not found")
}
