// Package interview drives one mock interview from the candidate's side:
// reading questions aloud, recording answers and submitting them for scoring.
package interview

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/internal/capture"
	"github.com/satriahrh/mockview/internal/playback"
	"github.com/satriahrh/mockview/internal/whisper"
	"github.com/satriahrh/mockview/usecase"
)

var (
	ErrAnswerInProgress = errors.New("interview: an answer is already being recorded")
	ErrNoAnswer         = errors.New("interview: no answer in progress")
	// ErrEmptyAnswer is returned when neither typed text nor a transcript is available
	ErrEmptyAnswer = errors.New("interview: answer is empty")
)

// AnswerSubmitter scores an answer on the server
type AnswerSubmitter interface {
	SubmitAnswer(ctx context.Context, input usecase.SubmitAnswerInput) (*usecase.SubmitAnswerResult, error)
}

// VideoUploader stores an answer recording and returns its public URL, or "" when it could not
type VideoUploader interface {
	Upload(ctx context.Context, blob *entities.Blob, sessionID string, answerOrdinal int) string
}

// Config wires an Orchestrator. Speech and Speaker are optional.
type Config struct {
	MockID   string
	Language string

	// Capture records camera and microphone for every answer
	Capture *capture.Session
	// Speech transcribes the microphone when on-device recognition is unusable
	Speech     *whisper.Controller
	AudioTrack capture.Track
	// Tracks are released by Close
	Tracks []capture.Track

	Uploader  VideoUploader
	Speaker   *playback.Speaker
	Submitter AnswerSubmitter
}

// Orchestrator runs the answer loop of a single interview
type Orchestrator struct {
	config Config
	logger *zap.Logger

	mu        sync.Mutex
	answering bool
	ordinal   int
}

// NewOrchestrator creates an orchestrator
func NewOrchestrator(config Config, logger *zap.Logger) *Orchestrator {
	config.Language = entities.NormalizeLanguage(config.Language)
	return &Orchestrator{
		config: config,
		logger: logger.With(zap.String("mockID", config.MockID)),
	}
}

// AskQuestion reads text aloud and waits until playback has ended.
// Playback failures are not errors; a question that cannot be voiced is simply shown.
func (o *Orchestrator) AskQuestion(ctx context.Context, text, gender string) error {
	if o.config.Speaker == nil {
		return nil
	}

	handle := o.config.Speaker.Speak(ctx, text, gender)
	select {
	case <-handle.Done():
		return nil
	case <-ctx.Done():
		handle.Cancel()
		return ctx.Err()
	}
}

// BeginAnswer starts recording the answer with the given ordinal
func (o *Orchestrator) BeginAnswer(ctx context.Context, ordinal int) error {
	o.mu.Lock()
	defer o.mu.Unlock()

	if o.answering {
		return ErrAnswerInProgress
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if err := o.config.Capture.Start(); err != nil {
		return fmt.Errorf("start video capture: %w", err)
	}

	if o.config.Speech != nil && o.config.Speech.IsWhisperMode() {
		if err := o.config.Speech.StartRecording(o.config.AudioTrack); err != nil {
			// the answer can still be typed
			o.logger.Warn("Could not start speech recording", zap.Error(err))
		}
	}

	o.answering = true
	o.ordinal = ordinal
	o.logger.Info("Answer recording started", zap.Int("answerOrdinal", ordinal))
	return nil
}

// FinishAnswer stops recording, uploads the video and submits the answer for scoring.
// Typed text takes precedence over the transcript.
func (o *Orchestrator) FinishAnswer(ctx context.Context, question entities.QuestionAnswer, typedAnswer string) (*usecase.SubmitAnswerResult, error) {
	o.mu.Lock()
	if !o.answering {
		o.mu.Unlock()
		return nil, ErrNoAnswer
	}
	o.answering = false
	ordinal := o.ordinal
	o.mu.Unlock()

	var (
		transcript string
		blob       *entities.Blob
	)
	g, gctx := errgroup.WithContext(ctx)
	if o.config.Speech != nil {
		g.Go(func() error {
			text, err := o.config.Speech.StopRecording(gctx)
			transcript = text
			return err
		})
	}
	g.Go(func() error {
		b, err := o.config.Capture.Stop(gctx)
		if errors.Is(err, capture.ErrNotActive) {
			return nil
		}
		blob = b
		return err
	})
	if err := g.Wait(); err != nil {
		o.Abort()
		return nil, fmt.Errorf("stop recording: %w", err)
	}

	answer := strings.TrimSpace(typedAnswer)
	if answer == "" {
		answer = strings.TrimSpace(transcript)
	}
	if answer == "" {
		return nil, ErrEmptyAnswer
	}

	var videoURL string
	if o.config.Uploader != nil {
		videoURL = o.config.Uploader.Upload(ctx, blob, o.config.MockID, ordinal)
	}

	result, err := o.config.Submitter.SubmitAnswer(ctx, usecase.SubmitAnswerInput{
		MockID:     o.config.MockID,
		Question:   question.Question,
		CorrectAns: question.Answer,
		UserAns:    answer,
		Language:   o.config.Language,
		VideoURL:   videoURL,
	})
	if err != nil {
		return nil, fmt.Errorf("submit answer: %w", err)
	}

	o.logger.Info("Answer submitted",
		zap.Int("answerOrdinal", ordinal),
		zap.Int("rating", result.Rating),
		zap.Bool("hasVideo", videoURL != ""))
	return result, nil
}

// Abort drops the answer being recorded. It is safe to call at any time.
func (o *Orchestrator) Abort() {
	o.mu.Lock()
	o.answering = false
	o.mu.Unlock()

	if o.config.Speech != nil {
		o.config.Speech.CancelRecording()
	}
	o.config.Capture.Cleanup()
}

// Close aborts any answer and releases the device tracks
func (o *Orchestrator) Close() {
	o.Abort()
	for _, track := range o.config.Tracks {
		track.Stop()
	}
}
