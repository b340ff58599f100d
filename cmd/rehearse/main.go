//go:build cgo

// Command rehearse answers the questions of an interview from the terminal,
// recording the default microphone and scoring each answer on the server.
package main

import (
	"bufio"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/internal/apiclient"
	"github.com/satriahrh/mockview/internal/capture"
	"github.com/satriahrh/mockview/internal/interview"
	"github.com/satriahrh/mockview/internal/logging"
	"github.com/satriahrh/mockview/internal/whisper"
)

func main() {
	server := pflag.String("server", "http://localhost:8080", "mockview server origin")
	token := pflag.String("token", os.Getenv("MOCKVIEW_TOKEN"), "bearer token (default $MOCKVIEW_TOKEN)")
	mockID := pflag.String("interview", "", "interview to rehearse")
	logLevel := pflag.String("log-level", "warn", "log level")
	pflag.Parse()

	logger, err := logging.New(logging.Config{Level: *logLevel, Development: true})
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer logger.Sync()

	if *mockID == "" {
		logger.Fatal("--interview is required")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, *server, *token, *mockID, logger); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal("Rehearsal failed", zap.Error(err))
	}
}

func run(ctx context.Context, server, token, mockID string, logger *zap.Logger) error {
	client, err := apiclient.NewClient(apiclient.Config{BaseURL: server, Token: token}, logger)
	if err != nil {
		return err
	}

	session, err := client.GetInterview(ctx, mockID)
	if err != nil {
		return err
	}

	backend, err := capture.NewMalgoBackend(logger)
	if err != nil {
		return err
	}
	defer backend.Close()

	microphone := backend.Microphone()
	wav := capture.SessionConfig{
		MimeCandidates:  []string{capture.WAVMimeType},
		DefaultMimeType: capture.WAVMimeType,
	}

	speech := whisper.NewController(whisper.ControllerConfig{
		Language:    session.Language,
		Backend:     backend,
		Transcriber: client,
		OnTranscribing: func(busy bool) {
			if busy {
				fmt.Println("Transcribing...")
			}
		},
	}, logger)
	// a terminal has no on-device recognizer
	speech.Probe(nil)

	orchestrator := interview.NewOrchestrator(interview.Config{
		MockID:     session.MockID,
		Language:   session.Language,
		Capture:    capture.NewSession(backend, []capture.Track{microphone}, wav, logger),
		Speech:     speech,
		AudioTrack: microphone,
		Tracks:     []capture.Track{microphone},
		Uploader:   client,
		Submitter:  client,
	}, logger)
	defer orchestrator.Close()

	input := newPrompter(ctx)
	fmt.Printf("Rehearsing %s (%d questions)\n", session.JobPosition, len(session.Questions))

	for i, question := range session.Questions {
		fmt.Printf("\nQuestion %d: %s\n", i+1, question.Question)
		if _, err := input.line("Press Enter to start answering"); err != nil {
			return err
		}

		if err := orchestrator.BeginAnswer(ctx, i); err != nil {
			return err
		}
		typed, err := input.line("Recording. Type an answer or press Enter to use the recording")
		if err != nil {
			orchestrator.Abort()
			return err
		}

		result, err := orchestrator.FinishAnswer(ctx, question, typed)
		if errors.Is(err, interview.ErrEmptyAnswer) {
			fmt.Println("Nothing was heard, skipping.")
			continue
		}
		if err != nil {
			return err
		}
		printFeedback(result.Rating, result.Feedback)
	}
	return nil
}

func printFeedback(rating int, raw string) {
	fmt.Printf("Rating: %d/5\n", rating)

	var feedback entities.Feedback
	if err := json.Unmarshal([]byte(raw), &feedback); err != nil {
		fmt.Println(raw)
		return
	}
	fmt.Printf("Strengths: %s\nImprovements: %s\nSuggested answer: %s\n",
		feedback.Strengths, feedback.Improvements, feedback.SuggestedAnswer)
}

// prompter reads stdin lines while honouring ctx
type prompter struct {
	ctx   context.Context
	lines chan string
}

func newPrompter(ctx context.Context) *prompter {
	p := &prompter{ctx: ctx, lines: make(chan string)}
	go func() {
		scanner := bufio.NewScanner(os.Stdin)
		for scanner.Scan() {
			p.lines <- scanner.Text()
		}
		close(p.lines)
	}()
	return p
}

func (p *prompter) line(prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)
	select {
	case line, ok := <-p.lines:
		if !ok {
			return "", fmt.Errorf("stdin closed")
		}
		return strings.TrimSpace(line), nil
	case <-p.ctx.Done():
		return "", p.ctx.Err()
	}
}
