package usecase

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// AnswerService scores interview answers with the language model and stores them
type AnswerService struct {
	llm     repositories.LargeLanguageModel
	answers repositories.AnswerRepository
	logger  *zap.Logger
}

// NewAnswerService creates a new answer service
func NewAnswerService(llm repositories.LargeLanguageModel, answers repositories.AnswerRepository, logger *zap.Logger) *AnswerService {
	return &AnswerService{llm: llm, answers: answers, logger: logger}
}

// SubmitAnswerInput is one answer to score
type SubmitAnswerInput struct {
	MockID     string `json:"mock_id"`
	Question   string `json:"question"`
	CorrectAns string `json:"correct_ans"`
	UserAns    string `json:"user_ans"`
	Language   string `json:"language"`
	VideoURL   string `json:"video_url,omitempty"`
}

// SubmitAnswerResult carries the score and the stored feedback JSON
type SubmitAnswerResult struct {
	Rating   int                  `json:"rating"`
	Feedback string               `json:"feedback"`
	Answer   *entities.UserAnswer `json:"answer"`
}

// SubmitAnswer scores the answer and persists it for userEmail
func (s *AnswerService) SubmitAnswer(ctx context.Context, userEmail string, input SubmitAnswerInput) (*SubmitAnswerResult, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}
	if input.MockID == "" || input.Question == "" {
		return nil, fmt.Errorf("%w: mock_id and question are required", ErrInvalidInput)
	}

	prompt := feedbackPrompt(input.Language, input.Question, input.CorrectAns, input.UserAns)
	reply, err := s.llm.Generate(ctx, prompt)
	if err != nil {
		return nil, fmt.Errorf("failed to score answer: %w", err)
	}

	feedback, err := parseFeedback(reply)
	if err != nil {
		s.logger.Warn("Scoring model returned unusable feedback",
			zap.String("mockID", input.MockID),
			zap.Error(err))
		return nil, ErrInvalidAIResponse
	}

	// re-encode so only the known fields are stored
	feedbackJSON, err := json.Marshal(feedback)
	if err != nil {
		return nil, fmt.Errorf("failed to encode feedback: %w", err)
	}

	answer := &entities.UserAnswer{
		MockIDRef:  input.MockID,
		Question:   input.Question,
		CorrectAns: input.CorrectAns,
		UserAns:    input.UserAns,
		Feedback:   string(feedbackJSON),
		Rating:     strconv.Itoa(feedback.Rating),
		UserEmail:  userEmail,
		VideoURL:   input.VideoURL,
		CreatedAt:  time.Now(),
	}
	if err := s.answers.Create(ctx, answer); err != nil {
		return nil, fmt.Errorf("failed to save answer: %w", err)
	}

	s.logger.Info("Answer scored",
		zap.String("mockID", input.MockID),
		zap.String("userEmail", userEmail),
		zap.Int("rating", feedback.Rating))

	return &SubmitAnswerResult{
		Rating:   feedback.Rating,
		Feedback: answer.Feedback,
		Answer:   answer,
	}, nil
}

// ListAnswers returns the answers userEmail gave in an interview
func (s *AnswerService) ListAnswers(ctx context.Context, userEmail, mockID string) ([]*entities.UserAnswer, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}

	all, err := s.answers.ListByMockID(ctx, mockID)
	if err != nil {
		return nil, fmt.Errorf("failed to list answers: %w", err)
	}

	answers := make([]*entities.UserAnswer, 0, len(all))
	for _, answer := range all {
		if answer.UserEmail == userEmail {
			answers = append(answers, answer)
		}
	}
	return answers, nil
}

func parseFeedback(reply string) (*entities.Feedback, error) {
	var feedback entities.Feedback
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &feedback); err != nil {
		return nil, err
	}
	if feedback.Rating < 1 || feedback.Rating > 5 {
		return nil, fmt.Errorf("rating %d out of range", feedback.Rating)
	}
	return &feedback, nil
}
