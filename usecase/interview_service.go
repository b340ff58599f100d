package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/domain/repositories"
)

// DefaultQuestionCount is used when a request does not pick one
const DefaultQuestionCount = 5

var allowedQuestionCounts = map[int]bool{3: true, 5: true, 10: true}

// QuestionRequest describes the interview a user wants to practice
type QuestionRequest struct {
	JobPosition      string                 `json:"job_position"`
	JobDesc          string                 `json:"job_desc"`
	JobExperience    string                 `json:"job_experience"`
	ReferenceContent string                 `json:"reference_content,omitempty"`
	InterviewType    entities.InterviewType `json:"interview_type"`
	Difficulty       entities.Difficulty    `json:"difficulty"`
	QuestionCount    int                    `json:"question_count"`
	Language         string                 `json:"language"`
	ResumeText       string                 `json:"resume_text,omitempty"`
	CustomQuestions  []string               `json:"custom_questions,omitempty"`
}

// normalize applies defaults and rejects values outside the supported sets
func (r *QuestionRequest) normalize() error {
	r.JobPosition = strings.TrimSpace(r.JobPosition)
	if r.JobPosition == "" && strings.TrimSpace(r.ReferenceContent) == "" {
		return fmt.Errorf("%w: job_position or reference_content is required", ErrInvalidInput)
	}
	if r.InterviewType == "" {
		r.InterviewType = entities.InterviewTypeGeneral
	}
	if r.Difficulty == "" {
		r.Difficulty = entities.DifficultyMid
	}
	if r.QuestionCount == 0 {
		r.QuestionCount = DefaultQuestionCount
	}
	if !allowedQuestionCounts[r.QuestionCount] {
		return fmt.Errorf("%w: question_count must be 3, 5 or 10", ErrInvalidInput)
	}
	if _, ok := typeFocus[r.InterviewType]; !ok {
		return fmt.Errorf("%w: unknown interview_type %q", ErrInvalidInput, r.InterviewType)
	}
	if _, ok := difficultyLevel[r.Difficulty]; !ok {
		return fmt.Errorf("%w: unknown difficulty %q", ErrInvalidInput, r.Difficulty)
	}
	r.Language = entities.NormalizeLanguage(r.Language)

	custom := r.CustomQuestions[:0]
	for _, q := range r.CustomQuestions {
		if q = strings.TrimSpace(q); q != "" {
			custom = append(custom, q)
		}
	}
	r.CustomQuestions = custom
	return nil
}

// InterviewService manages the lifecycle of mock interviews
type InterviewService struct {
	llm        repositories.LargeLanguageModel
	interviews repositories.InterviewRepository
	answers    repositories.AnswerRepository
	logger     *zap.Logger
}

// NewInterviewService creates a new interview service
func NewInterviewService(
	llm repositories.LargeLanguageModel,
	interviews repositories.InterviewRepository,
	answers repositories.AnswerRepository,
	logger *zap.Logger,
) *InterviewService {
	return &InterviewService{
		llm:        llm,
		interviews: interviews,
		answers:    answers,
		logger:     logger,
	}
}

// CreateInterview generates the questions and stores a new interview for userEmail.
// Custom questions replace the generated set; the model only writes their answers.
func (s *InterviewService) CreateInterview(ctx context.Context, userEmail string, req QuestionRequest) (*entities.Interview, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	var questions []entities.QuestionAnswer
	var err error
	if len(req.CustomQuestions) > 0 {
		questions, err = s.answerCustomQuestions(ctx, req)
	} else {
		questions, err = s.generateQuestions(ctx, req)
	}
	if err != nil {
		return nil, err
	}

	position := req.JobPosition
	if position == "" {
		position = "Custom interview"
	}
	interview := entities.NewInterview(userEmail, position)
	interview.JobDesc = req.JobDesc
	interview.JobExperience = req.JobExperience
	interview.InterviewType = req.InterviewType
	interview.Difficulty = req.Difficulty
	interview.Language = req.Language
	if err := interview.SetQuestions(questions); err != nil {
		return nil, fmt.Errorf("failed to encode questions: %w", err)
	}
	if err := interview.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	if err := s.interviews.Create(ctx, interview); err != nil {
		return nil, fmt.Errorf("failed to save interview: %w", err)
	}

	s.logger.Info("Interview created",
		zap.String("mockID", interview.MockID),
		zap.String("createdBy", userEmail),
		zap.Int("questions", len(questions)))
	return interview, nil
}

// SuggestQuestions proposes questions the user can pick from before creating an interview
func (s *InterviewService) SuggestQuestions(ctx context.Context, userEmail string, req QuestionRequest) ([]string, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}
	if err := req.normalize(); err != nil {
		return nil, err
	}

	reply, err := s.llm.Generate(ctx, suggestQuestionsPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("failed to suggest questions: %w", err)
	}

	var suggestions []string
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &suggestions); err != nil {
		s.logger.Warn("Suggestion reply is not a JSON array", zap.Error(err))
		return nil, ErrInvalidAIResponse
	}

	questions := make([]string, 0, len(suggestions))
	for _, q := range suggestions {
		if q = strings.TrimSpace(q); q != "" {
			questions = append(questions, q)
		}
	}
	return questions, nil
}

// GetInterview returns an interview owned by userEmail
func (s *InterviewService) GetInterview(ctx context.Context, userEmail, mockID string) (*entities.Interview, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}

	interview, err := s.interviews.GetByMockID(ctx, mockID)
	if errors.Is(err, repositories.ErrNotFound) {
		return nil, ErrInterviewNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get interview: %w", err)
	}
	if interview.CreatedBy != userEmail {
		return nil, ErrInterviewNotFound
	}
	return interview, nil
}

// ListInterviews returns the interviews of userEmail, newest first
func (s *InterviewService) ListInterviews(ctx context.Context, userEmail string, filter entities.InterviewFilter) ([]*entities.Interview, error) {
	if userEmail == "" {
		return nil, ErrUnauthorized
	}
	interviews, err := s.interviews.ListByOwner(ctx, userEmail, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list interviews: %w", err)
	}
	return interviews, nil
}

// DeleteInterview removes an interview and every answer recorded for it
func (s *InterviewService) DeleteInterview(ctx context.Context, userEmail, mockID string) error {
	if _, err := s.GetInterview(ctx, userEmail, mockID); err != nil {
		return err
	}

	if err := s.answers.DeleteByMockID(ctx, mockID); err != nil {
		return fmt.Errorf("failed to delete answers: %w", err)
	}
	if err := s.interviews.Delete(ctx, mockID); err != nil {
		return fmt.Errorf("failed to delete interview: %w", err)
	}

	s.logger.Info("Interview deleted", zap.String("mockID", mockID), zap.String("userEmail", userEmail))
	return nil
}

func (s *InterviewService) generateQuestions(ctx context.Context, req QuestionRequest) ([]entities.QuestionAnswer, error) {
	reply, err := s.llm.Generate(ctx, generateQuestionsPrompt(req))
	if err != nil {
		return nil, fmt.Errorf("failed to generate questions: %w", err)
	}
	questions, err := parseQuestions(reply)
	if err != nil {
		s.logger.Warn("Question reply is not usable", zap.Error(err))
		return nil, ErrInvalidAIResponse
	}
	if len(questions) > req.QuestionCount {
		questions = questions[:req.QuestionCount]
	}
	return questions, nil
}

func (s *InterviewService) answerCustomQuestions(ctx context.Context, req QuestionRequest) ([]entities.QuestionAnswer, error) {
	reply, err := s.llm.Generate(ctx, answerCustomQuestionsPrompt(req, req.CustomQuestions))
	if err != nil {
		return nil, fmt.Errorf("failed to answer custom questions: %w", err)
	}
	answered, err := parseQuestions(reply)
	if err != nil {
		s.logger.Warn("Custom question reply is not usable", zap.Error(err))
		return nil, ErrInvalidAIResponse
	}

	// the user's wording wins; answers are matched by position
	questions := make([]entities.QuestionAnswer, len(req.CustomQuestions))
	for i, q := range req.CustomQuestions {
		questions[i].Question = q
		if i < len(answered) {
			questions[i].Answer = answered[i].Answer
		}
	}
	return questions, nil
}

func parseQuestions(reply string) ([]entities.QuestionAnswer, error) {
	var parsed []entities.QuestionAnswer
	if err := json.Unmarshal([]byte(cleanJSON(reply)), &parsed); err != nil {
		return nil, err
	}

	questions := parsed[:0]
	for _, qa := range parsed {
		if strings.TrimSpace(qa.Question) != "" {
			questions = append(questions, qa)
		}
	}
	if len(questions) == 0 {
		return nil, errors.New("no questions in reply")
	}
	return questions, nil
}
