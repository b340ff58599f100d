package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/satriahrh/mockview/adapters/llm"
	"github.com/satriahrh/mockview/domain/entities"
)

const ratingFourReply = "```json\n" + `{
  "rating": 4,
  "competencies": {"technicalKnowledge": 4, "communicationClarity": 5, "problemSolving": 3, "relevance": 4},
  "strengths": "Clear explanation of resources.",
  "improvements": "Mention status codes.",
  "suggestedAnswer": "REST APIs model resources as nouns under stable URLs and use HTTP verbs for actions."
}` + "\n```"

func TestSubmitAnswer_PersistsRating(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	model := llm.NewMockLLM(ratingFourReply)
	service := NewAnswerService(model, store.answers, zaptest.NewLogger(t))

	result, err := service.SubmitAnswer(ctx, "user@example.com", SubmitAnswerInput{
		MockID:     "mock-1",
		Question:   "What makes an API RESTful?",
		CorrectAns: "Resources, HTTP verbs, statelessness.",
		UserAns:    "REST APIs use resource-based URLs and HTTP methods",
		Language:   "en",
		VideoURL:   "https://cdn.example.com/mock-1/0.webm",
	})
	require.NoError(t, err)
	assert.Equal(t, 4, result.Rating)

	stored, err := store.answers.ListByMockID(ctx, "mock-1")
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, "4", stored[0].Rating)
	assert.Equal(t, "user@example.com", stored[0].UserEmail)
	assert.Equal(t, "https://cdn.example.com/mock-1/0.webm", stored[0].VideoURL)

	var feedback entities.Feedback
	require.NoError(t, json.Unmarshal([]byte(stored[0].Feedback), &feedback))
	assert.Equal(t, 5, feedback.Competencies.CommunicationClarity)
	assert.Equal(t, "Mention status codes.", feedback.Improvements)

	prompts := model.Prompts()
	require.Len(t, prompts, 1)
	assert.Contains(t, prompts[0], `User's Answer: "REST APIs use resource-based URLs and HTTP methods"`)
}

func TestSubmitAnswer_KoreanPrompt(t *testing.T) {
	model := llm.NewMockLLM(ratingFourReply)
	service := NewAnswerService(model, newTestStore(t).answers, zaptest.NewLogger(t))

	_, err := service.SubmitAnswer(context.Background(), "user@example.com", SubmitAnswerInput{
		MockID:   "mock-ko",
		Question: "자기소개를 해주세요",
		UserAns:  "안녕하세요",
		Language: "ko",
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(model.Prompts()[0], "당신은 전문 면접 코치입니다."))
}

func TestSubmitAnswer_Unauthorized(t *testing.T) {
	model := llm.NewMockLLM(ratingFourReply)
	store := newTestStore(t)
	service := NewAnswerService(model, store.answers, zaptest.NewLogger(t))

	_, err := service.SubmitAnswer(context.Background(), "", SubmitAnswerInput{MockID: "m", Question: "q"})
	assert.ErrorIs(t, err, ErrUnauthorized)
	assert.Empty(t, model.Prompts())

	_, err = service.ListAnswers(context.Background(), "", "m")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSubmitAnswer_InvalidReply(t *testing.T) {
	for name, reply := range map[string]string{
		"not json":     "I think this answer is pretty good!",
		"rating range": `{"rating": 9}`,
	} {
		t.Run(name, func(t *testing.T) {
			store := newTestStore(t)
			service := NewAnswerService(llm.NewMockLLM(reply), store.answers, zaptest.NewLogger(t))

			_, err := service.SubmitAnswer(context.Background(), "user@example.com", SubmitAnswerInput{MockID: "m", Question: "q"})
			assert.ErrorIs(t, err, ErrInvalidAIResponse)
			assert.Equal(t, "AI returned invalid response. Please try again.", err.Error())

			stored, err := store.answers.ListByMockID(context.Background(), "m")
			require.NoError(t, err)
			assert.Empty(t, stored)
		})
	}
}

func TestSubmitAnswer_ModelFailure(t *testing.T) {
	service := NewAnswerService(llm.NewFailingMockLLM(errors.New("quota")), newTestStore(t).answers, zaptest.NewLogger(t))

	_, err := service.SubmitAnswer(context.Background(), "user@example.com", SubmitAnswerInput{MockID: "m", Question: "q"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidAIResponse)
}

func TestListAnswers_FiltersByUser(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)
	service := NewAnswerService(llm.NewMockLLM(ratingFourReply), store.answers, zaptest.NewLogger(t))

	for _, email := range []string{"a@example.com", "b@example.com", "a@example.com"} {
		_, err := service.SubmitAnswer(ctx, email, SubmitAnswerInput{MockID: "shared", Question: "q"})
		require.NoError(t, err)
	}

	answers, err := service.ListAnswers(ctx, "a@example.com", "shared")
	require.NoError(t, err)
	assert.Len(t, answers, 2)
	for _, answer := range answers {
		assert.Equal(t, "a@example.com", answer.UserEmail)
	}
}
