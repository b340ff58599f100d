package llm

import (
	"context"
	"strings"
	"sync"

	"github.com/satriahrh/mockview/domain/repositories"
)

// MockLLM returns scripted replies and records the prompts it received
type MockLLM struct {
	mu        sync.Mutex
	responses []string
	err       error
	prompts   []string
}

var _ repositories.LargeLanguageModel = (*MockLLM)(nil)

// NewMockLLM creates a mock that replies with the given responses in order.
// The last response repeats once the list is exhausted.
func NewMockLLM(responses ...string) *MockLLM {
	return &MockLLM{responses: responses}
}

// NewFailingMockLLM creates a mock whose every call fails with err
func NewFailingMockLLM(err error) *MockLLM {
	return &MockLLM{err: err}
}

// Generate implements repositories.LargeLanguageModel
func (m *MockLLM) Generate(ctx context.Context, prompt string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.prompts = append(m.prompts, prompt)
	if m.err != nil {
		return "", m.err
	}
	if len(m.responses) == 0 {
		return "", nil
	}

	index := len(m.prompts) - 1
	if index >= len(m.responses) {
		index = len(m.responses) - 1
	}
	return m.responses[index], nil
}

// Prompts returns every prompt received so far
func (m *MockLLM) Prompts() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.prompts...)
}

// DemoLLM answers each prompt with canned JSON shaped for it, so the server
// can run without model credentials
type DemoLLM struct{}

var _ repositories.LargeLanguageModel = DemoLLM{}

const (
	demoSuggestions = `["Tell me about yourself.", "Describe a project you are proud of.", "How do you handle disagreement in a team?"]`
	demoQuestions   = `[{"question": "Tell me about yourself.", "answer": "Summarize your background and what you are looking for."}, {"question": "Describe a project you are proud of.", "answer": "Explain the goal, your role and the outcome."}, {"question": "How do you handle disagreement in a team?", "answer": "Listen first, then resolve with data."}, {"question": "What is your biggest weakness?", "answer": "Name a real one and how you work on it."}, {"question": "Where do you see yourself in five years?", "answer": "Connect your growth to the role."}]`
	demoFeedback    = `{"rating": 3, "competencies": {"technicalKnowledge": 3, "communicationClarity": 3, "problemSolving": 3, "relevance": 3}, "strengths": "The answer addresses the question.", "improvements": "Add a concrete example.", "suggestedAnswer": "Describe the situation, what you did and the outcome."}`
)

// Generate implements repositories.LargeLanguageModel
func (DemoLLM) Generate(ctx context.Context, prompt string) (string, error) {
	switch {
	case strings.Contains(prompt, "JSON array of strings"):
		return demoSuggestions, nil
	case strings.Contains(prompt, "JSON array"):
		return demoQuestions, nil
	default:
		return demoFeedback, nil
	}
}
