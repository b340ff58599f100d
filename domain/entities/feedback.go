package entities

import "fmt"

// Competencies are the per-dimension scores of an answer, each 1-5
type Competencies struct {
	TechnicalKnowledge   int `json:"technicalKnowledge"`
	CommunicationClarity int `json:"communicationClarity"`
	ProblemSolving       int `json:"problemSolving"`
	Relevance            int `json:"relevance"`
}

// Feedback is the structured evaluation produced by the scoring model
type Feedback struct {
	Rating          int          `json:"rating"`
	Competencies    Competencies `json:"competencies"`
	Strengths       string       `json:"strengths"`
	Improvements    string       `json:"improvements"`
	SuggestedAnswer string       `json:"suggestedAnswer"`
}

// Validate checks every score is on the 1-5 scale
func (f *Feedback) Validate() error {
	scores := map[string]int{
		"rating":               f.Rating,
		"technicalKnowledge":   f.Competencies.TechnicalKnowledge,
		"communicationClarity": f.Competencies.CommunicationClarity,
		"problemSolving":       f.Competencies.ProblemSolving,
		"relevance":            f.Competencies.Relevance,
	}
	for name, score := range scores {
		if score < 1 || score > 5 {
			return fmt.Errorf("%s must be between 1 and 5, got %d", name, score)
		}
	}
	return nil
}
