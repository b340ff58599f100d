package api

import (
	"github.com/satriahrh/mockview/domain/entities"
	"github.com/satriahrh/mockview/usecase"
)

// ErrorResponse represents an error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// TranscribeResponse is the body of a successful transcription
type TranscribeResponse struct {
	Text string `json:"text"`
}

// TTSRequest asks for a sentence to be spoken
type TTSRequest struct {
	Text  string `json:"text"`
	Voice string `json:"voice"`
}

// InterviewResponse is an interview with its questions decoded
type InterviewResponse struct {
	*entities.Interview
	Questions []entities.QuestionAnswer `json:"questions"`
}

// InterviewListResponse wraps a listing
type InterviewListResponse struct {
	Interviews []InterviewResponse `json:"interviews"`
}

// SuggestionsResponse carries proposed questions
type SuggestionsResponse struct {
	Questions []string `json:"questions"`
}

// AnswerListResponse wraps the answers of one interview
type AnswerListResponse struct {
	Answers []*entities.UserAnswer `json:"answers"`
}

// VideoResponse carries the public URL of an uploaded recording; empty when the upload was skipped or failed
type VideoResponse struct {
	URL string `json:"url"`
}

// SubmitAnswerRequest is the body of an answer submission; the interview comes from the path
type SubmitAnswerRequest struct {
	Question   string `json:"question"`
	CorrectAns string `json:"correct_ans"`
	UserAns    string `json:"user_ans"`
	Language   string `json:"language"`
	VideoURL   string `json:"video_url"`
}

// CreateInterviewRequest is the body of interview creation and suggestion
type CreateInterviewRequest = usecase.QuestionRequest

func newInterviewResponse(interview *entities.Interview) (InterviewResponse, error) {
	questions, err := interview.Questions()
	if err != nil {
		return InterviewResponse{}, err
	}
	if questions == nil {
		questions = []entities.QuestionAnswer{}
	}
	return InterviewResponse{Interview: interview, Questions: questions}, nil
}
