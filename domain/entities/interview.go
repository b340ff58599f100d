package entities

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
)

// InterviewType selects the flavour of generated questions
type InterviewType string

const (
	InterviewTypeGeneral      InterviewType = "general"
	InterviewTypeBehavioral   InterviewType = "behavioral"
	InterviewTypeTechnical    InterviewType = "technical"
	InterviewTypeSystemDesign InterviewType = "system-design"
)

// Difficulty is the seniority the questions are pitched at
type Difficulty string

const (
	DifficultyJunior Difficulty = "junior"
	DifficultyMid    Difficulty = "mid"
	DifficultySenior Difficulty = "senior"
)

// Supported interview languages
const (
	LanguageEnglish = "en"
	LanguageKorean  = "ko"
)

// NormalizeLanguage maps any language code onto a supported one.
// Korean is the only non-English language the prompts are written for.
func NormalizeLanguage(lang string) string {
	if lang == LanguageKorean {
		return LanguageKorean
	}
	return LanguageEnglish
}

// QuestionAnswer is one generated question with its reference answer
type QuestionAnswer struct {
	Question string `json:"question" bson:"question"`
	Answer   string `json:"answer" bson:"answer"`
}

// Interview represents a mock interview session created by a user
type Interview struct {
	ID            uint64        `json:"-" bson:"-" gorm:"primaryKey;autoIncrement"`
	MockID        string        `json:"mock_id" bson:"_id" gorm:"column:mock_id;type:varchar(36);not null;uniqueIndex"`
	JobPosition   string        `json:"job_position" bson:"job_position" gorm:"column:job_position;type:varchar(255);not null"`
	JobDesc       string        `json:"job_desc" bson:"job_desc" gorm:"column:job_desc;type:text;not null;default:''"`
	JobExperience string        `json:"job_experience" bson:"job_experience" gorm:"column:job_experience;type:varchar(64);not null;default:''"`
	InterviewType InterviewType `json:"interview_type" bson:"interview_type" gorm:"column:interview_type;type:varchar(32);not null;default:general"`
	Difficulty    Difficulty    `json:"difficulty" bson:"difficulty" gorm:"column:difficulty;type:varchar(16);not null;default:mid"`
	Language      string        `json:"language" bson:"language" gorm:"column:language;type:varchar(8);not null;default:en"`
	QuestionsJSON string        `json:"-" bson:"questions_json" gorm:"column:json_mock_resp;type:text;not null"`
	CreatedBy     string        `json:"created_by" bson:"created_by" gorm:"column:created_by;type:varchar(255);not null;index"`
	CreatedAt     time.Time     `json:"created_at" bson:"created_at" gorm:"column:created_at;not null"`
}

// TableName keeps the table name stable regardless of gorm's pluralisation rules
func (Interview) TableName() string {
	return "mock_interviews"
}

// NewInterview creates a new interview owned by the given user
func NewInterview(createdBy, jobPosition string) *Interview {
	return &Interview{
		MockID:        uuid.New().String(),
		JobPosition:   jobPosition,
		InterviewType: InterviewTypeGeneral,
		Difficulty:    DifficultyMid,
		Language:      LanguageEnglish,
		QuestionsJSON: "[]",
		CreatedBy:     createdBy,
		CreatedAt:     time.Now(),
	}
}

// SetQuestions stores the questions as their JSON encoding
func (i *Interview) SetQuestions(questions []QuestionAnswer) error {
	if questions == nil {
		questions = []QuestionAnswer{}
	}
	data, err := json.Marshal(questions)
	if err != nil {
		return err
	}
	i.QuestionsJSON = string(data)
	return nil
}

// Questions decodes the stored questions
func (i *Interview) Questions() ([]QuestionAnswer, error) {
	var questions []QuestionAnswer
	if i.QuestionsJSON == "" {
		return questions, nil
	}
	if err := json.Unmarshal([]byte(i.QuestionsJSON), &questions); err != nil {
		return nil, err
	}
	return questions, nil
}

// Validate validates the interview data
func (i *Interview) Validate() error {
	if i.MockID == "" {
		return errors.New("mock_id is required")
	}
	if i.JobPosition == "" {
		return errors.New("job_position is required")
	}
	if i.CreatedBy == "" {
		return errors.New("created_by is required")
	}

	switch i.InterviewType {
	case InterviewTypeGeneral, InterviewTypeBehavioral, InterviewTypeTechnical, InterviewTypeSystemDesign:
	default:
		return errors.New("invalid interview type")
	}

	switch i.Difficulty {
	case DifficultyJunior, DifficultyMid, DifficultySenior:
	default:
		return errors.New("invalid difficulty")
	}

	return nil
}

// InterviewFilter narrows a listing of a user's interviews.
// Zero values match everything.
type InterviewFilter struct {
	InterviewType InterviewType
	Difficulty    Difficulty
	Language      string
	Search        string
}
