package entities

import (
	"errors"
	"time"
)

// UserAnswer is one scored answer to an interview question
type UserAnswer struct {
	ID         uint64    `json:"id" bson:"-" gorm:"primaryKey;autoIncrement"`
	MockIDRef  string    `json:"mock_id_ref" bson:"mock_id_ref" gorm:"column:mock_id_ref;type:varchar(36);not null;index"`
	Question   string    `json:"question" bson:"question" gorm:"column:question;type:text;not null"`
	CorrectAns string    `json:"correct_ans" bson:"correct_ans" gorm:"column:correct_ans;type:text"`
	UserAns    string    `json:"user_ans" bson:"user_ans" gorm:"column:user_ans;type:text"`
	Feedback   string    `json:"feedback" bson:"feedback" gorm:"column:feedback;type:text"`
	Rating     string    `json:"rating" bson:"rating" gorm:"column:rating;type:varchar(8)"`
	UserEmail  string    `json:"user_email" bson:"user_email" gorm:"column:user_email;type:varchar(255);not null;index"`
	VideoURL   string    `json:"video_url,omitempty" bson:"video_url,omitempty" gorm:"column:video_url;type:text"`
	CreatedAt  time.Time `json:"created_at" bson:"created_at" gorm:"column:created_at;not null"`
}

// TableName keeps the table name stable regardless of gorm's pluralisation rules
func (UserAnswer) TableName() string {
	return "user_answers"
}

// Validate validates the answer data
func (a *UserAnswer) Validate() error {
	if a.MockIDRef == "" {
		return errors.New("mock_id_ref is required")
	}
	if a.Question == "" {
		return errors.New("question is required")
	}
	if a.UserEmail == "" {
		return errors.New("user_email is required")
	}
	return nil
}
