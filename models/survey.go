package models

import (
	"time"
)

// SurveyResponse 赛后问卷
type SurveyResponse struct {
	ID                 uint32    `gorm:"primarykey" json:"id"`
	UserID             uint32    `gorm:"not null" json:"user_id"`
	InterestedCategory string    `gorm:"size:50" json:"interested_category"`
	DifficultCategory  string    `gorm:"size:50" json:"difficult_category"`
	DifficultChallenge string    `gorm:"size:100" json:"difficult_challenge"`
	BestAuthor         string    `gorm:"size:50" json:"best_author"`
	Feedback           string    `gorm:"type:text" json:"feedback"`
	CreatedAt          time.Time `json:"created_at"`
}

func (SurveyResponse) TableName() string {
	return "skictf_survey_response"
}
