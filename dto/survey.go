package dto

// SubmitSurveyReq 问卷字段沿用旧前端的 camelCase 命名
type SubmitSurveyReq struct {
	InterestedCategory string `json:"interestedCategory"`
	DifficultCategory  string `json:"difficultCategory"`
	DifficultChallenge string `json:"difficultChallenge"`
	BestAuthor         string `json:"bestAuthor"`
	Feedback           string `json:"feedback"`
}
