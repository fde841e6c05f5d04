package controllers

import (
	"time"

	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
)

// GetSolveLogs 管理员查询解题审计日志
func GetSolveLogs(c *gin.Context) {
	type LogDetail struct {
		ID             uint64    `json:"id"`
		UserID         uint32    `json:"user_id"`
		Username       string    `json:"username"`
		TeamName       *string   `json:"team_name"`
		ChallengeID    uint32    `json:"challenge_id"`
		ChallengeTitle string    `json:"challenge_title"`
		Category       string    `json:"category"`
		Points         uint      `json:"points"`
		SolvedAt       time.Time `json:"solved_at"`
	}

	db := database.DB.Table("skictf_solve_log l").
		Select("l.id, l.user_id, u.username, t.name as team_name, l.challenge_id, c.title as challenge_title, c.category, c.points, l.solved_at").
		Joins("LEFT JOIN skictf_user u ON l.user_id = u.id").
		Joins("LEFT JOIN skictf_team t ON u.team_id = t.id").
		Joins("LEFT JOIN skictf_challenge c ON l.challenge_id = c.id")

	if userID := c.Query("user_id"); userID != "" {
		db = db.Where("l.user_id = ?", userID)
	}
	if challengeID := c.Query("challenge_id"); challengeID != "" {
		db = db.Where("l.challenge_id = ?", challengeID)
	}

	var results []LogDetail
	db.Order("l.solved_at desc").Find(&results)

	utils.Success(c, "success", results)
}
