package controllers

import (
	"time"

	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
)

// ListFirstBloods 一血榜，按时间正序
func ListFirstBloods(c *gin.Context) {
	type FirstBloodInfo struct {
		ID             uint32    `json:"id"`
		ChallengeID    uint32    `json:"challenge_id"`
		ChallengeTitle string    `json:"challenge_title"`
		Category       string    `json:"category"`
		TeamID         uint32    `json:"team_id"`
		TeamName       string    `json:"team_name"`
		CreatedAt      time.Time `json:"created_at"`
	}

	var results []FirstBloodInfo
	err := database.DB.Table("skictf_first_blood fb").
		Select("fb.id, fb.challenge_id, c.title as challenge_title, c.category, fb.team_id, t.name as team_name, fb.created_at").
		Joins("JOIN skictf_challenge c ON fb.challenge_id = c.id").
		Joins("JOIN skictf_team t ON fb.team_id = t.id").
		Order("fb.created_at asc").
		Scan(&results).Error
	if err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	utils.Success(c, "success", results)
}
