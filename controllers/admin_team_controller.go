package controllers

import (
	"strconv"

	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/models"
	"github.com/Dxrie/skictf/services"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

func AdminGetTeams(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	search := c.Query("search")

	var teams []models.Team
	var total int64

	db := database.DB.Model(&models.Team{}).Preload("Leader")

	if search != "" {
		db = db.Where("name LIKE ?", "%"+search+"%")
	}

	db.Count(&total)
	db.Order("id desc").Offset((page - 1) * limit).Limit(limit).Find(&teams)

	type TeamInfo struct {
		ID                uint32 `json:"id"`
		Name              string `json:"name"`
		LeaderUsername    string `json:"leader_username"`
		Score             uint   `json:"score"`
		TeamCode          string `json:"team_code"`
		ShowInLeaderboard bool   `json:"show_in_leaderboard"`
		MemberCount       int64  `json:"member_count"`
	}

	var resultTeams []TeamInfo
	for _, team := range teams {
		var memberCount int64
		database.DB.Model(&models.User{}).Where("team_id = ?", team.ID).Count(&memberCount)

		resultTeams = append(resultTeams, TeamInfo{
			ID:                team.ID,
			Name:              team.Name,
			LeaderUsername:    team.Leader.Username,
			Score:             team.Score,
			TeamCode:          team.TeamCode,
			ShowInLeaderboard: team.ShowInLeaderboard,
			MemberCount:       memberCount,
		})
	}

	utils.Success(c, "success", gin.H{
		"total": total,
		"teams": resultTeams,
	})
}

// AdminUpdateTeamVisibility 控制队伍是否出现在排行榜上
func AdminUpdateTeamVisibility(c *gin.Context) {
	teamID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		utils.Error(c, 1002, "无效的队伍ID")
		return
	}

	var req struct {
		ShowInLeaderboard *bool `json:"show_in_leaderboard" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "无效的参数")
		return
	}

	result := database.DB.Model(&models.Team{}).Where("id = ?", teamID).
		Update("show_in_leaderboard", *req.ShowInLeaderboard)
	if result.Error != nil {
		utils.Error(c, 5000, "数据库错误")
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "Team not found")
		return
	}

	services.InvalidateLeaderboardCache()
	utils.Success(c, "Team visibility updated", nil)
}

func AdminDeleteTeam(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	var team models.Team
	if err := database.DB.First(&team, teamID).Error; err != nil {
		utils.Error(c, 4004, "Team not found")
		return
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		// 先解除成员归属再删队伍
		if err := tx.Model(&models.User{}).Where("team_id = ?", team.ID).
			Update("team_id", nil).Error; err != nil {
			return err
		}
		return tx.Delete(&team).Error
	})
	if err != nil {
		utils.Error(c, 5000, "解散队伍失败: "+err.Error())
		return
	}

	services.InvalidateLeaderboardCache()
	utils.Success(c, "Team disbanded successfully", nil)
}
