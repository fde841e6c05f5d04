package controllers

import (
	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/models"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm/clause"
)

// GetCompetitionStatus 查询全局开赛状态
func GetCompetitionStatus(c *gin.Context) {
	utils.Success(c, "success", gin.H{"publish": competitionPublished()})
}

// SetCompetitionStatus 管理员设置全局开赛状态
func SetCompetitionStatus(c *gin.Context) {
	var req struct {
		Status *bool `json:"status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	// 开关固定只有 ID=1 一行，存在则更新，不存在则创建
	publish := models.Publish{ID: 1, Publish: *req.Status}
	if err := database.DB.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "id"}},
		DoUpdates: clause.AssignmentColumns([]string{"publish"}),
	}).Create(&publish).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	utils.Success(c, "success", gin.H{"publish": *req.Status})
}
