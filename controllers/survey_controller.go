package controllers

import (
	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/dto"
	"github.com/Dxrie/skictf/models"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
)

// SubmitSurvey 赛后问卷，每位用户只收一份
func SubmitSurvey(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var req dto.SubmitSurveyReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var existing models.SurveyResponse
	if err := database.DB.Where("user_id = ?", userID).First(&existing).Error; err == nil {
		utils.Error(c, 6001, "Survey already submitted")
		return
	}

	response := models.SurveyResponse{
		UserID:             userID,
		InterestedCategory: req.InterestedCategory,
		DifficultCategory:  req.DifficultCategory,
		DifficultChallenge: req.DifficultChallenge,
		BestAuthor:         req.BestAuthor,
		Feedback:           req.Feedback,
	}
	if err := database.DB.Create(&response).Error; err != nil {
		utils.Error(c, 5000, "提交失败: "+err.Error())
		return
	}

	utils.Success(c, "Survey submitted successfully", nil)
}

// AdminGetSurveys 管理员查看问卷结果
func AdminGetSurveys(c *gin.Context) {
	var responses []models.SurveyResponse
	if err := database.DB.Order("created_at desc").Find(&responses).Error; err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	utils.Success(c, "success", gin.H{
		"total":   len(responses),
		"surveys": responses,
	})
}
