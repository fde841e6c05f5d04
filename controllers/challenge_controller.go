package controllers

import (
	"strconv"
	"strings"

	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/dto"
	"github.com/Dxrie/skictf/mappers"
	"github.com/Dxrie/skictf/models"
	"github.com/Dxrie/skictf/services"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// Submissions 提交核心的全局实例，由 main 在启动时注入
var Submissions *services.SubmissionService

// competitionPublished 查询全局开赛开关
func competitionPublished() bool {
	var publish models.Publish
	if err := database.DB.First(&publish, 1).Error; err != nil {
		return false
	}
	return publish.Publish
}

// solvedChallengeIDs 查出某队已解出的题目 ID 集合
func solvedChallengeIDs(teamID uint32) map[uint32]bool {
	var solves []models.Solve
	database.DB.Where("team_id = ?", teamID).Find(&solves)

	solved := make(map[uint32]bool, len(solves))
	for _, s := range solves {
		solved[s.ChallengeID] = true
	}
	return solved
}

// ListChallenges —— 用户可见的题目列表，带本队解题标记
func ListChallenges(c *gin.Context) {
	isAdmin := false
	if v, exists := c.Get("is_admin"); exists {
		isAdmin = v.(bool)
	}

	if !isAdmin && !competitionPublished() {
		utils.Error(c, 4005, "Event hasn't started yet")
		return
	}

	db := database.DB.Model(&models.Challenge{})
	if !isAdmin {
		db = db.Where("published = ?", true)
	}

	var challenges []models.Challenge
	if err := db.Order("category asc, points asc").Find(&challenges).Error; err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	// 登录且有队伍时标记本队已解出的题
	solved := map[uint32]bool{}
	if userIDAny, exists := c.Get("user_id"); exists {
		var user models.User
		if err := database.DB.First(&user, userIDAny.(uint32)).Error; err == nil && user.TeamID != nil {
			solved = solvedChallengeIDs(*user.TeamID)
		}
	}

	items := make([]dto.ChallengeItemResp, 0, len(challenges))
	for _, ch := range challenges {
		items = append(items, mappers.MapModelToItemResp(ch, solved[ch.ID]))
	}

	utils.Success(c, "success", gin.H{
		"total":      len(items),
		"challenges": items,
	})
}

// GetChallengeDetail —— 用户可见的题目详情
func GetChallengeDetail(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.Preload("Author").Preload("Files").First(&challenge, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	isAdmin := false
	if v, exists := c.Get("is_admin"); exists {
		isAdmin = v.(bool)
	}
	if !isAdmin && (!challenge.Published || !competitionPublished()) {
		utils.Error(c, 4005, "题目不可见")
		return
	}

	solved := false
	if userIDAny, exists := c.Get("user_id"); exists {
		var user models.User
		if err := database.DB.First(&user, userIDAny.(uint32)).Error; err == nil && user.TeamID != nil {
			var count int64
			database.DB.Model(&models.Solve{}).
				Where("challenge_id = ? AND team_id = ?", challenge.ID, *user.TeamID).
				Count(&count)
			solved = count > 0
		}
	}

	utils.Success(c, "success", mappers.MapModelToDetailResp(challenge, solved))
}

// SubmitFlag —— 提交 Flag，校验与记分全部委托给提交核心
func SubmitFlag(c *gin.Context) {
	challengeID, err := strconv.Atoi(c.Param("id"))
	if err != nil || challengeID <= 0 {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	var req dto.SubmitFlagReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	userIDAny, exists := c.Get("user_id")
	if !exists {
		utils.Error(c, 4001, "Unauthorized")
		return
	}
	userID := userIDAny.(uint32)

	result := Submissions.SubmitFlag(c.Request.Context(), userID, uint32(challengeID), req.Flag)

	switch result.Outcome {
	case services.OutcomeSuccess:
		if result.NewSolve {
			services.InvalidateLeaderboardCache()
		}
		// 首次记分与重复正确提交对外返回完全一致
		utils.Success(c, "Congratulations! Flag is correct", gin.H{})
	case services.OutcomeUnauthorized:
		utils.Error(c, 4001, "Unauthorized")
	case services.OutcomeNoTeam:
		utils.Error(c, 3005, "You must be in a team to submit flags")
	case services.OutcomeNotFound:
		utils.Error(c, 4004, "Challenge not found")
	case services.OutcomeInvalidFormat:
		utils.Error(c, 1003, "Invalid flag format")
	case services.OutcomeIncorrectFlag:
		utils.Error(c, 2004, "Incorrect flag")
	default:
		utils.Error(c, 5000, "Internal server error")
	}
}

// --- 管理员接口 ---

// CreateChallenge —— 使用 DTO + 手动映射
func CreateChallenge(c *gin.Context) {
	var req dto.CreateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}
	req.Normalize()

	if req.Title == "" || req.Description == "" || req.Category == "" {
		utils.Error(c, 1001, "缺少必填字段")
		return
	}

	// 未填写 Flag 时自动生成一个
	if req.Flag == "" {
		req.Flag = utils.GenerateFlag()
	}
	if !strings.HasPrefix(strings.ToUpper(req.Flag), services.FlagPrefix) {
		utils.Error(c, 1003, "Flag 必须以 "+services.FlagPrefix+" 开头")
		return
	}

	userIDAny, _ := c.Get("user_id")
	chal := mappers.MapCreateReqToModel(req, userIDAny.(uint32))

	if err := database.DB.Create(&chal).Error; err != nil {
		utils.Error(c, 5000, "创建题目失败: "+err.Error())
		return
	}
	utils.Success(c, "Challenge created successfully", gin.H{"id": chal.ID})
}

// UpdateChallenge 修改题目内容。只更新提供的字段，
// solves 与 solve_count 永远不受内容编辑影响。
func UpdateChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var req dto.UpdateChallengeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效: "+err.Error())
		return
	}

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	updates := map[string]interface{}{}
	if req.Title != nil {
		updates["title"] = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		updates["description"] = *req.Description
	}
	if req.Points != nil {
		updates["points"] = *req.Points
	}
	if req.Category != nil {
		updates["category"] = strings.TrimSpace(*req.Category)
	}
	if req.Flag != nil {
		flag := strings.TrimSpace(*req.Flag)
		if !strings.HasPrefix(strings.ToUpper(flag), services.FlagPrefix) {
			utils.Error(c, 1003, "Flag 必须以 "+services.FlagPrefix+" 开头")
			return
		}
		updates["flag"] = flag
	}
	if req.Published != nil {
		updates["published"] = *req.Published
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if len(updates) > 0 {
			if err := tx.Model(&challenge).Updates(updates).Error; err != nil {
				return err
			}
		}
		if req.FileURLs != nil {
			if err := tx.Where("challenge_id = ?", challenge.ID).Delete(&models.ChallengeFile{}).Error; err != nil {
				return err
			}
			for _, url := range *req.FileURLs {
				file := models.ChallengeFile{ChallengeID: challenge.ID, FileURL: url}
				if err := tx.Create(&file).Error; err != nil {
					return err
				}
			}
		}
		return nil
	})
	if err != nil {
		utils.Error(c, 5000, "更新题目失败: "+err.Error())
		return
	}

	utils.Success(c, "Challenge updated successfully", nil)
}

func DeleteChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	result := database.DB.Delete(&models.Challenge{}, id)
	if result.Error != nil {
		utils.Error(c, 5000, "删除题目失败: "+result.Error.Error())
		return
	}
	if result.RowsAffected == 0 {
		utils.Error(c, 4004, "Challenge not found")
		return
	}

	utils.Success(c, "Challenge deleted successfully", nil)
}

// TogglePublishChallenge 翻转单题的上架状态
func TogglePublishChallenge(c *gin.Context) {
	id, _ := strconv.Atoi(c.Param("id"))

	var challenge models.Challenge
	if err := database.DB.First(&challenge, id).Error; err != nil {
		utils.Error(c, 4004, "Challenge with that id wasn't found")
		return
	}

	if err := database.DB.Model(&challenge).
		Update("published", !challenge.Published).Error; err != nil {
		utils.Error(c, 5000, "数据库错误: "+err.Error())
		return
	}

	utils.Success(c, "Success", gin.H{"published": !challenge.Published})
}

// AdminListChallenges —— 管理员查询题目列表（含 Flag，支持筛选+分页）
func AdminListChallenges(c *gin.Context) {
	category := strings.TrimSpace(c.Query("category"))
	kw := strings.TrimSpace(c.Query("keyword"))
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	if limit <= 0 || limit > 100 {
		limit = 10
	}
	offset := (page - 1) * limit

	db := database.DB.Model(&models.Challenge{})
	if category != "" {
		db = db.Where("category = ?", category)
	}
	if kw != "" {
		like := "%" + kw + "%"
		db = db.Where("title LIKE ? OR description LIKE ?", like, like)
	}

	var total int64
	if err := db.Count(&total).Error; err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}

	var list []models.Challenge
	if err := db.Order("updated_at DESC").Offset(offset).Limit(limit).Find(&list).Error; err != nil {
		utils.Error(c, 5000, "查询失败: "+err.Error())
		return
	}

	items := make([]dto.AdminChallengeItemResp, 0, len(list))
	for _, ch := range list {
		items = append(items, dto.AdminChallengeItemResp{
			ID:         ch.ID,
			Title:      ch.Title,
			Category:   ch.Category,
			Points:     ch.Points,
			Flag:       ch.Flag,
			Published:  ch.Published,
			SolveCount: ch.SolveCount,
			UpdatedAt:  ch.UpdatedAt.Format("2006-01-02 15:04:05"),
		})
	}

	utils.Success(c, "success", gin.H{
		"total":      total,
		"page":       page,
		"limit":      limit,
		"challenges": items,
	})
}
