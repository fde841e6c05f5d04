package controllers

import (
	"encoding/json"
	"errors"
	"strconv"

	"github.com/Dxrie/skictf/database"
	"github.com/Dxrie/skictf/dto"
	"github.com/Dxrie/skictf/models"
	"github.com/Dxrie/skictf/services"
	"github.com/Dxrie/skictf/utils"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var (
	errTeamNotFound = errors.New("team not found")
	errTeamFull     = errors.New("team is already full")
)

func mapTeamMembers(members []models.User) []dto.TeamMemberResp {
	out := make([]dto.TeamMemberResp, 0, len(members))
	for _, m := range members {
		out = append(out, dto.TeamMemberResp{ID: m.ID, Username: m.Username})
	}
	return out
}

func CreateTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	isAdminAny, _ := c.Get("is_admin")
	if isAdminAny.(bool) {
		utils.Error(c, 3009, "Admin cannot create a team")
		return
	}

	if !competitionPublished() {
		utils.Error(c, 4005, "Challenges are not published yet and you cannot create a team")
		return
	}

	var req dto.CreateTeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效")
		return
	}
	req.Normalize()

	if len(req.Name) < 3 || len(req.Name) > 30 {
		utils.Error(c, 1001, "Team name must be between 3 and 30 characters")
		return
	}

	var currentUser models.User
	if err := database.DB.First(&currentUser, userID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	if currentUser.TeamID != nil {
		utils.Error(c, 3001, "You are already in a team")
		return
	}

	var existingTeam models.Team
	if err := database.DB.Where("name = ?", req.Name).First(&existingTeam).Error; err == nil {
		utils.Error(c, 3001, "Team name already exists")
		return
	}

	newTeam := models.Team{
		Name:              req.Name,
		LeaderID:          userID,
		TeamCode:          utils.GenerateTeamCode(utils.TeamCodeLength),
		ShowInLeaderboard: true,
	}

	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&newTeam).Error; err != nil {
			return err
		}
		// 队长同时作为首位队员
		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("team_id", newTeam.ID).Error
	})
	if err != nil {
		utils.Error(c, 5000, "创建队伍失败: "+err.Error())
		return
	}

	utils.Success(c, "Team created successfully", gin.H{
		"id":        newTeam.ID,
		"name":      newTeam.Name,
		"leader_id": newTeam.LeaderID,
		"team_code": newTeam.TeamCode,
	})
}

func JoinTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	isAdminAny, _ := c.Get("is_admin")
	if isAdminAny.(bool) {
		utils.Error(c, 3009, "Admin cannot join a team")
		return
	}

	var req dto.JoinTeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效")
		return
	}
	req.Normalize()
	if req.TeamCode == "" {
		utils.Error(c, 1001, "Team code is required")
		return
	}

	var currentUser models.User
	if err := database.DB.First(&currentUser, userID).Error; err != nil {
		utils.Error(c, 4004, "用户不存在")
		return
	}
	if currentUser.TeamID != nil {
		utils.Error(c, 3001, "You are already in a team")
		return
	}

	// 锁住队伍行再数人数，并发加入在这里串行化，满队不会被挤成超员
	var targetTeam models.Team
	err := database.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("team_code = ?", req.TeamCode).First(&targetTeam).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return errTeamNotFound
			}
			return err
		}

		var memberCount int64
		if err := tx.Model(&models.User{}).
			Where("team_id = ?", targetTeam.ID).Count(&memberCount).Error; err != nil {
			return err
		}
		if memberCount >= models.MaxTeamSize {
			return errTeamFull
		}

		return tx.Model(&models.User{}).Where("id = ?", userID).
			Update("team_id", targetTeam.ID).Error
	})
	switch {
	case errors.Is(err, errTeamNotFound):
		utils.Error(c, 3004, "Team not found")
		return
	case errors.Is(err, errTeamFull):
		utils.Error(c, 3002, "Team is already full")
		return
	case err != nil:
		utils.Error(c, 5000, "加入队伍失败")
		return
	}

	// 排行榜缓存里的成员列表已经过期
	services.InvalidateLeaderboardCache()

	utils.Success(c, "Successfully joined team", gin.H{
		"team_id": targetTeam.ID,
		"name":    targetTeam.Name,
	})
}

func RenameTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var req dto.RenameTeamReq
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 1001, "参数无效")
		return
	}

	var currentUser models.User
	if err := database.DB.First(&currentUser, userID).Error; err != nil || currentUser.TeamID == nil {
		utils.Error(c, 3005, "You are not in a team")
		return
	}

	var team models.Team
	if err := database.DB.First(&team, *currentUser.TeamID).Error; err != nil {
		utils.Error(c, 4004, "Team not found")
		return
	}

	if err := database.DB.Model(&team).Update("name", req.Name).Error; err != nil {
		utils.Error(c, 5000, "重命名失败: "+err.Error())
		return
	}

	// 排行榜缓存里存着旧队名
	services.InvalidateLeaderboardCache()
	utils.Success(c, "Team renamed successfully", nil)
}

// GetMyTeam 查询当前用户所在队伍（含邀请码，仅本队可见）
func GetMyTeam(c *gin.Context) {
	userIDAny, _ := c.Get("user_id")
	userID := userIDAny.(uint32)

	var currentUser models.User
	if err := database.DB.First(&currentUser, userID).Error; err != nil || currentUser.TeamID == nil {
		utils.Error(c, 3005, "You are not in a team")
		return
	}

	var team models.Team
	if err := database.DB.Preload("Members").First(&team, *currentUser.TeamID).Error; err != nil {
		utils.Error(c, 4004, "Team not found")
		return
	}

	utils.Success(c, "success", dto.TeamResp{
		ID:                team.ID,
		Name:              team.Name,
		LeaderID:          team.LeaderID,
		Score:             team.Score,
		TeamCode:          team.TeamCode,
		ShowInLeaderboard: team.ShowInLeaderboard,
		Members:           mapTeamMembers(team.Members),
	})
}

// GetTeamDetail 查询任意队伍的公开信息及其解出的题目
func GetTeamDetail(c *gin.Context) {
	teamID, _ := strconv.Atoi(c.Param("id"))

	var team models.Team
	if err := database.DB.Preload("Members").First(&team, teamID).Error; err != nil {
		utils.Error(c, 4004, "Team not found")
		return
	}

	type SolvedChallenge struct {
		ID       uint32 `json:"id"`
		Title    string `json:"title"`
		Category string `json:"category"`
		Points   uint   `json:"points"`
		SolvedAt string `json:"solved_at"`
	}
	var solvedChallenges []SolvedChallenge
	database.DB.Table("skictf_solve s").
		Select("c.id, c.title, c.category, c.points, s.solved_at").
		Joins("JOIN skictf_challenge c ON s.challenge_id = c.id").
		Where("s.team_id = ?", teamID).
		Order("s.solved_at asc").
		Scan(&solvedChallenges)

	utils.Success(c, "success", gin.H{
		"team": dto.TeamResp{
			ID:                team.ID,
			Name:              team.Name,
			LeaderID:          team.LeaderID,
			Score:             team.Score,
			ShowInLeaderboard: team.ShowInLeaderboard,
			Members:           mapTeamMembers(team.Members),
		},
		"solved_challenges": solvedChallenges,
	})
}

// GetLeaderboard 查询排行榜，优先走 Redis 缓存
func GetLeaderboard(c *gin.Context) {
	cacheKey := "leaderboard:teams"
	val, err := database.RDB.Get(database.Ctx, cacheKey).Result()
	if err == nil {
		var entries []dto.LeaderboardEntry
		if json.Unmarshal([]byte(val), &entries) == nil {
			utils.Success(c, "success (from cache)", entries)
			return
		}
	}

	var teams []models.Team
	if err := database.DB.Preload("Members").
		Where("show_in_leaderboard = ?", true).
		Order("score desc, updated_at asc").
		Find(&teams).Error; err != nil {
		utils.Error(c, 5000, "查询失败")
		return
	}

	entries := make([]dto.LeaderboardEntry, 0, len(teams))
	for i, team := range teams {
		entries = append(entries, dto.LeaderboardEntry{
			Rank:    uint(i + 1),
			ID:      team.ID,
			Name:    team.Name,
			Score:   team.Score,
			Members: mapTeamMembers(team.Members),
		})
	}

	if data, err := json.Marshal(entries); err == nil {
		database.RDB.Set(database.Ctx, cacheKey, data, 0)
	}

	utils.Success(c, "success", entries)
}
