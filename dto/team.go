package dto

import "strings"

type CreateTeamReq struct {
	Name string `json:"name" binding:"required"`
}

func (r *CreateTeamReq) Normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type JoinTeamReq struct {
	TeamCode string `json:"team_code"`

	// 兼容旧前端（camelCase）
	TeamCodeCamel string `json:"teamCode"`
}

func (r *JoinTeamReq) Normalize() {
	if r.TeamCode == "" && r.TeamCodeCamel != "" {
		r.TeamCode = r.TeamCodeCamel
	}
	r.TeamCode = strings.ToUpper(strings.TrimSpace(r.TeamCode))
}

type RenameTeamReq struct {
	Name string `json:"name" binding:"required"`
}

type TeamMemberResp struct {
	ID       uint32 `json:"id"`
	Username string `json:"username"`
}

type TeamResp struct {
	ID                uint32           `json:"id"`
	Name              string           `json:"name"`
	LeaderID          uint32           `json:"leader_id"`
	Score             uint             `json:"score"`
	TeamCode          string           `json:"team_code,omitempty"`
	ShowInLeaderboard bool             `json:"show_in_leaderboard"`
	Members           []TeamMemberResp `json:"members"`
}

type LeaderboardEntry struct {
	Rank    uint             `json:"rank"`
	ID      uint32           `json:"id"`
	Name    string           `json:"name"`
	Score   uint             `json:"score"`
	Members []TeamMemberResp `json:"members"`
}
