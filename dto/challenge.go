package dto

import "strings"

// ========== 请求 DTO ==========

type CreateChallengeReq struct {
	// 规范字段（snake_case）
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Points      uint     `json:"points"`
	Category    string   `json:"category"`
	Flag        string   `json:"flag"`
	FileURLs    []string `json:"file_urls"`
	Published   bool     `json:"published"`

	// 兼容旧前端（camelCase）
	FileURLsCamel []string `json:"fileUrls"`
}

// Normalize: 归一化 camelCase 别名并做轻量清洗
func (r *CreateChallengeReq) Normalize() {
	if len(r.FileURLs) == 0 && len(r.FileURLsCamel) > 0 {
		r.FileURLs = r.FileURLsCamel
	}

	r.Title = strings.TrimSpace(r.Title)
	r.Category = strings.TrimSpace(r.Category)
	r.Flag = strings.TrimSpace(r.Flag)
}

type UpdateChallengeReq struct {
	Title       *string   `json:"title"`
	Description *string   `json:"description"`
	Points      *uint     `json:"points"`
	Category    *string   `json:"category"`
	Flag        *string   `json:"flag"`
	FileURLs    *[]string `json:"file_urls"`
	Published   *bool     `json:"published"`
}

type SubmitFlagReq struct {
	Flag      string `json:"flag"`
	FlagCamel string `json:"Flag"`
}

func (r *SubmitFlagReq) Normalize() {
	if r.Flag == "" && r.FlagCamel != "" {
		r.Flag = r.FlagCamel
	}
}

// ========== 响应 DTO ==========

type ChallengeItemResp struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Points     uint   `json:"points"`
	SolveCount uint   `json:"solve_count"`
	IsSolved   bool   `json:"is_solved"`
}

type ChallengeDetailResp struct {
	ID          uint32   `json:"id"`
	Title       string   `json:"title"`
	Author      string   `json:"author"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	Points      uint     `json:"points"`
	SolveCount  uint     `json:"solve_count"`
	IsSolved    bool     `json:"is_solved"`
	FileURLs    []string `json:"file_urls"`
}

type AdminChallengeItemResp struct {
	ID         uint32 `json:"id"`
	Title      string `json:"title"`
	Category   string `json:"category"`
	Points     uint   `json:"points"`
	Flag       string `json:"flag"`
	Published  bool   `json:"published"`
	SolveCount uint   `json:"solve_count"`
	UpdatedAt  string `json:"updated_at"`
}
