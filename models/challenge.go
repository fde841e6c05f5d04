package models

import (
	"time"
)

type Challenge struct {
	ID          uint32          `gorm:"primarykey"`
	Title       string          `gorm:"size:100;unique;not null"`
	AuthorID    uint32          `gorm:"not null"`
	Author      User            `gorm:"foreignKey:AuthorID"`
	Description string          `gorm:"type:text;not null"`
	Points      uint            `gorm:"not null"`
	Category    string          `gorm:"size:50;not null;index"`
	Flag        string          `gorm:"size:255;not null"`
	Published   bool            `gorm:"default:false"`
	SolveCount  uint            `gorm:"default:0"`
	Files       []ChallengeFile `gorm:"foreignKey:ChallengeID"`
	Solves      []Solve         `gorm:"foreignKey:ChallengeID"`
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

func (Challenge) TableName() string {
	return "skictf_challenge"
}

// ChallengeFile 题目附件，仅保存外链地址
type ChallengeFile struct {
	ID          uint32 `gorm:"primarykey"`
	ChallengeID uint32 `gorm:"not null;index"`
	FileURL     string `gorm:"size:255;not null"`
}

func (ChallengeFile) TableName() string {
	return "skictf_challenge_file"
}
