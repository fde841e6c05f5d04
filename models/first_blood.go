package models

import (
	"time"
)

// FirstBlood 一血记录，每道题至多一条（challenge_id 唯一索引兜底）
type FirstBlood struct {
	ID          uint32    `gorm:"primarykey" json:"id"`
	ChallengeID uint32    `gorm:"unique;not null" json:"challenge_id"`
	TeamID      uint32    `gorm:"not null" json:"team_id"`
	CreatedAt   time.Time `json:"created_at"`
}

func (FirstBlood) TableName() string {
	return "skictf_first_blood"
}
