package models

import (
	"time"
)

// SolveLog 解题审计日志，按提交成功的成员个人记录，只追加不修改
type SolveLog struct {
	ID          uint64    `gorm:"primarykey"`
	UserID      uint32    `gorm:"not null;index"`
	ChallengeID uint32    `gorm:"not null;index"`
	SolvedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (SolveLog) TableName() string {
	return "skictf_solve_log"
}
