package models

import (
	"time"
)

// Solve 解题台账，每支队伍对每道题至多一行。
// (challenge_id, team_id) 上的唯一索引是"每队至多记分一次"的最终保障，
// 条件插入命中该索引即视为该队已解出。
type Solve struct {
	ID          uint64    `gorm:"primarykey"`
	ChallengeID uint32    `gorm:"uniqueIndex:uniq_challenge_team;not null"`
	TeamID      uint32    `gorm:"uniqueIndex:uniq_challenge_team;not null"`
	SolvedAt    time.Time `gorm:"default:CURRENT_TIMESTAMP"`
}

func (Solve) TableName() string {
	return "skictf_solve"
}
