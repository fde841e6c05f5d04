package models

import (
	"time"
)

// MaxTeamSize 每支队伍最多两人（队长计入在内）
const MaxTeamSize = 2

type Team struct {
	ID                uint32    `gorm:"primarykey" json:"id"`
	Name              string    `gorm:"size:100;unique;not null" json:"name"`
	LeaderID          uint32    `gorm:"not null" json:"leader_id"`
	Leader            User      `gorm:"foreignKey:LeaderID" json:"leader"`
	Score             uint      `gorm:"default:0;not null" json:"score"`
	TeamCode          string    `gorm:"size:6;unique;not null" json:"team_code"`
	ShowInLeaderboard bool      `gorm:"default:true" json:"show_in_leaderboard"`
	Members           []User    `gorm:"foreignKey:TeamID" json:"members"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

func (Team) TableName() string {
	return "skictf_team"
}
