package models

import (
	"time"
)

// Publish 全局开赛开关，固定只有 ID=1 一行
type Publish struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Publish   bool      `gorm:"default:false" json:"publish"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Publish) TableName() string {
	return "skictf_publish"
}
