package models

import (
	"time"
)

// RateLimitCounter fixed-window counter, one row per scope key
type RateLimitCounter struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Key       string    `gorm:"column:counter_key;size:255;not null;uniqueIndex" json:"key"`
	Scope     string    `gorm:"size:20;not null" json:"scope"`
	Count     int64     `gorm:"not null;default:0" json:"count"`
	ResetAt   time.Time `gorm:"not null;index" json:"reset_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

func (RateLimitCounter) TableName() string {
	return "rate_limit_counters"
}
