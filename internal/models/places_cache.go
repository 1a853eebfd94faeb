package models

import (
	"time"

	"github.com/ggorockee/localdirectory/internal/places"
)

// PlacesCache one row per normalized query, holding every fetched page
type PlacesCache struct {
	ID            uint              `gorm:"primaryKey" json:"id"`
	Query         string            `gorm:"size:500;not null;uniqueIndex:idx_places_cache_query" json:"query"`
	Results       []places.Business `gorm:"type:text;serializer:json;not null" json:"results"`
	ResultCount   int               `gorm:"not null;default:0" json:"result_count"`
	Status        string            `gorm:"size:50" json:"status"`
	NextPageToken *string           `gorm:"type:text" json:"next_page_token,omitempty"`
	LastUpdated   time.Time         `gorm:"not null;index:idx_places_cache_last_updated" json:"last_updated"`
	ExpiresAt     time.Time         `gorm:"not null;index:idx_places_cache_expires_at" json:"expires_at"`
}

func (PlacesCache) TableName() string {
	return "places_cache"
}
