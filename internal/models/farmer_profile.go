package models

import "time"

// FarmerProfile is the per-farmer reputation record. The tier is derived from
// ReputationScore at read time and never stored. The (name, location) unique
// index backstops the registration pre-check under concurrent callers.
type FarmerProfile struct {
	ID                 uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	Name               string    `gorm:"column:name;not null;uniqueIndex:idx_farmer_name_location" json:"name"`
	Location           string    `gorm:"column:location;not null;uniqueIndex:idx_farmer_name_location" json:"location"`
	ReputationScore    float64   `gorm:"column:reputation_score;not null;default:0" json:"reputation_score"`
	QualityConsistency float64   `gorm:"column:quality_consistency;not null;default:0" json:"quality_consistency"`
	OrganicPercentage  float64   `gorm:"column:organic_percentage;not null;default:0" json:"organic_percentage"`
	ConsumerRating     float64   `gorm:"column:consumer_rating;not null;default:0" json:"consumer_rating"`
	Verified           bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	EvidenceHash       string    `gorm:"column:evidence_hash;not null" json:"evidence_hash"`
	RegisteredAt       time.Time `gorm:"column:registered_at;not null" json:"registered_at"`
	LastUpdatedAt      time.Time `gorm:"column:last_updated_at;not null" json:"last_updated_at"`
}

func (FarmerProfile) TableName() string {
	return "FarmerProfiles"
}
