package models

import "time"

// PracticeLog is a farmer-submitted, append-only evidence entry for a single
// farming action. Verification flips Verified once; nothing else mutates.
type PracticeLog struct {
	ID           uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TreeID       uint      `gorm:"column:tree_id;not null;index" json:"tree_id"`
	FarmerID     uint      `gorm:"column:farmer_id;not null;index" json:"farmer_id"`
	LoggedAt     time.Time `gorm:"column:logged_at;not null" json:"logged_at"`
	PracticeType string    `gorm:"column:practice_type;not null" json:"practice_type"`
	Description  string    `gorm:"column:description" json:"description"`
	EvidenceHash string    `gorm:"column:evidence_hash;not null" json:"evidence_hash"`
	Verified     bool      `gorm:"column:verified;not null;default:false" json:"verified"`
	VerifiedBy   string    `gorm:"column:verified_by" json:"verified_by"`
}

func (PracticeLog) TableName() string {
	return "PracticeLogs"
}
