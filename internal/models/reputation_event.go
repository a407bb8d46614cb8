package models

import (
	"time"

	"gorm.io/datatypes"
)

// Reputation event types. Certification and quality events are weighted;
// PracticeDocumented and TransitionStarted award small flat increments.
const (
	EventHarvestQuality     = "HarvestQuality"
	EventCertification      = "Certification"
	EventConsumerRating     = "ConsumerRating"
	EventOrganicScore       = "OrganicScore"
	EventPracticeDocumented = "PracticeDocumented"
	EventTransitionStarted  = "TransitionStarted"
)

// ReputationEvent is an append-only audit entry. Rows are never updated after
// creation.
type ReputationEvent struct {
	ID           uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	FarmerID     uint           `gorm:"column:farmer_id;not null;index" json:"farmer_id"`
	EventType    string         `gorm:"column:event_type;not null" json:"event_type"`
	RawScore     float64        `gorm:"column:raw_score;not null" json:"raw_score"`
	Weight       float64        `gorm:"column:weight;not null" json:"weight"`
	Timestamp    time.Time      `gorm:"column:timestamp;not null" json:"timestamp"`
	Description  string         `gorm:"column:description" json:"description"`
	Refs         datatypes.JSON `gorm:"column:refs;type:json" json:"refs"`
	EvidenceHash string         `gorm:"column:evidence_hash" json:"evidence_hash"`
}

func (ReputationEvent) TableName() string {
	return "ReputationEvents"
}

// EventRefs is the shape stored in ReputationEvent.Refs.
type EventRefs struct {
	TreeID       uint `json:"tree_id,omitempty"`
	HarvestID    uint `json:"harvest_id,omitempty"`
	CertID       uint `json:"cert_id,omitempty"`
	TransitionID uint `json:"transition_id,omitempty"`
	PracticeID   uint `json:"practice_id,omitempty"`
}
