package models

import "time"

// TransitionPeriod is the fixed organic-conversion commitment length.
const TransitionPeriod = 3 * 365 * 24 * time.Hour

// Transition trust-score constants.
const (
	TransitionInitialTrust    = 30.0
	TransitionCompletionTrust = 70.0
)

// TransitionRecord tracks a multi-year organic-conversion commitment.
// Completed and Cancelled are terminal; a record never leaves either state.
// The partial unique index on tree_id holds the one-open-transition-per-tree
// invariant under concurrent starts.
type TransitionRecord struct {
	ID                   uint       `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TreeID               uint       `gorm:"column:tree_id;not null;index;index:idx_open_transition_per_tree,unique,where:completed = false AND cancelled = false" json:"tree_id"`
	FarmerID             uint       `gorm:"column:farmer_id;not null;index" json:"farmer_id"`
	StartDate            time.Time  `gorm:"column:start_date;not null" json:"start_date"`
	TargetCompletionDate time.Time  `gorm:"column:target_completion_date;not null" json:"target_completion_date"`
	TrustScore           float64    `gorm:"column:trust_score;not null;default:30" json:"trust_score"`
	Completed            bool       `gorm:"column:completed;not null;default:false" json:"completed"`
	CompletedAt          *time.Time `gorm:"column:completed_at" json:"completed_at"`
	Cancelled            bool       `gorm:"column:cancelled;not null;default:false" json:"cancelled"`
	CancelReason         string     `gorm:"column:cancel_reason" json:"cancel_reason"`
	PlanHash             string     `gorm:"column:plan_hash;not null" json:"plan_hash"`
	CreatedAt            time.Time  `json:"createdAt"`
	UpdatedAt            time.Time  `json:"updatedAt"`
}

func (TransitionRecord) TableName() string {
	return "TransitionRecords"
}

// Elapsed returns time spent in transition at now, capped at the full period
// once completed.
func (t *TransitionRecord) Elapsed(now time.Time) time.Duration {
	if now.Before(t.StartDate) {
		return 0
	}
	elapsed := now.Sub(t.StartDate)
	if t.Completed && elapsed > TransitionPeriod {
		return TransitionPeriod
	}
	return elapsed
}
