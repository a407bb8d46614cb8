package models

import "time"

// TreeRecord backs the default identity adapter. Tree registration itself is
// owned by an upstream system; this table mirrors the fields the
// certification engine needs for ownership and liveness checks.
type TreeRecord struct {
	ID            uint      `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	OwnerFarmerID uint      `gorm:"column:owner_farmer_id;not null;index" json:"owner_farmer_id"`
	Variety       string    `gorm:"column:variety" json:"variety"`
	Active        bool      `gorm:"column:active;not null;default:true" json:"active"`
	RegisteredAt  time.Time `gorm:"column:registered_at;not null" json:"registered_at"`
}

func (TreeRecord) TableName() string {
	return "TreeRecords"
}
