package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Actor roles. Farmers own trees; verifiers and authorities are the trusted
// callers for reputation events and certificate verification.
const (
	RoleFarmer    = "farmer"
	RoleVerifier  = "verifier"
	RoleAuthority = "authority"
	RoleAdmin     = "admin"
)

// User is a platform actor account (login identity, not reputation identity).
// Farmer accounts link to their FarmerProfile via FarmerID.
type User struct {
	UserID       uuid.UUID      `gorm:"column:user_id;type:uuid;primaryKey" json:"user_id"`
	Fullname     string         `gorm:"column:fullname;not null" json:"fullname"`
	Email        string         `gorm:"column:email;not null;uniqueIndex" json:"email"`
	PasswordHash string         `gorm:"column:password_hash;not null" json:"-"`
	Role         string         `gorm:"column:role;not null;default:farmer" json:"role"`
	FarmerID     *uint          `gorm:"column:farmer_id" json:"farmer_id"`
	CreatedAt    time.Time      `json:"createdAt"`
	UpdatedAt    time.Time      `json:"updatedAt"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "Users"
}

// BeforeCreate sets UUID if not set (for DBs without gen_random_uuid).
func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.UserID == uuid.Nil {
		u.UserID = uuid.New()
	}
	return nil
}
