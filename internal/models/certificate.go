package models

import (
	"time"

	"gorm.io/datatypes"
)

// Certificate statuses. Transitions are one-directional
// (Pending → UnderReview → Verified) except Revoke, which forces
// Rejected + IsActive=false from any state and is terminal.
const (
	CertStatusPending     = "Pending"
	CertStatusUnderReview = "UnderReview"
	CertStatusVerified    = "Verified"
	CertStatusRejected    = "Rejected"
)

// Certificate sources.
const (
	CertSourceSelfUploaded     = "SelfUploaded"
	CertSourcePlatformVerified = "PlatformVerified"
)

// Common certificate types. CertType is free-form; Organic is the one the
// trust score inspects.
const (
	CertTypeOrganic = "Organic"
)

// Certificate is a per-tree certification document reference.
type Certificate struct {
	ID                 uint           `gorm:"column:id;primaryKey;autoIncrement" json:"id"`
	TreeID             uint           `gorm:"column:tree_id;not null;index" json:"tree_id"`
	FarmerID           uint           `gorm:"column:farmer_id;not null;index" json:"farmer_id"`
	CertType           string         `gorm:"column:cert_type;not null" json:"cert_type"`
	Source             string         `gorm:"column:source;not null" json:"source"`
	Status             string         `gorm:"column:status;not null;default:'Pending'" json:"status"`
	AuthorityName      string         `gorm:"column:authority_name;not null" json:"authority_name"`
	AuthorityID        string         `gorm:"column:authority_id;not null" json:"authority_id"`
	CertificateNumber  string         `gorm:"column:certificate_number;not null" json:"certificate_number"`
	IssueDate          time.Time      `gorm:"column:issue_date;not null" json:"issue_date"`
	ExpiryDate         time.Time      `gorm:"column:expiry_date;not null" json:"expiry_date"`
	DocumentHash       string         `gorm:"column:document_hash;not null" json:"document_hash"`
	SupportingDocsHash string         `gorm:"column:supporting_docs_hash" json:"supporting_docs_hash"`
	IsActive           bool           `gorm:"column:is_active;not null;default:true" json:"is_active"`
	VerifiedBy         string         `gorm:"column:verified_by" json:"verified_by"`
	VerificationDate   *time.Time     `gorm:"column:verification_date" json:"verification_date"`
	RevocationReason   string         `gorm:"column:revocation_reason" json:"revocation_reason"`
	BatchProvenance    datatypes.JSON `gorm:"column:batch_provenance;type:json" json:"batch_provenance"`
	CreatedAt          time.Time      `json:"createdAt"`
	UpdatedAt          time.Time      `json:"updatedAt"`
}

func (Certificate) TableName() string {
	return "Certificates"
}

// BatchProvenance records the shared origin of certificates created by a
// single bulk call. Index is 1-based; CertificateNumber is BaseNumber-Index.
type BatchProvenance struct {
	BatchID    string `json:"batch_id"`
	BaseNumber string `json:"base_number"`
	Index      int    `json:"index"`
	Size       int    `json:"size"`
}
