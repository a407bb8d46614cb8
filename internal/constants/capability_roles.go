package constants

import "pomona-backend/internal/models"

// CapabilityRoles is the default capability→roles table. The authorization
// middleware takes any CapabilityChecker, so deployments can swap this map
// out without touching handlers.
var CapabilityRoles = map[string][]string{
	ViewData:            {models.RoleFarmer, models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
	RegisterFarmer:      {models.RoleFarmer, models.RoleAdmin},
	RecordReputation:    {models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
	UploadCertificate:   {models.RoleFarmer, models.RoleAuthority, models.RoleAdmin},
	RequestVerification: {models.RoleFarmer, models.RoleAdmin},
	VerifyCertificate:   {models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
	RevokeCertificate:   {models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
	StartTransition:     {models.RoleFarmer, models.RoleAdmin},
	UpdateTransition:    {models.RoleFarmer, models.RoleVerifier, models.RoleAdmin},
	CancelTransition:    {models.RoleFarmer, models.RoleVerifier, models.RoleAdmin},
	LogPractice:         {models.RoleFarmer, models.RoleAdmin},
	VerifyPractice:      {models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
	BatchCertify:        {models.RoleFarmer, models.RoleVerifier, models.RoleAuthority, models.RoleAdmin},
}

// RoleChecker implements the middleware CapabilityChecker over a static
// capability→roles map.
type RoleChecker struct {
	Table map[string][]string
}

// DefaultChecker uses CapabilityRoles.
func DefaultChecker() *RoleChecker {
	return &RoleChecker{Table: CapabilityRoles}
}

// Allowed reports whether role may exercise capability. Unknown capabilities
// are denied.
func (rc *RoleChecker) Allowed(capability, role string) bool {
	roles, ok := rc.Table[capability]
	if !ok {
		return false
	}
	for _, r := range roles {
		if r == role {
			return true
		}
	}
	return false
}
