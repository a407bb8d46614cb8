package certification

import (
	"context"
	"time"

	"pomona-backend/internal/models"
)

// Trust-score blend. A verified organic certificate is the strongest signal,
// transition progress is weighted by its own trust score, and verified
// practice logs top up the remainder. Total capped at 100.
const (
	trustCertComponent     = 60.0
	trustTransitionMax     = 25.0
	trustPerVerifiedLog    = 3.0
	trustPracticeComponent = 15.0
)

// TrustBreakdown is the per-component view returned alongside the score.
type TrustBreakdown struct {
	Certificate float64 `json:"certificate"`
	Transition  float64 `json:"transition"`
	Practices   float64 `json:"practices"`
	Total       float64 `json:"total"`
}

// CalculateTrustScore is a read-time aggregation; it never mutates state.
// Liveness only gates mutations: a retired tree keeps its recorded history
// scoreable for provenance lookups on past shipments, so only existence is
// checked here.
func (s *Service) CalculateTrustScore(ctx context.Context, treeID uint) (TrustBreakdown, error) {
	if treeID == 0 {
		return TrustBreakdown{}, ErrTreeRequired
	}
	if _, err := s.Identity.IsTreeActive(ctx, treeID); err != nil {
		return TrustBreakdown{}, err
	}
	now := time.Now()
	var b TrustBreakdown

	ok, err := s.hasValidOrganicCertificate(ctx, treeID, now)
	if err != nil {
		return TrustBreakdown{}, err
	}
	if ok {
		b.Certificate = trustCertComponent
	}

	transitions, err := s.TransitionsByTree(ctx, treeID)
	if err != nil {
		return TrustBreakdown{}, err
	}
	for _, t := range transitions {
		if t.Cancelled {
			continue
		}
		frac := float64(t.Elapsed(now)) / float64(models.TransitionPeriod)
		if frac > 1 {
			frac = 1
		}
		comp := frac * (t.TrustScore / 100) * trustTransitionMax
		if comp > b.Transition {
			b.Transition = comp
		}
	}

	logs, err := s.PracticeLogsByTree(ctx, treeID)
	if err != nil {
		return TrustBreakdown{}, err
	}
	for _, l := range logs {
		if l.Verified {
			b.Practices += trustPerVerifiedLog
		}
	}
	if b.Practices > trustPracticeComponent {
		b.Practices = trustPracticeComponent
	}

	b.Total = b.Certificate + b.Transition + b.Practices
	if b.Total > 100 {
		b.Total = 100
	}
	return b, nil
}

// BatchCalculateTrustScores is a pure read over many trees.
func (s *Service) BatchCalculateTrustScores(ctx context.Context, treeIDs []uint) (map[uint]TrustBreakdown, error) {
	out := make(map[uint]TrustBreakdown, len(treeIDs))
	for _, id := range treeIDs {
		b, err := s.CalculateTrustScore(ctx, id)
		if err != nil {
			return nil, err
		}
		out[id] = b
	}
	return out, nil
}

// HasValidOrganicCertification reports whether the tree carries an active,
// unexpired, Verified Organic certificate.
func (s *Service) HasValidOrganicCertification(ctx context.Context, treeID uint) (bool, error) {
	return s.hasValidOrganicCertificate(ctx, treeID, time.Now())
}

// BatchHasValidOrganicCertification is a pure read over many trees.
func (s *Service) BatchHasValidOrganicCertification(ctx context.Context, treeIDs []uint) (map[uint]bool, error) {
	now := time.Now()
	out := make(map[uint]bool, len(treeIDs))
	for _, id := range treeIDs {
		ok, err := s.hasValidOrganicCertificate(ctx, id, now)
		if err != nil {
			return nil, err
		}
		out[id] = ok
	}
	return out, nil
}

func (s *Service) hasValidOrganicCertificate(ctx context.Context, treeID uint, now time.Time) (bool, error) {
	var count int64
	err := s.DB.WithContext(ctx).Model(&models.Certificate{}).
		Where("tree_id = ? AND cert_type = ? AND status = ? AND is_active = ? AND expiry_date > ?",
			treeID, models.CertTypeOrganic, models.CertStatusVerified, true, now).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}
