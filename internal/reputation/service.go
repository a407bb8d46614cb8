package reputation

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"pomona-backend/internal/models"
	"pomona-backend/internal/pkg/validation"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Scoring constants. Certification events dominate consumer ratings because
// they carry the highest verification cost.
const (
	InitialScore = 100.0
	MaxScore     = 1000.0

	WeightCertification  = 3.0
	WeightHarvestQuality = 2.0
	WeightOrganicScore   = 2.0
	WeightConsumerRating = 1.0

	// Flat increments for documentation events; raw score is not scaled.
	FlatPracticeCredit   = 5.0
	FlatTransitionCredit = 10.0

	// DefaultDecayRate is score points lost per day since the last update.
	DefaultDecayRate = 1.0
)

// TierChangeFunc is notified when an event moves a farmer across a tier
// boundary. Runs inside the recording transaction; keep it cheap.
type TierChangeFunc func(farmerID uint, old, new Tier)

type Service struct {
	DB        *gorm.DB
	DecayRate float64
	// OnTierChange defaults to a log line.
	OnTierChange TierChangeFunc
}

func (s *Service) decayRate() float64 {
	if s.DecayRate > 0 {
		return s.DecayRate
	}
	return DefaultDecayRate
}

// RegisterFarmer creates a profile with score 100 (Bronze). Rejects empty
// name/location, malformed evidence hashes, and double registration.
func (s *Service) RegisterFarmer(ctx context.Context, name, location, evidenceHash string) (*models.FarmerProfile, error) {
	if name == "" || location == "" {
		return nil, ErrNameLocationRequired
	}
	if !validation.IsValidEvidenceHash(evidenceHash) {
		return nil, ErrInvalidEvidenceHash
	}

	var profile *models.FarmerProfile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing models.FarmerProfile
		err := tx.Where("name = ? AND location = ?", name, location).First(&existing).Error
		if err == nil {
			return ErrAlreadyRegistered
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		now := time.Now()
		profile = &models.FarmerProfile{
			Name:            name,
			Location:        location,
			ReputationScore: InitialScore,
			EvidenceHash:    evidenceHash,
			RegisteredAt:    now,
			LastUpdatedAt:   now,
		}
		if err := tx.Create(profile).Error; err != nil {
			// The (name, location) unique index backstops the pre-check
			// under concurrency.
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrAlreadyRegistered
			}
			return err
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RecordEventInput carries one reputation event. OccurredAt zero means now;
// decay keys off this timestamp so replayed batches stay equivalent to
// sequential calls.
type RecordEventInput struct {
	FarmerID     uint
	EventType    string
	RawScore     float64
	Description  string
	Refs         models.EventRefs
	EvidenceHash string
	OccurredAt   time.Time
}

// RecordEvent applies one event inside its own transaction. Trusted-caller
// gating happens at the HTTP surface (verifier capability).
func (s *Service) RecordEvent(ctx context.Context, in RecordEventInput) (*models.FarmerProfile, error) {
	var profile *models.FarmerProfile
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := s.RecordEventTx(tx, in)
		if err != nil {
			return err
		}
		profile = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return profile, nil
}

// RecordEventTx applies one event on the caller's transaction so certification
// and batch mutations fold their reputation effects into the same commit.
func (s *Service) RecordEventTx(tx *gorm.DB, in RecordEventInput) (*models.FarmerProfile, error) {
	if in.RawScore < 0 || in.RawScore > 100 {
		return nil, ErrScoreOutOfRange
	}
	weight, flat, err := eventWeight(in.EventType)
	if err != nil {
		return nil, err
	}
	if in.EvidenceHash != "" && !validation.IsValidEvidenceHash(in.EvidenceHash) {
		return nil, ErrInvalidEvidenceHash
	}

	var profile models.FarmerProfile
	if err := tx.First(&profile, in.FarmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmerNotFound
		}
		return nil, err
	}

	occurredAt := in.OccurredAt
	if occurredAt.IsZero() {
		occurredAt = time.Now()
	}

	// Linear staleness decay before the new contribution lands.
	score := profile.ReputationScore
	if days := occurredAt.Sub(profile.LastUpdatedAt).Hours() / 24; days > 0 {
		score -= s.decayRate() * days
		if score < 0 {
			score = 0
		}
	}

	delta := flat
	if flat == 0 {
		delta = in.RawScore * weight
	}
	score += delta
	if score > MaxScore {
		score = MaxScore
	}
	if score < 0 {
		score = 0
	}

	oldTier := TierFor(profile.ReputationScore)

	profile.ReputationScore = score
	profile.LastUpdatedAt = occurredAt
	switch in.EventType {
	case models.EventHarvestQuality:
		profile.QualityConsistency = in.RawScore
	case models.EventConsumerRating:
		profile.ConsumerRating = in.RawScore / 20 // back to the 1–5 scale
	case models.EventOrganicScore:
		profile.OrganicPercentage = in.RawScore
	}
	if err := tx.Save(&profile).Error; err != nil {
		return nil, err
	}

	refsJSON, _ := json.Marshal(in.Refs)
	event := models.ReputationEvent{
		FarmerID:     in.FarmerID,
		EventType:    in.EventType,
		RawScore:     in.RawScore,
		Weight:       weight,
		Timestamp:    occurredAt,
		Description:  in.Description,
		Refs:         datatypes.JSON(refsJSON),
		EvidenceHash: in.EvidenceHash,
	}
	if err := tx.Create(&event).Error; err != nil {
		return nil, err
	}

	if newTier := TierFor(score); newTier.Name != oldTier.Name {
		s.notifyTierChange(in.FarmerID, oldTier, newTier)
	}
	return &profile, nil
}

func (s *Service) notifyTierChange(farmerID uint, old, new Tier) {
	if s.OnTierChange != nil {
		s.OnTierChange(farmerID, old, new)
		return
	}
	log.Info().Uint("farmer_id", farmerID).Str("from", old.Name).Str("to", new.Name).Msg("Farmer tier changed")
}

// eventWeight returns (weight, flat). Flat > 0 means the event adds a fixed
// increment instead of rawScore×weight.
func eventWeight(eventType string) (weight, flat float64, err error) {
	switch eventType {
	case models.EventCertification:
		return WeightCertification, 0, nil
	case models.EventHarvestQuality:
		return WeightHarvestQuality, 0, nil
	case models.EventOrganicScore:
		return WeightOrganicScore, 0, nil
	case models.EventConsumerRating:
		return WeightConsumerRating, 0, nil
	case models.EventPracticeDocumented:
		return 0, FlatPracticeCredit, nil
	case models.EventTransitionStarted:
		return 0, FlatTransitionCredit, nil
	default:
		return 0, 0, ErrUnknownEventType
	}
}

// GetProfile is a pure read.
func (s *Service) GetProfile(ctx context.Context, farmerID uint) (*models.FarmerProfile, error) {
	var profile models.FarmerProfile
	if err := s.DB.WithContext(ctx).First(&profile, farmerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrFarmerNotFound
		}
		return nil, err
	}
	return &profile, nil
}

// GetTier is a pure read; the tier is derived, never stored.
func (s *Service) GetTier(ctx context.Context, farmerID uint) (Tier, error) {
	profile, err := s.GetProfile(ctx, farmerID)
	if err != nil {
		return Tier{}, err
	}
	return TierFor(profile.ReputationScore), nil
}

// EventsByFarmer returns the append-only event trail, newest first.
func (s *Service) EventsByFarmer(ctx context.Context, farmerID uint) ([]models.ReputationEvent, error) {
	var events []models.ReputationEvent
	err := s.DB.WithContext(ctx).
		Where("farmer_id = ?", farmerID).
		Order("id DESC").
		Find(&events).Error
	return events, err
}
