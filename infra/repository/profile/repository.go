package profile

import (
	"context"
	"errors"
	"time"

	"github.com/amirasaad/budgettracker/infra/repository/dberr"
	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	repo "github.com/amirasaad/budgettracker/pkg/repository/profile"
	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type repository struct {
	db *gorm.DB
}

// New creates a profile repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Get implements profile.Repository.
func (r *repository) Get(
	ctx context.Context,
	userID uuid.UUID,
) (*billing.Profile, error) {
	var m Profile
	if err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&m).Error; err != nil {
		return nil, dberr.Map(err)
	}
	return mapModelToDomain(&m), nil
}

// UpsertTier implements profile.Repository.
func (r *repository) UpsertTier(
	ctx context.Context,
	userID uuid.UUID,
	tier billing.Tier,
	status billing.Status,
) (billing.Tier, error) {
	previous := billing.TierFree
	var existing Profile
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).First(&existing).Error
	switch {
	case err == nil:
		previous = billing.Tier(existing.SubscriptionTier)
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return previous, err
	}

	m := Profile{
		ID:                 uuid.New(),
		UserID:             userID,
		SubscriptionTier:   string(tier),
		SubscriptionStatus: string(status),
	}
	err = r.db.WithContext(
		ctx,
	).Clauses(
		clause.OnConflict{
			Columns: []clause.Column{{Name: "user_id"}},
			DoUpdates: clause.Assignments(map[string]any{
				"subscription_tier":   string(tier),
				"subscription_status": string(status),
				"updated_at":          time.Now().UTC(),
			}),
		},
	).Create(
		&m,
	).Error
	if err != nil {
		return previous, dberr.Write("upsert profile tier", err)
	}
	return previous, nil
}

// List implements profile.Repository.
func (r *repository) List(
	ctx context.Context,
) ([]*billing.Profile, error) {
	var models []Profile
	if err := r.db.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, dberr.Map(err)
	}
	result := make([]*billing.Profile, 0, len(models))
	for i := range models {
		result = append(result, mapModelToDomain(&models[i]))
	}
	return result, nil
}

// HasRole implements profile.Repository.
func (r *repository) HasRole(
	ctx context.Context,
	userID uuid.UUID,
	role string,
) (bool, error) {
	var count int64
	if err := r.db.WithContext(
		ctx,
	).Model(
		&UserRole{},
	).Where(
		"user_id = ? AND role = ?",
		userID,
		role,
	).Count(
		&count,
	).Error; err != nil {
		return false, dberr.Map(err)
	}
	return count > 0, nil
}

func mapModelToDomain(m *Profile) *billing.Profile {
	return &billing.Profile{
		UserID:    m.UserID,
		Username:  m.Username,
		FirstName: m.FirstName,
		LastName:  m.LastName,
		Tier:      billing.Tier(m.SubscriptionTier),
		Status:    billing.Status(m.SubscriptionStatus),
		CreatedAt: m.CreatedAt,
		UpdatedAt: m.UpdatedAt,
	}
}
