package profile

import (
	"context"

	"github.com/amirasaad/budgettracker/pkg/domain/billing"
	"github.com/google/uuid"
)

// RoleAdmin grants access to the admin listing.
const RoleAdmin = "admin"

// Repository defines profile and role access.
type Repository interface {
	// Get returns the profile or domain.ErrNotFound.
	Get(ctx context.Context, userID uuid.UUID) (*billing.Profile, error)

	// UpsertTier writes tier and status, creating the profile if missing.
	// It returns the tier stored before the write (free when there was none).
	UpsertTier(ctx context.Context, userID uuid.UUID, tier billing.Tier, status billing.Status) (billing.Tier, error)

	// List lists every profile, newest first.
	List(ctx context.Context) ([]*billing.Profile, error)

	// HasRole reports whether userID holds role.
	HasRole(ctx context.Context, userID uuid.UUID, role string) (bool, error)
}
