package notification

import (
	"context"

	"github.com/amirasaad/budgettracker/infra/repository/dberr"
	"github.com/amirasaad/budgettracker/pkg/domain/notification"
	repo "github.com/amirasaad/budgettracker/pkg/repository/notification"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

// New creates a notification repository using the provided *gorm.DB.
func New(db *gorm.DB) repo.Repository {
	return &repository{db: db}
}

// Create implements notification.Repository.
func (r *repository) Create(ctx context.Context, n notification.Notification) error {
	m := Notification{
		ID:       n.ID,
		UserID:   n.UserID,
		Type:     string(n.Type),
		Title:    n.Title,
		Message:  n.Message,
		IsRead:   n.IsRead,
		Metadata: n.Metadata,
	}
	return dberr.Write("insert notification", r.db.WithContext(ctx).Create(&m).Error)
}
