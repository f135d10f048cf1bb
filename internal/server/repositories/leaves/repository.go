// Package leaves stores leave requests.
package leaves

import (
	"context"

	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// Repository persists leave requests. Reads join the owner's full name.
// Lookups of a missing request return common.ErrorNotFound.
type Repository interface {
	Create(ctx context.Context, r *models.LeaveRequest) error
	GetByID(ctx context.Context, id int64) (models.LeaveRequest, error)
	// GetForUpdate is GetByID that locks the row until the transaction ends.
	GetForUpdate(ctx context.Context, id int64) (models.LeaveRequest, error)
	ListByUser(ctx context.Context, userID int64) ([]models.LeaveRequest, error)
	ListAll(ctx context.Context) ([]models.LeaveRequest, error)
	// UpdateReview stores the status, comment and update time of a request
	// that is still pending; otherwise models.ErrAlreadyReviewed.
	UpdateReview(ctx context.Context, r models.LeaveRequest) error
	SetAttachmentKey(ctx context.Context, id, userID int64, key string) error
}
