package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/dbx"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/repositories/repomanager"
)

// LeaveService implements the leave request lifecycle on top of the
// repositories: creation, listing and the one-time review.
type LeaveService struct {
	db          *sql.DB
	repomanager repomanager.RepositoryManager
	now         func() time.Time
}

func NewLeaveService(db *sql.DB, m repomanager.RepositoryManager) *LeaveService {
	return &LeaveService{db: db, repomanager: m, now: time.Now}
}

// Create validates f against today's date and stores a pending request owned
// by caller.
func (s *LeaveService) Create(ctx context.Context, caller models.Identity, f models.LeaveFields) (models.LeaveRequest, error) {
	if !access.CanSubmitRequest(caller) {
		return models.LeaveRequest{}, common.ErrorForbidden
	}

	now := s.now().UTC()
	if err := models.ValidateFields(f, now); err != nil {
		return models.LeaveRequest{}, err
	}
	f.Reason = strings.TrimSpace(f.Reason)

	// access tokens carry no full name
	if caller.FullName == "" {
		u, err := s.repomanager.Users(s.db).GetByID(ctx, caller.ID)
		if err != nil {
			if errors.Is(err, common.ErrorNotFound) {
				return models.LeaveRequest{}, common.ErrorUnauthorized
			}
			return models.LeaveRequest{}, fmt.Errorf("error loading user: %w", err)
		}
		caller.FullName = u.FullName
	}

	lr := models.NewLeaveRequest(0, caller, f, now)
	if err := s.repomanager.Leaves(s.db).Create(ctx, &lr); err != nil {
		return models.LeaveRequest{}, fmt.Errorf("error creating leave request: %w", err)
	}
	return lr, nil
}

// ListOwn returns caller's requests, newest first.
func (s *LeaveService) ListOwn(ctx context.Context, caller models.Identity) ([]models.LeaveRequest, error) {
	if !access.CanViewOwnRequests(caller) {
		return nil, common.ErrorForbidden
	}
	list, err := s.repomanager.Leaves(s.db).ListByUser(ctx, caller.ID)
	if err != nil {
		return nil, fmt.Errorf("error listing leave requests: %w", err)
	}
	return list, nil
}

// ListAll returns every request. Managers only.
func (s *LeaveService) ListAll(ctx context.Context, caller models.Identity) ([]models.LeaveRequest, error) {
	if !access.CanViewAllRequests(caller) {
		return nil, common.ErrorForbidden
	}
	list, err := s.repomanager.Leaves(s.db).ListAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("error listing leave requests: %w", err)
	}
	return list, nil
}

// UpdateStatus approves or rejects a pending request. The row is locked for
// the duration of the check so two managers cannot both review it; the loser
// gets models.ErrAlreadyReviewed.
func (s *LeaveService) UpdateStatus(ctx context.Context, caller models.Identity, id int64, status models.Status, comment *string) (models.LeaveRequest, error) {
	if !access.CanReviewRequest(caller, models.LeaveRequest{ID: id}) {
		return models.LeaveRequest{}, common.ErrorForbidden
	}
	if !status.IsTerminal() {
		return models.LeaveRequest{}, &common.ValidationError{Fields: []common.FieldError{
			{Field: "status", Message: models.ErrInvalidStatus.Error()},
		}}
	}

	var text string
	if comment != nil {
		text = strings.TrimSpace(*comment)
	}

	return dbx.InTx(ctx, s.db, func(ctx context.Context, tx dbx.DBTX) (models.LeaveRequest, error) {
		repo := s.repomanager.Leaves(tx)

		lr, err := repo.GetForUpdate(ctx, id)
		if err != nil {
			return models.LeaveRequest{}, err
		}

		now := s.now().UTC()
		if !now.After(lr.CreatedAt) {
			now = lr.CreatedAt.Add(time.Microsecond)
		}
		if err := lr.Review(status, text, now); err != nil {
			return models.LeaveRequest{}, err
		}

		if err := repo.UpdateReview(ctx, lr); err != nil {
			return models.LeaveRequest{}, err
		}
		return lr, nil
	})
}
