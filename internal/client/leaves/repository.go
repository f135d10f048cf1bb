// Package leaves is the client's leave repository.
//
// Requests of the built-in demo accounts are served by LocalBackend from the
// key-value store; everyone else goes to the remote service through
// RemoteBackend. Service picks the backend per identity and enforces the
// access rules before either backend is touched.
package leaves

import (
	"context"
	"fmt"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// Repository is what the flows and the REPL use.
type Repository interface {
	Submit(ctx context.Context, sess session.Session, fields models.LeaveFields) (models.LeaveRequest, error)
	ListOwn(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error)
	ListAll(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error)
	Review(ctx context.Context, sess session.Session, id int64, status models.Status, comment string) (models.LeaveRequest, error)
}

// Backend stores leave requests for the identities it Handles.
type Backend interface {
	Handles(id models.Identity) bool
	Repository
}

type Service struct {
	backends []Backend
	logger   logging.Logger
}

var _ Repository = (*Service)(nil)

// NewService dispatches to the first backend handling the caller.
func NewService(logger logging.Logger, backends ...Backend) *Service {
	return &Service{backends: backends, logger: logger.With("module", "leaves")}
}

func (s *Service) backend(id models.Identity) (Backend, error) {
	for _, b := range s.backends {
		if b.Handles(id) {
			return b, nil
		}
	}
	return nil, fmt.Errorf("no leave backend for user %d", id.ID)
}

func (s *Service) Submit(ctx context.Context, sess session.Session, fields models.LeaveFields) (models.LeaveRequest, error) {
	if !access.CanSubmitRequest(sess.Identity) {
		return models.LeaveRequest{}, common.ErrorForbidden
	}
	b, err := s.backend(sess.Identity)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	r, err := b.Submit(ctx, sess, fields)
	if err != nil {
		s.logger.Warn(ctx, "submit failed", "user_id", sess.Identity.ID, "error", err)
		return models.LeaveRequest{}, err
	}
	s.logger.Info(ctx, "leave request submitted", "id", r.ID, "user_id", sess.Identity.ID)
	return r, nil
}

func (s *Service) ListOwn(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	if !access.CanViewOwnRequests(sess.Identity) {
		return nil, common.ErrorForbidden
	}
	b, err := s.backend(sess.Identity)
	if err != nil {
		return nil, err
	}
	return b.ListOwn(ctx, sess)
}

func (s *Service) ListAll(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	if !access.CanViewAllRequests(sess.Identity) {
		return nil, common.ErrorForbidden
	}
	b, err := s.backend(sess.Identity)
	if err != nil {
		return nil, err
	}
	return b.ListAll(ctx, sess)
}

func (s *Service) Review(ctx context.Context, sess session.Session, id int64, status models.Status, comment string) (models.LeaveRequest, error) {
	if !access.CanReviewRequest(sess.Identity, models.LeaveRequest{ID: id}) {
		return models.LeaveRequest{}, common.ErrorForbidden
	}
	if !status.IsTerminal() {
		return models.LeaveRequest{}, &common.ValidationError{Fields: []common.FieldError{
			{Field: "status", Message: models.ErrInvalidStatus.Error()},
		}}
	}
	b, err := s.backend(sess.Identity)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	r, err := b.Review(ctx, sess, id, status, comment)
	if err != nil {
		s.logger.Warn(ctx, "review failed", "id", id, "status", status, "error", err)
		return models.LeaveRequest{}, err
	}
	s.logger.Info(ctx, "leave request reviewed", "id", id, "status", status, "reviewer_id", sess.Identity.ID)
	return r, nil
}
