package leaves

import (
	"context"

	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

const (
	msgFetchFailed  = "failed to fetch leave requests"
	msgUpdateFailed = "failed to update leave request"
	msgSubmitFailed = "failed to submit leave request"
)

// RemoteBackend forwards everything to the remote leave service.
type RemoteBackend struct {
	client client.Client
}

func NewRemoteBackend(c client.Client) *RemoteBackend {
	return &RemoteBackend{client: c}
}

func (b *RemoteBackend) Handles(models.Identity) bool { return true }

// remoteErr keeps the server's own message when there is one and otherwise
// labels err with fallback.
func remoteErr(err error, fallback string) error {
	if common.Message(err, "") != "" {
		return err
	}
	return &common.RemoteError{Message: fallback, Err: err}
}

func (b *RemoteBackend) Submit(ctx context.Context, sess session.Session, fields models.LeaveFields) (models.LeaveRequest, error) {
	r, err := b.client.CreateRequest(ctx, sess.Token, fields)
	if err != nil {
		return models.LeaveRequest{}, remoteErr(err, msgSubmitFailed)
	}
	return r, nil
}

func (b *RemoteBackend) ListOwn(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	list, err := b.client.GetOwnRequests(ctx, sess.Token)
	if err != nil {
		return nil, remoteErr(err, msgFetchFailed)
	}
	return list, nil
}

func (b *RemoteBackend) ListAll(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	list, err := b.client.GetAllRequests(ctx, sess.Token)
	if err != nil {
		return nil, remoteErr(err, msgFetchFailed)
	}
	return list, nil
}

func (b *RemoteBackend) Review(ctx context.Context, sess session.Session, id int64, status models.Status, comment string) (models.LeaveRequest, error) {
	var c *string
	if comment != "" {
		c = &comment
	}
	r, err := b.client.UpdateStatus(ctx, sess.Token, id, status, c)
	if err != nil {
		return models.LeaveRequest{}, remoteErr(err, msgUpdateFailed)
	}
	return r, nil
}
