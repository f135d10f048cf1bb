package client

import (
	"context"

	"github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

// Client is the remote auth and leave service.
type Client interface {
	Close() error
	Ping(ctx context.Context) error

	Login(ctx context.Context, username, password string) (rpc.AuthResponse, error)
	Register(ctx context.Context, profile models.Profile) (rpc.AuthResponse, error)
	GetCurrentUser(ctx context.Context, token string) (models.Identity, error)

	CreateRequest(ctx context.Context, token string, fields models.LeaveFields) (models.LeaveRequest, error)
	GetOwnRequests(ctx context.Context, token string) ([]models.LeaveRequest, error)
	GetAllRequests(ctx context.Context, token string) ([]models.LeaveRequest, error)
	UpdateStatus(ctx context.Context, token string, id int64, status models.Status, comment *string) (models.LeaveRequest, error)

	GetEmployees(ctx context.Context, token string) ([]models.Identity, error)
	RequestAttachmentUpload(ctx context.Context, token string, req rpc.AttachmentUploadRequest) (rpc.AttachmentUpload, error)
}
