package grpc

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

// toStatus maps service errors to gRPC statuses with a message fit for the
// end user. Unknown errors are logged and reported as Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	var verr *common.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, dm.ErrInvalidStatus):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, dm.ErrAlreadyReviewed):
		return status.Error(codes.FailedPrecondition, err.Error())
	case errors.Is(err, common.ErrorNotFound):
		return status.Error(codes.NotFound, "leave request not found")
	case errors.Is(err, common.ErrorAlreadyExists):
		return status.Error(codes.AlreadyExists, "username is already taken")
	case errors.Is(err, common.ErrorUnauthorized):
		return status.Error(codes.Unauthenticated, "unauthorized")
	case errors.Is(err, common.ErrorForbidden):
		return status.Error(codes.PermissionDenied, "only managers can do that")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	s.logger.Error(ctx, err.Error())
	return status.Error(codes.Internal, "internal error")
}

func (s *GRPCServer) reply(ctx context.Context, v any) (*structpb.Struct, error) {
	out, err := rpc.Encode(v)
	if err != nil {
		s.logger.Error(ctx, err.Error())
		return nil, status.Error(codes.Internal, "internal error")
	}
	return out, nil
}

func decode(in *structpb.Struct, v any) error {
	if err := rpc.Decode(in, v); err != nil {
		return status.Error(codes.InvalidArgument, "malformed request")
	}
	return nil
}

func caller(ctx context.Context) (dm.Identity, error) {
	id, ok := callerFrom(ctx)
	if !ok {
		return dm.Identity{}, status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}

func (s *GRPCServer) Login(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.LoginRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	token, id, err := s.users.Login(ctx, req.Username, req.Password)
	if err != nil {
		if errors.Is(err, common.ErrorUnauthorized) {
			return nil, status.Error(codes.Unauthenticated, "invalid username or password")
		}
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Logged in", "username", id.Username)
	return s.reply(ctx, rpc.AuthResponse{Token: token, User: id})
}

func (s *GRPCServer) Register(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	var req rpc.RegisterRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	s.logger.Info(ctx, "Registration request", "username", req.Username)

	token, id, err := s.users.Register(ctx, req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Registered", "username", id.Username, "id", id.ID)
	return s.reply(ctx, rpc.AuthResponse{Token: token, User: id})
}

func (s *GRPCServer) GetCurrentUser(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	id, err := s.users.CurrentUser(ctx, c)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, id)
}

func (s *GRPCServer) CreateRequest(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.CreateLeaveRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	lr, err := s.leaves.Create(ctx, c, req)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Leave request created", "id", lr.ID, "user_id", c.ID)
	return s.reply(ctx, lr)
}

func (s *GRPCServer) GetOwnRequests(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.leaves.ListOwn(ctx, c)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, rpc.LeaveList{Requests: list})
}

func (s *GRPCServer) GetAllRequests(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.leaves.ListAll(ctx, c)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, rpc.LeaveList{Requests: list})
}

func (s *GRPCServer) UpdateStatus(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.UpdateStatusRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	lr, err := s.leaves.UpdateStatus(ctx, c, req.ID, req.Status, req.ManagerComment)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}

	s.logger.Info(ctx, "Leave request reviewed", "id", lr.ID, "status", string(lr.Status), "manager_id", c.ID)
	return s.reply(ctx, lr)
}

func (s *GRPCServer) GetEmployees(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	list, err := s.users.Employees(ctx, c)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, rpc.EmployeeList{Employees: list})
}

func (s *GRPCServer) RequestAttachmentUpload(ctx context.Context, in *structpb.Struct) (*structpb.Struct, error) {
	c, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	var req rpc.AttachmentUploadRequest
	if err := decode(in, &req); err != nil {
		return nil, err
	}

	up, err := s.attachments.RequestUpload(ctx, c, req.ID, req.FileName, req.ContentType)
	if err != nil {
		return nil, s.toStatus(ctx, err)
	}
	return s.reply(ctx, rpc.AttachmentUpload{URL: up.URL, Key: up.Key, ExpiresAt: up.ExpiresAt})
}

func (s *GRPCServer) Ping(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return s.reply(ctx, rpc.PingResponse{Status: rpc.StatusOK})
}
