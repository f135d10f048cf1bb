// Package grpc exposes the leave services over gRPC using the hand-written
// rpc.LeaveServiceDesc.
package grpc

import (
	"context"
	"net"

	"google.golang.org/grpc"

	"github.com/dmitrijs2005/leavekeeper/internal/logging"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
	"github.com/dmitrijs2005/leavekeeper/internal/server/services"
)

type userSvc interface {
	Register(ctx context.Context, p dm.Profile) (string, dm.Identity, error)
	Login(ctx context.Context, userName, password string) (string, dm.Identity, error)
	Authenticate(token string) (dm.Identity, error)
	CurrentUser(ctx context.Context, caller dm.Identity) (dm.Identity, error)
	Employees(ctx context.Context, caller dm.Identity) ([]dm.Identity, error)
}

type leaveSvc interface {
	Create(ctx context.Context, caller dm.Identity, f dm.LeaveFields) (dm.LeaveRequest, error)
	ListOwn(ctx context.Context, caller dm.Identity) ([]dm.LeaveRequest, error)
	ListAll(ctx context.Context, caller dm.Identity) ([]dm.LeaveRequest, error)
	UpdateStatus(ctx context.Context, caller dm.Identity, id int64, status dm.Status, comment *string) (dm.LeaveRequest, error)
}

type attachmentSvc interface {
	RequestUpload(ctx context.Context, caller dm.Identity, id int64, fileName, contentType string) (services.Upload, error)
}

type GRPCServer struct {
	address     string
	users       userSvc
	leaves      leaveSvc
	attachments attachmentSvc
	logger      logging.Logger
}

var _ rpc.LeaveServiceServer = (*GRPCServer)(nil)

func NewGRPCServer(a string, l logging.Logger, us userSvc, ls leaveSvc, as attachmentSvc) *GRPCServer {
	return &GRPCServer{
		address:     a,
		logger:      l.With("module", "grpc_server"),
		users:       us,
		leaves:      ls,
		attachments: as,
	}
}

func (s *GRPCServer) newServer() *grpc.Server {
	srv := grpc.NewServer(grpc.ChainUnaryInterceptor(s.loggingInterceptor, s.accessTokenInterceptor))
	rpc.RegisterLeaveServiceServer(srv, s)
	return srv
}

// Run listens on the configured address and serves until ctx is done.
func (s *GRPCServer) Run(ctx context.Context) error {
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}
	return s.serve(ctx, listen)
}

func (s *GRPCServer) serve(ctx context.Context, listen net.Listener) error {
	srv := s.newServer()

	stopped := make(chan struct{})
	defer close(stopped)
	go func() {
		select {
		case <-ctx.Done():
			s.logger.Info(ctx, "Stopping gRPC server...")
			srv.GracefulStop()
		case <-stopped:
		}
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", listen.Addr().String())

	if err := srv.Serve(listen); err != nil {
		return err
	}
	return nil
}
