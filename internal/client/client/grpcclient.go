package client

import (
	"context"
	"errors"
	"fmt"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

// DefaultCallTimeout bounds a single remote call.
const DefaultCallTimeout = 10 * time.Second

type tokenKey struct{}

// WithToken attaches a bearer token to calls made with ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

func tokenFrom(ctx context.Context) string {
	t, _ := ctx.Value(tokenKey{}).(string)
	return t
}

// caller is the part of rpc.LeaveServiceClient used here.
type caller interface {
	Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error)
	CallEmpty(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.Struct, error)
}

type GRPCClient struct {
	endpointURL string
	timeout     time.Duration
	conn        *grpc.ClientConn
	client      caller
}

// NewGRPCClient prepares a lazy connection to endpointURL; nothing is dialled
// until the first call.
func NewGRPCClient(endpointURL string, opts ...grpc.DialOption) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, timeout: DefaultCallTimeout}

	opts = append([]grpc.DialOption{
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(bearerTokenInterceptor),
	}, opts...)

	conn, err := grpc.NewClient(endpointURL, opts...)
	if err != nil {
		return nil, err
	}
	c.conn = conn
	c.client = rpc.NewLeaveServiceClient(conn)
	return c, nil
}

func bearerTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply any,
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {
	if token := tokenFrom(ctx); token != "" && !rpc.PublicMethods[method] {
		md, _ := metadata.FromOutgoingContext(ctx)
		md = md.Copy()
		md.Set(common.AuthorizationHeaderName, common.BearerPrefix+token)
		ctx = metadata.NewOutgoingContext(ctx, md)
	}
	return invoker(ctx, method, req, reply, cc, opts...)
}

func (c *GRPCClient) Close() error {
	return c.conn.Close()
}

// call encodes in (nil for no-input methods), invokes method and decodes the
// answer into out.
func (c *GRPCClient) call(ctx context.Context, token, method string, in, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()
	if token != "" {
		ctx = WithToken(ctx, token)
	}

	var (
		resp *structpb.Struct
		err  error
	)
	if in == nil {
		resp, err = c.client.CallEmpty(ctx, method)
	} else {
		var req *structpb.Struct
		if req, err = rpc.Encode(in); err != nil {
			return &common.RemoteError{Err: err}
		}
		resp, err = c.client.Call(ctx, method, req)
	}
	if err != nil {
		return mapError(err)
	}

	if err := rpc.Decode(resp, out); err != nil {
		return &common.RemoteError{Err: fmt.Errorf("%w: %w", ErrBadResponse, err)}
	}
	return nil
}

func (c *GRPCClient) Ping(ctx context.Context) error {
	var resp rpc.PingResponse
	if err := c.call(ctx, "", rpc.MethodPing, nil, &resp); err != nil {
		return err
	}
	if resp.Status != rpc.StatusOK {
		return &common.RemoteError{Err: ErrUnavailable}
	}
	return nil
}

func (c *GRPCClient) Login(ctx context.Context, username, password string) (rpc.AuthResponse, error) {
	var resp rpc.AuthResponse
	err := c.call(ctx, "", rpc.MethodLogin, rpc.LoginRequest{Username: username, Password: password}, &resp)
	return resp, err
}

func (c *GRPCClient) Register(ctx context.Context, profile models.Profile) (rpc.AuthResponse, error) {
	var resp rpc.AuthResponse
	err := c.call(ctx, "", rpc.MethodRegister, profile, &resp)
	return resp, err
}

func (c *GRPCClient) GetCurrentUser(ctx context.Context, token string) (models.Identity, error) {
	var id models.Identity
	err := c.call(ctx, token, rpc.MethodGetCurrentUser, nil, &id)
	return id, err
}

func (c *GRPCClient) CreateRequest(ctx context.Context, token string, fields models.LeaveFields) (models.LeaveRequest, error) {
	var r models.LeaveRequest
	err := c.call(ctx, token, rpc.MethodCreateRequest, fields, &r)
	return r, err
}

func (c *GRPCClient) GetOwnRequests(ctx context.Context, token string) ([]models.LeaveRequest, error) {
	var list rpc.LeaveList
	err := c.call(ctx, token, rpc.MethodGetOwnRequests, nil, &list)
	return list.Requests, err
}

func (c *GRPCClient) GetAllRequests(ctx context.Context, token string) ([]models.LeaveRequest, error) {
	var list rpc.LeaveList
	err := c.call(ctx, token, rpc.MethodGetAllRequests, nil, &list)
	return list.Requests, err
}

func (c *GRPCClient) UpdateStatus(ctx context.Context, token string, id int64, st models.Status, comment *string) (models.LeaveRequest, error) {
	var r models.LeaveRequest
	err := c.call(ctx, token, rpc.MethodUpdateStatus, rpc.UpdateStatusRequest{ID: id, Status: st, ManagerComment: comment}, &r)
	return r, err
}

func (c *GRPCClient) GetEmployees(ctx context.Context, token string) ([]models.Identity, error) {
	var list rpc.EmployeeList
	err := c.call(ctx, token, rpc.MethodGetEmployees, nil, &list)
	return list.Employees, err
}

func (c *GRPCClient) RequestAttachmentUpload(ctx context.Context, token string, req rpc.AttachmentUploadRequest) (rpc.AttachmentUpload, error) {
	var up rpc.AttachmentUpload
	err := c.call(ctx, token, rpc.MethodRequestAttachmentUpload, req, &up)
	return up, err
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return &common.RemoteError{Err: err}
		}
		return &common.RemoteError{Err: fmt.Errorf("rpc error: %w", err)}
	}

	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return &common.RemoteError{Err: ErrUnavailable}
	case codes.Unauthenticated, codes.PermissionDenied:
		return &common.RemoteError{Message: st.Message(), Err: common.ErrorUnauthorized}
	case codes.NotFound:
		return &common.RemoteError{Message: st.Message(), Err: common.ErrorNotFound}
	case codes.AlreadyExists:
		return &common.RemoteError{Message: st.Message(), Err: common.ErrorAlreadyExists}
	case codes.FailedPrecondition:
		return &common.RemoteError{Message: st.Message(), Err: models.ErrAlreadyReviewed}
	case codes.InvalidArgument:
		return &common.RemoteError{Message: st.Message(), Err: common.ErrValidation}
	case codes.Canceled:
		return &common.RemoteError{Err: context.Canceled}
	default:
		return &common.RemoteError{Message: st.Message(), Err: fmt.Errorf("rpc error: %w", err)}
	}
}
