package rpc

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "leavekeeper.LeaveService"

// Full method names, as seen by interceptors.
const (
	MethodLogin                   = "/" + ServiceName + "/Login"
	MethodRegister                = "/" + ServiceName + "/Register"
	MethodGetCurrentUser          = "/" + ServiceName + "/GetCurrentUser"
	MethodCreateRequest           = "/" + ServiceName + "/CreateRequest"
	MethodGetOwnRequests          = "/" + ServiceName + "/GetOwnRequests"
	MethodGetAllRequests          = "/" + ServiceName + "/GetAllRequests"
	MethodUpdateStatus            = "/" + ServiceName + "/UpdateStatus"
	MethodGetEmployees            = "/" + ServiceName + "/GetEmployees"
	MethodRequestAttachmentUpload = "/" + ServiceName + "/RequestAttachmentUpload"
	MethodPing                    = "/" + ServiceName + "/Ping"
)

// PublicMethods need no bearer token.
var PublicMethods = map[string]bool{
	MethodLogin:    true,
	MethodRegister: true,
	MethodPing:     true,
}

// LeaveServiceServer is implemented by the server. Payload shapes are listed
// next to each method.
type LeaveServiceServer interface {
	Login(context.Context, *structpb.Struct) (*structpb.Struct, error)                   // LoginRequest -> AuthResponse
	Register(context.Context, *structpb.Struct) (*structpb.Struct, error)                // RegisterRequest -> AuthResponse
	GetCurrentUser(context.Context, *emptypb.Empty) (*structpb.Struct, error)            // -> models.Identity
	CreateRequest(context.Context, *structpb.Struct) (*structpb.Struct, error)           // CreateLeaveRequest -> models.LeaveRequest
	GetOwnRequests(context.Context, *emptypb.Empty) (*structpb.Struct, error)            // -> LeaveList
	GetAllRequests(context.Context, *emptypb.Empty) (*structpb.Struct, error)            // -> LeaveList
	UpdateStatus(context.Context, *structpb.Struct) (*structpb.Struct, error)            // UpdateStatusRequest -> models.LeaveRequest
	GetEmployees(context.Context, *emptypb.Empty) (*structpb.Struct, error)              // -> EmployeeList
	RequestAttachmentUpload(context.Context, *structpb.Struct) (*structpb.Struct, error) // AttachmentUploadRequest -> AttachmentUpload
	Ping(context.Context, *emptypb.Empty) (*structpb.Struct, error)                      // -> PingResponse
}

func RegisterLeaveServiceServer(s grpc.ServiceRegistrar, srv LeaveServiceServer) {
	s.RegisterService(&LeaveServiceDesc, srv)
}

// LeaveServiceDesc is the grpc.ServiceDesc for leavekeeper.LeaveService.
var LeaveServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*LeaveServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		structMethod("Login", MethodLogin, LeaveServiceServer.Login),
		structMethod("Register", MethodRegister, LeaveServiceServer.Register),
		emptyMethod("GetCurrentUser", MethodGetCurrentUser, LeaveServiceServer.GetCurrentUser),
		structMethod("CreateRequest", MethodCreateRequest, LeaveServiceServer.CreateRequest),
		emptyMethod("GetOwnRequests", MethodGetOwnRequests, LeaveServiceServer.GetOwnRequests),
		emptyMethod("GetAllRequests", MethodGetAllRequests, LeaveServiceServer.GetAllRequests),
		structMethod("UpdateStatus", MethodUpdateStatus, LeaveServiceServer.UpdateStatus),
		emptyMethod("GetEmployees", MethodGetEmployees, LeaveServiceServer.GetEmployees),
		structMethod("RequestAttachmentUpload", MethodRequestAttachmentUpload, LeaveServiceServer.RequestAttachmentUpload),
		emptyMethod("Ping", MethodPing, LeaveServiceServer.Ping),
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "leavekeeper/leave_service",
}

func structMethod(name, full string, call func(LeaveServiceServer, context.Context, *structpb.Struct) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(structpb.Struct)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LeaveServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LeaveServiceServer), ctx, req.(*structpb.Struct))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

func emptyMethod(name, full string, call func(LeaveServiceServer, context.Context, *emptypb.Empty) (*structpb.Struct, error)) grpc.MethodDesc {
	return grpc.MethodDesc{
		MethodName: name,
		Handler: func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
			in := new(emptypb.Empty)
			if err := dec(in); err != nil {
				return nil, err
			}
			if interceptor == nil {
				return call(srv.(LeaveServiceServer), ctx, in)
			}
			info := &grpc.UnaryServerInfo{Server: srv, FullMethod: full}
			handler := func(ctx context.Context, req any) (any, error) {
				return call(srv.(LeaveServiceServer), ctx, req.(*emptypb.Empty))
			}
			return interceptor(ctx, in, info, handler)
		},
	}
}

// LeaveServiceClient is the client stub for leavekeeper.LeaveService.
type LeaveServiceClient struct {
	cc grpc.ClientConnInterface
}

func NewLeaveServiceClient(cc grpc.ClientConnInterface) *LeaveServiceClient {
	return &LeaveServiceClient{cc: cc}
}

// Call invokes a method taking a Struct payload.
func (c *LeaveServiceClient) Call(ctx context.Context, method string, in *structpb.Struct, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// CallEmpty invokes a method that takes no input.
func (c *LeaveServiceClient) CallEmpty(ctx context.Context, method string, opts ...grpc.CallOption) (*structpb.Struct, error) {
	out := new(structpb.Struct)
	if err := c.cc.Invoke(ctx, method, &emptypb.Empty{}, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}
