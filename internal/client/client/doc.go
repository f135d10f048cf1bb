// Package client talks to the remote LeaveKeeper service.
//
// Client is the transport-agnostic contract used by the session store and the
// leave repository; GRPCClient implements it over the leavekeeper.LeaveService
// gRPC contract (see package rpc).
//
// Tokens are passed per call: WithToken puts a bearer token into the context
// and a unary interceptor turns it into "authorization" metadata, so one
// connection can serve whichever session is current.
//
// Every failure is returned as *common.RemoteError. Its Message is the text
// sent by the server (empty for transport failures) and it wraps a sentinel
// chosen from the gRPC status code:
//
//	Unavailable, DeadlineExceeded       ErrUnavailable
//	Unauthenticated, PermissionDenied   common.ErrorUnauthorized
//	NotFound                            common.ErrorNotFound
//	AlreadyExists                       common.ErrorAlreadyExists
//	FailedPrecondition                  models.ErrAlreadyReviewed
//	InvalidArgument                     common.ErrValidation
package client
