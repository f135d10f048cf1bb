// Package rpc defines the leavekeeper.LeaveService gRPC contract shared by the
// client and the server.
//
// The service carries JSON-shaped payloads inside google.protobuf.Struct
// envelopes instead of generated message types: every request and response is
// one of the Go types in messages.go, converted with Encode and Decode. Calls
// that take no input use google.protobuf.Empty.
//
// Authenticated calls carry "authorization: Bearer <token>" metadata. Errors
// travel as gRPC statuses whose message is meant for the end user.
package rpc
