package grpc

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

func withAuthHeader(value string) context.Context {
	return metadata.NewIncomingContext(context.Background(), metadata.Pairs(common.AuthorizationHeaderName, value))
}

func TestInterceptor_PublicMethodsSkipToken(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeLeave{}, &fakeAttachment{})

	for method := range rpc.PublicMethods {
		called := false
		h := func(ctx context.Context, req any) (any, error) {
			called = true
			_, ok := callerFrom(ctx)
			assert.False(t, ok)
			return "ok", nil
		}
		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: method}, h)
		require.NoError(t, err)
		assert.True(t, called, method)
		assert.Equal(t, "ok", resp)
	}
}

func TestInterceptor_RejectsMissingOrBadToken(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeLeave{}, &fakeAttachment{})
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodGetOwnRequests}
	h := func(ctx context.Context, req any) (any, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}

	cases := map[string]struct {
		ctx  context.Context
		want string
	}{
		"no metadata":   {context.Background(), "missing token"},
		"no bearer":     {withAuthHeader("token-emp"), "missing token"},
		"empty bearer":  {withAuthHeader(common.BearerPrefix), "missing token"},
		"unknown token": {withAuthHeader(common.BearerPrefix + "nope"), "invalid token"},
		"expired":       {withAuthHeader(common.BearerPrefix + "expired"), "session expired, please log in again"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := s.accessTokenInterceptor(tc.ctx, nil, info, h)
			require.Error(t, err)
			st := status.Convert(err)
			assert.Equal(t, codes.Unauthenticated, st.Code())
			assert.Equal(t, tc.want, st.Message())
		})
	}
}

func TestInterceptor_StoresCaller(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeLeave{}, &fakeAttachment{})
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodGetAllRequests}

	var got dm.Identity
	h := func(ctx context.Context, req any) (any, error) {
		id, ok := callerFrom(ctx)
		require.True(t, ok)
		got = id
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(withAuthHeader(common.BearerPrefix+"token-boss"), nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, boss.ID, got.ID)
	assert.Equal(t, dm.RoleManager, got.Role)
}

func TestLoggingInterceptor_PassesThrough(t *testing.T) {
	s := newServer(&fakeUser{}, &fakeLeave{}, &fakeAttachment{})
	info := &grpc.UnaryServerInfo{FullMethod: rpc.MethodPing}

	resp, err := s.loggingInterceptor(context.Background(), nil, info, func(ctx context.Context, req any) (any, error) {
		return nil, status.Error(codes.NotFound, "x")
	})
	assert.Nil(t, resp)
	assert.Equal(t, codes.NotFound, status.Code(err))
}
