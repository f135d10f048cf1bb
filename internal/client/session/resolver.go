package session

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/client/demo"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// ErrNotHandled is returned by a Resolver that does not own the given
// credentials or token; the next resolver in the chain is tried.
var ErrNotHandled = errors.New("not handled by resolver")

// Resolver turns credentials or a persisted token into a session.
type Resolver interface {
	Authenticate(ctx context.Context, username, password string) (Session, error)
	Resolve(ctx context.Context, token string) (models.Identity, error)
}

// DemoResolver serves the built-in accounts without any network call.
type DemoResolver struct{}

func (DemoResolver) Authenticate(_ context.Context, username, password string) (Session, error) {
	a, ok := demo.ByCredentials(username, password)
	if !ok {
		return Session{}, ErrNotHandled
	}
	return Session{Token: a.Token, Identity: a.Identity}, nil
}

func (DemoResolver) Resolve(_ context.Context, token string) (models.Identity, error) {
	a, ok := demo.ByToken(token)
	if !ok {
		return models.Identity{}, ErrNotHandled
	}
	return a.Identity, nil
}

// RemoteResolver asks the remote auth service. It handles everything that
// reaches it.
type RemoteResolver struct {
	Client client.Client
}

func (r RemoteResolver) Authenticate(ctx context.Context, username, password string) (Session, error) {
	resp, err := r.Client.Login(ctx, username, password)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: resp.Token, Identity: resp.User}, nil
}

func (r RemoteResolver) Resolve(ctx context.Context, token string) (models.Identity, error) {
	return r.Client.GetCurrentUser(ctx, token)
}
