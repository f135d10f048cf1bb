// Package session keeps the identity of the signed-in user.
//
// A Store owns the current Session and persists its token in the key-value
// store, so a restarted client can resume with Restore. Login and token
// resolution go through a chain of Resolvers: the built-in demo accounts are
// answered locally, everything else by the remote auth service.
package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// TokenKey is the key-value entry holding the persisted token.
const TokenKey = "token"

const (
	msgLoginFailed        = "Login failed"
	msgRegistrationFailed = "Registration failed"
)

// Session is an authenticated identity together with its bearer token.
type Session struct {
	Token    string
	Identity models.Identity
}

type Store struct {
	mu        sync.RWMutex
	current   *Session
	kv        kvstore.Store
	resolvers []Resolver
	remote    client.Client
	logger    logging.Logger
}

// NewStore wires the default resolver chain: demo accounts first, then remote.
func NewStore(kv kvstore.Store, remote client.Client, logger logging.Logger) *Store {
	return NewStoreWithResolvers(kv, remote, logger, DemoResolver{}, RemoteResolver{Client: remote})
}

func NewStoreWithResolvers(kv kvstore.Store, remote client.Client, logger logging.Logger, resolvers ...Resolver) *Store {
	return &Store{
		kv:        kv,
		resolvers: resolvers,
		remote:    remote,
		logger:    logger.With("module", "session"),
	}
}

// Current returns the signed-in session, if any.
func (s *Store) Current() (Session, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.current == nil {
		return Session{}, false
	}
	return *s.current, true
}

func (s *Store) IsAuthenticated() bool {
	_, ok := s.Current()
	return ok
}

// Login authenticates through the resolver chain. On failure the current
// state is left as it was and a *common.AuthError is returned.
func (s *Store) Login(ctx context.Context, username, password string) (models.Identity, error) {
	for _, r := range s.resolvers {
		sess, err := r.Authenticate(ctx, username, password)
		if errors.Is(err, ErrNotHandled) {
			continue
		}
		if err != nil {
			s.logger.Info(ctx, "login rejected", "username", username, "error", err)
			return models.Identity{}, &common.AuthError{Message: common.Message(err, msgLoginFailed), Err: err}
		}
		s.establish(ctx, sess)
		s.logger.Info(ctx, "logged in", "user_id", sess.Identity.ID, "role", sess.Identity.Role)
		return sess.Identity, nil
	}
	return models.Identity{}, &common.AuthError{Message: msgLoginFailed}
}

// Register creates an account remotely and signs it in.
func (s *Store) Register(ctx context.Context, profile models.Profile) (models.Identity, error) {
	if profile.Role == "" {
		profile.Role = models.RoleEmployee
	}
	if err := models.ValidateProfile(profile); err != nil {
		return models.Identity{}, &common.AuthError{Message: err.Error(), Err: err}
	}

	resp, err := s.remote.Register(ctx, profile)
	if err != nil {
		s.logger.Info(ctx, "registration rejected", "username", profile.Username, "error", err)
		return models.Identity{}, &common.AuthError{Message: common.Message(err, msgRegistrationFailed), Err: err}
	}

	s.establish(ctx, Session{Token: resp.Token, Identity: resp.User})
	s.logger.Info(ctx, "registered", "user_id", resp.User.ID)
	return resp.User, nil
}

// Logout forgets the session and its persisted token.
func (s *Store) Logout(ctx context.Context) error {
	s.mu.Lock()
	s.current = nil
	s.mu.Unlock()

	if err := s.kv.Delete(ctx, TokenKey); err != nil {
		return fmt.Errorf("forget token: %w", err)
	}
	return nil
}

// Restore resumes the session of a persisted token. A token that no longer
// resolves is dropped; the returned error then wraps
// common.ErrSessionResolution and is meant for logs only.
func (s *Store) Restore(ctx context.Context) error {
	token, err := kvstore.GetJSON[string](ctx, s.kv, TokenKey)
	if err != nil {
		return s.dropToken(ctx, err)
	}
	if token == "" {
		return nil
	}

	for _, r := range s.resolvers {
		id, err := r.Resolve(ctx, token)
		if errors.Is(err, ErrNotHandled) {
			continue
		}
		if err != nil {
			return s.dropToken(ctx, err)
		}
		s.mu.Lock()
		s.current = &Session{Token: token, Identity: id}
		s.mu.Unlock()
		s.logger.Debug(ctx, "session restored", "user_id", id.ID)
		return nil
	}
	return s.dropToken(ctx, ErrNotHandled)
}

func (s *Store) dropToken(ctx context.Context, cause error) error {
	err := fmt.Errorf("%w: %w", common.ErrSessionResolution, cause)
	s.logger.Warn(ctx, "discarding persisted token", "error", err)
	if derr := s.kv.Delete(ctx, TokenKey); derr != nil {
		s.logger.Warn(ctx, "failed to delete persisted token", "error", derr)
	}
	return err
}

func (s *Store) establish(ctx context.Context, sess Session) {
	s.mu.Lock()
	s.current = &sess
	s.mu.Unlock()

	raw, _ := json.Marshal(sess.Token)
	if err := s.kv.Set(ctx, TokenKey, raw); err != nil {
		s.logger.Warn(ctx, "failed to persist token", "error", err)
	}
}
