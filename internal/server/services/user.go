// Package services contains server-side business logic. This file implements
// UserService, which handles registration, login, access tokens and the
// employee directory.
package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/auth"
	"github.com/dmitrijs2005/leavekeeper/internal/server/config"
	"github.com/dmitrijs2005/leavekeeper/internal/server/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/repositories/repomanager"
)

// Password hashing seams; tests swap in a cheaper cost.
var (
	hashPassword = func(pw []byte) ([]byte, error) {
		return bcrypt.GenerateFromPassword(pw, bcrypt.DefaultCost)
	}
	comparePassword = bcrypt.CompareHashAndPassword
)

// UserService provides authentication-related operations:
//   - Register: create users
//   - Login: verify credentials and mint an access token
//   - Authenticate / CurrentUser: resolve a token
//   - Employees: the directory visible to managers
type UserService struct {
	db                          *sql.DB
	repomanager                 repomanager.RepositoryManager
	jwtSecret                   []byte
	accessTokenValidityDuration time.Duration
}

// NewUserService constructs a UserService using repositories and server config.
func NewUserService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) *UserService {
	return &UserService{
		db:                          db,
		repomanager:                 m,
		jwtSecret:                   []byte(cfg.SecretKey),
		accessTokenValidityDuration: cfg.AccessTokenValidityDuration,
	}
}

func (s *UserService) issue(user *models.User) (string, dm.Identity, error) {
	id := user.Identity()
	token, err := auth.GenerateToken(id, s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return "", dm.Identity{}, common.ErrorInternal
	}
	return token, id, nil
}

// Register validates p, stores the account with a bcrypt hash and returns an
// access token for it. An empty role means employee.
func (s *UserService) Register(ctx context.Context, p dm.Profile) (string, dm.Identity, error) {
	p.Username = strings.TrimSpace(p.Username)
	p.FullName = strings.TrimSpace(p.FullName)
	p.Email = strings.TrimSpace(p.Email)
	if p.Role == "" {
		p.Role = dm.RoleEmployee
	}
	if err := dm.ValidateProfile(p); err != nil {
		return "", dm.Identity{}, err
	}

	pw := []byte(p.Password)
	defer common.WipeByteArray(pw)
	hash, err := hashPassword(pw)
	if err != nil {
		return "", dm.Identity{}, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repomanager.Users(s.db).Create(ctx, &models.User{
		UserName:     p.Username,
		PasswordHash: hash,
		FullName:     p.FullName,
		Email:        p.Email,
		Role:         p.Role,
	})
	if err != nil {
		if errors.Is(err, common.ErrorAlreadyExists) {
			return "", dm.Identity{}, err
		}
		return "", dm.Identity{}, fmt.Errorf("error creating user: %w", err)
	}

	return s.issue(user)
}

// Login checks the password and returns an access token. Unknown users and
// wrong passwords are indistinguishable (common.ErrorUnauthorized).
func (s *UserService) Login(ctx context.Context, userName, password string) (string, dm.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetUserByLogin(ctx, strings.TrimSpace(userName))
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			return "", dm.Identity{}, common.ErrorUnauthorized
		}
		return "", dm.Identity{}, common.ErrorInternal
	}

	if comparePassword(user.PasswordHash, []byte(password)) != nil {
		return "", dm.Identity{}, common.ErrorUnauthorized
	}
	return s.issue(user)
}

// Authenticate verifies an access token and returns the identity it carries.
// The profile fields other than id and role are not filled in.
func (s *UserService) Authenticate(token string) (dm.Identity, error) {
	claims, err := auth.ParseToken(token, s.jwtSecret)
	if err != nil {
		return dm.Identity{}, err
	}
	return dm.Identity{ID: claims.UserID, Username: claims.Subject, Role: claims.Role}, nil
}

// CurrentUser loads the full profile of caller.
func (s *UserService) CurrentUser(ctx context.Context, caller dm.Identity) (dm.Identity, error) {
	user, err := s.repomanager.Users(s.db).GetByID(ctx, caller.ID)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			// the account is gone; the token is no longer good
			return dm.Identity{}, common.ErrorUnauthorized
		}
		return dm.Identity{}, fmt.Errorf("error loading user: %w", err)
	}
	return user.Identity(), nil
}

// Employees lists the employee accounts. Managers only.
func (s *UserService) Employees(ctx context.Context, caller dm.Identity) ([]dm.Identity, error) {
	if !access.CanListEmployees(caller) {
		return nil, common.ErrorForbidden
	}

	users, err := s.repomanager.Users(s.db).ListByRole(ctx, dm.RoleEmployee)
	if err != nil {
		return nil, fmt.Errorf("error listing employees: %w", err)
	}
	out := make([]dm.Identity, 0, len(users))
	for _, u := range users {
		out = append(out, u.Identity())
	}
	return out, nil
}
