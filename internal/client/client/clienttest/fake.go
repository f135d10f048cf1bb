// Package clienttest provides an in-memory client.Client for tests.
package clienttest

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/rpc"
)

// Fake is a tiny remote service: users are registered in memory, tokens are
// "token-<username>", and leave requests follow the usual lifecycle. Set the
// Err fields to make the matching call fail.
type Fake struct {
	mu sync.Mutex

	Users    map[string]models.Profile
	ids      map[string]models.Identity
	Requests []models.LeaveRequest
	nextID   int64
	Now      func() time.Time

	PingErr     error
	LoginErr    error
	RegisterErr error
	CurrentErr  error
	CreateErr   error
	ListErr     error
	UpdateErr   error

	Calls []string
}

var _ client.Client = (*Fake)(nil)

func New() *Fake {
	return &Fake{
		Users:  map[string]models.Profile{},
		ids:    map[string]models.Identity{},
		nextID: 100,
		Now:    time.Now,
	}
}

// AddUser registers a profile directly and returns its identity.
func (f *Fake) AddUser(p models.Profile) models.Identity {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.addUser(p)
}

func (f *Fake) addUser(p models.Profile) models.Identity {
	f.nextID++
	if p.Role == "" {
		p.Role = models.RoleEmployee
	}
	id := models.Identity{ID: f.nextID, Username: p.Username, FullName: p.FullName, Email: p.Email, Role: p.Role}
	f.Users[p.Username] = p
	f.ids["token-"+p.Username] = id
	return id
}

func (f *Fake) call(name string) {
	f.Calls = append(f.Calls, name)
}

func (f *Fake) who(token string) (models.Identity, error) {
	id, ok := f.ids[token]
	if !ok {
		return models.Identity{}, &common.RemoteError{Message: "invalid token", Err: common.ErrorUnauthorized}
	}
	return id, nil
}

func (f *Fake) Close() error { return nil }

func (f *Fake) Ping(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Ping")
	return f.PingErr
}

func (f *Fake) Login(_ context.Context, username, password string) (rpc.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Login")
	if f.LoginErr != nil {
		return rpc.AuthResponse{}, f.LoginErr
	}
	p, ok := f.Users[username]
	if !ok || p.Password != password {
		return rpc.AuthResponse{}, &common.RemoteError{Message: "invalid credentials", Err: common.ErrorUnauthorized}
	}
	return rpc.AuthResponse{Token: "token-" + username, User: f.ids["token-"+username]}, nil
}

func (f *Fake) Register(_ context.Context, p models.Profile) (rpc.AuthResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("Register")
	if f.RegisterErr != nil {
		return rpc.AuthResponse{}, f.RegisterErr
	}
	if _, taken := f.Users[p.Username]; taken {
		return rpc.AuthResponse{}, &common.RemoteError{Message: "username already taken", Err: common.ErrorAlreadyExists}
	}
	id := f.addUser(p)
	return rpc.AuthResponse{Token: "token-" + p.Username, User: id}, nil
}

func (f *Fake) GetCurrentUser(_ context.Context, token string) (models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("GetCurrentUser")
	if f.CurrentErr != nil {
		return models.Identity{}, f.CurrentErr
	}
	return f.who(token)
}

func (f *Fake) CreateRequest(_ context.Context, token string, fields models.LeaveFields) (models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("CreateRequest")
	if f.CreateErr != nil {
		return models.LeaveRequest{}, f.CreateErr
	}
	id, err := f.who(token)
	if err != nil {
		return models.LeaveRequest{}, err
	}
	f.nextID++
	r := models.NewLeaveRequest(f.nextID, id, fields, f.Now().UTC())
	f.Requests = append(f.Requests, r)
	return r.Clone(), nil
}

func (f *Fake) GetOwnRequests(_ context.Context, token string) ([]models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("GetOwnRequests")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	id, err := f.who(token)
	if err != nil {
		return nil, err
	}
	var out []models.LeaveRequest
	for _, r := range f.Requests {
		if r.UserID == id.ID {
			out = append(out, r.Clone())
		}
	}
	return out, nil
}

func (f *Fake) GetAllRequests(_ context.Context, token string) ([]models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("GetAllRequests")
	if f.ListErr != nil {
		return nil, f.ListErr
	}
	id, err := f.who(token)
	if err != nil {
		return nil, err
	}
	if !id.IsManager() {
		return nil, &common.RemoteError{Message: "managers only", Err: common.ErrorUnauthorized}
	}
	out := make([]models.LeaveRequest, 0, len(f.Requests))
	for _, r := range f.Requests {
		out = append(out, r.Clone())
	}
	return out, nil
}

func (f *Fake) UpdateStatus(_ context.Context, token string, reqID int64, st models.Status, comment *string) (models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("UpdateStatus")
	if f.UpdateErr != nil {
		return models.LeaveRequest{}, f.UpdateErr
	}
	id, err := f.who(token)
	if err != nil {
		return models.LeaveRequest{}, err
	}
	if !id.IsManager() {
		return models.LeaveRequest{}, &common.RemoteError{Message: "managers only", Err: common.ErrorUnauthorized}
	}
	for i := range f.Requests {
		if f.Requests[i].ID != reqID {
			continue
		}
		c := ""
		if comment != nil {
			c = *comment
		}
		if err := f.Requests[i].Review(st, c, f.Now().UTC()); err != nil {
			return models.LeaveRequest{}, &common.RemoteError{Message: err.Error(), Err: err}
		}
		return f.Requests[i].Clone(), nil
	}
	return models.LeaveRequest{}, &common.RemoteError{Message: "leave request not found", Err: common.ErrorNotFound}
}

func (f *Fake) GetEmployees(_ context.Context, token string) ([]models.Identity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("GetEmployees")
	id, err := f.who(token)
	if err != nil {
		return nil, err
	}
	if !id.IsManager() {
		return nil, &common.RemoteError{Message: "managers only", Err: common.ErrorUnauthorized}
	}
	var out []models.Identity
	for _, u := range f.ids {
		if u.Role == models.RoleEmployee {
			out = append(out, u)
		}
	}
	return out, nil
}

func (f *Fake) RequestAttachmentUpload(_ context.Context, token string, req rpc.AttachmentUploadRequest) (rpc.AttachmentUpload, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.call("RequestAttachmentUpload")
	id, err := f.who(token)
	if err != nil {
		return rpc.AttachmentUpload{}, err
	}
	for i := range f.Requests {
		r := &f.Requests[i]
		if r.ID == req.ID && r.UserID == id.ID {
			key := "attachments/" + req.FileName
			r.AttachmentKey = &key
			return rpc.AttachmentUpload{URL: "http://storage.invalid/" + key, Key: key, ExpiresAt: f.Now().Add(15 * time.Minute)}, nil
		}
	}
	return rpc.AttachmentUpload{}, &common.RemoteError{Message: "leave request not found", Err: common.ErrorNotFound}
}

// CallCount reports how many times the named method was called.
func (f *Fake) CallCount(name string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.Calls {
		if c == name {
			n++
		}
	}
	return n
}
