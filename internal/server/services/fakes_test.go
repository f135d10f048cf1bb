package services

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/dbx"
	dm "github.com/dmitrijs2005/leavekeeper/internal/models"
	"github.com/dmitrijs2005/leavekeeper/internal/server/config"
	"github.com/dmitrijs2005/leavekeeper/internal/server/models"
	leavesrepo "github.com/dmitrijs2005/leavekeeper/internal/server/repositories/leaves"
	usersrepo "github.com/dmitrijs2005/leavekeeper/internal/server/repositories/users"
)

func newSQLMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db, mock
}

func testConfig() *config.Config {
	return &config.Config{
		SecretKey:                   "k",
		AccessTokenValidityDuration: time.Hour,
		S3Region:                    "us-east-1",
		S3RootUser:                  "minioadmin",
		S3RootPassword:              "minioadmin",
		S3BaseEndpoint:              "http://127.0.0.1:9000",
		S3Bucket:                    "leave-attachments",
		PresignValidityDuration:     15 * time.Minute,
	}
}

// memUsers is an in-memory users.Repository.
type memUsers struct {
	mu     sync.Mutex
	nextID int64
	byID   map[int64]*models.User
	err    error
}

func newMemUsers() *memUsers {
	return &memUsers{byID: map[int64]*models.User{}}
}

func (m *memUsers) Create(_ context.Context, u *models.User) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, x := range m.byID {
		if x.UserName == u.UserName {
			return nil, common.ErrorAlreadyExists
		}
	}
	m.nextID++
	c := *u
	c.ID = m.nextID
	c.CreatedAt = time.Now()
	m.byID[c.ID] = &c
	out := c
	return &out, nil
}

func (m *memUsers) GetUserByLogin(_ context.Context, name string) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	for _, x := range m.byID {
		if x.UserName == name {
			c := *x
			return &c, nil
		}
	}
	return nil, common.ErrorNotFound
}

func (m *memUsers) GetByID(_ context.Context, id int64) (*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	x, ok := m.byID[id]
	if !ok {
		return nil, common.ErrorNotFound
	}
	c := *x
	return &c, nil
}

func (m *memUsers) ListByRole(_ context.Context, role dm.Role) ([]*models.User, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []*models.User{}
	for _, x := range m.byID {
		if x.Role == role {
			c := *x
			out = append(out, &c)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

// memLeaves is an in-memory leaves.Repository.
type memLeaves struct {
	mu      sync.Mutex
	nextID  int64
	rows    map[int64]dm.LeaveRequest
	err     error
	updates int
}

func newMemLeaves() *memLeaves {
	return &memLeaves{rows: map[int64]dm.LeaveRequest{}}
}

func (m *memLeaves) Create(_ context.Context, r *dm.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.nextID++
	r.ID = m.nextID
	m.rows[r.ID] = r.Clone()
	return nil
}

func (m *memLeaves) GetByID(_ context.Context, id int64) (dm.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return dm.LeaveRequest{}, m.err
	}
	r, ok := m.rows[id]
	if !ok {
		return dm.LeaveRequest{}, common.ErrorNotFound
	}
	return r.Clone(), nil
}

func (m *memLeaves) GetForUpdate(ctx context.Context, id int64) (dm.LeaveRequest, error) {
	return m.GetByID(ctx, id)
}

func (m *memLeaves) list(keep func(dm.LeaveRequest) bool) ([]dm.LeaveRequest, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := []dm.LeaveRequest{}
	for _, r := range m.rows {
		if keep(r) {
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID > out[j].ID })
	return out, nil
}

func (m *memLeaves) ListByUser(_ context.Context, userID int64) ([]dm.LeaveRequest, error) {
	return m.list(func(r dm.LeaveRequest) bool { return r.UserID == userID })
}

func (m *memLeaves) ListAll(context.Context) ([]dm.LeaveRequest, error) {
	return m.list(func(dm.LeaveRequest) bool { return true })
}

func (m *memLeaves) UpdateReview(_ context.Context, r dm.LeaveRequest) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	cur, ok := m.rows[r.ID]
	if !ok {
		return common.ErrorNotFound
	}
	if cur.Status != dm.StatusPending {
		return dm.ErrAlreadyReviewed
	}
	m.updates++
	m.rows[r.ID] = r.Clone()
	return nil
}

func (m *memLeaves) SetAttachmentKey(_ context.Context, id, userID int64, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	r, ok := m.rows[id]
	if !ok || r.UserID != userID {
		return common.ErrorNotFound
	}
	r.AttachmentKey = &key
	m.rows[id] = r
	return nil
}

// memRepoManager vends the in-memory repositories regardless of the DBTX.
type memRepoManager struct {
	users  *memUsers
	leaves *memLeaves
}

func newMemRepoManager() *memRepoManager {
	return &memRepoManager{users: newMemUsers(), leaves: newMemLeaves()}
}

func (m *memRepoManager) RunMigrations(context.Context, *sql.DB) error { return nil }
func (m *memRepoManager) Users(dbx.DBTX) usersrepo.Repository         { return m.users }
func (m *memRepoManager) Leaves(dbx.DBTX) leavesrepo.Repository       { return m.leaves }

// addUser stores an account directly, bypassing hashing.
func (m *memRepoManager) addUser(t *testing.T, name string, role dm.Role) dm.Identity {
	t.Helper()
	u, err := m.users.Create(context.Background(), &models.User{
		UserName: name, FullName: name + " Full", Email: name + "@example.com", Role: role,
	})
	require.NoError(t, err)
	return u.Identity()
}
