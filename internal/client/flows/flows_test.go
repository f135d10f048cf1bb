package flows

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/client/demo"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// fakeRepo records calls; block, when set, holds calls until closed.
type fakeRepo struct {
	mu        sync.Mutex
	submitted []models.LeaveFields
	reviews   []int64
	list      []models.LeaveRequest
	err       error
	block     chan struct{}
	entered   chan struct{}
}

func (r *fakeRepo) wait() {
	if r.block != nil {
		r.entered <- struct{}{}
		<-r.block
	}
}

func (r *fakeRepo) Submit(_ context.Context, _ session.Session, f models.LeaveFields) (models.LeaveRequest, error) {
	r.wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.LeaveRequest{}, r.err
	}
	r.submitted = append(r.submitted, f)
	return models.LeaveRequest{ID: int64(len(r.submitted)), StartDate: f.StartDate, EndDate: f.EndDate, Reason: f.Reason, Status: models.StatusPending}, nil
}

func (r *fakeRepo) ListOwn(context.Context, session.Session) ([]models.LeaveRequest, error) {
	return r.list, r.err
}

func (r *fakeRepo) ListAll(context.Context, session.Session) ([]models.LeaveRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}
	out := make([]models.LeaveRequest, len(r.list))
	copy(out, r.list)
	return out, nil
}

func (r *fakeRepo) Review(_ context.Context, _ session.Session, id int64, st models.Status, comment string) (models.LeaveRequest, error) {
	r.wait()
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return models.LeaveRequest{}, r.err
	}
	r.reviews = append(r.reviews, id)
	for _, x := range r.list {
		if x.ID == id {
			if err := x.Review(st, comment, x.CreatedAt.Add(time.Hour)); err != nil {
				return models.LeaveRequest{}, err
			}
			return x, nil
		}
	}
	return models.LeaveRequest{}, common.ErrorNotFound
}

var (
	today   = time.Date(2024, 5, 1, 15, 0, 0, 0, time.UTC)
	emp     = session.Session{Token: demo.EmployeeToken, Identity: demo.Employee.Identity}
	mgr     = session.Session{Token: demo.ManagerToken, Identity: demo.Manager.Identity}
	valid   = models.LeaveFields{StartDate: "2024-05-01", EndDate: "2024-05-03", Reason: "Moving house"}
	created = time.Date(2024, 4, 1, 0, 0, 0, 0, time.UTC)
)

// captureAfter replaces afterFunc and returns the last scheduled callback.
func captureAfter(t *testing.T) (*time.Duration, *func()) {
	t.Helper()
	var (
		d  time.Duration
		fn func()
	)
	orig := afterFunc
	afterFunc = func(delay time.Duration, f func()) func() bool {
		d, fn = delay, f
		return func() bool { fn = nil; return true }
	}
	t.Cleanup(func() { afterFunc = orig })
	return &d, &fn
}

func newSubmit(repo *fakeRepo, nav func(access.View)) *SubmitFlow {
	f := NewSubmitFlow(repo, DefaultRedirectDelay, nav)
	f.now = func() time.Time { return today }
	return f
}

func TestSubmitFlow_Success(t *testing.T) {
	delay, fire := captureAfter(t)
	var landed access.View
	repo := &fakeRepo{}
	f := newSubmit(repo, func(v access.View) { landed = v })

	f.SetForm(valid)
	r, err := f.Submit(context.Background(), emp)
	require.NoError(t, err)
	assert.Equal(t, "Moving house", r.Reason)
	assert.Equal(t, []models.LeaveFields{valid}, repo.submitted)

	assert.Equal(t, models.LeaveFields{}, f.Form())
	assert.False(t, f.Loading())

	assert.Equal(t, 2*time.Second, *delay)
	require.NotNil(t, *fire)
	assert.Empty(t, landed)
	(*fire)()
	assert.Equal(t, access.ViewMyRequests, landed)
}

func TestSubmitFlow_ValidationBeforeRepository(t *testing.T) {
	_, fire := captureAfter(t)
	repo := &fakeRepo{}
	f := newSubmit(repo, nil)

	tests := []struct {
		name   string
		fields models.LeaveFields
	}{
		{"start yesterday", models.LeaveFields{StartDate: "2024-04-30", EndDate: "2024-05-03", Reason: "x"}},
		{"end before start", models.LeaveFields{StartDate: "2024-05-04", EndDate: "2024-05-03", Reason: "x"}},
		{"blank reason", models.LeaveFields{StartDate: "2024-05-04", EndDate: "2024-05-05", Reason: "  "}},
		{"bad date", models.LeaveFields{StartDate: "04/05/2024", EndDate: "2024-05-05", Reason: "x"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f.SetForm(tt.fields)
			_, err := f.Submit(context.Background(), emp)
			assert.ErrorIs(t, err, common.ErrValidation)
			assert.Equal(t, tt.fields, f.Form(), "form must be kept")
		})
	}
	assert.Empty(t, repo.submitted)
	assert.Nil(t, *fire)
}

func TestSubmitFlow_RepositoryFailureKeepsForm(t *testing.T) {
	_, fire := captureAfter(t)
	repo := &fakeRepo{err: &common.RemoteError{Message: "failed to submit leave request"}}
	f := newSubmit(repo, nil)

	f.SetForm(valid)
	_, err := f.Submit(context.Background(), emp)
	assert.EqualError(t, err, "failed to submit leave request")
	assert.Equal(t, valid, f.Form())
	assert.Nil(t, *fire)
	assert.False(t, f.Loading())
}

func TestSubmitFlow_RejectsReentry(t *testing.T) {
	captureAfter(t)
	repo := &fakeRepo{block: make(chan struct{}), entered: make(chan struct{})}
	f := newSubmit(repo, nil)
	f.SetForm(valid)

	done := make(chan error)
	go func() {
		_, err := f.Submit(context.Background(), emp)
		done <- err
	}()
	<-repo.entered

	assert.True(t, f.Loading())
	_, err := f.Submit(context.Background(), emp)
	assert.ErrorIs(t, err, common.ErrBusy)

	close(repo.block)
	require.NoError(t, <-done)
	assert.Len(t, repo.submitted, 1)
}

func TestSubmitFlow_CancelRedirect(t *testing.T) {
	_, fire := captureAfter(t)
	f := newSubmit(&fakeRepo{}, nil)
	f.SetForm(valid)
	_, err := f.Submit(context.Background(), emp)
	require.NoError(t, err)

	f.CancelRedirect()
	assert.Nil(t, *fire)
}

func teamList() []models.LeaveRequest {
	return []models.LeaveRequest{
		{ID: 1, UserID: 2, Status: models.StatusPending, CreatedAt: created, UpdatedAt: created},
		{ID: 2, UserID: 3, Status: models.StatusApproved, CreatedAt: created, UpdatedAt: created},
		{ID: 3, UserID: 4, Status: models.StatusPending, CreatedAt: created, UpdatedAt: created},
	}
}

func TestReviewFlow_LoadSelectConfirm(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{list: teamList()}
	f := NewReviewFlow(repo)

	require.NoError(t, f.Load(ctx, mgr))
	pending, reviewed := f.Partition()
	assert.Len(t, pending, 2)
	assert.Len(t, reviewed, 1)

	_, err := f.Confirm(ctx, mgr, models.StatusApproved, "ok")
	assert.ErrorIs(t, err, ErrNoSelection)

	_, err = f.Select(42)
	assert.ErrorIs(t, err, common.ErrorNotFound)

	sel, err := f.Select(3)
	require.NoError(t, err)
	assert.Equal(t, int64(3), sel.ID)

	updated, err := f.Confirm(ctx, mgr, models.StatusRejected, "short staffed")
	require.NoError(t, err)
	assert.Equal(t, models.StatusRejected, updated.Status)

	_, ok := f.Selected()
	assert.False(t, ok)

	pending, reviewed = f.Partition()
	require.Len(t, pending, 1)
	assert.Equal(t, int64(1), pending[0].ID)
	require.Len(t, reviewed, 2)
	assert.Equal(t, "short staffed", reviewed[1].Comment())
	assert.True(t, reviewed[1].UpdatedAt.After(reviewed[1].CreatedAt))
}

func TestReviewFlow_FailureKeepsSelection(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{list: teamList()}
	f := NewReviewFlow(repo)
	require.NoError(t, f.Load(ctx, mgr))

	_, err := f.Select(2)
	require.NoError(t, err)
	_, err = f.Confirm(ctx, mgr, models.StatusRejected, "")
	assert.ErrorIs(t, err, models.ErrAlreadyReviewed)
	assert.Empty(t, repo.reviews)

	sel, ok := f.Selected()
	require.True(t, ok)
	assert.Equal(t, int64(2), sel.ID)
	assert.Equal(t, models.StatusApproved, f.Requests()[1].Status)

	f.ClearSelection()
	_, ok = f.Selected()
	assert.False(t, ok)
}

func TestReviewFlow_LoadError(t *testing.T) {
	repo := &fakeRepo{err: errors.New("failed to fetch leave requests")}
	f := NewReviewFlow(repo)
	assert.EqualError(t, f.Load(context.Background(), mgr), "failed to fetch leave requests")
	assert.Empty(t, f.Requests())
}

func TestReviewFlow_RejectsReentry(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{list: teamList()}
	f := NewReviewFlow(repo)
	require.NoError(t, f.Load(ctx, mgr))
	_, err := f.Select(1)
	require.NoError(t, err)

	repo.block = make(chan struct{})
	repo.entered = make(chan struct{})
	done := make(chan error)
	go func() {
		_, err := f.Confirm(ctx, mgr, models.StatusApproved, "")
		done <- err
	}()
	<-repo.entered

	_, err = f.Confirm(ctx, mgr, models.StatusApproved, "")
	assert.ErrorIs(t, err, common.ErrBusy)
	assert.ErrorIs(t, f.Load(ctx, mgr), common.ErrBusy)

	close(repo.block)
	require.NoError(t, <-done)
	assert.Equal(t, []int64{1}, repo.reviews)
}

func TestReviewFlow_DecidedRequestNeverReachesRepository(t *testing.T) {
	ctx := context.Background()
	repo := &fakeRepo{list: teamList()}
	f := NewReviewFlow(repo)
	require.NoError(t, f.Load(ctx, mgr))

	_, err := f.Select(1)
	require.NoError(t, err)
	first, err := f.Confirm(ctx, mgr, models.StatusApproved, "ok")
	require.NoError(t, err)

	_, err = f.Select(1)
	require.NoError(t, err)
	_, err = f.Confirm(ctx, mgr, models.StatusRejected, "changed my mind")
	assert.ErrorIs(t, err, models.ErrAlreadyReviewed)
	assert.Equal(t, []int64{1}, repo.reviews)

	got := f.Requests()[0]
	assert.Equal(t, models.StatusApproved, got.Status)
	assert.Equal(t, "ok", got.Comment())
	assert.Equal(t, first.UpdatedAt, got.UpdatedAt)
}

func TestReviewFlow_Reset(t *testing.T) {
	ctx := context.Background()
	f := NewReviewFlow(&fakeRepo{list: teamList()})
	require.NoError(t, f.Load(ctx, mgr))
	_, err := f.Select(1)
	require.NoError(t, err)

	f.Reset()

	assert.Empty(t, f.Requests())
	_, ok := f.Selected()
	assert.False(t, ok)
	_, err = f.Select(1)
	assert.ErrorIs(t, err, common.ErrorNotFound)
}

func TestSubmitFlow_Reset(t *testing.T) {
	_, fire := captureAfter(t)
	repo := &fakeRepo{}
	f := newSubmit(repo, nil)

	f.SetForm(valid)
	_, err := f.Submit(context.Background(), emp)
	require.NoError(t, err)
	require.NotNil(t, *fire)

	f.SetForm(models.LeaveFields{StartDate: "2001-01-01", EndDate: "2001-01-02", Reason: "secret medical reason"})
	f.Reset()

	assert.Equal(t, models.LeaveFields{}, f.Form())
	assert.Nil(t, *fire)
}
