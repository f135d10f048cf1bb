package flows

import (
	"context"
	"errors"
	"sync"

	"github.com/dmitrijs2005/leavekeeper/internal/client/leaves"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

var ErrNoSelection = errors.New("no leave request selected")

// ReviewFlow is the manager's review screen: the loaded list, and at most one
// request staged for a decision.
type ReviewFlow struct {
	repo leaves.Repository

	mu       sync.Mutex
	loading  bool
	requests []models.LeaveRequest
	selected *models.LeaveRequest
}

func NewReviewFlow(repo leaves.Repository) *ReviewFlow {
	return &ReviewFlow{repo: repo}
}

func (f *ReviewFlow) begin() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.loading {
		return common.ErrBusy
	}
	f.loading = true
	return nil
}

func (f *ReviewFlow) end() {
	f.mu.Lock()
	f.loading = false
	f.mu.Unlock()
}

// Load replaces the list with every request visible to the manager and drops
// any staged selection.
func (f *ReviewFlow) Load(ctx context.Context, sess session.Session) error {
	if err := f.begin(); err != nil {
		return err
	}
	defer f.end()

	list, err := f.repo.ListAll(ctx, sess)
	if err != nil {
		return err
	}

	f.mu.Lock()
	f.requests = list
	f.selected = nil
	f.mu.Unlock()
	return nil
}

// Requests returns a copy of the loaded list.
func (f *ReviewFlow) Requests() []models.LeaveRequest {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]models.LeaveRequest, 0, len(f.requests))
	for _, r := range f.requests {
		out = append(out, r.Clone())
	}
	return out
}

// Partition splits the loaded list into pending and reviewed requests.
func (f *ReviewFlow) Partition() (pending, reviewed []models.LeaveRequest) {
	return models.Partition(f.Requests())
}

// Select stages the request with the given id.
func (f *ReviewFlow) Select(id int64) (models.LeaveRequest, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, r := range f.requests {
		if r.ID == id {
			c := r.Clone()
			f.selected = &c
			return c, nil
		}
	}
	return models.LeaveRequest{}, common.ErrorNotFound
}

func (f *ReviewFlow) Selected() (models.LeaveRequest, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.selected == nil {
		return models.LeaveRequest{}, false
	}
	return f.selected.Clone(), true
}

// Reset drops the loaded list and the selection, e.g. when the session
// changes hands.
func (f *ReviewFlow) Reset() {
	f.mu.Lock()
	f.requests = nil
	f.selected = nil
	f.mu.Unlock()
}

// ClearSelection unstages without deciding.
func (f *ReviewFlow) ClearSelection() {
	f.mu.Lock()
	f.selected = nil
	f.mu.Unlock()
}

// Confirm applies the decision to the staged request, merges the result into
// the list and clears the selection. On failure the selection is kept. A
// request already decided is refused without reaching the repository.
func (f *ReviewFlow) Confirm(ctx context.Context, sess session.Session, status models.Status, comment string) (models.LeaveRequest, error) {
	sel, ok := f.Selected()
	if !ok {
		return models.LeaveRequest{}, ErrNoSelection
	}
	if sel.Status.IsTerminal() {
		return models.LeaveRequest{}, models.ErrAlreadyReviewed
	}
	if err := f.begin(); err != nil {
		return models.LeaveRequest{}, err
	}
	defer f.end()

	updated, err := f.repo.Review(ctx, sess, sel.ID, status, comment)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	f.mu.Lock()
	for i := range f.requests {
		if f.requests[i].ID == updated.ID {
			f.requests[i] = updated.Clone()
		}
	}
	f.selected = nil
	f.mu.Unlock()
	return updated, nil
}
