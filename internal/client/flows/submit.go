package flows

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/client/leaves"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

const (
	// DefaultRedirectDelay is how long the success message stays before
	// navigating to the request list.
	DefaultRedirectDelay = 2 * time.Second

	MsgSubmitted = "Leave request submitted successfully!"
)

// afterFunc is time.AfterFunc; tests replace it.
var afterFunc = func(d time.Duration, f func()) func() bool {
	return time.AfterFunc(d, f).Stop
}

type SubmitFlow struct {
	repo          leaves.Repository
	now           func() time.Time
	redirectDelay time.Duration
	navigate      func(access.View)

	mu       sync.Mutex
	loading  bool
	form     models.LeaveFields
	redirect func() bool
}

// NewSubmitFlow builds the flow. navigate is called with
// access.ViewMyRequests once the redirect delay after a successful submit has
// passed; it may be nil.
func NewSubmitFlow(repo leaves.Repository, redirectDelay time.Duration, navigate func(access.View)) *SubmitFlow {
	if navigate == nil {
		navigate = func(access.View) {}
	}
	return &SubmitFlow{repo: repo, now: time.Now, redirectDelay: redirectDelay, navigate: navigate}
}

func (f *SubmitFlow) Form() models.LeaveFields {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.form
}

func (f *SubmitFlow) SetForm(fields models.LeaveFields) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = fields
}

func (f *SubmitFlow) Loading() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.loading
}

// Submit validates the form against today's date and sends it. On success
// the form is cleared and a redirect is scheduled.
func (f *SubmitFlow) Submit(ctx context.Context, sess session.Session) (models.LeaveRequest, error) {
	f.mu.Lock()
	if f.loading {
		f.mu.Unlock()
		return models.LeaveRequest{}, common.ErrBusy
	}
	f.loading = true
	form := f.form
	f.mu.Unlock()

	defer func() {
		f.mu.Lock()
		f.loading = false
		f.mu.Unlock()
	}()

	if err := models.ValidateFields(form, f.now()); err != nil {
		return models.LeaveRequest{}, err
	}

	r, err := f.repo.Submit(ctx, sess, form)
	if err != nil {
		return models.LeaveRequest{}, err
	}

	f.mu.Lock()
	f.form = models.LeaveFields{}
	if f.redirect != nil {
		f.redirect()
	}
	f.redirect = afterFunc(f.redirectDelay, func() { f.navigate(access.ViewMyRequests) })
	f.mu.Unlock()

	return r, nil
}

// Reset clears the form and any pending redirect.
func (f *SubmitFlow) Reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.form = models.LeaveFields{}
	if f.redirect != nil {
		f.redirect()
		f.redirect = nil
	}
}

// CancelRedirect drops a pending redirect, e.g. when the user navigates away
// first.
func (f *SubmitFlow) CancelRedirect() {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.redirect != nil {
		f.redirect()
		f.redirect = nil
	}
}
