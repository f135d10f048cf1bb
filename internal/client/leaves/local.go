package leaves

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/leavekeeper/internal/client/demo"
	"github.com/dmitrijs2005/leavekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// errNotStored aborts a merge that found nothing to change.
var errNotStored = errors.New("not in local collection")

// DefaultDemoDelay imitates a network round trip on demo paths.
const DefaultDemoDelay = 500 * time.Millisecond

// LocalBackend serves the built-in accounts from two key-value collections:
// the demo employee's submissions, and a copy of each submission queued for
// the manager.
type LocalBackend struct {
	kv    kvstore.Store
	delay time.Duration
	now   func() time.Time

	mu     sync.Mutex
	lastID int64
}

func NewLocalBackend(kv kvstore.Store, delay time.Duration) *LocalBackend {
	return &LocalBackend{kv: kv, delay: delay, now: time.Now}
}

func (b *LocalBackend) Handles(id models.Identity) bool {
	return demo.IsManager(id) || demo.IsEmployee(id)
}

// nextID returns the current time in milliseconds, bumped when needed so ids
// strictly increase within the process.
func (b *LocalBackend) nextID(now time.Time) int64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := now.UnixMilli()
	if id <= b.lastID {
		id = b.lastID + 1
	}
	b.lastID = id
	return id
}

func (b *LocalBackend) pause(ctx context.Context) error {
	if b.delay <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(b.delay)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func (b *LocalBackend) stored(ctx context.Context) ([]models.LeaveRequest, error) {
	return kvstore.GetJSON[[]models.LeaveRequest](ctx, b.kv, demo.CollectionEmployeeRequests)
}

// withSampleReviews overlays the stored decisions on the seeded team list.
func (b *LocalBackend) withSampleReviews(ctx context.Context, seeds []models.LeaveRequest) ([]models.LeaveRequest, error) {
	decided, err := kvstore.GetJSON[[]models.LeaveRequest](ctx, b.kv, demo.CollectionSampleReviews)
	if err != nil {
		return nil, err
	}
	for i := range seeds {
		if r, ok := findByID(decided, seeds[i].ID); ok {
			seeds[i] = r
		}
	}
	return seeds, nil
}

func findByID(list []models.LeaveRequest, id int64) (models.LeaveRequest, bool) {
	for _, r := range list {
		if r.ID == id {
			return r, true
		}
	}
	return models.LeaveRequest{}, false
}

// reviewTime keeps updatedAt strictly after createdAt.
func reviewTime(now, created time.Time) time.Time {
	if !now.After(created) {
		return created.Add(time.Microsecond)
	}
	return now
}

func appendTo(ctx context.Context, kv kvstore.Store, key string, r models.LeaveRequest) error {
	return kvstore.MergeJSON(ctx, kv, key, func(cur []models.LeaveRequest) ([]models.LeaveRequest, error) {
		return append(cur, r), nil
	})
}

// Submit stores the demo employee's request in both collections. The demo
// manager's submission is acknowledged but not kept.
func (b *LocalBackend) Submit(ctx context.Context, sess session.Session, fields models.LeaveFields) (models.LeaveRequest, error) {
	if err := b.pause(ctx); err != nil {
		return models.LeaveRequest{}, err
	}
	now := b.now().UTC()
	r := models.NewLeaveRequest(b.nextID(now), sess.Identity, fields, now)

	if demo.IsManager(sess.Identity) {
		return r, nil
	}

	if err := appendTo(ctx, b.kv, demo.CollectionEmployeeRequests, r); err != nil {
		return models.LeaveRequest{}, err
	}
	// copy stays pending; nothing reads it back
	if err := appendTo(ctx, b.kv, demo.CollectionManagerPending, r); err != nil {
		return models.LeaveRequest{}, err
	}
	return r, nil
}

func (b *LocalBackend) ListOwn(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	if err := b.pause(ctx); err != nil {
		return nil, err
	}
	if demo.IsManager(sess.Identity) {
		return demo.ManagerOwnRequests(), nil
	}
	stored, err := b.stored(ctx)
	if err != nil {
		return nil, err
	}
	return append(demo.EmployeeOwnRequests(), stored...), nil
}

func (b *LocalBackend) ListAll(ctx context.Context, sess session.Session) ([]models.LeaveRequest, error) {
	if !demo.IsManager(sess.Identity) {
		return nil, common.ErrorForbidden
	}
	if err := b.pause(ctx); err != nil {
		return nil, err
	}
	team, err := b.withSampleReviews(ctx, demo.TeamRequests())
	if err != nil {
		return nil, err
	}
	stored, err := b.stored(ctx)
	if err != nil {
		return nil, err
	}
	return append(team, stored...), nil
}

// Review decides a stored employee request, or one of the seeded team
// requests. Decisions on seeded requests are kept in their own collection so
// a decided sample stays decided.
func (b *LocalBackend) Review(ctx context.Context, sess session.Session, id int64, status models.Status, comment string) (models.LeaveRequest, error) {
	if !demo.IsManager(sess.Identity) {
		return models.LeaveRequest{}, common.ErrorForbidden
	}
	if err := b.pause(ctx); err != nil {
		return models.LeaveRequest{}, err
	}
	now := b.now().UTC()

	var out models.LeaveRequest
	err := kvstore.MergeJSON(ctx, b.kv, demo.CollectionEmployeeRequests, func(cur []models.LeaveRequest) ([]models.LeaveRequest, error) {
		for i := range cur {
			if cur[i].ID != id {
				continue
			}
			if err := cur[i].Review(status, comment, reviewTime(now, cur[i].CreatedAt)); err != nil {
				return nil, err
			}
			out = cur[i].Clone()
			return cur, nil
		}
		return nil, errNotStored
	})
	if err == nil {
		return out, nil
	}
	if !errors.Is(err, errNotStored) {
		return models.LeaveRequest{}, err
	}

	err = kvstore.MergeJSON(ctx, b.kv, demo.CollectionSampleReviews, func(cur []models.LeaveRequest) ([]models.LeaveRequest, error) {
		r, decided := findByID(cur, id)
		if !decided {
			var ok bool
			if r, ok = findByID(demo.TeamRequests(), id); !ok {
				return nil, common.ErrorNotFound
			}
		}
		if err := r.Review(status, comment, reviewTime(now, r.CreatedAt)); err != nil {
			return nil, err
		}
		out = r.Clone()
		return append(cur, r), nil
	})
	if err != nil {
		return models.LeaveRequest{}, err
	}
	return out, nil
}
