package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/client/demo"
	"github.com/dmitrijs2005/leavekeeper/internal/client/flows"
	"github.com/dmitrijs2005/leavekeeper/internal/common"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

var errUsage = errors.New("usage")

// NewRequest fills the leave form and submits it. Values typed in a failed
// attempt are offered again as defaults.
func (a *App) NewRequest(ctx context.Context) error {
	sess, err := a.enter(access.ViewNewRequest)
	if err != nil {
		return err
	}

	form := a.submit.Form()
	if form.StartDate, err = GetTextWithDefault(a.reader, "Start date (YYYY-MM-DD):", form.StartDate, a.out); err != nil {
		return err
	}
	if form.EndDate, err = GetTextWithDefault(a.reader, "End date (YYYY-MM-DD):", form.EndDate, a.out); err != nil {
		return err
	}
	if form.Reason, err = GetTextWithDefault(a.reader, "Reason:", form.Reason, a.out); err != nil {
		return err
	}
	a.submit.SetForm(form)

	r, err := a.submit.Submit(ctx, sess)
	if err != nil {
		return err
	}

	fmt.Fprintln(a.out, flows.MsgSubmitted)
	fmt.Fprintf(a.out, "Request #%d is %s.\n", r.ID, r.Status)
	return nil
}

// MyRequests lists the user's own requests.
func (a *App) MyRequests(ctx context.Context) error {
	sess, err := a.enter(access.ViewMyRequests)
	if err != nil {
		return err
	}

	list, err := a.repo.ListOwn(ctx, sess)
	if err != nil {
		return err
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "You have no leave requests yet. Type 'new' to create one.")
		return nil
	}
	printRequests(a.out, list, false)
	return nil
}

// AllRequests loads the team's requests, pending ones first.
func (a *App) AllRequests(ctx context.Context) error {
	sess, err := a.enter(access.ViewAll)
	if err != nil {
		return err
	}
	if err := a.review.Load(ctx, sess); err != nil {
		return err
	}
	a.printReviewList()
	return nil
}

func (a *App) printReviewList() {
	pending, reviewed := a.review.Partition()
	fmt.Fprintf(a.out, "Pending (%d)\n", len(pending))
	if len(pending) > 0 {
		printRequests(a.out, pending, true)
	}
	fmt.Fprintf(a.out, "Reviewed (%d)\n", len(reviewed))
	if len(reviewed) > 0 {
		printRequests(a.out, reviewed, true)
	}
}

func parseID(s string) (int64, error) {
	id, err := strconv.ParseInt(strings.TrimPrefix(s, "#"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("invalid request id %q", s)
	}
	return id, nil
}

func parseDecision(s string) (models.Status, bool) {
	switch strings.ToLower(s) {
	case "approve", "approved", "a":
		return models.StatusApproved, true
	case "reject", "rejected", "r":
		return models.StatusRejected, true
	}
	return "", false
}

// Review decides on a request: "review <id> approve|reject [comment]". When
// the decision is omitted the user is asked for it and for a comment.
func (a *App) Review(ctx context.Context, args []string) error {
	sess, err := a.enter(access.ViewAll)
	if err != nil {
		return err
	}
	if len(args) == 0 {
		return fmt.Errorf("%w: review <id> [approve|reject] [comment]", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	r, err := a.review.Select(id)
	if errors.Is(err, common.ErrorNotFound) {
		if err := a.review.Load(ctx, sess); err != nil {
			return err
		}
		r, err = a.review.Select(id)
	}
	if err != nil {
		return fmt.Errorf("request #%d: %w", id, err)
	}

	var (
		decision string
		comment  string
	)
	if len(args) > 1 {
		decision, comment = args[1], strings.Join(args[2:], " ")
	} else {
		printRequest(a.out, r)
		if decision, err = GetSimpleText(a.reader, "Decision (approve/reject, empty to cancel):", a.out); err != nil {
			a.review.ClearSelection()
			return err
		}
		if strings.TrimSpace(decision) == "" {
			a.review.ClearSelection()
			fmt.Fprintln(a.out, "Cancelled.")
			return nil
		}
		if comment, err = GetSimpleText(a.reader, "Comment (optional):", a.out); err != nil {
			a.review.ClearSelection()
			return err
		}
	}

	status, ok := parseDecision(strings.TrimSpace(decision))
	if !ok {
		a.review.ClearSelection()
		return fmt.Errorf("unknown decision %q: use approve or reject", decision)
	}

	updated, err := a.review.Confirm(ctx, sess, status, strings.TrimSpace(comment))
	if err != nil {
		a.review.ClearSelection()
		return err
	}
	fmt.Fprintf(a.out, "Request #%d %s.\n", updated.ID, updated.Status)
	return nil
}

// Attach uploads a supporting document for one of the user's requests.
func (a *App) Attach(ctx context.Context, args []string) error {
	sess, err := a.enter(access.ViewMyRequests)
	if err != nil {
		return err
	}
	if len(args) != 2 {
		return fmt.Errorf("%w: attach <id> <file>", errUsage)
	}
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	f, err := os.Open(args[1])
	if err != nil {
		return err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return err
	}
	if info.IsDir() {
		return fmt.Errorf("%s is a directory", args[1])
	}

	key, err := a.attachments.Attach(ctx, sess, id, info.Name(), f, info.Size())
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Attached %s to request #%d (%s).\n", info.Name(), id, key)
	return nil
}

// Employees lists the accounts a manager can review.
func (a *App) Employees(ctx context.Context) error {
	sess, err := a.enter(access.ViewAll)
	if err != nil {
		return err
	}

	var list []models.Identity
	if demo.IsManager(sess.Identity) {
		list = []models.Identity{demo.Employee.Identity}
	} else if list, err = a.remote.GetEmployees(ctx, sess.Token); err != nil {
		return err
	}

	if len(list) == 0 {
		fmt.Fprintln(a.out, "No employees registered.")
		return nil
	}
	printEmployees(a.out, list)
	return nil
}

// Ping reports whether the remote service answers.
func (a *App) Ping(ctx context.Context) error {
	if err := a.remote.Ping(ctx); err != nil {
		return fmt.Errorf("remote service unavailable: %w", err)
	}
	fmt.Fprintln(a.out, "Remote service is reachable.")
	return nil
}
