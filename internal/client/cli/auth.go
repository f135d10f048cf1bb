package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// Login asks for credentials and signs in. The demo accounts never reach the
// remote service.
func (a *App) Login(ctx context.Context) error {
	a.setView(access.ViewLogin)

	username, err := GetSimpleText(a.reader, "Username:", a.out)
	if err != nil {
		return err
	}
	password, err := GetPassword(a.reader, "Password:", a.out)
	if err != nil {
		return err
	}

	id, err := a.sessions.Login(ctx, strings.TrimSpace(username), password)
	if err != nil {
		return err
	}

	a.resetFlows()
	fmt.Fprintf(a.out, "Logged in as %s.\n", id.FullName)
	return a.Dashboard(ctx)
}

// Register creates a remote account and signs it in.
func (a *App) Register(ctx context.Context) error {
	a.setView(access.ViewRegister)

	var p models.Profile
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Username:", &p.Username},
		{"Full name:", &p.FullName},
		{"Email:", &p.Email},
	}
	for _, pr := range prompts {
		v, err := GetSimpleText(a.reader, pr.label, a.out)
		if err != nil {
			return err
		}
		*pr.dst = strings.TrimSpace(v)
	}

	role, err := GetTextWithDefault(a.reader, "Role (employee/manager):", string(models.RoleEmployee), a.out)
	if err != nil {
		return err
	}
	p.Role = models.Role(strings.ToLower(role))

	if p.Password, err = GetPassword(a.reader, "Password:", a.out); err != nil {
		return err
	}

	id, err := a.sessions.Register(ctx, p)
	if err != nil {
		return err
	}

	a.resetFlows()
	fmt.Fprintf(a.out, "Account created. Welcome, %s!\n", id.FullName)
	return a.Dashboard(ctx)
}

// Logout ends the session and forgets its token.
func (a *App) Logout(ctx context.Context) error {
	if !a.isLoggedIn() {
		fmt.Fprintln(a.out, "You are not logged in.")
		return nil
	}

	a.resetFlows()
	err := a.sessions.Logout(ctx)
	a.setView(access.ViewLogin)
	if err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

// resetFlows forgets the form and the review list of the previous session.
func (a *App) resetFlows() {
	a.submit.Reset()
	a.review.Reset()
}

// Dashboard greets the user and lists what they can do.
func (a *App) Dashboard(ctx context.Context) error {
	sess, err := a.enter(access.ViewDashboard)
	if err != nil {
		return err
	}
	a.printDashboard(sess.Identity)
	return nil
}

var viewCommands = map[access.View]string{
	access.ViewNewRequest: "new",
	access.ViewMyRequests: "my",
	access.ViewAll:        "all",
}

func (a *App) printDashboard(id models.Identity) {
	fmt.Fprintf(a.out, "Welcome, %s! (%s)\n", id.FullName, id.Role)
	for _, item := range access.Menu(id) {
		fmt.Fprintf(a.out, "  %-4s %s: %s\n", viewCommands[item.View], item.Title, item.Hint)
	}
}
