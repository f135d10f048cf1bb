package cli

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeExec struct {
	loggedIn bool
	fail     error

	calls []string
	args  [][]string
}

func (f *fakeExec) record(name string) error {
	f.calls = append(f.calls, name)
	return f.fail
}

func (f *fakeExec) isLoggedIn() bool { return f.loggedIn }
func (f *fakeExec) Register(context.Context) error {
	f.loggedIn = true
	return f.record("register")
}
func (f *fakeExec) Login(context.Context) error {
	f.loggedIn = true
	return f.record("login")
}
func (f *fakeExec) Logout(context.Context) error {
	f.loggedIn = false
	return f.record("logout")
}
func (f *fakeExec) Dashboard(context.Context) error   { return f.record("dashboard") }
func (f *fakeExec) NewRequest(context.Context) error  { return f.record("new") }
func (f *fakeExec) MyRequests(context.Context) error  { return f.record("my") }
func (f *fakeExec) AllRequests(context.Context) error { return f.record("all") }
func (f *fakeExec) Employees(context.Context) error   { return f.record("employees") }
func (f *fakeExec) Ping(context.Context) error        { return f.record("ping") }
func (f *fakeExec) Review(_ context.Context, args []string) error {
	f.args = append(f.args, args)
	return f.record("review")
}
func (f *fakeExec) Attach(_ context.Context, args []string) error {
	f.args = append(f.args, args)
	return f.record("attach")
}

func TestRunREPL_Dispatch(t *testing.T) {
	f := &fakeExec{}
	var out bytes.Buffer
	script := "help\nlogin\n\nhelp\nhome\nnew\nmy\nALL\nreview 5 approve looks fine\nattach 7 doc.pdf\nemployees\nping\nlogout\nbogus\nquit\nmy\n"

	runREPL(context.Background(), f, func() string { return "[st]" }, rdr(script), &out)

	assert.Equal(t, []string{
		"login", "dashboard", "new", "my", "all", "review", "attach", "employees", "ping", "logout",
	}, f.calls)
	assert.Equal(t, [][]string{{"5", "approve", "looks", "fine"}, {"7", "doc.pdf"}}, f.args)

	s := out.String()
	assert.Contains(t, s, "leave [st]> ")
	assert.Contains(t, s, helpGuest)
	assert.Contains(t, s, helpUser)
	assert.Contains(t, s, "Unknown command: bogus")
	assert.Contains(t, s, "Bye!")
}

func TestRunREPL_PrintsErrorsAndContinues(t *testing.T) {
	f := &fakeExec{fail: errors.New("failed to fetch leave requests")}
	var out bytes.Buffer

	runREPL(context.Background(), f, func() string { return "" }, rdr("my\nall\n"), &out)

	assert.Equal(t, []string{"my", "all"}, f.calls)
	assert.Equal(t, 2, bytes.Count(out.Bytes(), []byte("Error: failed to fetch leave requests")))
}

func TestRunREPL_RedirectIsSilent(t *testing.T) {
	f := &fakeExec{fail: errRedirected}
	var out bytes.Buffer

	runREPL(context.Background(), f, func() string { return "" }, rdr("all\n"), &out)

	require.Equal(t, []string{"all"}, f.calls)
	assert.NotContains(t, out.String(), "Error:")
}

func TestRunREPL_StopsOnEOFAndCancel(t *testing.T) {
	f := &fakeExec{}
	var out bytes.Buffer
	runREPL(context.Background(), f, func() string { return "" }, rdr(""), &out)
	assert.Empty(t, f.calls)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	runREPL(ctx, f, func() string { return "" }, rdr("my\n"), &out)
	assert.Empty(t, f.calls)
}
