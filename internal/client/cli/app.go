package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/dmitrijs2005/leavekeeper/internal/access"
	"github.com/dmitrijs2005/leavekeeper/internal/client/client"
	"github.com/dmitrijs2005/leavekeeper/internal/client/config"
	"github.com/dmitrijs2005/leavekeeper/internal/client/flows"
	"github.com/dmitrijs2005/leavekeeper/internal/client/kvstore"
	"github.com/dmitrijs2005/leavekeeper/internal/client/leaves"
	"github.com/dmitrijs2005/leavekeeper/internal/client/session"
	"github.com/dmitrijs2005/leavekeeper/internal/logging"
	"github.com/dmitrijs2005/leavekeeper/internal/models"
)

// errRedirected is returned by a command whose view the guard refused. The
// user has already been told where they landed.
var errRedirected = errors.New("redirected")

// App is the interactive LeaveKeeper client.
type App struct {
	cfg    *config.Config
	logger logging.Logger

	kv          kvstore.Store
	remote      client.Client
	sessions    *session.Store
	repo        leaves.Repository
	attachments *leaves.Attachments
	submit      *flows.SubmitFlow
	review      *flows.ReviewFlow

	reader *bufio.Reader
	out    io.Writer

	mu   sync.Mutex
	view access.View
}

// NewApp opens the local store and the connection to the remote service and
// wires the client components on top of them.
func NewApp(ctx context.Context, cfg *config.Config, logger logging.Logger) (*App, error) {
	kv, err := kvstore.Open(ctx, cfg.KVOptions())
	if err != nil {
		return nil, fmt.Errorf("open local store: %w", err)
	}

	remote, err := client.NewGRPCClient(cfg.ServerAddr)
	if err != nil {
		_ = kv.Close()
		return nil, fmt.Errorf("connect to %s: %w", cfg.ServerAddr, err)
	}

	return newApp(cfg, logger, kv, remote, os.Stdin, os.Stdout), nil
}

func newApp(cfg *config.Config, logger logging.Logger, kv kvstore.Store, remote client.Client, in io.Reader, out io.Writer) *App {
	a := &App{
		cfg:         cfg,
		logger:      logger.With("module", "cli"),
		kv:          kv,
		remote:      remote,
		sessions:    session.NewStore(kv, remote, logger),
		attachments: leaves.NewAttachments(remote),
		reader:      bufio.NewReader(in),
		out:         out,
		view:        access.ViewLogin,
	}

	repo := leaves.NewService(logger,
		leaves.NewLocalBackend(kv, cfg.DemoDelay),
		leaves.NewRemoteBackend(remote),
	)
	a.repo = repo
	a.submit = flows.NewSubmitFlow(repo, cfg.RedirectDelay, a.setView)
	a.review = flows.NewReviewFlow(repo)
	return a
}

// Run restores a previous session, reports remote availability and blocks in
// the REPL until the user exits or ctx is cancelled.
func (a *App) Run(ctx context.Context) error {
	defer func() {
		if err := a.Close(); err != nil {
			a.logger.Warn(ctx, "shutdown", "error", err)
		}
	}()

	fmt.Fprintln(a.out, "LeaveKeeper. Type 'help' for the list of commands.")

	if err := a.remote.Ping(ctx); err != nil {
		a.logger.Warn(ctx, "remote service unavailable", "addr", a.cfg.ServerAddr, "error", err)
		fmt.Fprintln(a.out, "Remote service unavailable: only the built-in demo accounts can sign in.")
	}

	// A token that no longer resolves is dropped silently.
	_ = a.sessions.Restore(ctx)

	if a.isLoggedIn() {
		_ = a.Dashboard(ctx)
	}

	runREPL(ctx, a, a.status, a.reader, a.out)
	return nil
}

// Close stops pending timers and releases the store and the connection.
func (a *App) Close() error {
	a.submit.CancelRedirect()
	return errors.Join(a.kv.Close(), a.remote.Close())
}

func (a *App) isLoggedIn() bool {
	return a.sessions.IsAuthenticated()
}

func (a *App) currentView() access.View {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.view
}

func (a *App) setView(v access.View) {
	a.mu.Lock()
	a.view = v
	a.mu.Unlock()
}

func (a *App) status() string {
	sess, ok := a.sessions.Current()
	if !ok {
		return "[guest]"
	}
	return fmt.Sprintf("[%s@%s]", sess.Identity.Username, a.currentView())
}

// enter navigates to v through the view guard. When the guard lands elsewhere
// the user is told so and errRedirected is returned.
func (a *App) enter(v access.View) (session.Session, error) {
	sess, ok := a.sessions.Current()
	var id *models.Identity
	if ok {
		id = &sess.Identity
	}

	if v != access.ViewNewRequest {
		a.submit.CancelRedirect()
	}

	landed := access.Guard(id, v)
	a.setView(landed)
	if landed == v {
		return sess, nil
	}

	switch landed {
	case access.ViewLogin:
		fmt.Fprintln(a.out, "Please log in first (type 'login' or 'register').")
	default:
		fmt.Fprintln(a.out, "That page is for managers only.")
		a.printDashboard(sess.Identity)
	}
	return session.Session{}, errRedirected
}
