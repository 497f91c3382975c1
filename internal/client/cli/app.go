package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/config"
	"github.com/dmitrijs2005/gophauth/internal/client/guard"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
)

// sessionStore is the part of session.Store the CLI uses.
type sessionStore interface {
	guard.TokenSource
	Load() (*session.Session, error)
	Save(sess session.Session) error
	Clear() error
}

type App struct {
	config *config.Config
	api    client.Client
	store  sessionStore
	reader *bufio.Reader
	out    io.Writer
}

// NewApp connects to the configured server and opens the session file.
func NewApp(c *config.Config) (*App, error) {
	api, err := client.NewGRPCClient(c.ServerEndpointAddr, c.RequestTimeout)
	if err != nil {
		return nil, fmt.Errorf("connect to %s: %w", c.ServerEndpointAddr, err)
	}
	return newApp(c, api, session.NewStore(c.SessionFile), os.Stdin, os.Stdout), nil
}

func newApp(c *config.Config, api client.Client, store sessionStore, in io.Reader, out io.Writer) *App {
	return &App{
		config: c,
		api:    api,
		store:  store,
		reader: bufio.NewReader(in),
		out:    out,
	}
}

// Run starts the REPL and blocks until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	defer a.api.Close()

	fmt.Fprintln(a.out, "Welcome to gophauth CLI (type 'help' for commands)")
	runREPL(ctx, a, a.status, a.reader)
}

func (a *App) isLoggedIn() bool {
	return a.store.Token() != ""
}

func (a *App) status() string {
	sess, err := a.store.Load()
	if err != nil || sess.Email == "" {
		return ""
	}
	return fmt.Sprintf("(%s)", sess.Email)
}
