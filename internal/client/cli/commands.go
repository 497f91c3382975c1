package cli

import (
	"bytes"
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gophauth/internal/client/client"
	"github.com/dmitrijs2005/gophauth/internal/client/guard"
	"github.com/dmitrijs2005/gophauth/internal/client/session"
	"github.com/dmitrijs2005/gophauth/internal/common"
)

var errPasswordMismatch = errors.New("passwords don't match")

// anonymousName is greeted when no email is known.
const anonymousName = "User"

// Signup creates an account, stores the returned session and shows the
// landing page.
func (a *App) Signup(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	confirm, err := GetPassword(a.reader, "Confirm password: ", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(password, confirm) {
		return a.fail(errPasswordMismatch)
	}

	token, err := a.api.Signup(ctx, email, string(password))
	if err != nil {
		return a.fail(err)
	}
	if err := a.store.Save(session.Session{Email: email, Token: token}); err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Signed up as %s\n", email)
	return a.renderLanding(ctx)
}

// Login authenticates, stores the returned session and shows the landing
// page.
func (a *App) Login(ctx context.Context) error {
	email, err := GetSimpleText(a.reader, "-Enter email", a.out)
	if err != nil {
		return a.fail(err)
	}

	password, err := GetPassword(a.reader, "Enter password: ", a.out)
	if err != nil {
		return a.fail(err)
	}
	defer common.WipeByteArray(password)

	token, err := a.api.Login(ctx, email, string(password))
	if err != nil {
		return a.fail(err)
	}
	if err := a.store.Save(session.Session{Email: email, Token: token}); err != nil {
		return a.fail(err)
	}

	fmt.Fprintf(a.out, "Logged in as %s\n", email)
	return a.renderLanding(ctx)
}

// Landing shows the protected page. Without a stored token nothing is
// fetched and the login flow starts instead.
func (a *App) Landing(ctx context.Context) error {
	switch v := guard.Decide(a.store).(type) {
	case guard.Redirect:
		fmt.Fprintf(a.out, "Not logged in, redirecting to %s\n", v.To)
		return a.Login(ctx)
	default:
		return a.renderLanding(ctx)
	}
}

// renderLanding fetches the page with the stored token. A token the server
// rejects is dropped so the next attempt goes through login.
func (a *App) renderLanding(ctx context.Context) error {
	resp, err := a.api.LandingPage(ctx, a.store.Token())
	if err != nil {
		if errors.Is(err, client.ErrUnauthorized) {
			if cerr := a.store.Clear(); cerr != nil {
				return a.fail(cerr)
			}
			fmt.Fprintf(a.out, "%s. Please log in again.\n", err.Error())
			return err
		}
		return a.fail(err)
	}

	email := resp.Email
	if email == "" {
		if sess, err := a.store.Load(); err == nil {
			email = sess.Email
		}
	}
	if email == "" {
		email = anonymousName
	}

	fmt.Fprintln(a.out, resp.Message)
	fmt.Fprintf(a.out, "Welcome, %s!\n", email)
	return nil
}

// Logout forgets the stored session. Tokens are stateless, so the server is
// not contacted.
func (a *App) Logout(ctx context.Context) error {
	if err := a.store.Clear(); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Logged out")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	sess, err := a.store.Load()
	if errors.Is(err, session.ErrNoSession) {
		fmt.Fprintln(a.out, "Not logged in")
		return nil
	}
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintf(a.out, "Logged in as %s\n", sess.Email)
	return nil
}

// fail prints a user-facing description of err and returns it unchanged.
func (a *App) fail(err error) error {
	var apiErr *client.APIError
	switch {
	case errors.Is(err, client.ErrUnavailable):
		fmt.Fprintln(a.out, "Server unavailable, try again later")
	case errors.As(err, &apiErr):
		fmt.Fprintln(a.out, apiErr.Message)
	case errors.Is(err, errPasswordMismatch):
		fmt.Fprintln(a.out, "Passwords don't match")
	default:
		fmt.Fprintf(a.out, "Error: %v\n", err)
	}
	return err
}
