// Package guard decides whether the client may render the protected page.
//
// The check is presence only: a stored token lets the page render, and the
// server verifies signature and expiry when the page data is fetched. A
// stale token therefore passes the guard and is rejected by the server.
package guard

// LoginRoute is where a Redirect sends the user.
const LoginRoute = "login"

// TokenSource exposes the persisted session token, "" when absent.
type TokenSource interface {
	Token() string
}

// Verdict is either Allow or Redirect.
type Verdict interface {
	verdict()
}

// Allow lets the protected content render.
type Allow struct{}

// Redirect sends the user elsewhere without rendering anything.
type Redirect struct {
	To string
}

func (Allow) verdict()    {}
func (Redirect) verdict() {}

// Decide returns Allow when src holds a token and Redirect to login
// otherwise.
func Decide(src TokenSource) Verdict {
	if src == nil || src.Token() == "" {
		return Redirect{To: LoginRoute}
	}
	return Allow{}
}
