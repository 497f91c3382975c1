package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/golang-jwt/jwt/v5"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time { return c.t }

func newTestIssuer(t *testing.T, secret string, clock *fakeClock) *TokenIssuer {
	t.Helper()
	i, err := NewTokenIssuer([]byte(secret), WithClock(clock.Now))
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	return i
}

func TestNewTokenIssuer_EmptySecret(t *testing.T) {
	if _, err := NewTokenIssuer(nil); err == nil {
		t.Fatal("expected error for empty secret")
	}
}

func TestIssueAndVerify_Success(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, "super-secret", clock)

	tok, err := issuer.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	claims, err := issuer.Verify(tok)
	if err != nil {
		t.Fatalf("Verify error: %v", err)
	}
	if claims.Email != "a@b.com" || claims.Subject != "a@b.com" {
		t.Fatalf("email mismatch: %+v", claims)
	}
	if !claims.IssuedAt.Time.Equal(clock.t) {
		t.Fatalf("iat = %v, want %v", claims.IssuedAt.Time, clock.t)
	}
	if got := claims.ExpiresAt.Time.Sub(claims.IssuedAt.Time); got != time.Hour {
		t.Fatalf("lifetime = %v, want 1h", got)
	}
}

func TestIssue_DistinctTokensForSameEmail(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)}
	issuer := newTestIssuer(t, "secret", clock)

	a, err := issuer.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	b, err := issuer.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}
	if a == b {
		t.Fatal("two tokens issued in the same instant must differ")
	}
}

func TestVerify_ExpiresAfterTTL(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	issuer := newTestIssuer(t, "secret", clock)

	tok, err := issuer.Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	clock.t = start.Add(59 * time.Minute)
	if _, err := issuer.Verify(tok); err != nil {
		t.Fatalf("token should still be valid at 59m: %v", err)
	}

	clock.t = start.Add(time.Hour + time.Second)
	_, err = issuer.Verify(tok)
	if !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected common.ErrTokenExpired, got %v", err)
	}
}

func TestVerify_CustomTTL(t *testing.T) {
	t.Parallel()

	start := time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)
	clock := &fakeClock{t: start}
	issuer, err := NewTokenIssuer([]byte("secret"), WithClock(clock.Now), WithTTL(5*time.Minute))
	if err != nil {
		t.Fatalf("NewTokenIssuer error: %v", err)
	}
	if issuer.TTL() != 5*time.Minute {
		t.Fatalf("TTL = %v", issuer.TTL())
	}

	tok, _ := issuer.Issue("a@b.com")
	clock.t = start.Add(6 * time.Minute)
	if _, err := issuer.Verify(tok); !errors.Is(err, common.ErrTokenExpired) {
		t.Fatalf("expected expiry after custom ttl, got %v", err)
	}
}

func TestVerify_WrongSecret(t *testing.T) {
	t.Parallel()

	clock := &fakeClock{t: time.Now()}
	tok, err := newTestIssuer(t, "right-secret", clock).Issue("a@b.com")
	if err != nil {
		t.Fatalf("Issue error: %v", err)
	}

	_, err = newTestIssuer(t, "wrong-secret", clock).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_ExpiredWithWrongSecretIsInvalid(t *testing.T) {
	t.Parallel()

	start := time.Now()
	clock := &fakeClock{t: start}
	tok, _ := newTestIssuer(t, "right-secret", clock).Issue("a@b.com")

	clock.t = start.Add(2 * time.Hour)
	_, err := newTestIssuer(t, "wrong-secret", clock).Verify(tok)
	if !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("bad signature must win over expiry, got %v", err)
	}
}

func TestVerify_Malformed(t *testing.T) {
	t.Parallel()

	issuer := newTestIssuer(t, "k", &fakeClock{t: time.Now()})
	for _, tok := range []string{"", "not.a.jwt", "abc"} {
		if _, err := issuer.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
			t.Fatalf("Verify(%q): expected common.ErrInvalidToken, got %v", tok, err)
		}
	}
}

func TestVerify_RejectsNoneAlgorithm(t *testing.T) {
	t.Parallel()

	now := time.Now()
	tok, err := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		Email: "a@b.com",
	}).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("sign none: %v", err)
	}

	issuer := newTestIssuer(t, "k", &fakeClock{t: now})
	if _, err := issuer.Verify(tok); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("expected common.ErrInvalidToken, got %v", err)
	}
}

func TestVerify_RejectsMissingEmailAndExpiry(t *testing.T) {
	t.Parallel()

	now := time.Now()
	issuer := newTestIssuer(t, "k", &fakeClock{t: now})

	noEmail, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
	}).SignedString([]byte("k"))
	if _, err := issuer.Verify(noEmail); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("missing email: expected common.ErrInvalidToken, got %v", err)
	}

	noExp, _ := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{IssuedAt: jwt.NewNumericDate(now)},
		Email:            "a@b.com",
	}).SignedString([]byte("k"))
	if _, err := issuer.Verify(noExp); !errors.Is(err, common.ErrInvalidToken) {
		t.Fatalf("missing exp: expected common.ErrInvalidToken, got %v", err)
	}
}
