// Package services contains server-side business logic. AuthService handles
// signup, login and verification of the session tokens it issues.
package services

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/common"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/models"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/users"
)

// dummyPassword is hashed when the service is built and verified against
// when the email is unknown, so a login for a missing account costs as much
// as a real one.
const dummyPassword = "gophauth-timing-equalizer"

// PasswordHasher is satisfied by *auth.PooledHasher.
type PasswordHasher interface {
	Hash(ctx context.Context, password string) (string, error)
	Verify(ctx context.Context, password, hash string) (bool, error)
	NeedsRehash(hash string) bool
}

// TokenIssuer is satisfied by *auth.TokenIssuer.
type TokenIssuer interface {
	Issue(email string) (string, error)
	Verify(token string) (*auth.Claims, error)
}

// AuthResult is returned by successful Signup and Login calls.
type AuthResult struct {
	Email string
	Token string
}

// Principal is the identity proven by a valid session token.
type Principal struct {
	Email     string
	ExpiresAt time.Time
}

type AuthService struct {
	users   users.Repository
	hasher  PasswordHasher
	tokens  TokenIssuer
	log     logging.Logger
	metrics *metrics.Metrics

	dummyMu   sync.Mutex
	dummyHash string
}

// NewAuthService wires the service and precomputes the dummy hash used for
// unknown emails. m may be nil.
func NewAuthService(repo users.Repository, h PasswordHasher, t TokenIssuer, log logging.Logger, m *metrics.Metrics) *AuthService {
	s := &AuthService{
		users:   repo,
		hasher:  h,
		tokens:  t,
		log:     logging.ForModule(log, "auth_service"),
		metrics: m,
	}
	s.dummy(context.Background())
	return s
}

// Signup registers email with a hash of password and returns a fresh token.
func (s *AuthService) Signup(ctx context.Context, email, password string) (*AuthResult, error) {
	res, err := s.signup(ctx, email, password)
	s.record("signup", err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) signup(ctx context.Context, email, password string) (*AuthResult, *AuthError) {
	if verr := ValidateCredentials(email, password); verr != nil {
		return nil, verr
	}

	exists, err := s.users.Exists(ctx, email)
	if err != nil {
		s.log.Error(ctx, "signup: lookup failed", "error", err)
		return nil, errInternal()
	}
	if exists {
		return nil, newAuthError(KindAlreadyExists, MsgUserExists)
	}

	start := time.Now()
	hash, err := s.hasher.Hash(ctx, password)
	s.metrics.RecordHash("hash", time.Since(start))
	if err != nil {
		s.log.Error(ctx, "signup: hashing failed", "error", err)
		return nil, errInternal()
	}

	if _, err := s.users.Insert(ctx, &models.User{Email: email, PasswordHash: hash}); err != nil {
		// Another signup for the same email won the race.
		if errors.Is(err, common.ErrorAlreadyExists) {
			return nil, newAuthError(KindAlreadyExists, MsgUserExists)
		}
		s.log.Error(ctx, "signup: insert failed", "error", err)
		return nil, errInternal()
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		s.log.Error(ctx, "signup: token issue failed", "error", err)
		return nil, errInternal()
	}

	s.log.Info(ctx, "user signed up", "email", email)
	return &AuthResult{Email: email, Token: token}, nil
}

// Login checks password against the stored hash for email. Unknown email
// and wrong password fail identically.
func (s *AuthService) Login(ctx context.Context, email, password string) (*AuthResult, error) {
	res, err := s.login(ctx, email, password)
	s.record("login", err)
	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *AuthService) login(ctx context.Context, email, password string) (*AuthResult, *AuthError) {
	if verr := ValidateCredentials(email, password); verr != nil {
		return nil, verr
	}

	user, err := s.users.FindByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, common.ErrorNotFound) {
			s.log.Error(ctx, "login: lookup failed", "error", err)
			return nil, errInternal()
		}
		s.verifyDummy(ctx, password)
		return nil, newAuthError(KindInvalidCredentials, MsgInvalidCredentials)
	}

	start := time.Now()
	ok, err := s.hasher.Verify(ctx, password, user.PasswordHash)
	s.metrics.RecordHash("verify", time.Since(start))
	if err != nil {
		s.log.Error(ctx, "login: verify failed", "error", err)
		return nil, errInternal()
	}
	if !ok {
		return nil, newAuthError(KindInvalidCredentials, MsgInvalidCredentials)
	}

	if s.hasher.NeedsRehash(user.PasswordHash) {
		s.log.Warn(ctx, "stored hash uses outdated parameters", "user_id", user.ID)
	}

	token, err := s.tokens.Issue(email)
	if err != nil {
		s.log.Error(ctx, "login: token issue failed", "error", err)
		return nil, errInternal()
	}

	s.log.Info(ctx, "user logged in", "email", email)
	return &AuthResult{Email: email, Token: token}, nil
}

// Authenticate resolves a bearer token to the principal it was issued for.
func (s *AuthService) Authenticate(ctx context.Context, token string) (*Principal, error) {
	if token == "" {
		s.metrics.RecordAuth("authenticate", metrics.OutcomeTokenInvalid)
		return nil, newAuthError(KindTokenInvalid, MsgTokenMissing)
	}

	claims, err := s.tokens.Verify(token)
	if err != nil {
		var aerr *AuthError
		if errors.Is(err, common.ErrTokenExpired) {
			aerr = newAuthError(KindTokenExpired, MsgTokenExpired)
		} else {
			aerr = newAuthError(KindTokenInvalid, MsgTokenInvalid)
		}
		s.log.Debug(ctx, "token rejected", "reason", aerr.Kind.String())
		s.record("authenticate", aerr)
		return nil, aerr
	}

	s.record("authenticate", nil)
	p := &Principal{Email: claims.Email}
	if claims.ExpiresAt != nil {
		p.ExpiresAt = claims.ExpiresAt.Time
	}
	return p, nil
}

func (s *AuthService) verifyDummy(ctx context.Context, password string) {
	hash := s.dummy(ctx)
	if hash == "" {
		return
	}
	_, _ = s.hasher.Verify(ctx, password, hash)
}

// dummy returns the dummy hash, computing it again if an earlier attempt
// failed.
func (s *AuthService) dummy(ctx context.Context) string {
	s.dummyMu.Lock()
	defer s.dummyMu.Unlock()

	if s.dummyHash == "" {
		h, err := s.hasher.Hash(ctx, dummyPassword)
		if err != nil {
			s.log.Warn(ctx, "dummy hash unavailable", "error", err)
			return ""
		}
		s.dummyHash = h
	}
	return s.dummyHash
}

func (s *AuthService) record(op string, err *AuthError) {
	if err == nil {
		s.metrics.RecordAuth(op, metrics.OutcomeSuccess)
		return
	}
	s.metrics.RecordAuth(op, err.Kind.String())
}
