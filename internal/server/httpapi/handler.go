// Package httpapi exposes AuthService over HTTP/JSON with gin.
package httpapi

import (
	"context"
	"errors"
	"net/http"

	"github.com/dmitrijs2005/gophauth/internal/logging"
	pb "github.com/dmitrijs2005/gophauth/internal/proto"
	"github.com/dmitrijs2005/gophauth/internal/server/services"
	"github.com/gin-gonic/gin"
)

// AuthService is the subset of *services.AuthService the handlers need.
type AuthService interface {
	Signup(ctx context.Context, email, password string) (*services.AuthResult, error)
	Login(ctx context.Context, email, password string) (*services.AuthResult, error)
	Authenticate(ctx context.Context, token string) (*services.Principal, error)
}

type Handler struct {
	auth   AuthService
	logger logging.Logger
}

func NewHandler(svc AuthService, l logging.Logger) *Handler {
	return &Handler{auth: svc, logger: l}
}

// Signup handles POST /api/signup.
func (h *Handler) Signup(c *gin.Context) {
	var req pb.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, services.MsgFieldsRequired)
		return
	}

	res, err := h.auth.Signup(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.failWith(c, err)
		return
	}
	c.JSON(http.StatusCreated, pb.AuthResponse{Success: true, Token: res.Token})
}

// Login handles POST /api/login.
func (h *Handler) Login(c *gin.Context) {
	var req pb.CredentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, services.MsgFieldsRequired)
		return
	}

	res, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		h.failWith(c, err)
		return
	}
	c.JSON(http.StatusOK, pb.AuthResponse{Success: true, Token: res.Token})
}

// LandingPage serves the protected page. RequireToken must run first.
func (h *Handler) LandingPage(c *gin.Context) {
	p, ok := PrincipalFromContext(c)
	if !ok {
		fail(c, http.StatusUnauthorized, services.MsgTokenMissing)
		return
	}
	c.JSON(http.StatusOK, pb.LandingPageResponse{
		Success: true,
		Message: pb.LandingPageMessage,
		Email:   p.Email,
	})
}

func (h *Handler) failWith(c *gin.Context, err error) {
	var aerr *services.AuthError
	if errors.As(err, &aerr) {
		fail(c, aerr.Kind.HTTPStatus(), aerr.Message)
		return
	}
	h.logger.Error(c.Request.Context(), "unexpected service error", "error", err)
	fail(c, http.StatusInternalServerError, services.MsgInternal)
}

func fail(c *gin.Context, status int, msg string) {
	c.AbortWithStatusJSON(status, pb.AuthResponse{Success: false, Message: msg})
}

func handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "gophauth",
	})
}
