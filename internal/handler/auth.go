package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/iliyamo/show-catalog/internal/middleware"
	"github.com/iliyamo/show-catalog/internal/service"
)

// AuthHandler bundles dependencies for auth endpoints.
type AuthHandler struct {
	Auth *service.Authenticator
}

func NewAuthHandler(a *service.Authenticator) *AuthHandler {
	return &AuthHandler{Auth: a}
}

type loginReq struct {
	Email    string `json:"email" form:"email"`
	Password string `json:"password" form:"password"`
}

type loginResp struct {
	Message string    `json:"message"`
	Token   string    `json:"token"`
	Expires time.Time `json:"expires"`
}

// Login: verify credentials and return a signed token.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{"message": "invalid body"})
	}

	ctx, cancel := dbCtx(c)
	defer cancel()

	tok, err := h.Auth.Login(ctx, req.Email, req.Password)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(http.StatusOK, loginResp{
		Message: "Login successful",
		Token:   tok.Token,
		Expires: tok.Exp,
	})
}

// Me: simple protected endpoint.
func (h *AuthHandler) Me(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"user_id": c.Get(middleware.UserIDKey)})
}
