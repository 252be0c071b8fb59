package handler

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/utils"
)

// AuthHandler bundles dependencies for the login and register endpoints.
type AuthHandler struct {
	Cfg   config.Config
	Users *repository.UserRepo
}

func NewAuthHandler(cfg config.Config, u *repository.UserRepo) *AuthHandler {
	return &AuthHandler{Cfg: cfg, Users: u}
}

// ----- DTOs -----

type loginReq struct {
	// The desktop client sends the badge code or the email in the same
	// field, historically named "code".
	Code     string `json:"code"`
	Password string `json:"password"`
}

type loginResp struct {
	Status      string `json:"status"`
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Surname     string `json:"surname"`
	Email       string `json:"email"`
	Role        string `json:"role"`
	Code        string `json:"code"`
	AccessToken string `json:"access_token"`
	TokenExp    int64  `json:"token_expires"`
}

type registerReq struct {
	Name     string `json:"name"`
	Surname  string `json:"surname"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Login verifies an identifier (code or email) and password pair and
// returns the user record minus the password, plus a signed access token
// for the admin surface.
func (h *AuthHandler) Login(c echo.Context) error {
	var req loginReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	identifier := strings.TrimSpace(req.Code)
	if identifier == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "credentials required")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	u, err := h.Users.GetByIdentifier(ctx, identifier)
	if err != nil {
		if err == repository.ErrNotFound {
			return errJSON(c, http.StatusUnauthorized, "invalid credentials")
		}
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}
	if !utils.VerifyPassword(u.PasswordHash, req.Password) {
		return errJSON(c, http.StatusUnauthorized, "invalid credentials")
	}

	access, err := utils.NewAccessToken(h.Cfg.JWTSecret, u.ID, u.Role, h.Cfg.AccessTTLMin)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "issue token failed")
	}

	return c.JSON(http.StatusOK, loginResp{
		Status:      "ok",
		ID:          u.ID,
		Name:        u.Name,
		Surname:     u.Surname,
		Email:       u.Email,
		Role:        u.Role,
		Code:        u.Code,
		AccessToken: access.Token,
		TokenExp:    access.Exp.Unix(),
	})
}

// Register creates a user with role "user" and a generated login code.
// All four fields are required; a duplicate email surfaces as a
// user-facing error, not a crash.
func (h *AuthHandler) Register(c echo.Context) error {
	var req registerReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Surname = strings.TrimSpace(req.Surname)
	req.Email = strings.ToLower(strings.TrimSpace(req.Email))
	if req.Name == "" || req.Surname == "" || req.Email == "" || req.Password == "" {
		return errJSON(c, http.StatusBadRequest, "missing fields")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	code := fmt.Sprintf("USR%d", time.Now().Unix())
	if _, err := h.Users.Create(ctx, req.Name, req.Surname, req.Email, req.Password,
		model.RoleUser, code, h.Cfg.BcryptCost); err != nil {
		switch err {
		case repository.ErrEmailExists:
			return errJSON(c, http.StatusBadRequest, "email already exists")
		case repository.ErrCodeExists:
			// Codes are second-granular; a same-second registration race
			// surfaces as its own message instead of blaming the email.
			return errJSON(c, http.StatusBadRequest, "login code already exists, retry")
		}
		return errJSON(c, http.StatusInternalServerError, "create user failed")
	}

	return c.JSON(http.StatusOK, echo.Map{"status": "ok", "code": code})
}
