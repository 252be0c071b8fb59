package handler // handler defines http handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/repository"
)

// assetURL builds the absolute URL of a stored asset.  The v token is the
// owning row's last_modified epoch and exists purely to defeat client-side
// caches after a re-upload.
func assetURL(base, rel string, v int64) string {
	return fmt.Sprintf("%s/profile_image/%s?v=%d", strings.TrimRight(base, "/"), rel, v)
}

// assetVersion extracts the upload epoch embedded in a stored file name
// ({prefix}_{unixSeconds}{ext}) so repeated fetches of an unchanged asset
// keep the same URL and stay client-cacheable.  Names without the suffix
// version as zero.
func assetVersion(rel string) int64 {
	base := rel
	if i := strings.LastIndex(base, "/"); i >= 0 {
		base = base[i+1:]
	}
	if i := strings.LastIndex(base, "."); i >= 0 {
		base = base[:i]
	}
	i := strings.LastIndex(base, "_")
	if i < 0 {
		return 0
	}
	n, err := strconv.ParseInt(base[i+1:], 10, 64)
	if err != nil {
		return 0
	}
	return n
}

// Health reports service liveness for monitors and the desktop client's
// connectivity check.
func Health(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// errJSON writes the uniform error envelope.  Every failure leaves the
// service as {status:"error", message}, never a raw error or stack trace.
func errJSON(c echo.Context, code int, msg string) error {
	return c.JSON(code, echo.Map{"status": "error", "message": msg})
}

// okJSON writes a bare success envelope.
func okJSON(c echo.Context) error {
	return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
}

// paramID parses the numeric path parameter with the given name.
func paramID(c echo.Context, name string) (int64, error) {
	return strconv.ParseInt(c.Param(name), 10, 64)
}

// getUserID extracts the authenticated user's id injected by the JWT
// middleware.  JWT numeric claims arrive as float64; tests may store an
// int64 directly.
func getUserID(c echo.Context) (int64, error) {
	switch t := c.Get("user_id").(type) {
	case int64:
		return t, nil
	case float64:
		return int64(t), nil
	case int:
		return int64(t), nil
	case string:
		if n, err := strconv.ParseInt(t, 10, 64); err == nil {
			return n, nil
		}
	}
	return 0, errors.New("invalid user_id in context")
}

// repoError maps repository sentinel errors to their HTTP responses and
// falls back to a generic 500 without leaking the underlying error.
func repoError(c echo.Context, err error, fallback string) error {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return errJSON(c, http.StatusNotFound, "not found")
	case errors.Is(err, repository.ErrAlreadyDecided):
		return errJSON(c, http.StatusBadRequest, "request already decided")
	case errors.Is(err, repository.ErrEmailExists):
		return errJSON(c, http.StatusBadRequest, "email already exists")
	case errors.Is(err, repository.ErrCodeExists):
		return errJSON(c, http.StatusBadRequest, "login code already exists, retry")
	default:
		return errJSON(c, http.StatusInternalServerError, fallback)
	}
}
