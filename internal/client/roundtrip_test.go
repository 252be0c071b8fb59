package client_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/avitale/badgeboard/internal/client"
	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/database"
	"github.com/avitale/badgeboard/internal/handler"
	"github.com/avitale/badgeboard/internal/middleware"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/router"
	"github.com/avitale/badgeboard/internal/storage"
)

// newBackend starts the real route table over a temp-file database so the
// client wrappers are exercised against actual handlers, not a fake.
func newBackend(t *testing.T) *httptest.Server {
	t.Helper()

	dir := t.TempDir()
	db, err := database.Open(filepath.Join(dir, "app.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	require.NoError(t, database.Bootstrap(context.Background(), db, "ADMIN001", "admin@empire.local", "adminpass", bcrypt.MinCost))

	assets, err := storage.NewAssetStore(filepath.Join(dir, "assets"))
	require.NoError(t, err)

	cfg := config.Config{
		Env:           "test",
		PublicBaseURL: "http://api.local",
		JWTSecret:     "roundtrip-test-secret",
		AccessTTLMin:  60,
		BcryptCost:    bcrypt.MinCost,
	}

	users := repository.NewUserRepo(db)
	logs := repository.NewWorkLogRepo(db)
	removals := repository.NewRemovalRepo(db)

	e := echo.New()
	router.RegisterRoutes(e, router.Handlers{
		Auth:      handler.NewAuthHandler(cfg, users),
		WorkLog:   handler.NewWorkLogHandler(logs, removals),
		Admin:     handler.NewAdminHandler(cfg, users, removals),
		Profile:   handler.NewProfileHandler(cfg, repository.NewProfileRepo(db), assets),
		Bacheca:   handler.NewBachecaHandler(cfg, repository.NewCharacterRepo(db), assets),
		JWTSecret: cfg.JWTSecret,
		Cache:     middleware.NewCache(config.CacheConfig{}, nil).Middleware(),
		Limiter:   middleware.NewTokenBucket(config.RateLimitConfig{}, nil),
	})

	srv := httptest.NewServer(e)
	t.Cleanup(srv.Close)
	return srv
}

func TestClientRoundTrip(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	api := client.New(srv.URL)
	code, err := api.Register(ctx, "Alice", "Verdi", "alice@empire.it", "pw123")
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(code, "USR"), code)

	alice, err := api.Login(ctx, code, "pw123")
	require.NoError(t, err)
	require.Equal(t, "user", alice.Role)

	require.NoError(t, api.AddHours(ctx, alice.ID, 2.5, "riprese pomeridiane"))
	logs, err := api.GetLogs(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, logs, 1)
	require.Equal(t, 2.5, logs[0].Hours)

	require.NoError(t, api.RequestRemoval(ctx, logs[0].ID, alice.ID, "inserite due volte"))

	admin := client.New(srv.URL)
	_, err = admin.Login(ctx, "ADMIN001", "adminpass")
	require.NoError(t, err)

	pending, err := admin.PendingRemovals(ctx)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	require.Equal(t, logs[0].ID, pending[0].WorkLogID)

	require.NoError(t, admin.HandleRemoval(ctx, pending[0].ID, "accepted", "confermato"))

	logs, err = api.GetLogs(ctx, alice.ID)
	require.NoError(t, err)
	require.Empty(t, logs)

	totals, err := admin.UsersHours(ctx)
	require.NoError(t, err)
	require.Len(t, totals, 2) // admin plus alice

	// A second decision surfaces the service's error envelope.
	err = admin.HandleRemoval(ctx, pending[0].ID, "rejected", "")
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusBadRequest, apiErr.Code)
	require.Equal(t, "request already decided", apiErr.Message)
}

func TestClientAdminCallsNeedAdminToken(t *testing.T) {
	srv := newBackend(t)
	ctx := context.Background()

	api := client.New(srv.URL)
	_, err := api.PendingRemovals(ctx)
	var apiErr *client.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusUnauthorized, apiErr.Code)

	code, err := api.Register(ctx, "Bruno", "Neri", "bruno@empire.it", "pw123")
	require.NoError(t, err)
	_, err = api.Login(ctx, code, "pw123")
	require.NoError(t, err)

	_, err = api.PendingRemovals(ctx)
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusForbidden, apiErr.Code)
}
