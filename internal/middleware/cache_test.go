package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/avitale/badgeboard/internal/config"
)

func newMiniredisClient(t *testing.T) *redis.Client {
	t.Helper()
	mr := miniredis.RunT(t)
	return redis.NewClient(&redis.Options{Addr: mr.Addr()})
}

func cacheConfig() config.CacheConfig {
	return config.CacheConfig{
		Enabled:      true,
		Methods:      map[string]bool{"GET": true},
		TTL:          15 * time.Second,
		Prefix:       "bb:cache",
		MaxBodyBytes: 1 << 20,
	}
}

func TestCacheServesSecondRequestFromCache(t *testing.T) {
	cc := NewCache(cacheConfig(), newMiniredisClient(t))

	hits := 0
	e := echo.New()
	e.GET("/list", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"hits": hits})
	}, cc.Middleware())

	first := httptest.NewRecorder()
	e.ServeHTTP(first, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusOK, first.Code)
	require.Equal(t, "MISS", first.Header().Get("X-Cache"))

	second := httptest.NewRecorder()
	e.ServeHTTP(second, httptest.NewRequest(http.MethodGet, "/list", nil))
	require.Equal(t, http.StatusOK, second.Code)
	require.Equal(t, "HIT", second.Header().Get("X-Cache"))
	require.Equal(t, 1, hits)
	require.JSONEq(t, first.Body.String(), second.Body.String())
}

func TestCacheKeyIncludesQuery(t *testing.T) {
	cc := NewCache(cacheConfig(), newMiniredisClient(t))

	e := echo.New()
	e.GET("/list", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"q": c.QueryParam("q")})
	}, cc.Middleware())

	a := httptest.NewRecorder()
	e.ServeHTTP(a, httptest.NewRequest(http.MethodGet, "/list?q=a", nil))
	b := httptest.NewRecorder()
	e.ServeHTTP(b, httptest.NewRequest(http.MethodGet, "/list?q=b", nil))

	require.Equal(t, "MISS", a.Header().Get("X-Cache"))
	require.Equal(t, "MISS", b.Header().Get("X-Cache"))
	require.NotEqual(t, a.Body.String(), b.Body.String())
}

func TestCacheInvalidateMovesReadersOffOldEntries(t *testing.T) {
	cc := NewCache(cacheConfig(), newMiniredisClient(t))

	body := "before"
	e := echo.New()
	e.GET("/list", func(c echo.Context) error {
		return c.String(http.StatusOK, body)
	}, cc.Middleware())

	get := func() *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/list", nil))
		return rec
	}

	require.Equal(t, "MISS", get().Header().Get("X-Cache"))
	rec := get()
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, "before", rec.Body.String())

	// A mutation bumps the namespace; the very next fetch must see the
	// new content instead of the still-unexpired old entry.
	body = "after"
	cc.Invalidate(context.Background())

	rec = get()
	require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	require.Equal(t, "after", rec.Body.String())

	rec = get()
	require.Equal(t, "HIT", rec.Header().Get("X-Cache"))
	require.Equal(t, "after", rec.Body.String())
}

func TestCacheSkipsErrors(t *testing.T) {
	cc := NewCache(cacheConfig(), newMiniredisClient(t))

	e := echo.New()
	e.GET("/boom", func(c echo.Context) error {
		return c.JSON(http.StatusInternalServerError, echo.Map{"status": "error"})
	}, cc.Middleware())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/boom", nil))
		require.Equal(t, "MISS", rec.Header().Get("X-Cache"))
	}
}

func TestCacheDisabledIsPassThrough(t *testing.T) {
	cc := NewCache(config.CacheConfig{Enabled: false}, nil)
	cc.Invalidate(context.Background()) // no-op, must not panic

	e := echo.New()
	hits := 0
	e.GET("/list", func(c echo.Context) error {
		hits++
		return c.JSON(http.StatusOK, echo.Map{"hits": hits})
	}, cc.Middleware())

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/list", nil))
		require.Empty(t, rec.Header().Get("X-Cache"))
	}
	require.Equal(t, 2, hits)
}

func TestEncodeDecodePayloadRoundTrip(t *testing.T) {
	hdr := http.Header{"Content-Type": []string{"application/json"}}
	payload, err := encodePayload(http.StatusOK, hdr, []byte(`{"ok":true}`))
	require.NoError(t, err)

	status, gotHdr, body, ok := decodePayload(payload)
	require.True(t, ok)
	require.Equal(t, http.StatusOK, status)
	require.Equal(t, "application/json", gotHdr.Get("Content-Type"))
	require.Equal(t, `{"ok":true}`, string(body))

	_, _, _, ok = decodePayload([]byte("short"))
	require.False(t, ok)
}
