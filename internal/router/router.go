package router // package router defines how HTTP routes are registered for the API

import (
	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/handler"
	"github.com/avitale/badgeboard/internal/middleware"
)

// Handlers bundles everything the route table needs.  Cache and Limiter
// are the Redis-backed middlewares; when Redis is absent their
// constructors hand back pass-throughs, so both are always non-nil.
type Handlers struct {
	Auth    *handler.AuthHandler
	WorkLog *handler.WorkLogHandler
	Admin   *handler.AdminHandler
	Profile *handler.ProfileHandler
	Bacheca *handler.BachecaHandler

	JWTSecret string
	Cache     echo.MiddlewareFunc
	Limiter   echo.MiddlewareFunc
}

// RegisterRoutes wires the whole HTTP surface.  The paths mirror what the
// desktop client has always called; only /admin is gated behind the JWT
// and the admin role.
func RegisterRoutes(e *echo.Echo, h Handlers) {
	e.GET("/healthz", handler.Health)

	// Session and hour logging.
	e.POST("/login", h.Auth.Login, h.Limiter)
	e.POST("/register", h.Auth.Register, h.Limiter)
	e.POST("/add_hours", h.WorkLog.AddHours)
	e.GET("/get_logs/:user_id", h.WorkLog.GetLogs)
	e.POST("/request_removal", h.WorkLog.RequestRemoval)

	// Profiles.
	e.GET("/user_profile/:user_id", h.Profile.Get)
	e.POST("/user_profile/:user_id", h.Profile.Save)

	// Admin dashboard, JWT + role protected.
	admin := e.Group("/admin")
	admin.Use(middleware.JWTAuth(h.JWTSecret))
	admin.Use(middleware.RequireRole("admin"))
	admin.GET("/removal_requests", h.Admin.ListRemovalRequests)
	admin.POST("/handle_removal", h.Admin.HandleRemoval)
	admin.GET("/users_hours", h.Admin.UsersHours)

	// Noticeboard.
	e.POST("/bacheca/character", h.Bacheca.Create)
	e.GET("/bacheca/characters", h.Bacheca.List, h.Cache)
	e.GET("/bacheca/last_update", h.Bacheca.LastUpdate)
	e.PUT("/bacheca/character/:id", h.Bacheca.Update)
	e.DELETE("/bacheca/character/:id", h.Bacheca.Delete)
	// Alternate verb for clients that cannot issue DELETE.
	e.POST("/bacheca/character/:id/delete", h.Bacheca.Delete)

	e.POST("/bacheca/character/:id/upload_script", h.Bacheca.UploadScript)
	e.POST("/bacheca/character/:id/upload_image", h.Bacheca.UploadImage)
	e.POST("/bacheca/character/:id/upload_mov", h.Bacheca.UploadMov)
	e.GET("/bacheca/character/:id/download_script", h.Bacheca.DownloadScript)
	e.GET("/bacheca/character/:id/download_mov", h.Bacheca.DownloadMov)

	// Generic asset fetch; the path keeps its historical name.
	e.GET("/profile_image/*", h.Bacheca.ServeAsset)
}
