package handler

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/config"
	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/queue"
	"github.com/avitale/badgeboard/internal/repository"
	"github.com/avitale/badgeboard/internal/service"
)

// AdminHandler serves the admin dashboard: pending removal requests, the
// decision endpoint and the per-user hour totals.  All routes sit behind
// the JWT and admin-role middleware.
type AdminHandler struct {
	Cfg      config.Config
	Users    *repository.UserRepo
	Removals *repository.RemovalRepo
}

func NewAdminHandler(cfg config.Config, users *repository.UserRepo, removals *repository.RemovalRepo) *AdminHandler {
	return &AdminHandler{Cfg: cfg, Users: users, Removals: removals}
}

type pendingRemovalItem struct {
	ID          int64   `json:"id"`
	WorkLogID   int64   `json:"work_log_id"`
	RequesterID int64   `json:"requester_id"`
	Reason      string  `json:"reason"`
	Status      string  `json:"status"`
	RequestDate string  `json:"request_date"`
	WorkDate    string  `json:"work_date"`
	Hours       float64 `json:"hours"`
}

type handleRemovalReq struct {
	RequestID   int64  `json:"request_id"`
	Action      string `json:"action"`
	AdminReason string `json:"admin_reason"`
}

type userHoursItem struct {
	ID         int64   `json:"id"`
	Name       string  `json:"name"`
	Surname    string  `json:"surname"`
	Email      string  `json:"email"`
	TotalHours float64 `json:"total_hours"`
}

// ListRemovalRequests returns every pending request with a snapshot of the
// targeted work log.
func (h *AdminHandler) ListRemovalRequests(c echo.Context) error {
	pending, err := h.Removals.ListPending(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}

	out := make([]pendingRemovalItem, 0, len(pending))
	for _, p := range pending {
		out = append(out, pendingRemovalItem{
			ID:          p.ID,
			WorkLogID:   p.WorkLogID,
			RequesterID: p.RequesterID,
			Reason:      p.Reason,
			Status:      p.Status,
			RequestDate: p.RequestDate,
			WorkDate:    p.WorkDate,
			Hours:       p.Hours,
		})
	}
	return c.JSON(http.StatusOK, out)
}

// HandleRemoval applies the admin's accept/reject decision.  Accepting
// deletes the targeted work log; a request that already left pending is
// reported as an error and nothing further is deleted.
func (h *AdminHandler) HandleRemoval(c echo.Context) error {
	adminID, err := getUserID(c)
	if err != nil {
		return errJSON(c, http.StatusUnauthorized, "unauthorized")
	}

	var req handleRemovalReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}
	if req.Action != model.RemovalAccepted && req.Action != model.RemovalRejected {
		return errJSON(c, http.StatusBadRequest, "action must be accepted or rejected")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if err := h.Removals.Decide(ctx, req.RequestID, req.Action, adminID, req.AdminReason); err != nil {
		return repoError(c, err, "decision failed")
	}

	if h.Cfg.AuditEvents {
		ev := queue.AuditEvent{
			ActorID: adminID,
			Action:  "removal_" + req.Action,
			Detail:  fmt.Sprintf("request=%d", req.RequestID),
		}
		// Broker hiccups must not slow down or fail the decision.
		go func() { _ = service.PublishAudit(context.Background(), ev) }()
	}
	return okJSON(c)
}

// UsersHours returns every user with the sum of their logged hours.
func (h *AdminHandler) UsersHours(c echo.Context) error {
	totals, err := h.Users.ListWithTotalHours(c.Request().Context())
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}

	out := make([]userHoursItem, 0, len(totals))
	for _, t := range totals {
		out = append(out, userHoursItem{ID: t.ID, Name: t.Name, Surname: t.Surname, Email: t.Email, TotalHours: t.TotalHours})
	}
	return c.JSON(http.StatusOK, out)
}
