package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/avitale/badgeboard/internal/repository"
)

// WorkLogHandler serves the hour-logging endpoints used by every employee.
type WorkLogHandler struct {
	Logs     *repository.WorkLogRepo
	Removals *repository.RemovalRepo
}

func NewWorkLogHandler(logs *repository.WorkLogRepo, removals *repository.RemovalRepo) *WorkLogHandler {
	return &WorkLogHandler{Logs: logs, Removals: removals}
}

type addHoursReq struct {
	UserID int64   `json:"user_id"`
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

type workLogItem struct {
	ID     int64   `json:"id"`
	UserID int64   `json:"user_id"`
	Date   string  `json:"date"`
	Hours  float64 `json:"hours"`
	Reason string  `json:"reason"`
}

type requestRemovalReq struct {
	WorkLogID   int64  `json:"work_log_id"`
	RequesterID int64  `json:"requester_id"`
	Reason      string `json:"reason"`
}

// AddHours inserts a work log stamped with the current server time.  The
// hours value is recorded as sent; only the client validates that it is
// numeric.
func (h *WorkLogHandler) AddHours(c echo.Context) error {
	var req addHoursReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Logs.Add(ctx, req.UserID, req.Hours, req.Reason); err != nil {
		return errJSON(c, http.StatusInternalServerError, "insert failed")
	}
	return okJSON(c)
}

// GetLogs returns all work logs of one user, newest first.
func (h *WorkLogHandler) GetLogs(c echo.Context) error {
	userID, err := paramID(c, "user_id")
	if err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid user id")
	}

	logs, err := h.Logs.ListByUser(c.Request().Context(), userID)
	if err != nil {
		return errJSON(c, http.StatusInternalServerError, "query failed")
	}

	out := make([]workLogItem, 0, len(logs))
	for _, w := range logs {
		out = append(out, workLogItem{ID: w.ID, UserID: w.UserID, Date: w.Date, Hours: w.Hours, Reason: w.Reason})
	}
	return c.JSON(http.StatusOK, out)
}

// RequestRemoval files a pending removal request against one of the
// requester's own logs; the log itself is untouched until an admin
// accepts.
func (h *WorkLogHandler) RequestRemoval(c echo.Context) error {
	var req requestRemovalReq
	if err := c.Bind(&req); err != nil {
		return errJSON(c, http.StatusBadRequest, "invalid body")
	}

	ctx, cancel := context.WithTimeout(c.Request().Context(), 5*time.Second)
	defer cancel()

	if _, err := h.Removals.Create(ctx, req.WorkLogID, req.RequesterID, req.Reason); err != nil {
		return errJSON(c, http.StatusInternalServerError, "insert failed")
	}
	return okJSON(c)
}
