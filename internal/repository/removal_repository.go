package repository

import (
	"context"
	"database/sql"

	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/utils"
)

type RemovalRepo struct{ DB *sql.DB }

func NewRemovalRepo(db *sql.DB) *RemovalRepo { return &RemovalRepo{DB: db} }

// Create inserts a pending removal request stamped with the current time.
func (r *RemovalRepo) Create(ctx context.Context, workLogID, requesterID int64, reason string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO removal_requests (work_log_id, requester_id, reason, status, request_date) VALUES (?,?,?,?,?)",
		workLogID, requesterID, reason, model.RemovalPending, utils.NowStamp())
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListPending returns every pending request joined with a snapshot of the
// targeted work log's date and hours.
func (r *RemovalRepo) ListPending(ctx context.Context) ([]model.PendingRemoval, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT r.id, r.work_log_id, r.requester_id, r.reason, r.status,
		       COALESCE(r.admin_id, 0), COALESCE(r.admin_reason, ''),
		       COALESCE(r.request_date, ''), COALESCE(r.decision_date, ''),
		       w.date, w.hours
		FROM removal_requests r
		JOIN work_logs w ON r.work_log_id = w.id
		WHERE r.status = ?`, model.RemovalPending)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.PendingRemoval{}
	for rows.Next() {
		var p model.PendingRemoval
		if err := rows.Scan(&p.ID, &p.WorkLogID, &p.RequesterID, &p.Reason, &p.Status,
			&p.AdminID, &p.AdminReason, &p.RequestDate, &p.DecisionDate,
			&p.WorkDate, &p.Hours); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Decide applies the admin decision to a pending request.  The WHERE guard
// on status makes the transition one-way: once a request leaves pending,
// a second call affects zero rows and no further work log is ever deleted.
// When the decision is accepted the referenced work log is removed.
func (r *RemovalRepo) Decide(ctx context.Context, requestID int64, action string, adminID int64, adminReason string) error {
	res, err := r.DB.ExecContext(ctx,
		"UPDATE removal_requests SET status=?, admin_id=?, admin_reason=?, decision_date=? WHERE id=? AND status=?",
		action, adminID, adminReason, utils.NowStamp(), requestID, model.RemovalPending)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		// Distinguish a decided request from a missing one.
		var status string
		err := r.DB.QueryRowContext(ctx,
			"SELECT status FROM removal_requests WHERE id = ?", requestID).Scan(&status)
		if err == sql.ErrNoRows {
			return ErrNotFound
		}
		if err != nil {
			return err
		}
		return ErrAlreadyDecided
	}

	if action == model.RemovalAccepted {
		var workLogID int64
		if err := r.DB.QueryRowContext(ctx,
			"SELECT work_log_id FROM removal_requests WHERE id = ?", requestID).Scan(&workLogID); err != nil {
			return err
		}
		if _, err := r.DB.ExecContext(ctx, "DELETE FROM work_logs WHERE id = ?", workLogID); err != nil {
			return err
		}
	}
	return nil
}
