package repository

import (
	"context"
	"database/sql"

	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/utils"
)

type WorkLogRepo struct{ DB *sql.DB }

func NewWorkLogRepo(db *sql.DB) *WorkLogRepo { return &WorkLogRepo{DB: db} }

// Add inserts a work log stamped with the current server time and returns
// its ID.  Hours are stored as given; the server does not second-guess the
// value.
func (r *WorkLogRepo) Add(ctx context.Context, userID int64, hours float64, reason string) (int64, error) {
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO work_logs (user_id, date, hours, reason) VALUES (?,?,?,?)",
		userID, utils.NowStamp(), hours, reason)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// ListByUser returns all logs of one user ordered by date, newest first.
func (r *WorkLogRepo) ListByUser(ctx context.Context, userID int64) ([]model.WorkLog, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT id, user_id, date, hours, reason FROM work_logs WHERE user_id = ? ORDER BY date DESC",
		userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.WorkLog{}
	for rows.Next() {
		var w model.WorkLog
		if err := rows.Scan(&w.ID, &w.UserID, &w.Date, &w.Hours, &w.Reason); err != nil {
			return nil, err
		}
		out = append(out, w)
	}
	return out, rows.Err()
}
