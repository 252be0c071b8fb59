package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/utils"
)

type UserRepo struct{ DB *sql.DB }

func NewUserRepo(db *sql.DB) *UserRepo { return &UserRepo{DB: db} }

// Create inserts a user with a bcrypt-hashed password and returns its ID.
// The caller supplies the generated login code.
func (r *UserRepo) Create(ctx context.Context, name, surname, email, password, role, code string, cost int) (int64, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	hash, err := utils.HashPassword(password, cost)
	if err != nil {
		return 0, err
	}
	res, err := r.DB.ExecContext(ctx,
		"INSERT INTO users (name, surname, email, password, role, code) VALUES (?,?,?,?,?,?)",
		name, surname, email, hash, role, code)
	if err != nil {
		if msg := err.Error(); strings.Contains(msg, "UNIQUE constraint failed") {
			if strings.Contains(msg, "users.code") {
				return 0, ErrCodeExists
			}
			return 0, ErrEmailExists
		}
		return 0, err
	}
	return res.LastInsertId()
}

// GetByIdentifier fetches a user whose code or email equals the given
// identifier.  Emails are matched case-insensitively via normalization at
// insert time; codes are matched verbatim.
func (r *UserRepo) GetByIdentifier(ctx context.Context, identifier string) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,surname,email,password,role,code FROM users WHERE code = ? OR email = ? LIMIT 1",
		identifier, strings.ToLower(strings.TrimSpace(identifier))).
		Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Role, &u.Code)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// GetByID fetches a user by id.
func (r *UserRepo) GetByID(ctx context.Context, id int64) (model.User, error) {
	var u model.User
	err := r.DB.QueryRowContext(ctx,
		"SELECT id,name,surname,email,password,role,code FROM users WHERE id = ? LIMIT 1",
		id).
		Scan(&u.ID, &u.Name, &u.Surname, &u.Email, &u.PasswordHash, &u.Role, &u.Code)
	if err == sql.ErrNoRows {
		return u, ErrNotFound
	}
	return u, err
}

// ListWithTotalHours returns every user joined with the sum of hours over
// their work logs, zero when they have none.
func (r *UserRepo) ListWithTotalHours(ctx context.Context) ([]model.UserHours, error) {
	rows, err := r.DB.QueryContext(ctx, `
		SELECT u.id, u.name, u.surname, u.email,
		       COALESCE(SUM(w.hours), 0) AS total_hours
		FROM users u
		LEFT JOIN work_logs w ON u.id = w.user_id
		GROUP BY u.id
		ORDER BY u.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.UserHours{}
	for rows.Next() {
		var uh model.UserHours
		if err := rows.Scan(&uh.ID, &uh.Name, &uh.Surname, &uh.Email, &uh.TotalHours); err != nil {
			return nil, err
		}
		out = append(out, uh)
	}
	return out, rows.Err()
}
