package repository

import (
	"context"
	"database/sql"

	"github.com/avitale/badgeboard/internal/model"
)

type ProfileRepo struct{ DB *sql.DB }

func NewProfileRepo(db *sql.DB) *ProfileRepo { return &ProfileRepo{DB: db} }

// Get fetches the profile row of a user.  ErrNotFound means the user has
// never saved a profile, which callers render as an empty profile.
func (r *ProfileRepo) Get(ctx context.Context, userID int64) (model.UserProfile, error) {
	var p model.UserProfile
	err := r.DB.QueryRowContext(ctx,
		"SELECT user_id, COALESCE(nickname,''), COALESCE(image_path,'') FROM user_profiles WHERE user_id = ?",
		userID).Scan(&p.UserID, &p.Nickname, &p.ImagePath)
	if err == sql.ErrNoRows {
		return p, ErrNotFound
	}
	return p, err
}

// Upsert replaces the whole profile row.  Saves are wholesale: a missing
// field clears the column rather than keeping the previous value.
func (r *ProfileRepo) Upsert(ctx context.Context, p model.UserProfile) error {
	_, err := r.DB.ExecContext(ctx,
		"INSERT OR REPLACE INTO user_profiles (user_id, nickname, image_path) VALUES (?,?,?)",
		p.UserID, p.Nickname, p.ImagePath)
	return err
}
