package repository

import (
	"context"
	"database/sql"
	"strings"

	"github.com/avitale/badgeboard/internal/model"
)

type CharacterRepo struct{ DB *sql.DB }

func NewCharacterRepo(db *sql.DB) *CharacterRepo { return &CharacterRepo{DB: db} }

const characterColumns = `id, COALESCE(series_title,''), COALESCE(character_name,''),
	COALESCE(role,''), COALESCE(image_path,''), COALESCE(script_text,''),
	COALESCE(script_path,''), COALESCE(expiry_date,''), COALESCE(mov_path,''),
	COALESCE(created_by,0), COALESCE(last_modified,'')`

func scanCharacter(row interface{ Scan(...any) error }) (model.Character, error) {
	var ch model.Character
	err := row.Scan(&ch.ID, &ch.SeriesTitle, &ch.Name, &ch.Role, &ch.ImagePath,
		&ch.ScriptText, &ch.ScriptPath, &ch.ExpiryDate, &ch.MovPath,
		&ch.CreatedBy, &ch.LastModified)
	return ch, err
}

// Create inserts a noticeboard character and returns its ID.  LastModified
// must already be stamped by the caller so the same value can be echoed in
// the response.
func (r *CharacterRepo) Create(ctx context.Context, ch model.Character) (int64, error) {
	res, err := r.DB.ExecContext(ctx, `
		INSERT INTO bacheca_characters
			(series_title, character_name, role, image_path, script_text, expiry_date, created_by, last_modified)
		VALUES (?,?,?,?,?,?,?,?)`,
		ch.SeriesTitle, ch.Name, ch.Role, ch.ImagePath, ch.ScriptText,
		ch.ExpiryDate, ch.CreatedBy, ch.LastModified)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// List returns every character ordered by series title, then name, the
// order the board view expects when partitioning into tabs.
func (r *CharacterRepo) List(ctx context.Context) ([]model.Character, error) {
	rows, err := r.DB.QueryContext(ctx,
		"SELECT "+characterColumns+" FROM bacheca_characters ORDER BY series_title, character_name")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []model.Character{}
	for rows.Next() {
		ch, err := scanCharacter(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, ch)
	}
	return out, rows.Err()
}

// GetByID fetches one character.
func (r *CharacterRepo) GetByID(ctx context.Context, id int64) (model.Character, error) {
	ch, err := scanCharacter(r.DB.QueryRowContext(ctx,
		"SELECT "+characterColumns+" FROM bacheca_characters WHERE id = ?", id))
	if err == sql.ErrNoRows {
		return ch, ErrNotFound
	}
	return ch, err
}

// LastUpdate returns the maximum last_modified across all rows, or the
// empty string when the board is empty.  Pollers compare this token
// against the one they last saw to decide whether a full reload is needed.
func (r *CharacterRepo) LastUpdate(ctx context.Context) (string, error) {
	var last sql.NullString
	err := r.DB.QueryRowContext(ctx,
		"SELECT MAX(last_modified) FROM bacheca_characters").Scan(&last)
	if err != nil {
		return "", err
	}
	return last.String, nil
}

// Patch updates the provided subset of editable fields plus last_modified.
// The column list is fixed here; user input only ever lands in the
// parameter slots.
func (r *CharacterRepo) Patch(ctx context.Context, id int64, patch model.CharacterPatch, now string) error {
	sets := []string{}
	args := []any{}
	add := func(col string, v *string) {
		if v != nil {
			sets = append(sets, col+"=?")
			args = append(args, *v)
		}
	}
	add("series_title", patch.SeriesTitle)
	add("character_name", patch.Name)
	add("role", patch.Role)
	add("expiry_date", patch.ExpiryDate)
	add("script_text", patch.ScriptText)
	if len(sets) == 0 {
		return nil
	}
	sets = append(sets, "last_modified=?")
	args = append(args, now, id)

	res, err := r.DB.ExecContext(ctx,
		"UPDATE bacheca_characters SET "+strings.Join(sets, ", ")+" WHERE id=?", args...)
	if err != nil {
		return err
	}
	return errNotFoundOnZero(res)
}

// SetImage records a freshly uploaded image path and refreshes
// last_modified.
func (r *CharacterRepo) SetImage(ctx context.Context, id int64, rel, now string) error {
	return r.setAsset(ctx, "UPDATE bacheca_characters SET image_path=?, last_modified=? WHERE id=?", rel, now, id)
}

// SetScript records a freshly uploaded script path and refreshes
// last_modified.
func (r *CharacterRepo) SetScript(ctx context.Context, id int64, rel, now string) error {
	return r.setAsset(ctx, "UPDATE bacheca_characters SET script_path=?, last_modified=? WHERE id=?", rel, now, id)
}

// SetMov records a freshly uploaded video path and refreshes last_modified.
func (r *CharacterRepo) SetMov(ctx context.Context, id int64, rel, now string) error {
	return r.setAsset(ctx, "UPDATE bacheca_characters SET mov_path=?, last_modified=? WHERE id=?", rel, now, id)
}

func (r *CharacterRepo) setAsset(ctx context.Context, query, rel, now string, id int64) error {
	res, err := r.DB.ExecContext(ctx, query, rel, now, id)
	if err != nil {
		return err
	}
	return errNotFoundOnZero(res)
}

// Delete removes the character row.  Asset file cleanup belongs to the
// caller, which looks the paths up first.
func (r *CharacterRepo) Delete(ctx context.Context, id int64) error {
	res, err := r.DB.ExecContext(ctx, "DELETE FROM bacheca_characters WHERE id = ?", id)
	if err != nil {
		return err
	}
	return errNotFoundOnZero(res)
}

func errNotFoundOnZero(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}
