package database

import (
	"context"
	"database/sql"
	"log"

	"github.com/avitale/badgeboard/internal/model"
	"github.com/avitale/badgeboard/internal/utils"
)

// Schema statements are idempotent so Bootstrap can run on every start.
// There is deliberately no migration tooling: the schema is small and
// append-only, and new columns would arrive as new CREATE/ALTER statements
// here.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY,
		name TEXT,
		surname TEXT,
		email TEXT UNIQUE,
		password TEXT NOT NULL,
		role TEXT DEFAULT 'user',
		code TEXT UNIQUE
	)`,
	`CREATE TABLE IF NOT EXISTS work_logs (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		user_id INTEGER,
		date TEXT,
		hours REAL,
		reason TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS removal_requests (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		work_log_id INTEGER,
		requester_id INTEGER,
		reason TEXT,
		status TEXT DEFAULT 'pending',
		admin_id INTEGER,
		admin_reason TEXT,
		request_date TEXT,
		decision_date TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS user_profiles (
		user_id INTEGER PRIMARY KEY,
		nickname TEXT,
		image_path TEXT
	)`,
	`CREATE TABLE IF NOT EXISTS bacheca_characters (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		series_title TEXT,
		character_name TEXT,
		role TEXT,
		image_path TEXT,
		script_text TEXT,
		script_path TEXT,
		expiry_date TEXT,
		mov_path TEXT,
		created_by INTEGER,
		last_modified TEXT
	)`,
}

// Bootstrap creates any missing tables and seeds the default admin account
// when it does not exist yet.  Seeding is skipped when adminPassword is
// empty, which is the expected state after the first boot.
func Bootstrap(ctx context.Context, db *sql.DB, adminCode, adminEmail, adminPassword string, bcryptCost int) error {
	for _, stmt := range schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	if adminPassword == "" {
		return nil
	}

	var id int64
	err := db.QueryRowContext(ctx, "SELECT id FROM users WHERE code = ?", adminCode).Scan(&id)
	if err == nil {
		return nil // admin already present
	}
	if err != sql.ErrNoRows {
		return err
	}

	hash, err := utils.HashPassword(adminPassword, bcryptCost)
	if err != nil {
		return err
	}
	log.Printf("seeding admin user %s", adminCode)
	_, err = db.ExecContext(ctx,
		"INSERT INTO users (name, surname, email, password, role, code) VALUES (?,?,?,?,?,?)",
		"Angelo", "Admin", adminEmail, hash, model.RoleAdmin, adminCode)
	return err
}
