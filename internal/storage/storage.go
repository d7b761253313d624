// Package storage opens the console's SQLite datastore, applies embedded
// schema migrations and seeds the built-in super administrator account.
package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"
	"golang.org/x/crypto/bcrypt"
	_ "modernc.org/sqlite"

	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/storage/migrations"
)

// ManagedTables lists every table covered by backup snapshots, in the fixed
// order they are captured and restored. Keep deterministic: repeated backups
// of unchanged data must produce structurally identical documents.
var ManagedTables = []string{"users", "travelers", "scooters"}

// SuperAdminUsername is the seeded account every fresh datastore starts with.
const SuperAdminUsername = "super_admin"

const superAdminDefaultPassword = "Admin_123?"

// Open opens (creating if needed) the SQLite database at dsn and applies all
// pending migrations.
func Open(ctx context.Context, dsn string) (*sql.DB, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// modernc sqlite serializes writes; a single connection avoids
	// SQLITE_BUSY on concurrent statements.
	db.SetMaxOpenConns(1)

	if err := RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// RunMigrations sets up goose with the embedded migrations and runs them.
func RunMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return fmt.Errorf("failed to set goose dialect: %w", err)
	}
	if err := goose.UpContext(ctx, db, "."); err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}
	return nil
}

// EnsureSuperAdmin creates the built-in super_admin account if no active
// super administrator exists yet. The username column also carries the
// cipher token so the plaintext name never reaches the datastore twice.
func EnsureSuperAdmin(ctx context.Context, db *sql.DB, cipher *cryptox.Cipher) error {
	rows, err := db.QueryContext(ctx, `SELECT username_encrypted FROM users WHERE role = 'super_admin'`)
	if err != nil {
		return fmt.Errorf("failed to query super admins: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var enc sql.NullString
		if err := rows.Scan(&enc); err != nil {
			return err
		}
		if !enc.Valid {
			continue
		}
		name, err := cipher.Decrypt(enc.String)
		if err != nil {
			if errors.Is(err, cryptox.ErrDecryptFailed) {
				continue
			}
			return err
		}
		if name == SuperAdminUsername {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(superAdminDefaultPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}
	encUsername, err := cipher.Encrypt(SuperAdminUsername)
	if err != nil {
		return fmt.Errorf("failed to encrypt username: %w", err)
	}

	_, err = db.ExecContext(ctx, `
		INSERT INTO users (username, username_encrypted, password_hash, role, first_name, last_name, created_date)
		VALUES (?, ?, ?, 'super_admin', 'Super', 'Administrator', ?)`,
		encUsername, encUsername, string(hash), time.Now().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("failed to seed super admin: %w", err)
	}
	return nil
}
