package users

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/dbx"
	"github.com/urbanmobility/umob/internal/models"
)

// SQLiteRepository implements Repository using a DBTX (either *sql.DB or *sql.Tx).
type SQLiteRepository struct {
	db dbx.DBTX
}

func NewSQLiteRepository(db dbx.DBTX) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = `id, username, username_encrypted, password_hash, role, first_name, last_name, created_date, created_by, is_active`

func scanUser(row interface{ Scan(...any) error }) (*models.User, error) {
	var u models.User
	var encrypted, firstName, lastName sql.NullString
	var createdBy sql.NullInt64
	var active int
	err := row.Scan(&u.ID, &u.Username, &encrypted, &u.PasswordHash, &u.Role,
		&firstName, &lastName, &u.CreatedDate, &createdBy, &active)
	if err != nil {
		return nil, err
	}
	u.UsernameEncrypted = encrypted.String
	u.FirstName = firstName.String
	u.LastName = lastName.String
	if createdBy.Valid {
		v := createdBy.Int64
		u.CreatedBy = &v
	}
	u.IsActive = active == 1
	return &u, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, u *models.User) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO users (username, username_encrypted, password_hash, role, first_name, last_name, created_date, created_by)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		u.Username, u.UsernameEncrypted, u.PasswordHash, u.Role,
		u.FirstName, u.LastName, u.CreatedDate, u.CreatedBy)
	if err != nil {
		return 0, fmt.Errorf("failed to insert user: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	u, err := scanUser(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select user: %w", err)
	}
	return u, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users ORDER BY role, created_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select users: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func (r *SQLiteRepository) GetByRole(ctx context.Context, role string) ([]models.User, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+userColumns+` FROM users WHERE role = ? ORDER BY created_date DESC`, role)
	if err != nil {
		return nil, fmt.Errorf("failed to select users by role: %w", err)
	}
	defer rows.Close()
	return collectUsers(rows)
}

func collectUsers(rows *sql.Rows) ([]models.User, error) {
	var result []models.User
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *u)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) UpdateProfile(ctx context.Context, id int64, firstName, lastName string) error {
	return r.execOne(ctx, `UPDATE users SET first_name = ?, last_name = ? WHERE id = ?`, firstName, lastName, id)
}

func (r *SQLiteRepository) UpdatePasswordHash(ctx context.Context, id int64, hash string) error {
	return r.execOne(ctx, `UPDATE users SET password_hash = ? WHERE id = ?`, hash, id)
}

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	return r.execOne(ctx, `DELETE FROM users WHERE id = ?`, id)
}

func (r *SQLiteRepository) execOne(ctx context.Context, query string, args ...any) error {
	res, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to exec: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}
