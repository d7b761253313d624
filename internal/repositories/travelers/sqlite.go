package travelers

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

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

const travelerColumns = `id, customer_id, first_name, last_name, birthday, gender,
	street_name, house_number, zip_code, city, email, mobile_phone, driving_license, registration_date`

// updatableColumns whitelists the columns Update may touch. Dynamic column
// names never come from user input.
var updatableColumns = map[string]bool{
	"first_name":      true,
	"last_name":       true,
	"birthday":        true,
	"gender":          true,
	"street_name":     true,
	"house_number":    true,
	"zip_code":        true,
	"city":            true,
	"email":           true,
	"mobile_phone":    true,
	"driving_license": true,
}

func scanTraveler(row interface{ Scan(...any) error }) (*models.Traveler, error) {
	var tr models.Traveler
	err := row.Scan(&tr.ID, &tr.CustomerID, &tr.FirstName, &tr.LastName, &tr.Birthday,
		&tr.Gender, &tr.StreetName, &tr.HouseNumber, &tr.ZipCode, &tr.City,
		&tr.Email, &tr.MobilePhone, &tr.DrivingLicense, &tr.RegistrationDate)
	if err != nil {
		return nil, err
	}
	return &tr, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, tr *models.Traveler) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO travelers (customer_id, first_name, last_name, birthday, gender,
			street_name, house_number, zip_code, city, email, mobile_phone, driving_license, registration_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		tr.CustomerID, tr.FirstName, tr.LastName, tr.Birthday, tr.Gender,
		tr.StreetName, tr.HouseNumber, tr.ZipCode, tr.City,
		tr.Email, tr.MobilePhone, tr.DrivingLicense, tr.RegistrationDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert traveler: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetByCustomerID(ctx context.Context, customerID string) (*models.Traveler, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+travelerColumns+` FROM travelers WHERE customer_id = ?`, customerID)
	tr, err := scanTraveler(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select traveler: %w", err)
	}
	return tr, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Traveler, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+travelerColumns+` FROM travelers ORDER BY registration_date DESC`)
	if err != nil {
		return nil, fmt.Errorf("failed to select travelers: %w", err)
	}
	defer rows.Close()
	return collectTravelers(rows)
}

func (r *SQLiteRepository) SearchPlain(ctx context.Context, term string) ([]models.Traveler, error) {
	like := "%" + term + "%"
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+travelerColumns+` FROM travelers
		WHERE customer_id LIKE ? OR first_name LIKE ? OR last_name LIKE ?`,
		like, like, like)
	if err != nil {
		return nil, fmt.Errorf("failed to search travelers: %w", err)
	}
	defer rows.Close()
	return collectTravelers(rows)
}

func collectTravelers(rows *sql.Rows) ([]models.Traveler, error) {
	var result []models.Traveler
	for rows.Next() {
		tr, err := scanTraveler(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *tr)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

// Update applies the given column values to the traveler with customerID.
// Unknown columns are rejected before any SQL is built.
func (r *SQLiteRepository) Update(ctx context.Context, customerID string, fields map[string]string) error {
	if len(fields) == 0 {
		return nil
	}

	assignments := make([]string, 0, len(fields))
	args := make([]any, 0, len(fields)+1)
	for _, col := range []string{"first_name", "last_name", "birthday", "gender",
		"street_name", "house_number", "zip_code", "city", "email", "mobile_phone", "driving_license"} {
		v, ok := fields[col]
		if !ok {
			continue
		}
		assignments = append(assignments, col+" = ?")
		args = append(args, v)
	}
	if len(assignments) != len(fields) {
		for col := range fields {
			if !updatableColumns[col] {
				return fmt.Errorf("%w: column %q is not updatable", common.ErrInvalidInput, col)
			}
		}
	}
	args = append(args, customerID)

	res, err := r.db.ExecContext(ctx,
		`UPDATE travelers SET `+strings.Join(assignments, ", ")+` WHERE customer_id = ?`, args...)
	if err != nil {
		return fmt.Errorf("failed to update traveler: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Delete(ctx context.Context, customerID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM travelers WHERE customer_id = ?`, customerID)
	if err != nil {
		return fmt.Errorf("failed to delete traveler: %w", err)
	}
	ra, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if ra == 0 {
		return common.ErrNotFound
	}
	return nil
}

func (r *SQLiteRepository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM travelers`).Scan(&n); err != nil {
		return 0, fmt.Errorf("failed to count travelers: %w", err)
	}
	return n, nil
}
