package scooters

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

const scooterColumns = `id, brand, model, serial_number, top_speed, battery_capacity, state_of_charge,
	target_range_min, target_range_max, latitude, longitude, out_of_service_status,
	mileage, last_maintenance_date, in_service_date`

func scanScooter(row interface{ Scan(...any) error }) (*models.Scooter, error) {
	var s models.Scooter
	var maintenance sql.NullString
	err := row.Scan(&s.ID, &s.Brand, &s.Model, &s.SerialNumber, &s.TopSpeed,
		&s.BatteryCapacity, &s.StateOfCharge, &s.TargetRangeMin, &s.TargetRangeMax,
		&s.Latitude, &s.Longitude, &s.OutOfServiceStatus, &s.Mileage,
		&maintenance, &s.InServiceDate)
	if err != nil {
		return nil, err
	}
	s.LastMaintenanceDate = maintenance.String
	return &s, nil
}

func (r *SQLiteRepository) Create(ctx context.Context, s *models.Scooter) (int64, error) {
	res, err := r.db.ExecContext(ctx, `
		INSERT INTO scooters (brand, model, serial_number, top_speed, battery_capacity,
			state_of_charge, target_range_min, target_range_max, latitude, longitude,
			out_of_service_status, mileage, last_maintenance_date, in_service_date)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		s.Brand, s.Model, s.SerialNumber, s.TopSpeed, s.BatteryCapacity,
		s.StateOfCharge, s.TargetRangeMin, s.TargetRangeMax, s.Latitude, s.Longitude,
		s.OutOfServiceStatus, s.Mileage, nullable(s.LastMaintenanceDate), s.InServiceDate)
	if err != nil {
		return 0, fmt.Errorf("failed to insert scooter: %w", err)
	}
	return res.LastInsertId()
}

func (r *SQLiteRepository) GetByID(ctx context.Context, id int64) (*models.Scooter, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+scooterColumns+` FROM scooters WHERE id = ?`, id)
	s, err := scanScooter(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, common.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to select scooter: %w", err)
	}
	return s, nil
}

func (r *SQLiteRepository) GetAll(ctx context.Context) ([]models.Scooter, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+scooterColumns+` FROM scooters ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("failed to select scooters: %w", err)
	}
	defer rows.Close()

	var result []models.Scooter
	for rows.Next() {
		s, err := scanScooter(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (r *SQLiteRepository) Update(ctx context.Context, s *models.Scooter) error {
	res, err := r.db.ExecContext(ctx, `
		UPDATE scooters SET brand = ?, model = ?, serial_number = ?, top_speed = ?,
			battery_capacity = ?, state_of_charge = ?, target_range_min = ?,
			target_range_max = ?, latitude = ?, longitude = ?,
			out_of_service_status = ?, mileage = ?, last_maintenance_date = ?
		WHERE id = ?`,
		s.Brand, s.Model, s.SerialNumber, s.TopSpeed, s.BatteryCapacity,
		s.StateOfCharge, s.TargetRangeMin, s.TargetRangeMax, s.Latitude, s.Longitude,
		s.OutOfServiceStatus, s.Mileage, nullable(s.LastMaintenanceDate), s.ID)
	if err != nil {
		return fmt.Errorf("failed to update scooter: %w", err)
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

func (r *SQLiteRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM scooters WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete scooter: %w", err)
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

func nullable(s string) any {
	if s == "" {
		return nil
	}
	return s
}
