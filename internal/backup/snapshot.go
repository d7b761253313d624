package backup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/urbanmobility/umob/internal/dbx"
)

// Snapshot is a full copy of the managed tables at one point in time.
// Values are captured verbatim, so encrypted columns stay encrypted and a
// restored database is byte-identical to the captured one.
type Snapshot struct {
	FormatID  string               `json:"format_id"`
	CreatedAt time.Time            `json:"created_at"`
	CreatedBy string               `json:"created_by,omitempty"`
	Tables    map[string]TableData `json:"tables"`
}

// TableData is one table's column names and rows, in select order.
type TableData struct {
	Columns []string `json:"columns"`
	Rows    [][]any  `json:"rows"`
}

// FormatID identifies the payload layout. Archives carrying any other id
// are rejected on restore.
const FormatID = "urban-mobility/1.0"

// Capture reads every managed table, empty ones included, in the fixed
// table order.
func Capture(ctx context.Context, db dbx.DBTX, tables []string) (*Snapshot, error) {
	snap := &Snapshot{
		FormatID:  FormatID,
		CreatedAt: time.Now(),
		Tables:    make(map[string]TableData, len(tables)),
	}
	for _, table := range tables {
		data, err := captureTable(ctx, db, table)
		if err != nil {
			return nil, fmt.Errorf("failed to capture table %s: %w", table, err)
		}
		snap.Tables[table] = data
	}
	return snap, nil
}

func captureTable(ctx context.Context, db dbx.DBTX, table string) (TableData, error) {
	rows, err := db.QueryContext(ctx, "SELECT * FROM "+table)
	if err != nil {
		return TableData{}, err
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return TableData{}, err
	}

	data := TableData{Columns: columns, Rows: [][]any{}}
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return TableData{}, err
		}
		for i, v := range values {
			// Text columns may scan as []byte; keep the JSON payload
			// readable and round-trippable.
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		data.Rows = append(data.Rows, values)
	}
	return data, rows.Err()
}

// RestoreInto replaces the managed tables' contents with the snapshot's in
// one transaction. Either every table is replaced or none is. Foreign keys
// are suspended for the transaction since tables are reloaded one by one;
// the pragma and the transaction share one pinned connection, as the
// pragma is connection-scoped.
func RestoreInto(ctx context.Context, db *sql.DB, snap *Snapshot, tables []string) error {
	if snap.FormatID != FormatID {
		return fmt.Errorf("unsupported backup format %q", snap.FormatID)
	}

	conn, err := db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("failed to acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, "PRAGMA foreign_keys = OFF"); err != nil {
		return fmt.Errorf("failed to suspend foreign keys: %w", err)
	}
	defer conn.ExecContext(context.WithoutCancel(ctx), "PRAGMA foreign_keys = ON")

	return dbx.WithTx(ctx, conn, nil, func(ctx context.Context, tx dbx.DBTX) error {
		for _, table := range tables {
			data, ok := snap.Tables[table]
			if !ok {
				return fmt.Errorf("backup has no data for table %s", table)
			}
			if err := restoreTable(ctx, tx, table, data); err != nil {
				return fmt.Errorf("failed to restore table %s: %w", table, err)
			}
		}
		return nil
	})
}

func restoreTable(ctx context.Context, tx dbx.DBTX, table string, data TableData) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	if len(data.Rows) == 0 {
		return nil
	}

	placeholders := make([]string, len(data.Columns))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	query := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		table, strings.Join(data.Columns, ", "), strings.Join(placeholders, ", "))

	for _, row := range data.Rows {
		if len(row) != len(data.Columns) {
			return fmt.Errorf("row has %d values, want %d", len(row), len(data.Columns))
		}
		if _, err := tx.ExecContext(ctx, query, row...); err != nil {
			return err
		}
	}
	return nil
}
