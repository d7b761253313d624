// Package backup implements database backup and restore: point-in-time
// snapshots of the managed tables packed into zip archives, and the
// single-use restore codes a super admin hands to system administrators.
package backup

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/common"
	"github.com/urbanmobility/umob/internal/logging"
)

// ConfirmPhrase must be typed verbatim before a restore proceeds.
const ConfirmPhrase = "RESTORE"

// Authorizer answers capability questions for the acting user. Answers are
// queried per operation, so a role change or logout takes effect on the
// very next call.
type Authorizer interface {
	CurrentUsername() string
	HasCapability(c auth.Capability) bool
}

// Recorder receives audit events for completed backup operations.
type Recorder interface {
	Record(ctx context.Context, username, action, details string, suspicious bool)
}

// Manager orchestrates backup creation, inspection and restore.
type Manager struct {
	db       *sql.DB
	tables   []string
	packager *Packager
	codes    *Registry
	session  Authorizer
	recorder Recorder
	log      logging.Logger
}

func NewManager(db *sql.DB, tables []string, packager *Packager, codes *Registry,
	session Authorizer, recorder Recorder, log logging.Logger) *Manager {
	return &Manager{
		db:       db,
		tables:   tables,
		packager: packager,
		codes:    codes,
		session:  session,
		recorder: recorder,
		log:      log,
	}
}

// CreateBackup snapshots the database and writes a new archive, returning
// its file name.
func (m *Manager) CreateBackup(ctx context.Context) (string, error) {
	if err := m.require(auth.CapCreateBackup); err != nil {
		return "", err
	}

	snap, err := Capture(ctx, m.db, m.tables)
	if err != nil {
		return "", fmt.Errorf("failed to capture snapshot: %w", err)
	}
	snap.CreatedBy = m.session.CurrentUsername()
	name, err := m.packager.Write(snap)
	if err != nil {
		return "", fmt.Errorf("failed to write backup: %w", err)
	}

	m.log.Info(ctx, "backup created", "file", name)
	m.recorder.Record(ctx, m.session.CurrentUsername(), "create_backup", name, false)
	return name, nil
}

// ListBackups returns the available archive names, newest first.
func (m *Manager) ListBackups() ([]string, error) {
	if err := m.require(auth.CapCreateBackup); err != nil {
		return nil, err
	}
	return m.packager.List()
}

// ShowBackupInfo summarizes an archive without restoring it.
func (m *Manager) ShowBackupInfo(name string) (*Info, error) {
	if err := m.require(auth.CapCreateBackup); err != nil {
		return nil, err
	}
	return m.packager.Inspect(name)
}

// RestoreBackup replaces the database contents with the named archive's
// snapshot. Super admins restore directly; system admins must present a
// restore code minted for this exact archive, and the code is spent
// whether or not the restore itself succeeds. The confirmation must read
// exactly "RESTORE".
func (m *Manager) RestoreBackup(ctx context.Context, name, code, confirmation string) error {
	direct := m.session.HasCapability(auth.CapRestoreBackup)
	withCode := m.session.HasCapability(auth.CapUseRestoreCode)
	if !direct && !withCode {
		return m.deny("restore_backup")
	}

	if strings.TrimSpace(confirmation) != ConfirmPhrase {
		return fmt.Errorf("%w: restore not confirmed", common.ErrInvalidInput)
	}

	// Reject unreadable archives before any code is spent or row touched.
	snap, err := m.packager.Read(name)
	if err != nil {
		return err
	}

	if !direct {
		if err := m.codes.Consume(code, name); err != nil {
			m.recorder.Record(ctx, m.session.CurrentUsername(), "restore_backup",
				"invalid restore code for "+name, true)
			return err
		}
	}

	if err := RestoreInto(ctx, m.db, snap, m.tables); err != nil {
		return fmt.Errorf("failed to restore backup: %w", err)
	}

	m.log.Info(ctx, "backup restored", "file", name)
	m.recorder.Record(ctx, m.session.CurrentUsername(), "restore_backup", name, false)
	return nil
}

// GenerateRestoreCode mints a single-use code for restoring the named
// archive. The archive is verified readable first, so a code never points
// at a broken backup.
func (m *Manager) GenerateRestoreCode(ctx context.Context, name string) (string, error) {
	if err := m.require(auth.CapManageRestoreCodes); err != nil {
		return "", err
	}
	if _, err := m.packager.Read(name); err != nil {
		return "", err
	}

	code, err := m.codes.Generate(name, m.session.CurrentUsername())
	if err != nil {
		return "", err
	}
	m.recorder.Record(ctx, m.session.CurrentUsername(), "generate_restore_code", name, false)
	return code, nil
}

// ListRestoreCodes returns the stored codes, spent ones included.
func (m *Manager) ListRestoreCodes() ([]Code, error) {
	if err := m.require(auth.CapManageRestoreCodes); err != nil {
		return nil, err
	}
	return m.codes.List(), nil
}

// RevokeRestoreCode invalidates a code. Revoking an already spent or
// unknown code succeeds silently.
func (m *Manager) RevokeRestoreCode(ctx context.Context, code string) error {
	if err := m.require(auth.CapManageRestoreCodes); err != nil {
		return err
	}
	m.codes.Revoke(code)
	m.recorder.Record(ctx, m.session.CurrentUsername(), "revoke_restore_code", "", false)
	return nil
}

func (m *Manager) require(c auth.Capability) error {
	if !m.session.HasCapability(c) {
		return m.deny(string(c))
	}
	return nil
}

func (m *Manager) deny(action string) error {
	return fmt.Errorf("%w: %s", common.ErrPermissionDenied, action)
}
