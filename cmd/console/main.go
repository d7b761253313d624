package main

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/urbanmobility/umob/internal/audit"
	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/backup"
	"github.com/urbanmobility/umob/internal/cli"
	"github.com/urbanmobility/umob/internal/config"
	"github.com/urbanmobility/umob/internal/cryptox"
	"github.com/urbanmobility/umob/internal/logging"
	"github.com/urbanmobility/umob/internal/repositories/scooters"
	"github.com/urbanmobility/umob/internal/repositories/travelers"
	"github.com/urbanmobility/umob/internal/repositories/users"
	"github.com/urbanmobility/umob/internal/services"
	"github.com/urbanmobility/umob/internal/storage"
)

func main() {
	if err := run(); err != nil {
		slog.Error("console failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()
	cfg := config.LoadConfig()
	log := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	})))

	if err := os.MkdirAll(filepath.Dir(cfg.DatabasePath), 0o700); err != nil {
		return err
	}

	key, err := cryptox.LoadOrCreateKey(cfg.KeyPath)
	if err != nil {
		return err
	}
	cipher, err := cryptox.New(key)
	if err != nil {
		return err
	}

	db, err := storage.Open(ctx, cfg.DatabasePath)
	if err != nil {
		return err
	}
	defer db.Close()

	if err := storage.EnsureSuperAdmin(ctx, db, cipher); err != nil {
		return err
	}

	auditLog := audit.NewFileLog(cfg.AuditLogPath, cipher, log)

	userRepo := users.NewSQLiteRepository(db)
	travelerRepo := travelers.NewSQLiteRepository(db)
	scooterRepo := scooters.NewSQLiteRepository(db)

	session := auth.NewSession(userRepo, cipher, auditLog)

	travelerSvc := services.NewTravelerService(travelerRepo, cipher, session, auditLog, log)
	scooterSvc := services.NewScooterService(scooterRepo, cipher, session, auditLog, log)
	userSvc := services.NewUserService(userRepo, cipher, session, auditLog, log)

	backupMgr := backup.NewManager(db, storage.ManagedTables,
		backup.NewPackager(cfg.BackupDir), backup.NewRegistry(), session, auditLog, log)

	app := cli.NewApp(session, travelerSvc, scooterSvc, userSvc, backupMgr, auditLog, log)
	app.Run(ctx)
	return nil
}
