package cli

import (
	"context"
	"fmt"
	"sort"

	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/backup"
)

func (a *App) backupMenu(ctx context.Context) {
	for {
		fmt.Fprintln(a.out, "\nBackup and restore")
		fmt.Fprintln(a.out, "  1. Create backup")
		fmt.Fprintln(a.out, "  2. List backups")
		fmt.Fprintln(a.out, "  3. Show backup info")
		fmt.Fprintln(a.out, "  4. Restore backup")
		if a.session.HasCapability(auth.CapManageRestoreCodes) {
			fmt.Fprintln(a.out, "  5. Generate restore code")
			fmt.Fprintln(a.out, "  6. List restore codes")
			fmt.Fprintln(a.out, "  7. Revoke restore code")
		}
		fmt.Fprintln(a.out, "  0. Back")

		choice, err := GetSimpleText(a.reader, "Select an option", a.out)
		if err != nil {
			return
		}
		switch choice {
		case "0":
			return
		case "1":
			a.createBackup(ctx)
		case "2":
			a.listBackups()
		case "3":
			a.showBackupInfo()
		case "4":
			a.restoreBackup(ctx)
		case "5":
			a.generateRestoreCode(ctx)
		case "6":
			a.listRestoreCodes()
		case "7":
			a.revokeRestoreCode(ctx)
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
	}
}

func (a *App) createBackup(ctx context.Context) {
	name, err := a.backups.CreateBackup(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Backup created: %s\n", name)
}

func (a *App) listBackups() {
	names, err := a.backups.ListBackups()
	if err != nil {
		a.printErr(err)
		return
	}
	if len(names) == 0 {
		fmt.Fprintln(a.out, "No backups found.")
		return
	}
	for _, n := range names {
		fmt.Fprintln(a.out, "  "+n)
	}
}

func (a *App) showBackupInfo() {
	name, err := GetSimpleText(a.reader, "Backup file name", a.out)
	if err != nil {
		return
	}
	info, err := a.backups.ShowBackupInfo(name)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "%s  %d bytes  created %s\n",
		info.FileName, info.SizeBytes, info.CreatedAt.Format("2006-01-02 15:04:05"))
	if info.CreatedBy != "" {
		fmt.Fprintf(a.out, "  created by: %s\n", info.CreatedBy)
	}
	tables := make([]string, 0, len(info.RowCounts))
	for t := range info.RowCounts {
		tables = append(tables, t)
	}
	sort.Strings(tables)
	for _, t := range tables {
		fmt.Fprintf(a.out, "  %s: %d rows\n", t, info.RowCounts[t])
	}
}

func (a *App) restoreBackup(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Backup file name", a.out)
	if err != nil {
		return
	}

	code := ""
	if !a.session.HasCapability(auth.CapRestoreBackup) {
		code, err = GetSimpleText(a.reader, "Restore code", a.out)
		if err != nil {
			return
		}
	}

	fmt.Fprintln(a.out, "This replaces ALL current data with the backup's contents.")
	confirm, err := GetSimpleText(a.reader,
		fmt.Sprintf("Type %s to proceed", backup.ConfirmPhrase), a.out)
	if err != nil {
		return
	}

	if err := a.backups.RestoreBackup(ctx, name, code, confirm); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Backup restored.")
}

func (a *App) generateRestoreCode(ctx context.Context) {
	name, err := GetSimpleText(a.reader, "Backup file name", a.out)
	if err != nil {
		return
	}
	code, err := a.backups.GenerateRestoreCode(ctx, name)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Restore code for %s: %s\n", name, code)
	fmt.Fprintln(a.out, "The code works once, for this backup only.")
}

func (a *App) listRestoreCodes() {
	codes, err := a.backups.ListRestoreCodes()
	if err != nil {
		a.printErr(err)
		return
	}
	if len(codes) == 0 {
		fmt.Fprintln(a.out, "No restore codes.")
		return
	}
	for _, c := range codes {
		status := "ACTIVE"
		if c.Used {
			status = "USED"
		}
		fmt.Fprintf(a.out, "  %s  %-6s %s  by %s  %s\n",
			c.Value, status, c.CreatedAt.Format("2006-01-02 15:04:05"), c.CreatedBy, c.BackupFile)
	}
}

func (a *App) revokeRestoreCode(ctx context.Context) {
	code, err := GetSimpleText(a.reader, "Restore code", a.out)
	if err != nil {
		return
	}
	if err := a.backups.RevokeRestoreCode(ctx, code); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Restore code revoked.")
}
