package cli

import (
	"context"
	"fmt"

	"github.com/urbanmobility/umob/internal/auth"
)

// menuItem couples a menu line to its handler and the capability that gates
// it. Items the current user lacks are not shown, and the gate is checked
// again inside the services when the handler runs.
type menuItem struct {
	label   string
	cap     auth.Capability
	handler func(ctx context.Context)
}

func (a *App) mainMenu(ctx context.Context) (exit bool) {
	items := []menuItem{
		{"Manage travelers", auth.CapManageTravelers, a.travelerMenu},
		{"View scooters", auth.CapUpdateScooterStatus, a.scooterMenu},
		{"Manage users", auth.CapManageServiceEngineers, a.userMenu},
		{"Backup and restore", auth.CapCreateBackup, a.backupMenu},
		{"View activity log", auth.CapViewLogs, a.viewLogs},
		{"Change my password", auth.CapUpdateOwnPassword, a.changeOwnPassword},
	}

	visible := make([]menuItem, 0, len(items))
	fmt.Fprintln(a.out, "\nMain menu")
	for _, it := range items {
		if !a.session.HasCapability(it.cap) {
			continue
		}
		visible = append(visible, it)
		fmt.Fprintf(a.out, "  %d. %s\n", len(visible), it.label)
	}
	fmt.Fprintln(a.out, "  0. Log out")
	fmt.Fprintln(a.out, "  x. Exit")

	choice, err := GetSimpleText(a.reader, "Select an option", a.out)
	if err != nil {
		return true
	}
	switch choice {
	case "x", "exit", "quit":
		a.session.Logout(ctx)
		return true
	case "0":
		a.session.Logout(ctx)
		fmt.Fprintln(a.out, "Logged out.")
		return false
	}

	for i, it := range visible {
		if choice == fmt.Sprintf("%d", i+1) {
			it.handler(ctx)
			return false
		}
	}
	fmt.Fprintln(a.out, "Unknown option.")
	return false
}

func (a *App) changeOwnPassword(ctx context.Context) {
	current, err := GetPassword(a.out, "Current password")
	if err != nil {
		return
	}
	updated, err := GetPassword(a.out, "New password")
	if err != nil {
		return
	}
	if err := a.users.UpdateOwnPassword(ctx, current, updated); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Password updated.")
}

func (a *App) viewLogs(ctx context.Context) {
	if !a.session.HasCapability(auth.CapViewLogs) {
		fmt.Fprintln(a.out, "Access denied.")
		return
	}
	events, err := a.auditLog.Read(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	if len(events) == 0 {
		fmt.Fprintln(a.out, "The activity log is empty.")
		return
	}
	for _, ev := range events {
		flag := " "
		if ev.Suspicious {
			flag = "!"
		}
		fmt.Fprintf(a.out, "%s %s  %-20s %-25s %s\n",
			flag, ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Username, ev.Action, ev.Details)
	}
}
