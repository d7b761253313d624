// Package cli implements the interactive console: login, role-driven menus
// and the handlers behind each menu entry. Handlers print their own errors
// and return to the menu; only EOF or an explicit exit ends the loop.
package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urbanmobility/umob/internal/audit"
	"github.com/urbanmobility/umob/internal/auth"
	"github.com/urbanmobility/umob/internal/backup"
	"github.com/urbanmobility/umob/internal/logging"
	"github.com/urbanmobility/umob/internal/services"
)

type App struct {
	session   *auth.Session
	travelers *services.TravelerService
	scooters  *services.ScooterService
	users     *services.UserService
	backups   *backup.Manager
	auditLog  *audit.FileLog
	log       logging.Logger
	reader    *bufio.Reader
	out       io.Writer
}

func NewApp(session *auth.Session, travelers *services.TravelerService,
	scooters *services.ScooterService, users *services.UserService,
	backups *backup.Manager, auditLog *audit.FileLog, log logging.Logger) *App {
	return &App{
		session:   session,
		travelers: travelers,
		scooters:  scooters,
		users:     users,
		backups:   backups,
		auditLog:  auditLog,
		log:       log,
		reader:    bufio.NewReader(os.Stdin),
		out:       os.Stdout,
	}
}

// Run drives the console until the user exits or input ends.
func (a *App) Run(ctx context.Context) {
	fmt.Fprintln(a.out, "Urban Mobility Console")
	for {
		if !a.session.IsLoggedIn() {
			if done := a.loginScreen(ctx); done {
				return
			}
			continue
		}
		if done := a.mainMenu(ctx); done {
			return
		}
	}
}

func (a *App) loginScreen(ctx context.Context) (exit bool) {
	username, err := GetSimpleText(a.reader, "Username (or 'exit')", a.out)
	if err != nil {
		return true
	}
	if username == "exit" || username == "quit" {
		return true
	}
	password, err := GetPassword(a.out, "Password")
	if err != nil {
		return true
	}

	if err := a.session.Login(ctx, username, password); err != nil {
		a.log.Warn(ctx, "login rejected", "username", username)
		fmt.Fprintln(a.out, "Login failed.")
		return false
	}

	role, _ := a.session.Role()
	fmt.Fprintf(a.out, "Welcome, %s (%s).\n", a.session.CurrentUsername(), role.Display())
	a.showAlerts()
	return false
}

// showAlerts surfaces queued suspicious activity to users who may read the
// logs.
func (a *App) showAlerts() {
	if !a.session.HasCapability(auth.CapViewLogs) {
		return
	}
	alerts := a.auditLog.UnreadAlerts()
	if len(alerts) == 0 {
		return
	}
	fmt.Fprintf(a.out, "\n*** %d suspicious event(s) since last review ***\n", len(alerts))
	for _, ev := range alerts {
		fmt.Fprintf(a.out, "  %s  %s  %s  %s\n",
			ev.Timestamp.Format("2006-01-02 15:04:05"), ev.Username, ev.Action, ev.Details)
	}
	fmt.Fprintln(a.out)
}

func (a *App) printErr(err error) {
	fmt.Fprintf(a.out, "Error: %v\n", err)
}
