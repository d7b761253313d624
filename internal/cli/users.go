package cli

import (
	"context"
	"fmt"

	"github.com/urbanmobility/umob/internal/auth"
)

func (a *App) userMenu(ctx context.Context) {
	for {
		fmt.Fprintln(a.out, "\nUsers")
		fmt.Fprintln(a.out, "  1. List users")
		fmt.Fprintln(a.out, "  2. Add service engineer")
		if a.session.HasCapability(auth.CapManageSystemAdmins) {
			fmt.Fprintln(a.out, "  3. Add system administrator")
		}
		fmt.Fprintln(a.out, "  4. Update user profile")
		fmt.Fprintln(a.out, "  5. Reset user password")
		fmt.Fprintln(a.out, "  6. Delete user")
		fmt.Fprintln(a.out, "  0. Back")

		choice, err := GetSimpleText(a.reader, "Select an option", a.out)
		if err != nil {
			return
		}
		switch choice {
		case "0":
			return
		case "1":
			a.listUsers(ctx)
		case "2":
			a.addUser(ctx, auth.RoleServiceEngineer)
		case "3":
			a.addUser(ctx, auth.RoleSystemAdmin)
		case "4":
			a.updateUserProfile(ctx)
		case "5":
			a.resetUserPassword(ctx)
		case "6":
			a.deleteUser(ctx)
		default:
			fmt.Fprintln(a.out, "Unknown option.")
		}
	}
}

func (a *App) listUsers(ctx context.Context) {
	views, err := a.users.List(ctx)
	if err != nil {
		a.printErr(err)
		return
	}
	for _, v := range views {
		active := "active"
		if !v.IsActive {
			active = "inactive"
		}
		fmt.Fprintf(a.out, "%-12s %-22s %s %s  (%s)\n",
			v.Username, v.Role.Display(), v.FirstName, v.LastName, active)
	}
}

func (a *App) addUser(ctx context.Context, role auth.Role) {
	username, err := GetSimpleText(a.reader, "Username (8-10 characters)", a.out)
	if err != nil {
		return
	}
	password, err := GetPassword(a.out, "Password (12-30 characters)")
	if err != nil {
		return
	}
	firstName, err := GetSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return
	}
	lastName, err := GetSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return
	}

	if err := a.users.Create(ctx, username, password, role, firstName, lastName); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "%s account %s created.\n", role.Display(), username)
}

func (a *App) updateUserProfile(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return
	}
	firstName, err := GetSimpleText(a.reader, "First name", a.out)
	if err != nil {
		return
	}
	lastName, err := GetSimpleText(a.reader, "Last name", a.out)
	if err != nil {
		return
	}
	if err := a.users.UpdateProfile(ctx, username, firstName, lastName); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "Profile updated.")
}

func (a *App) resetUserPassword(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return
	}
	temp, err := a.users.ResetPassword(ctx, username)
	if err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintf(a.out, "Temporary password for %s: %s\n", username, temp)
	fmt.Fprintln(a.out, "Hand it over securely; it works until the user sets their own.")
}

func (a *App) deleteUser(ctx context.Context) {
	username, err := GetSimpleText(a.reader, "Username", a.out)
	if err != nil {
		return
	}
	confirm, err := GetSimpleText(a.reader, "Type 'yes' to delete "+username, a.out)
	if err != nil || confirm != "yes" {
		fmt.Fprintln(a.out, "Cancelled.")
		return
	}
	if err := a.users.Delete(ctx, username); err != nil {
		a.printErr(err)
		return
	}
	fmt.Fprintln(a.out, "User deleted.")
}
