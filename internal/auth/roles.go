// Package auth models system roles, their capabilities and the interactive
// login session. Capabilities are re-derived from the current role on every
// check; nothing caches a permission set across login/logout.
package auth

import (
	"fmt"

	"github.com/urbanmobility/umob/internal/common"
)

// Role is the closed set of system roles.
type Role string

const (
	RoleSuperAdmin      Role = "super_admin"
	RoleSystemAdmin     Role = "system_admin"
	RoleServiceEngineer Role = "service_engineer"
)

// ParseRole maps a stored role string onto the closed enum.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleSuperAdmin, RoleSystemAdmin, RoleServiceEngineer:
		return Role(s), nil
	}
	return "", fmt.Errorf("%w: unknown role %q", common.ErrInvalidInput, s)
}

// Display returns the human-facing name of the role.
func (r Role) Display() string {
	switch r {
	case RoleSuperAdmin:
		return "Super Administrator"
	case RoleSystemAdmin:
		return "System Administrator"
	case RoleServiceEngineer:
		return "Service Engineer"
	}
	return string(r)
}

// Capability is a named permission checked before a privileged operation.
type Capability string

const (
	// Backup subsystem.
	CapCreateBackup       Capability = "create_backup"
	CapRestoreBackup      Capability = "restore_backup"
	CapUseRestoreCode     Capability = "use_restore_code"
	CapManageRestoreCodes Capability = "manage_restore_codes"

	// User administration.
	CapManageSystemAdmins     Capability = "manage_system_administrators"
	CapManageServiceEngineers Capability = "manage_service_engineers"
	CapResetUserPasswords     Capability = "reset_user_passwords"

	// Fleet and customer administration.
	CapManageTravelers          Capability = "manage_travelers"
	CapManageScooters           Capability = "manage_scooters"
	CapAddScooter               Capability = "add_scooter"
	CapDeleteScooter            Capability = "delete_scooter"
	CapUpdateScooterInfo        Capability = "update_scooter_info"
	CapUpdateScooterStatus      Capability = "update_selected_scooter_info"

	// Misc.
	CapViewLogs          Capability = "view_logs"
	CapUpdateOwnPassword Capability = "update_own_password"
)

// roleCapabilities is the exhaustive role -> capability table. A capability
// absent from a role's set is denied; there is no fallthrough.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleSuperAdmin: {
		CapCreateBackup:       true,
		CapRestoreBackup:      true,
		CapUseRestoreCode:     true,
		CapManageRestoreCodes: true,

		CapManageSystemAdmins:     true,
		CapManageServiceEngineers: true,
		CapResetUserPasswords:     true,

		CapManageTravelers:     true,
		CapManageScooters:      true,
		CapAddScooter:          true,
		CapDeleteScooter:       true,
		CapUpdateScooterInfo:   true,
		CapUpdateScooterStatus: true,

		CapViewLogs:          true,
		CapUpdateOwnPassword: true,
	},
	RoleSystemAdmin: {
		CapCreateBackup:   true,
		CapUseRestoreCode: true,

		CapManageServiceEngineers: true,
		CapResetUserPasswords:     true,

		CapManageTravelers:     true,
		CapManageScooters:      true,
		CapAddScooter:          true,
		CapDeleteScooter:       true,
		CapUpdateScooterInfo:   true,
		CapUpdateScooterStatus: true,

		CapViewLogs:          true,
		CapUpdateOwnPassword: true,
	},
	RoleServiceEngineer: {
		CapUpdateScooterStatus: true,
		CapUpdateOwnPassword:   true,
	},
}

// Has reports whether the role carries the capability.
func (r Role) Has(c Capability) bool {
	return roleCapabilities[r][c]
}

// Capabilities returns the role's capability set as a copy.
func (r Role) Capabilities() []Capability {
	caps := make([]Capability, 0, len(roleCapabilities[r]))
	for c := range roleCapabilities[r] {
		caps = append(caps, c)
	}
	return caps
}
