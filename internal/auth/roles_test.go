package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/urbanmobility/umob/internal/common"
)

func TestParseRole(t *testing.T) {
	for _, s := range []string{"super_admin", "system_admin", "service_engineer"} {
		role, err := ParseRole(s)
		require.NoError(t, err)
		assert.Equal(t, s, string(role))
	}

	_, err := ParseRole("root")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
	_, err = ParseRole("")
	assert.ErrorIs(t, err, common.ErrInvalidInput)
}

func TestRoleDisplay(t *testing.T) {
	assert.Equal(t, "Super Administrator", RoleSuperAdmin.Display())
	assert.Equal(t, "System Administrator", RoleSystemAdmin.Display())
	assert.Equal(t, "Service Engineer", RoleServiceEngineer.Display())
}

func TestSuperAdminHasEverything(t *testing.T) {
	for _, c := range []Capability{
		CapCreateBackup, CapRestoreBackup, CapUseRestoreCode, CapManageRestoreCodes,
		CapManageSystemAdmins, CapManageServiceEngineers, CapResetUserPasswords,
		CapManageTravelers, CapManageScooters, CapAddScooter, CapDeleteScooter,
		CapUpdateScooterInfo, CapUpdateScooterStatus, CapViewLogs, CapUpdateOwnPassword,
	} {
		assert.True(t, RoleSuperAdmin.Has(c), string(c))
	}
}

func TestSystemAdminCapabilities(t *testing.T) {
	has := []Capability{
		CapCreateBackup, CapUseRestoreCode, CapManageServiceEngineers,
		CapResetUserPasswords, CapManageTravelers, CapAddScooter,
		CapDeleteScooter, CapUpdateScooterInfo, CapViewLogs, CapUpdateOwnPassword,
	}
	for _, c := range has {
		assert.True(t, RoleSystemAdmin.Has(c), string(c))
	}

	// Direct restores and code management stay with the super admin.
	lacks := []Capability{CapRestoreBackup, CapManageRestoreCodes, CapManageSystemAdmins}
	for _, c := range lacks {
		assert.False(t, RoleSystemAdmin.Has(c), string(c))
	}
}

func TestServiceEngineerCapabilities(t *testing.T) {
	assert.True(t, RoleServiceEngineer.Has(CapUpdateScooterStatus))
	assert.True(t, RoleServiceEngineer.Has(CapUpdateOwnPassword))

	lacks := []Capability{
		CapCreateBackup, CapRestoreBackup, CapUseRestoreCode, CapManageRestoreCodes,
		CapManageSystemAdmins, CapManageServiceEngineers, CapResetUserPasswords,
		CapManageTravelers, CapManageScooters, CapAddScooter, CapDeleteScooter,
		CapUpdateScooterInfo, CapViewLogs,
	}
	for _, c := range lacks {
		assert.False(t, RoleServiceEngineer.Has(c), string(c))
	}
}

func TestCapabilitiesReturnsCopy(t *testing.T) {
	caps := RoleServiceEngineer.Capabilities()
	require.NotEmpty(t, caps)
	caps[0] = Capability("tampered")
	assert.NotContains(t, RoleServiceEngineer.Capabilities(), Capability("tampered"))
}
