package policy

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/edumate/sims-api/internal/models"
)

func TestAllowsAdminActions(t *testing.T) {
	for _, role := range []models.Role{models.RoleSuperAdmin, models.RoleSchoolAdmin} {
		require.True(t, Allows(role, ActionUserManage), "role %s", role)
		require.True(t, Allows(role, ActionLeaveDecide), "role %s", role)
	}

	for _, role := range []models.Role{models.RoleTeacher, models.RoleStudent, models.RoleParent, models.RoleLibrarian} {
		require.False(t, Allows(role, ActionUserManage), "role %s", role)
		require.False(t, Allows(role, ActionLeaveDecide), "role %s", role)
	}
}

func TestAllowsStaffActions(t *testing.T) {
	require.True(t, Allows(models.RoleTeacher, ActionResultEnter))
	require.True(t, Allows(models.RoleTeacher, ActionAttendanceMark))
	require.True(t, Allows(models.RoleTeacher, ActionExamManage))
	require.False(t, Allows(models.RoleStudent, ActionResultEnter))
	require.False(t, Allows(models.RoleAccountant, ActionAttendanceMark))
}

func TestAcademicAdminScope(t *testing.T) {
	require.True(t, Allows(models.RoleAcademicAdmin, ActionAcademicsManage))
	require.False(t, Allows(models.RoleAcademicAdmin, ActionUserManage))
	require.False(t, Allows(models.RoleAcademicAdmin, ActionResultEnter))
}

func TestIsAdminAndIsStaff(t *testing.T) {
	require.True(t, IsAdmin(models.RoleSuperAdmin))
	require.True(t, IsAdmin(models.RoleSchoolAdmin))
	require.False(t, IsAdmin(models.RoleTeacher))

	require.True(t, IsStaff(models.RoleTeacher))
	require.True(t, IsStaff(models.RoleSchoolAdmin))
	require.False(t, IsStaff(models.RoleStudent))
}

func TestUnknownActionDenied(t *testing.T) {
	require.False(t, Allows(models.RoleSuperAdmin, Action("nonexistent")))
}
