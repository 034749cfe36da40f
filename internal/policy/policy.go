// Package policy holds the capability table consulted at the boundary
// of every mutating operation. Authorization is a single lookup of
// (role, action) instead of role lists repeated across handlers.
package policy

import "github.com/edumate/sims-api/internal/models"

// Action identifies a guarded operation.
type Action string

// Guarded actions.
const (
	ActionUserManage      Action = "user.manage"
	ActionAcademicsManage Action = "academics.manage"
	ActionStudentManage   Action = "student.manage"
	ActionAttendanceMark  Action = "attendance.mark"
	ActionLeaveDecide     Action = "leave.decide"
	ActionExamManage      Action = "exam.manage"
	ActionResultEnter     Action = "result.enter"
	ActionDashboardAdmin  Action = "dashboard.admin"
)

var adminRoles = []models.Role{models.RoleSuperAdmin, models.RoleSchoolAdmin}

var staffRoles = []models.Role{models.RoleSuperAdmin, models.RoleSchoolAdmin, models.RoleTeacher}

var capabilities = map[Action][]models.Role{
	ActionUserManage:      adminRoles,
	ActionAcademicsManage: {models.RoleSuperAdmin, models.RoleSchoolAdmin, models.RoleAcademicAdmin},
	ActionStudentManage:   adminRoles,
	ActionAttendanceMark:  staffRoles,
	ActionLeaveDecide:     adminRoles,
	ActionExamManage:      staffRoles,
	ActionResultEnter:     staffRoles,
	ActionDashboardAdmin:  adminRoles,
}

// Allows reports whether the role is granted the action.
func Allows(role models.Role, action Action) bool {
	for _, allowed := range capabilities[action] {
		if role == allowed {
			return true
		}
	}
	return false
}

// IsAdmin reports whether the role carries school-wide administration.
func IsAdmin(role models.Role) bool {
	return role == models.RoleSuperAdmin || role == models.RoleSchoolAdmin
}

// IsStaff reports whether the role may enter exams, results and attendance.
func IsStaff(role models.Role) bool {
	return IsAdmin(role) || role == models.RoleTeacher
}
