// Package access derives what an identity may do from its role and decides
// where a navigation attempt actually lands.
package access

import "github.com/dmitrijs2005/leavekeeper/internal/models"

// Permission names a single capability.
type Permission string

const (
	PermissionLeaveViewOwn Permission = "leave.view_own"
	PermissionLeaveCreate  Permission = "leave.create"
	PermissionLeaveViewAll Permission = "leave.view_all"
	PermissionLeaveReview  Permission = "leave.review"
	PermissionEmployeeList Permission = "employee.view_all"
)

// RolePermissions maps roles to their permissions.
var RolePermissions = map[models.Role][]Permission{
	models.RoleManager: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
		PermissionLeaveViewAll,
		PermissionLeaveReview,
		PermissionEmployeeList,
	},
	models.RoleEmployee: {
		PermissionLeaveViewOwn,
		PermissionLeaveCreate,
	},
}

// HasPermission checks if a role has a specific permission.
func HasPermission(role models.Role, permission Permission) bool {
	for _, p := range RolePermissions[role] {
		if p == permission {
			return true
		}
	}
	return false
}

// CanViewAllRequests reports whether id may list every user's requests.
func CanViewAllRequests(id models.Identity) bool {
	return HasPermission(id.Role, PermissionLeaveViewAll)
}

// CanReviewRequest reports whether id may approve or reject req.
func CanReviewRequest(id models.Identity, req models.LeaveRequest) bool {
	return HasPermission(id.Role, PermissionLeaveReview)
}

// CanSubmitRequest reports whether id may submit a leave request.
func CanSubmitRequest(id models.Identity) bool {
	return HasPermission(id.Role, PermissionLeaveCreate)
}

// CanViewOwnRequests reports whether id may list its own requests.
func CanViewOwnRequests(id models.Identity) bool {
	return HasPermission(id.Role, PermissionLeaveViewOwn)
}

// CanListEmployees reports whether id may list registered employees.
func CanListEmployees(id models.Identity) bool {
	return HasPermission(id.Role, PermissionEmployeeList)
}
