package leave

import "go-leavemgmt/internal/user"

// CanDecide reports whether the actor may approve or reject l. Managers must be the one bound at creation.
func CanDecide(actorRole, actorID string, l Leave) bool {
	switch actorRole {
	case user.RoleAdmin:
		return true
	case user.RoleManager:
		return actorID == l.ManagerID.String()
	default:
		return false
	}
}

func CanCancel(actorID string, l Leave) bool {
	return actorID == l.EmployeeID.String()
}

func CanView(actorRole, actorID string, l Leave) bool {
	switch actorRole {
	case user.RoleAdmin:
		return true
	case user.RoleManager:
		return actorID == l.ManagerID.String() || actorID == l.EmployeeID.String()
	default:
		return actorID == l.EmployeeID.String()
	}
}
