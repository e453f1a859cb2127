// Package policy decides which principal may perform which action on complaints.
// Decisions are pure: no I/O and no side effects.
package policy

import "github.com/civicpulse/complaint-service/internal/domain"

// Action enumerates operations subject to authorization.
type Action string

const (
	ActionCreateComplaint Action = "CreateComplaint"
	ActionViewComplaint   Action = "ViewComplaint"
	ActionListAll         Action = "ListAll"
	ActionListOwn         Action = "ListOwn"
	ActionListAssigned    Action = "ListAssigned"
	ActionAssignVolunteer Action = "AssignVolunteer"
	ActionUpdateStatus    Action = "UpdateStatus"
	ActionViewStats       Action = "ViewStats"
	ActionManageUsers     Action = "ManageUsers"
)

// Can reports whether principal may perform action. complaint is only consulted for
// record-scoped actions (view, update status) and may be nil otherwise; a record-scoped
// action with a nil complaint is denied for non-admins.
func Can(principal *domain.Principal, action Action, complaint *domain.Complaint) bool {
	if principal == nil || principal.UserID == "" {
		return false
	}
	switch principal.Role {
	case domain.RoleAdmin:
		return adminCan(action)
	case domain.RoleVolunteer:
		return volunteerCan(principal, action, complaint)
	case domain.RoleCitizen:
		return citizenCan(principal, action, complaint)
	default:
		return false
	}
}

func adminCan(action Action) bool {
	switch action {
	case ActionViewComplaint, ActionListAll, ActionAssignVolunteer, ActionUpdateStatus,
		ActionViewStats, ActionManageUsers:
		return true
	default:
		return false
	}
}

func volunteerCan(principal *domain.Principal, action Action, complaint *domain.Complaint) bool {
	switch action {
	case ActionListAssigned:
		return true
	case ActionViewComplaint, ActionUpdateStatus:
		return complaint.IsAssignedTo(principal.UserID)
	default:
		return false
	}
}

func citizenCan(principal *domain.Principal, action Action, complaint *domain.Complaint) bool {
	switch action {
	case ActionCreateComplaint, ActionListOwn:
		return true
	case ActionViewComplaint:
		return complaint != nil && complaint.ReporterID == principal.UserID
	default:
		return false
	}
}
