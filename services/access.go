package services

import (
	"intern-tracker/models"
)

type Action string

const (
	ActionManageInterns Action = "manage-interns"
	ActionManageTasks   Action = "manage-tasks"
	ActionListTasks     Action = "list-tasks"
	ActionSetProgress   Action = "set-progress"
	ActionComment       Action = "comment"
	ActionReply         Action = "reply"
)

var policy = map[Action][]models.Role{
	ActionManageInterns: {models.RoleAdmin},
	ActionManageTasks:   {models.RoleAdmin},
	ActionListTasks:     {models.RoleAdmin, models.RoleIntern},
	ActionSetProgress:   {models.RoleIntern},
	ActionComment:       {models.RoleAdmin, models.RoleIntern},
	ActionReply:         {models.RoleAdmin},
}

// Authorize reports whether the caller's role may perform action. Ownership
// rules (assigned tasks, own progress entry) are checked by the operations.
func Authorize(caller models.Caller, action Action) error {
	for _, role := range policy[action] {
		if role == caller.Role {
			return nil
		}
	}
	return forbidden("role %q may not %s", caller.Role, action)
}
