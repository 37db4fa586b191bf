package domain

// Role is the closed set of account roles. Every authorization decision in
// the services goes through the Allows policy below rather than ad hoc
// string comparisons in handlers.
type Role string

const (
	RoleStudent   Role = "STUDENT"
	RoleOrganizer Role = "ORGANIZER"
	RoleAdmin     Role = "ADMIN"
)

// Action is the closed set of operations gated by role.
type Action string

const (
	ActionRegister     Action = "register"
	ActionManageEvents Action = "manage_events"
	ActionCheckIn      Action = "check_in"
	ActionAdminister   Action = "administer"
)

var rolePolicy = map[Role]map[Action]bool{
	RoleStudent: {
		ActionRegister: true,
	},
	RoleOrganizer: {
		ActionManageEvents: true,
		ActionCheckIn:      true,
	},
	RoleAdmin: {
		ActionAdminister: true,
	},
}

// Allows reports whether the role may perform the given action.
func (r Role) Allows(action Action) bool {
	return rolePolicy[r][action]
}

// IsValid reports whether r is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleStudent, RoleOrganizer, RoleAdmin:
		return true
	}
	return false
}
