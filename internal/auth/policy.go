package auth

import "errors"

// Roles known to the service.
const (
	RoleAdmin = "Admin"
	RoleAgent = "Agent"
)

// ErrForbidden is returned when an actor fails a policy check.
var ErrForbidden = errors.New("forbidden")

// Actor is an authenticated caller.
type Actor struct {
	ID   int64
	Role string
}

// Action names a protected operation.
type Action string

const (
	ActionAssignLeads       Action = "leads.assign"
	ActionViewOwnLeads      Action = "leads.view_own"
	ActionUpdateLead        Action = "leads.update"
	ActionViewNotifications Action = "notifications.view"
)

// actionRoles maps each action to the single role allowed to perform it.
var actionRoles = map[Action]string{
	ActionAssignLeads:       RoleAdmin,
	ActionViewOwnLeads:      RoleAgent,
	ActionUpdateLead:        RoleAgent,
	ActionViewNotifications: RoleAgent,
}

// Authorize checks the actor's role against the action. Every handler goes
// through here instead of comparing role strings inline.
func Authorize(actor Actor, action Action) error {
	role, ok := actionRoles[action]
	if !ok || actor.Role != role {
		return ErrForbidden
	}
	return nil
}

// AuthorizeOwner additionally requires the actor to own the resource.
func AuthorizeOwner(actor Actor, action Action, ownerID int64) error {
	if err := Authorize(actor, action); err != nil {
		return err
	}
	if actor.ID != ownerID {
		return ErrForbidden
	}
	return nil
}
