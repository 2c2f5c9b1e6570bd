package auth

import "imageshare.com/internal/model"

// Action identifies an operation gated by the authorization policy
type Action string

const (
	ActionEditImage      Action = "image.edit"
	ActionDeleteImage    Action = "image.delete"
	ActionApproveImage   Action = "image.approve"
	ActionManageAccounts Action = "account.manage"
)

// Denial reason codes, surfaced in 403 responses
const (
	ReasonNoSession  = "no-session"
	ReasonInactive   = "account-inactive"
	ReasonNotOwner   = "not-owner"
	ReasonNotRole    = "missing-role"
	ReasonOwnAccount = "own-account"
)

// Decision is the outcome of an authorization check
type Decision struct {
	Allowed bool
	Reason  string
}

func allow() Decision { return Decision{Allowed: true} }

func deny(reason string) Decision { return Decision{Reason: reason} }

// Authorize is the single authorization predicate for resource mutations.
// Route-level role gating (Casbin) runs before this; Authorize adds the
// per-row checks no route pattern can express:
//
//   - Edit/Delete: the actor must own the image. Role never substitutes —
//     an admin cannot edit someone else's image.
//   - Approve: the actor must hold the approver role; ownership is ignored.
//   - ManageAccounts: admin role, and never against the actor's own account.
//
// resourceOwnerID is the owning user of the resource being acted on (the
// image owner, or the target account for ManageAccounts).
func Authorize(actor *model.User, action Action, resourceOwnerID uint) Decision {
	if actor == nil {
		return deny(ReasonNoSession)
	}
	if !actor.Active {
		return deny(ReasonInactive)
	}

	switch action {
	case ActionEditImage, ActionDeleteImage:
		if actor.ID != resourceOwnerID {
			return deny(ReasonNotOwner)
		}
		return allow()

	case ActionApproveImage:
		if actor.Role != model.RoleApprover {
			return deny(ReasonNotRole)
		}
		return allow()

	case ActionManageAccounts:
		if actor.Role != model.RoleAdmin {
			return deny(ReasonNotRole)
		}
		if actor.ID == resourceOwnerID {
			return deny(ReasonOwnAccount)
		}
		return allow()
	}

	return deny(ReasonNotRole)
}
