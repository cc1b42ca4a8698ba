package orders

import (
	"fmt"

	"communityexpress-backend/internal/auth"
	"communityexpress-backend/internal/models"
)

// validNext is the full transition graph. refunded is listed so the refund
// path can validate against the same table, but it is never reachable through
// the generic status endpoint (see CanRequest).
var validNext = map[models.OrderStatus]map[models.OrderStatus]bool{
	models.OrderStatusCreated:    {models.OrderStatusConfirmed: true, models.OrderStatusCancelled: true},
	models.OrderStatusConfirmed:  {models.OrderStatusInProgress: true, models.OrderStatusCancelled: true},
	models.OrderStatusInProgress: {models.OrderStatusCompleted: true},
	models.OrderStatusCompleted:  {models.OrderStatusRefunded: true},
	models.OrderStatusCancelled:  {},
	models.OrderStatusRefunded:   {},
}

// forward edges of the chain created → confirmed → in_progress → completed
var forwardNext = map[models.OrderStatus]models.OrderStatus{
	models.OrderStatusCreated:    models.OrderStatusConfirmed,
	models.OrderStatusConfirmed:  models.OrderStatusInProgress,
	models.OrderStatusInProgress: models.OrderStatusCompleted,
}

func CanTransition(from, to models.OrderStatus) bool {
	return validNext[from][to]
}

// CanRequest reports whether a status is settable through the generic
// PUT /orders/:id/status operation at all. refunded is derived from a
// payment refund and never settable directly.
func CanRequest(to models.OrderStatus) bool {
	switch to {
	case models.OrderStatusConfirmed, models.OrderStatusInProgress,
		models.OrderStatusCompleted, models.OrderStatusCancelled:
		return true
	}
	return false
}

// ActorContext captures the actor's relation to one specific order. The
// handler resolves it from the database before asking for a transition.
type ActorContext struct {
	Role              models.UserRole
	IsVendorAdmin     bool
	IsAssignedPartner bool
	IsPlacer          bool
}

type TransitionError struct {
	Status  int // HTTP status the edge maps to: 400 invalid edge, 403 wrong actor
	Message string
}

func (e *TransitionError) Error() string { return e.Message }

func invalidf(format string, args ...any) *TransitionError {
	return &TransitionError{Status: 400, Message: fmt.Sprintf(format, args...)}
}

func forbiddenf(format string, args ...any) *TransitionError {
	return &TransitionError{Status: 403, Message: fmt.Sprintf(format, args...)}
}

// Authorize validates one requested edge against the graph, the role table
// and the actor's relation to the order. It has no side effects; the caller
// applies the write.
func Authorize(perms *auth.Permissions, actor ActorContext, from, to models.OrderStatus) *TransitionError {
	if !CanRequest(to) {
		return invalidf("status %q cannot be set directly", to)
	}
	if !CanTransition(from, to) {
		return invalidf("cannot move order from %q to %q", from, to)
	}

	if to == models.OrderStatusCancelled {
		// Cancellation belongs to the placing user or a master, and only
		// before work starts.
		if !perms.Allows(actor.Role, auth.ActionOrderCancel) {
			return forbiddenf("role %q may not cancel orders", actor.Role)
		}
		if !actor.IsPlacer && actor.Role != models.RoleMaster {
			return forbiddenf("only the ordering user or a master may cancel")
		}
		return nil
	}

	// Forward edge: the vendor's admin or the assigned partner moves the
	// order along. Reaching here means the edge is adjacent, so the only
	// questions left are the role and who is asking.
	if forwardNext[from] != to {
		return invalidf("cannot move order from %q to %q", from, to)
	}
	if !perms.Allows(actor.Role, auth.ActionOrderAdvance) {
		return forbiddenf("role %q may not advance orders", actor.Role)
	}
	if !actor.IsVendorAdmin && !actor.IsAssignedPartner {
		return forbiddenf("only the vendor admin or the assigned partner may advance an order")
	}
	return nil
}
