package models

import "errors"

// Status transition rules. Codes are ordered (4 < 5 < 6) and in normal
// operation an item only ever moves forward; rolling a status back is an
// admin-only corrective action and is rejected locally before any network
// call is attempted.

var ErrBackwardTransition = errors.New("reverting an item status requires an admin")

// CanTransition reports whether the actor may request the transition at all.
// A request targeting the item's current status is allowed: it is a no-op,
// not an error, which is what makes bulk actions safe to re-run.
func CanTransition(current, target ItemStatus, isAdmin bool) bool {
	if !current.Valid() || !target.Valid() {
		return false
	}
	if target >= current {
		return true
	}
	return isAdmin
}

// IsNoOpTransition reports the idempotent case: the item already satisfies a
// forward-only request. For an admin an equal target is still a no-op, but a
// lower one is a real rollback.
func IsNoOpTransition(current, target ItemStatus, isAdmin bool) bool {
	if isAdmin {
		return current == target
	}
	return current >= target
}

// Actor identifies who is driving a transition, for the audit trail and the
// permission check.
type Actor struct {
	UserId  int
	IsAdmin bool
}

type BulkError struct {
	ItemId int
	Err    error
}

// BulkResult partitions a bulk application: Updated carries the mutated
// copies, Skipped the ids that already satisfied the target (no network call
// should be issued for them), Errors the rejected transitions.
type BulkResult struct {
	Updated []Item
	Skipped []int
	Errors  []BulkError
}

// ApplyBulk applies the target status to every item the rules allow, stamping
// ChangedBy with the acting user. It is pure: inputs are not mutated and the
// caller decides what to send to the server (normally exactly the Updated
// ids). Re-applying the same target to the result yields zero updates.
func ApplyBulk(items []Item, target ItemStatus, actor Actor) BulkResult {
	var result BulkResult
	if !target.Valid() {
		for i := range items {
			result.Errors = append(result.Errors, BulkError{ItemId: items[i].ID, Err: errors.New("invalid target status")})
		}
		return result
	}
	for i := range items {
		item := items[i]
		if IsNoOpTransition(item.Status, target, actor.IsAdmin) {
			result.Skipped = append(result.Skipped, item.ID)
			continue
		}
		if !CanTransition(item.Status, target, actor.IsAdmin) {
			result.Errors = append(result.Errors, BulkError{ItemId: item.ID, Err: ErrBackwardTransition})
			continue
		}
		item.Status = target
		item.ChangedBy = actor.UserId
		result.Updated = append(result.Updated, item)
	}
	return result
}
