package auth

// Owned is a resource with a single owning account.
type Owned interface {
	OwnerID() int64
}

// VisibilityControlled is an owned resource carrying a public/private flag.
type VisibilityControlled interface {
	Owned
	IsPublic() bool
}

// CanModifyOrDelete decides whether the actor may mutate or remove the
// resource: administrators always may, owners may, everyone else is denied.
// A nil error means allowed. Denials distinguish an absent actor
// (ErrUnauthenticated, 401) from a resolved-but-unrelated one
// (ErrForbidden, 403). The predicate is pure; it never touches storage.
func CanModifyOrDelete(actor *Actor, resource Owned) error {
	if actor == nil {
		return withReason(ErrUnauthenticated, "authentication required to modify this resource", nil)
	}

	if actor.IsAdmin() || actor.ID == resource.OwnerID() {
		return nil
	}

	return withReason(ErrForbidden, "only the owner or an administrator can modify this resource", map[string]any{
		"actor_id": actor.ID,
		"owner_id": resource.OwnerID(),
	})
}

// CanRead decides whether the actor may see the resource. Public resources
// need no actor at all; private ones fall back to the admin-or-owner rule
// with the same 401 vs 403 split as CanModifyOrDelete.
func CanRead(actor *Actor, resource VisibilityControlled) error {
	if resource.IsPublic() {
		return nil
	}

	if actor == nil {
		return withReason(ErrUnauthenticated, "authentication required to read this resource", nil)
	}

	if actor.IsAdmin() || actor.ID == resource.OwnerID() {
		return nil
	}

	return withReason(ErrForbidden, "this resource is private", map[string]any{
		"actor_id": actor.ID,
		"owner_id": resource.OwnerID(),
	})
}

// Allowed collapses a guard decision into a boolean for callers that only
// need the yes/no answer (tests, templates).
func Allowed(err error) bool {
	return err == nil
}
