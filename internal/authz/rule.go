package authz

// Decision is the typed outcome of a guard rule. Rules never write transport
// responses; middleware translates a Decision into HTTP.
type Decision struct {
	Allowed bool
	Code    string
	Message string
}

// Denial codes carried on Decision and surfaced in error envelopes.
const (
	CodeForbidden = "FORBIDDEN"
)

var allow = Decision{Allowed: true}

func deny(message string) Decision {
	return Decision{Code: CodeForbidden, Message: message}
}

// Rule evaluates one authorization requirement against a checker.
type Rule func(c *Checker) Decision

// AdminOnly admits admin and super_admin by role name alone. Used for
// navigational and administrative surfaces where role membership is the
// declared requirement.
func AdminOnly() Rule {
	return func(c *Checker) Decision {
		if c.IsAdmin() {
			return allow
		}
		return deny("Forbidden")
	}
}

// PermissionRequired admits only holders of the named permission. Plain
// admins without the permission row are denied; super_admin passes through
// the checker's implicit-all rule.
func PermissionRequired(name string) Rule {
	return func(c *Checker) Decision {
		if c.HasPermission(name) {
			return allow
		}
		return deny("Forbidden")
	}
}

// AnyPermission admits holders of at least one of the named permissions.
func AnyPermission(names ...string) Rule {
	return func(c *Checker) Decision {
		if c.HasAnyPermission(names...) {
			return allow
		}
		return deny("Forbidden")
	}
}

// AdminOrPermission admits by role membership OR explicit permission. The
// per-route choice between this, AdminOnly and PermissionRequired is made in
// routes.go, never globally.
func AdminOrPermission(name string) Rule {
	return func(c *Checker) Decision {
		if c.IsAdmin() || c.HasPermission(name) {
			return allow
		}
		return deny("Forbidden")
	}
}

// AdminOrOwnerOrPermission is the full composition rule for owned resources:
// admin role, resource ownership, or the explicit permission each suffice.
// The owner id is resolved by the handler before evaluation.
func AdminOrOwnerOrPermission(ownerID uint, name string) Rule {
	return func(c *Checker) Decision {
		if c.IsAdmin() || c.OwnsResource(ownerID) || c.HasPermission(name) {
			return allow
		}
		return deny("Forbidden")
	}
}
