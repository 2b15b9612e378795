// Package auth covers credential checks, token issuance and the single
// role-capability gate every mutating operation goes through.
package auth

import (
	"restaurant-pos/internal/domain"
)

// Require is the authorization gate: each operation declares its allowed-roles
// set once and calls this before the operation body runs.
func Require(actor domain.Actor, allowed ...domain.Role) error {
	for _, r := range allowed {
		if actor.Role == r {
			return nil
		}
	}
	return domain.Ef(domain.KindAuthorization, "role %s is not permitted to perform this action", actor.Role)
}
