package hub

import (
	"taxihub/internal/domain/models"
	"taxihub/internal/domain/types"
)

// Reacts is the per-role reaction predicate: it decides whether an
// observer with the given role receives the event.
//
// Every role follows status changes. Location updates go to drivers and
// operators unconditionally; a customer only cares about the car's
// position while one is actually on the way (ASSIGNED or EN_ROUTE).
func Reacts(role types.Role, event models.NotificationEvent) bool {
	switch event.Kind {
	case types.EventStatusChanged:
		return true

	case types.EventLocationChanged:
		if role == types.RoleCustomer {
			return event.Status.Active()
		}
		return true

	default:
		return false
	}
}
