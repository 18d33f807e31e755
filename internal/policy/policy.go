// Package policy maps an authenticated actor onto the circulation operations
// permitted for a target library. It is a pure function: no sessions, no
// store access, actor supplied explicitly on every call.
package policy

import (
	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
)

// Operation names one permission-checked action.
type Operation string

const (
	OpManageLibraries Operation = "manage_libraries"
	OpManageCatalog   Operation = "manage_catalog"
	OpManageStaff     Operation = "manage_staff"
	OpManageInventory Operation = "manage_inventory"
	OpManageReaders   Operation = "manage_readers"
	OpCheckout        Operation = "checkout"
	OpReturn          Operation = "return"
	OpViewLoans       Operation = "view_loans"
	OpViewInventory   Operation = "view_inventory"
	OpViewAudit       Operation = "view_audit"
)

// networkOps need no target library; they operate on network-shared state.
var networkOps = map[Operation]bool{
	OpManageLibraries: true,
	OpManageCatalog:   true,
	OpManageStaff:     true,
	OpViewAudit:       true,
}

// Allowed reports whether actor may perform op against the given library.
//
// network_admin: library/catalog/staff management and full read access, but
// no circulation rights - checkouts happen at a branch desk, by its staff.
// local_coordinator: everything circulation- and inventory-related, home
// library only. reader: nothing here; public search needs no policy check.
func Allowed(actor domain.Actor, op Operation, library domain.LibraryID) bool {
	switch actor.Role {
	case domain.RoleNetworkAdmin:
		if networkOps[op] {
			return true
		}
		return op == OpViewLoans || op == OpViewInventory
	case domain.RoleLocalCoordinator:
		if networkOps[op] {
			return false
		}
		return actor.HomeLibraryID == library && !library.IsNil()
	default:
		return false
	}
}

// Authorize is Allowed with the deny turned into the typed error services
// surface to callers.
func Authorize(actor domain.Actor, op Operation, library domain.LibraryID) error {
	if !Allowed(actor, op, library) {
		return dErrors.New(dErrors.CodeForbidden, "actor is not permitted to "+string(op)+" for this library")
	}
	return nil
}
