package domain

// Actor is the already-authenticated caller supplied by the auth boundary.
// The circulation engine and policy layer take it as an explicit parameter;
// there is no ambient "current user" state.
type Actor struct {
	ID   StaffID
	Role Role
	// HomeLibraryID scopes coordinators to one library. Nil for network
	// admins, who are not attached to a single branch.
	HomeLibraryID LibraryID
}
