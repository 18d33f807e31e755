// Package audit keeps an append-only record of catalog and circulation
// mutations. It is written alongside the triggering operation and read by
// admins; the engine never consults it for control flow.
package audit

import (
	"time"

	"github.com/google/uuid"

	"libnet/pkg/domain"
)

// Entry is one recorded action.
type Entry struct {
	ID      uuid.UUID
	ActorID domain.StaffID
	Action  string
	Entity  string
	Detail  string
	At      time.Time
}

// Actions recorded by the services.
const (
	ActionCreateLibrary  = "create_library"
	ActionCreateTitle    = "create_title"
	ActionAddCopy        = "add_copy"
	ActionRegisterReader = "register_reader"
	ActionRegisterStaff  = "register_staff"
	ActionCheckout       = "checkout"
	ActionReturn         = "return"
)
