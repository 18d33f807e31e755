package policy

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"libnet/pkg/domain"
	dErrors "libnet/pkg/domain-errors"
)

func TestAllowed(t *testing.T) {
	home := domain.NewLibraryID()
	other := domain.NewLibraryID()

	admin := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleNetworkAdmin}
	coordinator := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleLocalCoordinator, HomeLibraryID: home}
	reader := domain.Actor{ID: domain.NewStaffID(), Role: domain.RoleReader}

	tests := []struct {
		name    string
		actor   domain.Actor
		op      Operation
		library domain.LibraryID
		want    bool
	}{
		{"admin manages libraries", admin, OpManageLibraries, domain.LibraryID{}, true},
		{"admin manages catalog", admin, OpManageCatalog, domain.LibraryID{}, true},
		{"admin manages staff", admin, OpManageStaff, domain.LibraryID{}, true},
		{"admin views audit", admin, OpViewAudit, domain.LibraryID{}, true},
		{"admin views any library's loans", admin, OpViewLoans, home, true},
		{"admin views any library's inventory", admin, OpViewInventory, other, true},
		{"admin cannot check out", admin, OpCheckout, home, false},
		{"admin cannot return", admin, OpReturn, home, false},
		{"admin cannot manage readers", admin, OpManageReaders, home, false},
		{"admin cannot manage inventory", admin, OpManageInventory, home, false},

		{"coordinator checks out at home", coordinator, OpCheckout, home, true},
		{"coordinator returns at home", coordinator, OpReturn, home, true},
		{"coordinator manages home inventory", coordinator, OpManageInventory, home, true},
		{"coordinator manages home readers", coordinator, OpManageReaders, home, true},
		{"coordinator views home loans", coordinator, OpViewLoans, home, true},
		{"coordinator cannot check out elsewhere", coordinator, OpCheckout, other, false},
		{"coordinator cannot manage other inventory", coordinator, OpManageInventory, other, false},
		{"coordinator cannot manage libraries", coordinator, OpManageLibraries, domain.LibraryID{}, false},
		{"coordinator cannot manage staff", coordinator, OpManageStaff, domain.LibraryID{}, false},
		{"coordinator cannot view audit", coordinator, OpViewAudit, domain.LibraryID{}, false},
		{"coordinator needs a concrete target", coordinator, OpCheckout, domain.LibraryID{}, false},

		{"reader gets nothing", reader, OpViewInventory, home, false},
		{"unauthenticated actor gets nothing", domain.Actor{}, OpCheckout, home, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Allowed(tt.actor, tt.op, tt.library))
		})
	}
}

func TestAuthorize(t *testing.T) {
	coordinator := domain.Actor{
		ID:            domain.NewStaffID(),
		Role:          domain.RoleLocalCoordinator,
		HomeLibraryID: domain.NewLibraryID(),
	}

	assert.NoError(t, Authorize(coordinator, OpCheckout, coordinator.HomeLibraryID))

	err := Authorize(coordinator, OpCheckout, domain.NewLibraryID())
	assert.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeForbidden))
}
