package domain

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "libnet/pkg/domain-errors"
)

func TestParseLibraryID(t *testing.T) {
	t.Run("valid UUID round-trips", func(t *testing.T) {
		raw := uuid.NewString()
		id, err := ParseLibraryID(raw)
		require.NoError(t, err)
		assert.Equal(t, raw, id.String())
		assert.False(t, id.IsNil())
	})

	t.Run("empty input rejected", func(t *testing.T) {
		_, err := ParseLibraryID("")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("malformed input rejected", func(t *testing.T) {
		_, err := ParseLibraryID("not-a-uuid")
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})

	t.Run("nil UUID rejected", func(t *testing.T) {
		_, err := ParseLibraryID(uuid.Nil.String())
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
	})
}

func TestNewIDsAreDistinct(t *testing.T) {
	a := NewLoanID()
	b := NewLoanID()
	assert.NotEqual(t, a, b)
	assert.False(t, a.IsNil())
}

func TestParseCopyStatus(t *testing.T) {
	tests := []struct {
		input string
		want  CopyStatus
		ok    bool
	}{
		{"AVAILABLE", CopyAvailable, true},
		{"ON_LOAN", CopyOnLoan, true},
		{"available", "", false},
		{"LOST", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, err := ParseCopyStatus(tt.input)
		if tt.ok {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, got)
		} else {
			require.Error(t, err, tt.input)
			assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
		}
	}
}

func TestParseLoanStatus(t *testing.T) {
	tests := []struct {
		input string
		want  LoanStatus
		ok    bool
	}{
		{"OPEN", LoanOpen, true},
		{"RETURNED", LoanReturned, true},
		{"CLOSED", "", false},
		{"open", "", false},
	}
	for _, tt := range tests {
		got, err := ParseLoanStatus(tt.input)
		if tt.ok {
			require.NoError(t, err, tt.input)
			assert.Equal(t, tt.want, got)
		} else {
			require.Error(t, err, tt.input)
		}
	}
}

func TestParseRole(t *testing.T) {
	for _, valid := range []string{"network_admin", "local_coordinator", "reader"} {
		role, err := ParseRole(valid)
		require.NoError(t, err)
		assert.Equal(t, valid, role.String())
	}
	_, err := ParseRole("superuser")
	require.Error(t, err)
	assert.True(t, dErrors.HasCode(err, dErrors.CodeBadRequest))
}
