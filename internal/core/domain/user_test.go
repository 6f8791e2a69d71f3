package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanConnect(t *testing.T) {
	tests := []struct {
		name    string
		role    Role
		status  AccountStatus
		wantErr error
	}{
		{"active mentee", RoleMentee, StatusActive, nil},
		{"active mentor", RoleMentor, StatusActive, nil},
		{"pending mentee", RoleMentee, StatusPending, nil},
		{"pending admin", RoleAdmin, StatusPending, nil},
		{"pending mentor", RoleMentor, StatusPending, ErrApprovalPending},
		{"inactive mentee", RoleMentee, StatusInactive, ErrAccountInactive},
		{"inactive mentor", RoleMentor, StatusInactive, ErrAccountInactive},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u := &User{ID: "u1", Role: tt.role, Status: tt.status}
			err := u.CanConnect()
			if tt.wantErr == nil {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, tt.wantErr)
			}
		})
	}
}

func TestPolicyFor_UnknownRoleIsRestrictive(t *testing.T) {
	assert.True(t, PolicyFor("intruder").GatedPendingApproval)
	assert.False(t, ValidRole("intruder"))
	assert.True(t, ValidRole(RoleAdmin))
}

func TestMessageValidateTarget(t *testing.T) {
	assert.NoError(t, (&Message{ReceiverID: "bob"}).ValidateTarget())
	assert.NoError(t, (&Message{GroupID: "study-1"}).ValidateTarget())
	assert.ErrorIs(t, (&Message{ReceiverID: "bob", GroupID: "study-1"}).ValidateTarget(), ErrAmbiguousTarget)
	assert.ErrorIs(t, (&Message{}).ValidateTarget(), ErrMissingTarget)
}
