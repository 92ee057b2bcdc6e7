package domain

import "testing"

func TestRoleCapabilities(t *testing.T) {
	tests := []struct {
		role Role
		cap  Capability
		want bool
	}{
		{RoleMember, CapApproveTransactions, false},
		{RoleMember, CapRecordRepayments, false},
		{RoleMember, CapManageUsers, false},
		{RoleAdmin, CapApproveTransactions, true},
		{RoleAdmin, CapRecordRepayments, true},
		{RoleAdmin, CapManageMembers, true},
		{RoleAdmin, CapGenerateReports, true},
		{RoleAdmin, CapManageUsers, false},
		{RoleSuperAdmin, CapApproveTransactions, true},
		{RoleSuperAdmin, CapManageUsers, true},
	}
	for _, tt := range tests {
		if got := tt.role.Can(tt.cap); got != tt.want {
			t.Errorf("%s.Can(%s): got %v, want %v", tt.role, tt.cap, got, tt.want)
		}
	}
}

func TestUnknownRoleHasNoCapabilities(t *testing.T) {
	if Role("GUEST").Can(CapApproveTransactions) {
		t.Fatalf("unknown roles must hold no capabilities")
	}
}

func TestRoleValid(t *testing.T) {
	for _, r := range []Role{RoleMember, RoleAdmin, RoleSuperAdmin} {
		if !r.Valid() {
			t.Errorf("role %s should be valid", r)
		}
	}
	if Role("guest").Valid() {
		t.Errorf("lowercase role should be invalid")
	}
}
