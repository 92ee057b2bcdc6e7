package domain

// Role represents user role in the system
type Role string

const (
	RoleMember     Role = "MEMBER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPERADMIN"
)

// Valid reports whether the role is a known role
func (r Role) Valid() bool {
	switch r {
	case RoleMember, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// Capability is a named permission consulted before privileged operations
type Capability string

const (
	CapApproveTransactions Capability = "approve_transactions"
	CapRecordRepayments    Capability = "record_repayments"
	CapManageMembers       Capability = "manage_members"
	CapGenerateReports     Capability = "generate_reports"
	CapManageUsers         Capability = "manage_users"
)

// roleCapabilities is the capability table. Role checks go through
// Can; call sites never compare role strings directly.
var roleCapabilities = map[Role]map[Capability]bool{
	RoleMember: {},
	RoleAdmin: {
		CapApproveTransactions: true,
		CapRecordRepayments:    true,
		CapManageMembers:       true,
		CapGenerateReports:     true,
	},
	RoleSuperAdmin: {
		CapApproveTransactions: true,
		CapRecordRepayments:    true,
		CapManageMembers:       true,
		CapGenerateReports:     true,
		CapManageUsers:         true,
	},
}

// Can reports whether the role holds the given capability
func (r Role) Can(c Capability) bool {
	return roleCapabilities[r][c]
}
