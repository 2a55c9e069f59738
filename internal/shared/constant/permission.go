package constant

// Casbin objects.
const (
	PermOTPCodes     = "otp_codes"
	PermOTPConfig    = "otp_config"
	PermAdminUsers   = "admin_users"
	PermAuditEvents  = "audit_events"
	PermSelfIdentity = "self_identity"
)

// Casbin actions.
const (
	PermActRead   = "read"
	PermActWrite  = "write"
	PermActDelete = "delete"
)

// Roles, used both as casbin subjects and as the JWT role claim.
const (
	RoleUser  = "USER"
	RoleAdmin = "ADMIN"
)
