package entity

// Role identifies what a platform account is allowed to do.
type Role string

const (
	// RoleUser is a regular customer account.
	RoleUser Role = "user"

	// RoleAgent is a listing agent account.
	RoleAgent Role = "agent"

	// RoleAdmin is a platform administrator account.
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	default:
		return false
	}
}

// String returns the role as a plain string.
func (r Role) String() string {
	return string(r)
}
