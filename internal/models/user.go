package models

// Role is a user role id. The ids mirror the seeded roles table.
type Role int

const (
	RoleAdmin    Role = 0
	RoleCustomer Role = 1
	RoleStaff    Role = 2
)

// User is a registered account. PassHash is a bcrypt hash and never
// leaves the process.
type User struct {
	ID       int64  `json:"id" db:"id"`
	Name     string `json:"name" db:"name"`
	PassHash string `json:"-" db:"pass_hash"`
	RoleID   Role   `json:"role_id" db:"role_id"`
}
