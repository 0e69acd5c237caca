package models

// Role names as stored in the roles table.
const (
	RoleBrand      = "Brand"
	RoleInfluencer = "Influencer"
	RoleAdmin      = "Admin"
)

type Role struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type UserRole struct {
	UserID int64 `json:"user_id"`
	RoleID int64 `json:"role_id"`
}
