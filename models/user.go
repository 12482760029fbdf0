package models

// UserRole приходит в claim "role" токена, выпущенного внешним сервисом.
type UserRole string

const (
	RoleAdmin  UserRole = "admin"
	RoleEditor UserRole = "editor"
)

func (r UserRole) Valid() bool {
	return r == RoleAdmin || r == RoleEditor
}

// Editor is the authenticated caller of a write route.
type Editor struct {
	ID   string   `json:"id"`
	Role UserRole `json:"role"`
}
