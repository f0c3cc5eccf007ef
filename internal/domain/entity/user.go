package entity

import "time"

// Roles válidos para User.
const (
	RoleLogger     = "Logger"
	RoleChecker    = "Checker"
	RoleAuthorizer = "Authorizer"
	RoleSuperAdmin = "Super Admin"
)

// ValidRole indica si role es uno de los roles del sistema.
func ValidRole(role string) bool {
	switch role {
	case RoleLogger, RoleChecker, RoleAuthorizer, RoleSuperAdmin:
		return true
	}
	return false
}

// Estados de cuenta.
const (
	UserStatusActive   = "active"
	UserStatusInactive = "inactive"
)

// User representa un usuario del sistema.
type User struct {
	ID           string
	Email        string
	Username     string
	PasswordHash string // bcrypt hash
	Role         string
	Status       string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Actor es el usuario que ejecuta una transición (extraído del token).
type Actor struct {
	ID       string
	Username string
	Role     string
}

// ActorOf construye el Actor de un User.
func ActorOf(u *User) Actor {
	return Actor{ID: u.ID, Username: u.Username, Role: u.Role}
}

// IsPrivileged Authorizer o Super Admin (habilita el camino rápido a APPROVED).
func (a Actor) IsPrivileged() bool {
	return a.Role == RoleAuthorizer || a.Role == RoleSuperAdmin
}
