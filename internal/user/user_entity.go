package user

import (
	"time"

	"github.com/google/uuid"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleManager  = "MANAGER"
	RoleAdmin    = "ADMIN"
)

func IsValidRole(role string) bool {
	switch role {
	case RoleEmployee, RoleManager, RoleAdmin:
		return true
	default:
		return false
	}
}

// User is never hard-deleted; deactivation flips IsActive.
type User struct {
	ID        uuid.UUID  `gorm:"column:id;type:uuid;primaryKey"`
	Email     string     `gorm:"column:email;type:varchar(255);not null;uniqueIndex:uq_users_email"`
	Name      string     `gorm:"column:name;type:varchar(255);not null"`
	Role      string     `gorm:"column:role;type:varchar(20);not null"`
	ManagerID *uuid.UUID `gorm:"column:manager_id;type:uuid"`
	Password  string     `gorm:"column:password;type:varchar(255);not null"`
	IsActive  bool       `gorm:"column:is_active;not null"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt time.Time  `gorm:"column:updated_at;autoUpdateTime"`
}

func (User) TableName() string {
	return "users"
}
