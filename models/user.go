// GestionDePagos/models/user.go
package models

import "gorm.io/gorm"

// Estados de aprobación de una cuenta. Los usuarios recién registrados
// quedan en 'pending' hasta que un administrador los apruebe.
const (
	ApprovalPending  = "pending"
	ApprovalApproved = "approved"
	ApprovalRejected = "rejected"
)

// Roles disponibles en el sistema.
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User representa una cuenta del sistema de gestión de pagos.
type User struct {
	gorm.Model
	Name           string `json:"name" gorm:"not null"`
	Email          string `json:"email" gorm:"unique;not null"`
	Password       string `json:"-" gorm:"not null"`
	Role           string `json:"role" gorm:"default:'user'"`
	IsActive       bool   `json:"isActive" gorm:"default:true"`
	IsApproved     bool   `json:"isApproved" gorm:"default:false"`
	ApprovalStatus string `json:"approvalStatus" gorm:"default:'pending'"`
}
