package utilizador

import (
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/shopspring/decimal"
)

// Utilizador é o perfil de back office; o ID coincide com o da identidade de autenticação.
type Utilizador struct {
	ID                   string           `gorm:"type:uuid;primaryKey" json:"id"`
	Email                string           `gorm:"size:255;not null;uniqueIndex" json:"email"`
	Name                 string           `gorm:"size:255" json:"name"`
	Role                 models.Papel     `gorm:"size:30;not null;index" json:"role"`
	Active               bool             `gorm:"not null" json:"active"`
	MustChangePassword   bool             `gorm:"not null" json:"must_change_password"`
	CommissionPercentage *decimal.Decimal `gorm:"type:numeric(5,2)" json:"commission_percentage,omitempty"`
	CommissionThreshold  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"commission_threshold,omitempty"`
	CreatedAt            time.Time        `json:"created_at"`
	UpdatedAt            time.Time        `json:"updated_at"`
}

func (Utilizador) TableName() string { return "users" }
