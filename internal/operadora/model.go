package operadora

import (
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Operadora é o fornecedor final do serviço vendido (energia, telecomunicações, solar).
// Pertence a um parceiro e só aceita vendas das categorias marcadas em Categories.
type Operadora struct {
	ID                    string             `gorm:"type:uuid;primaryKey" json:"id"`
	PartnerID             string             `gorm:"type:uuid;not null;index" json:"partner_id"`
	Name                  string             `gorm:"size:255;not null" json:"name"`
	Categories            []models.Etiqueta  `gorm:"type:jsonb;serializer:json" json:"categories"`
	AllowedSaleTypes      []models.TipoVenda `gorm:"type:jsonb;serializer:json" json:"allowed_sale_types"`
	CommissionVisibleToBO bool               `gorm:"not null" json:"commission_visible_to_bo"`
	Active                bool               `gorm:"not null;index" json:"active"`
	CreatedAt             time.Time          `json:"created_at"`
	UpdatedAt             time.Time          `json:"updated_at"`
}

func (Operadora) TableName() string { return "operators" }

func (o *Operadora) BeforeCreate(*gorm.DB) error {
	if o.ID == "" {
		o.ID = uuid.NewString()
	}
	return nil
}

// PermiteTipo indica se a operadora aceita vendas do tipo t.
func (o Operadora) PermiteTipo(t models.TipoVenda) bool {
	for _, a := range o.AllowedSaleTypes {
		if a == t {
			return true
		}
	}
	return false
}

func (o Operadora) temEtiqueta(e models.Etiqueta) bool {
	for _, c := range o.Categories {
		if c == e {
			return true
		}
	}
	return false
}

// OperadoraComVendas acompanha a contagem de vendas associadas.
type OperadoraComVendas struct {
	Operadora
	SalesCount int64 `json:"salesCount"`
}
