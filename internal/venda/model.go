package venda

import (
	"math"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/operadora"
	"github.com/Leiritrix/api-vendas/internal/parceiro"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Venda é o contrato registado para um cliente (identificado pelo NIF).
type Venda struct {
	ID string `gorm:"type:uuid;primaryKey" json:"id"`

	ClientName    string  `gorm:"size:255;not null" json:"client_name"`
	ClientEmail   *string `gorm:"size:255" json:"client_email"`
	ClientPhone   *string `gorm:"size:50" json:"client_phone"`
	ClientNIF     string  `gorm:"size:9;not null;index" json:"client_nif"`
	StreetAddress string  `gorm:"size:255;not null" json:"street_address"`
	PostalCode    string  `gorm:"size:8;not null" json:"postal_code"`
	City          string  `gorm:"size:120;not null" json:"city"`

	Category   models.Categoria    `gorm:"size:30;not null;index" json:"category"`
	SaleType   *models.TipoVenda   `gorm:"size:30" json:"sale_type"`
	EnergyType *models.TipoEnergia `gorm:"size:20" json:"energy_type"`
	CPE        *string             `gorm:"column:cpe;size:50" json:"cpe"`
	Potencia   *string             `gorm:"size:20" json:"potencia"`
	CUI        *string             `gorm:"column:cui;size:50" json:"cui"`
	Escalao    *string             `gorm:"size:20" json:"escalao"`

	PartnerID  string  `gorm:"type:uuid;not null;index" json:"partner_id"`
	OperatorID string  `gorm:"type:uuid;not null;index" json:"operator_id"`
	SellerID   *string `gorm:"type:uuid;index" json:"seller_id"`

	ContractValue  decimal.Decimal `gorm:"type:numeric(12,2);not null" json:"contract_value"`
	LoyaltyMonths  int             `gorm:"not null" json:"loyalty_months"`
	LoyaltyEndDate *time.Time      `json:"loyalty_end_date"`

	ServicesTV          bool `gorm:"column:services_tv;not null" json:"services_tv"`
	ServicesNet         bool `gorm:"not null" json:"services_net"`
	ServicesLR          bool `gorm:"column:services_lr;not null" json:"services_lr"`
	ServicesMoveisCount int  `gorm:"not null" json:"services_moveis_count"`

	Status models.StatusVenda `gorm:"size:30;not null;index" json:"status"`
	Notes  *string            `gorm:"type:text" json:"notes"`

	CommissionSeller  *decimal.Decimal `gorm:"type:numeric(12,2)" json:"commission_seller"`
	CommissionPartner *decimal.Decimal `gorm:"type:numeric(12,2)" json:"commission_partner"`

	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Operadora *operadora.Operadora   `gorm:"foreignKey:OperatorID" json:"operator,omitempty"`
	Vendedor  *utilizador.Utilizador `gorm:"foreignKey:SellerID" json:"seller,omitempty"`
	Parceiro  *parceiro.Parceiro     `gorm:"foreignKey:PartnerID" json:"partner,omitempty"`
}

func (Venda) TableName() string { return "sales" }

func (v *Venda) BeforeCreate(*gorm.DB) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	return nil
}

// DiasAteFim conta os dias (arredondados para cima, nunca negativos) até ao fim da fidelização.
func (v Venda) DiasAteFim(agora time.Time) *int {
	if v.LoyaltyEndDate == nil {
		return nil
	}
	dias := int(math.Ceil(v.LoyaltyEndDate.Sub(agora).Hours() / 24))
	if dias < 0 {
		dias = 0
	}
	return &dias
}

// Morada de instalação do contrato.
type Morada struct {
	Rua          string `json:"street_address"`
	CodigoPostal string `json:"postal_code"`
	Localidade   string `json:"city"`
}

func (v Venda) Morada() Morada {
	return Morada{Rua: v.StreetAddress, CodigoPostal: v.PostalCode, Localidade: v.City}
}

// Filtro da listagem de vendas; campos vazios são ignorados.
type Filtro struct {
	SellerID  string
	Status    models.StatusVenda
	Category  models.Categoria
	PartnerID string
}
