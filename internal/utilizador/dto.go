package utilizador

import (
	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/shopspring/decimal"
)

// PedidoCriacao é o corpo de POST /admin/utilizadores.
type PedidoCriacao struct {
	Email    string          `json:"email" validate:"required"`
	Password string          `json:"password" validate:"required"`
	UserData DadosUtilizador `json:"userData"`
}

// DadosUtilizador descreve o perfil; os campos de comissão só são gravados quando presentes.
type DadosUtilizador struct {
	Email                string           `json:"email" validate:"omitempty,email"`
	Name                 string           `json:"name"`
	Role                 models.Papel     `json:"role"`
	MustChangePassword   *bool            `json:"must_change_password"`
	CommissionPercentage *decimal.Decimal `json:"commission_percentage"`
	CommissionThreshold  *decimal.Decimal `json:"commission_threshold"`
}

type respostaCriacao struct {
	User *Utilizador `json:"user"`
}

type respostaSenhaTemporaria struct {
	TemporaryPassword string `json:"temporary_password"`
}
