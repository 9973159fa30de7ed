package venda

import (
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/shopspring/decimal"
)

const (
	semVendedor = "Sem vendedor"
	semParceiro = "Sem parceiro"
)

// vendaResposta acrescenta à venda os campos derivados da listagem.
type vendaResposta struct {
	Venda
	SellerName   string `json:"seller_name"`
	PartnerName  string `json:"partner_name"`
	DaysUntilEnd *int   `json:"days_until_end"`
}

func novaVendaResposta(v Venda, agora time.Time) vendaResposta {
	return vendaResposta{Venda: v, SellerName: nomeVendedor(v), PartnerName: nomeParceiro(v), DaysUntilEnd: v.DiasAteFim(agora)}
}

func nomeVendedor(v Venda) string {
	if v.Vendedor != nil && v.Vendedor.Name != "" {
		return v.Vendedor.Name
	}
	return semVendedor
}

func nomeParceiro(v Venda) string {
	if v.Parceiro != nil && v.Parceiro.Name != "" {
		return v.Parceiro.Name
	}
	return semParceiro
}

// atualizarVendaRequest só altera os campos presentes no corpo do pedido.
type atualizarVendaRequest struct {
	Status            *models.StatusVenda `json:"status"`
	SellerID          *string             `json:"seller_id"`
	Notes             *string             `json:"notes"`
	ContractValue     *decimal.Decimal    `json:"contract_value"`
	LoyaltyMonths     *int                `json:"loyalty_months" validate:"omitempty,min=0"`
	CommissionSeller  *decimal.Decimal    `json:"commission_seller"`
	CommissionPartner *decimal.Decimal    `json:"commission_partner"`
}

// intakeResposta é devolvida por todos os endpoints do fluxo de criação.
type intakeResposta struct {
	ID                    string      `json:"id"`
	Estado                Estado      `json:"state"`
	OperadorasDisponiveis interface{} `json:"available_operators"`
	Erro                  string      `json:"error,omitempty"`
}

type nifRequest struct {
	NIF string `json:"nif"`
}

type ramoRequest struct {
	Ramo Ramo `json:"branch"`
}

type referenciaRequest struct {
	VendaID string `json:"sale_id"`
}

type resolucaoRequest struct {
	Resolucao Resolucao `json:"resolution"`
}

type iniciarRequest struct {
	RefidFrom string `json:"refid_from"`
}
