package venda

import "github.com/Leiritrix/api-vendas/internal/models"

// SemVendedor é o valor do formulário para "sem vendedor atribuído".
const SemVendedor = "none"

// Rascunho é o formulário de uma venda em construção. É tratado como valor
// imutável: cada transição devolve uma cópia nova.
//
// Os dados específicos de cada categoria vivem em variantes: Energia só existe
// para a categoria energia e Telecom só para telecomunicações; painéis solares
// não têm nenhuma.
type Rascunho struct {
	ClientName    string           `json:"client_name"`
	ClientEmail   string           `json:"client_email"`
	ClientPhone   string           `json:"client_phone"`
	ClientNIF     string           `json:"client_nif"`
	Morada        Morada           `json:"address"`
	Categoria     models.Categoria `json:"category"`
	TipoVenda     models.TipoVenda `json:"sale_type"`
	PartnerID     string           `json:"partner_id"`
	OperatorID    string           `json:"operator_id"`
	SellerID      string           `json:"seller_id"`
	LoyaltyMonths string           `json:"loyalty_months"`
	Notas         string           `json:"notes"`

	Energia *DadosEnergia `json:"energy,omitempty"`
	Telecom *DadosTelecom `json:"telecom,omitempty"`
}

type DadosEnergia struct {
	Tipo     models.TipoEnergia `json:"energy_type"`
	CPE      string             `json:"cpe"`
	Potencia string             `json:"potencia"`
	CUI      string             `json:"cui"`
	Escalao  string             `json:"escalao"`
}

type DadosTelecom struct {
	ValorContrato string `json:"contract_value"`
	TV            bool   `json:"services_tv"`
	Net           bool   `json:"services_net"`
	LR            bool   `json:"services_lr"`
	Moveis        int    `json:"services_moveis_count"`
}

// MaxMoveis é o limite de linhas móveis por contrato.
const MaxMoveis = 5

func limitarMoveis(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxMoveis {
		return MaxMoveis
	}
	return n
}

func novoRascunho(nif string) Rascunho {
	return Rascunho{ClientNIF: nif, SellerID: SemVendedor}
}

func (r Rascunho) clone() Rascunho {
	if r.Energia != nil {
		e := *r.Energia
		r.Energia = &e
	}
	if r.Telecom != nil {
		t := *r.Telecom
		r.Telecom = &t
	}
	return r
}

// comCategoria troca a variante para a da categoria c, mantendo os dados
// quando a categoria não muda.
func (r Rascunho) comCategoria(c models.Categoria) Rascunho {
	r = r.clone()
	r.Categoria = c
	switch c {
	case models.CategoriaEnergia:
		r.Telecom = nil
		if r.Energia == nil {
			r.Energia = &DadosEnergia{}
		}
	case models.CategoriaTelecomunicacoes:
		r.Energia = nil
		if r.Telecom == nil {
			r.Telecom = &DadosTelecom{}
		}
	default:
		r.Energia = nil
		r.Telecom = nil
	}
	if c == models.CategoriaPaineisSolares {
		r.TipoVenda = ""
	}
	return r
}

// TipoEnergia devolve o tipo de energia ou vazio fora da categoria energia.
func (r Rascunho) TipoEnergia() models.TipoEnergia {
	if r.Energia == nil {
		return ""
	}
	return r.Energia.Tipo
}

// TemServicos indica se os serviços adicionais se aplicam ao rascunho.
func (r Rascunho) TemServicos() bool {
	return r.Telecom != nil &&
		(r.TipoVenda == models.TipoNovaInstalacao || r.TipoVenda == models.TipoMudancaCasa)
}
