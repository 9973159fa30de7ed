// Package models reúne os tipos de domínio partilhados entre vendas e catálogo.
package models

// Categoria de uma venda.
type Categoria string

const (
	CategoriaEnergia          Categoria = "energia"
	CategoriaTelecomunicacoes Categoria = "telecomunicacoes"
	CategoriaPaineisSolares   Categoria = "paineis_solares"
)

func (c Categoria) Valida() bool {
	switch c {
	case CategoriaEnergia, CategoriaTelecomunicacoes, CategoriaPaineisSolares:
		return true
	}
	return false
}

// TipoVenda só se aplica a energia e telecomunicações.
type TipoVenda string

const (
	TipoNovaInstalacao TipoVenda = "nova_instalacao"
	TipoRefid          TipoVenda = "refid"
	TipoMudancaCasa    TipoVenda = "mudanca_casa"
)

func (t TipoVenda) Valido() bool {
	switch t {
	case TipoNovaInstalacao, TipoRefid, TipoMudancaCasa:
		return true
	}
	return false
}

// TipoEnergia só se aplica à categoria energia.
type TipoEnergia string

const (
	EnergiaEletricidade TipoEnergia = "eletricidade"
	EnergiaGas          TipoEnergia = "gas"
	EnergiaDual         TipoEnergia = "dual"
)

func (t TipoEnergia) Valido() bool {
	switch t {
	case EnergiaEletricidade, EnergiaGas, EnergiaDual:
		return true
	}
	return false
}

// TemEletricidade indica se o tipo exige CPE e potência.
func (t TipoEnergia) TemEletricidade() bool {
	return t == EnergiaEletricidade || t == EnergiaDual
}

// TemGas indica se o tipo exige CUI e escalão.
func (t TipoEnergia) TemGas() bool {
	return t == EnergiaGas || t == EnergiaDual
}

// Etiqueta de categoria atribuída a uma operadora.
type Etiqueta string

const (
	EtiquetaEletricidade     Etiqueta = "energia_eletricidade"
	EtiquetaGas              Etiqueta = "energia_gas"
	EtiquetaTelecomunicacoes Etiqueta = "telecomunicacoes"
	EtiquetaPaineisSolares   Etiqueta = "paineis_solares"
)

func (e Etiqueta) Valida() bool {
	switch e {
	case EtiquetaEletricidade, EtiquetaGas, EtiquetaTelecomunicacoes, EtiquetaPaineisSolares:
		return true
	}
	return false
}

// StatusVenda acompanha o ciclo de vida comercial de uma venda.
type StatusVenda string

const (
	StatusEmNegociacao StatusVenda = "em_negociacao"
	StatusPendente     StatusVenda = "pendente"
	StatusAtivo        StatusVenda = "ativo"
	StatusPerdido      StatusVenda = "perdido"
	StatusAnulado      StatusVenda = "anulado"
)

func (s StatusVenda) Valido() bool {
	switch s {
	case StatusEmNegociacao, StatusPendente, StatusAtivo, StatusPerdido, StatusAnulado:
		return true
	}
	return false
}

// Papel de um utilizador no back office.
type Papel string

const (
	PapelAdmin      Papel = "admin"
	PapelBackoffice Papel = "backoffice"
	PapelVendedor   Papel = "vendedor"
)

func (p Papel) Valido() bool {
	switch p {
	case PapelAdmin, PapelBackoffice, PapelVendedor:
		return true
	}
	return false
}
