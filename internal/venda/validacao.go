package venda

import (
	"regexp"
	"strings"

	"github.com/Leiritrix/api-vendas/internal/models"
)

var (
	nifRegex          = regexp.MustCompile(`^\d{9}$`)
	codigoPostalRegex = regexp.MustCompile(`^\d{4}-\d{3}$`)
)

// ErroValidacao é um erro de preenchimento que o utilizador pode corrigir.
type ErroValidacao struct {
	Campo    string `json:"field"`
	Mensagem string `json:"message"`
}

func (e *ErroValidacao) Error() string { return e.Mensagem }

const (
	msgObrigatorios   = "Preencha os campos obrigatórios (Nome, Categoria, Parceiro)"
	msgOperadora      = "Selecione uma operadora"
	msgContacto       = "Preencha pelo menos um contacto (telefone ou email)"
	msgNIFObrigatorio = "O NIF é obrigatório"
	msgNIFInserir     = "Insira um NIF"
	msgNIFFormato     = "O NIF deve ter 9 dígitos numéricos"
	msgMorada         = "Todos os campos de morada são obrigatórios (Rua, Código Postal, Localidade)"
	msgCodigoPostal   = "Código postal deve estar no formato 0000-000"
	msgTipoEnergia    = "Selecione o tipo de energia"
	msgEletricidade   = "CPE e Potência são obrigatórios para eletricidade"
	msgGas            = "CUI e Escalão são obrigatórios para gás"
)

// NIFValido indica se nif tem exatamente 9 dígitos.
func NIFValido(nif string) bool {
	return nifRegex.MatchString(nif)
}

// CodigoPostalValido aceita apenas o formato 0000-000.
func CodigoPostalValido(cp string) bool {
	return codigoPostalRegex.MatchString(cp)
}

// validarNIFConsulta é a verificação feita antes de qualquer pesquisa por NIF.
func validarNIFConsulta(nif string) error {
	if nif == "" {
		return &ErroValidacao{Campo: "client_nif", Mensagem: msgNIFInserir}
	}
	if !NIFValido(nif) {
		return &ErroValidacao{Campo: "client_nif", Mensagem: msgNIFFormato}
	}
	return nil
}

func vazio(s string) bool { return strings.TrimSpace(s) == "" }

// Violacoes devolve todas as regras violadas, pela ordem de precedência.
func Violacoes(r Rascunho) []ErroValidacao {
	var out []ErroValidacao
	add := func(campo, msg string) {
		out = append(out, ErroValidacao{Campo: campo, Mensagem: msg})
	}

	if vazio(r.ClientName) {
		add("client_name", msgObrigatorios)
	}
	if r.Categoria == "" {
		add("category", msgObrigatorios)
	}
	if r.PartnerID == "" {
		add("partner_id", msgObrigatorios)
	}
	if r.OperatorID == "" {
		add("operator_id", msgOperadora)
	}
	if vazio(r.ClientPhone) && vazio(r.ClientEmail) {
		add("client_phone", msgContacto)
	}
	if r.ClientNIF == "" {
		add("client_nif", msgNIFObrigatorio)
	} else if !NIFValido(r.ClientNIF) {
		add("client_nif", msgNIFFormato)
	}
	if vazio(r.Morada.Rua) || vazio(r.Morada.CodigoPostal) || vazio(r.Morada.Localidade) {
		add("address", msgMorada)
	} else if !CodigoPostalValido(r.Morada.CodigoPostal) {
		add("postal_code", msgCodigoPostal)
	}
	if r.Categoria == models.CategoriaEnergia {
		tipo := r.TipoEnergia()
		switch {
		case tipo == "":
			add("energy_type", msgTipoEnergia)
		default:
			e := r.Energia
			if tipo.TemEletricidade() && (vazio(e.CPE) || vazio(e.Potencia)) {
				add("cpe", msgEletricidade)
			}
			if tipo.TemGas() && (vazio(e.CUI) || vazio(e.Escalao)) {
				add("cui", msgGas)
			}
		}
	}
	return out
}

// Validar devolve a primeira regra violada, ou nil.
func Validar(r Rascunho) error {
	if v := Violacoes(r); len(v) > 0 {
		return &v[0]
	}
	return nil
}
