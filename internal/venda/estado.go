package venda

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/operadora"
)

// Fase do fluxo de criação de venda. As consultas, a validação e a gravação
// acontecem dentro de uma única chamada ao Intake e não têm fase própria.
type Fase string

const (
	FaseNIF               Fase = "nif"
	FaseEscolhaRamo       Fase = "escolha_ramo"
	FaseSelecaoMorada     Fase = "selecao_morada"
	FaseFormulario        Fase = "formulario"
	FaseConfirmacaoMorada Fase = "confirmacao_morada"
	FaseSubmissao         Fase = "submissao"
	FaseConcluida         Fase = "concluida"
	FaseFalhada           Fase = "falhada"
)

// Ramo escolhido quando o NIF já tem vendas.
type Ramo string

const (
	RamoNovaVenda   Ramo = "nova_venda"
	RamoMudancaCasa Ramo = "mudanca_casa"
	RamoRefid       Ramo = "refid"
)

func (r Ramo) tipoVenda() models.TipoVenda {
	switch r {
	case RamoMudancaCasa:
		return models.TipoMudancaCasa
	case RamoRefid:
		return models.TipoRefid
	}
	return ""
}

func (r Ramo) etiqueta() string {
	if r == RamoMudancaCasa {
		return "Mudança de Casa"
	}
	return "Refid"
}

// Resolucao da confirmação de morada numa renovação.
type Resolucao string

const (
	ResolucaoManterRefid Resolucao = "manter_refid"
	ResolucaoMudancaCasa Resolucao = "mudanca_casa"
	ResolucaoCancelar    Resolucao = "cancelar"
)

// VendaAnterior é a projeção de uma venda existente usada para preencher o formulário.
type VendaAnterior struct {
	ID               string             `json:"id"`
	CreatedAt        time.Time          `json:"created_at"`
	ClientName       string             `json:"client_name"`
	ClientEmail      string             `json:"client_email"`
	ClientPhone      string             `json:"client_phone"`
	ClientNIF        string             `json:"client_nif"`
	Morada           Morada             `json:"address"`
	Category         models.Categoria   `json:"category"`
	EnergyType       models.TipoEnergia `json:"energy_type"`
	CPE              string             `json:"cpe"`
	Potencia         string             `json:"potencia"`
	CUI              string             `json:"cui"`
	Escalao          string             `json:"escalao"`
	PartnerID        string             `json:"partner_id"`
	PartnerName      string             `json:"partner_name"`
	OperatorID       string             `json:"operator_id"`
	OperatorName     string             `json:"operator_name"`
	AllowedSaleTypes []models.TipoVenda `json:"allowed_sale_types"`
	SellerID         string             `json:"seller_id"`
	SellerActive     bool               `json:"seller_active"`
	LoyaltyMonths    int                `json:"loyalty_months"`
}

func deref[T ~string](p *T) T {
	if p == nil {
		return ""
	}
	return *p
}

// AnteriorDe projeta uma venda (com associações carregadas) para o fluxo.
func AnteriorDe(v Venda) VendaAnterior {
	a := VendaAnterior{
		ID:            v.ID,
		CreatedAt:     v.CreatedAt,
		ClientName:    v.ClientName,
		ClientEmail:   deref(v.ClientEmail),
		ClientPhone:   deref(v.ClientPhone),
		ClientNIF:     v.ClientNIF,
		Morada:        v.Morada(),
		Category:      v.Category,
		EnergyType:    deref(v.EnergyType),
		CPE:           deref(v.CPE),
		Potencia:      deref(v.Potencia),
		CUI:           deref(v.CUI),
		Escalao:       deref(v.Escalao),
		PartnerID:     v.PartnerID,
		OperatorID:    v.OperatorID,
		SellerID:      deref(v.SellerID),
		LoyaltyMonths: v.LoyaltyMonths,
	}
	if v.Parceiro != nil {
		a.PartnerName = v.Parceiro.Name
	}
	if v.Operadora != nil {
		a.OperatorName = v.Operadora.Name
		a.AllowedSaleTypes = v.Operadora.AllowedSaleTypes
	}
	if v.Vendedor != nil {
		a.SellerActive = v.Vendedor.Active
	}
	return a
}

func (a VendaAnterior) permite(t models.TipoVenda) bool {
	for _, p := range a.AllowedSaleTypes {
		if p == t {
			return true
		}
	}
	return false
}

// Estado completo de uma sessão de criação de venda.
type Estado struct {
	Fase           Fase                  `json:"phase"`
	NIF            string                `json:"nif"`
	Anteriores     []VendaAnterior       `json:"previous_sales,omitempty"`
	Ramo           Ramo                  `json:"branch,omitempty"`
	ReferenciaID   string                `json:"reference_id,omitempty"`
	Rascunho       Rascunho              `json:"draft"`
	MoradaOriginal *Morada               `json:"original_address,omitempty"`
	Operadoras     []operadora.Operadora `json:"operators,omitempty"`
	Avisos         []string              `json:"warnings,omitempty"`
	Erro           string                `json:"error,omitempty"`
	VendaID        string                `json:"sale_id,omitempty"`
}

// OperadorasDisponiveis filtra o catálogo do parceiro pela categoria e tipo de energia atuais.
func (e Estado) OperadorasDisponiveis() []operadora.Operadora {
	return operadora.Filtrar(e.Operadoras, e.Rascunho.Categoria, e.Rascunho.TipoEnergia())
}

// MoradaAlterada indica se a morada do rascunho difere da morada original registada.
func (e Estado) MoradaAlterada() bool {
	return e.MoradaOriginal != nil && e.Rascunho.Morada != *e.MoradaOriginal
}

// Evento aplicado por Transicao.
type Evento interface {
	evento()
}

type (
	// NIFConsultado traz o resultado da pesquisa por NIF (mais recente primeiro).
	NIFConsultado struct {
		NIF        string
		Anteriores []VendaAnterior
	}
	RamoEscolhido struct {
		Ramo Ramo
	}
	// ReferenciaSelecionada escolhe a venda cuja morada serve de referência.
	ReferenciaSelecionada struct {
		VendaID string
	}
	// RefidIniciado abre o formulário de renovação a partir de uma venda existente.
	RefidIniciado struct {
		Venda VendaAnterior
	}
	CampoAlterado struct {
		Campo string
		Valor string
	}
	CatalogoCarregado struct {
		PartnerID  string
		Operadoras []operadora.Operadora
	}
	SubmissaoPedida struct{}
	MoradaResolvida struct {
		Resolucao Resolucao
	}
	SubmissaoConcluida struct {
		VendaID string
	}
	SubmissaoFalhada struct {
		Mensagem string
	}
)

func (NIFConsultado) evento()         {}
func (RamoEscolhido) evento()         {}
func (ReferenciaSelecionada) evento() {}
func (RefidIniciado) evento()         {}
func (CampoAlterado) evento()         {}
func (CatalogoCarregado) evento()     {}
func (SubmissaoPedida) evento()       {}
func (MoradaResolvida) evento()       {}
func (SubmissaoConcluida) evento()    {}
func (SubmissaoFalhada) evento()      {}

var (
	ErrTransicaoInvalida      = errors.New("ação não permitida neste passo")
	ErrCampoDesconhecido      = errors.New("campo desconhecido")
	ErrCampoNaoAplicavel      = errors.New("campo não se aplica à categoria selecionada")
	ErrValorInvalido          = errors.New("valor inválido")
	ErrReferenciaDesconhecida = errors.New("venda de referência não pertence a este NIF")
	ErrOperadoraIncompativel  = errors.New("operadora não disponível para o parceiro e categoria selecionados")
)

func invalida(f Fase, ev Evento) error {
	return fmt.Errorf("%w: %T em %s", ErrTransicaoInvalida, ev, f)
}

// Transicao aplica ev a e e devolve o novo estado. e nunca é modificado.
// Em caso de erro devolve e tal como estava, exceto falhas de validação na
// submissão, que ficam registadas em Erro.
func Transicao(e Estado, ev Evento) (Estado, error) {
	switch ev := ev.(type) {
	case NIFConsultado:
		if e.Fase != FaseNIF {
			return e, invalida(e.Fase, ev)
		}
		n := Estado{NIF: ev.NIF, Anteriores: ev.Anteriores}
		if len(ev.Anteriores) == 0 {
			n.Fase = FaseFormulario
			n.Rascunho = novoRascunho(ev.NIF)
			return n, nil
		}
		n.Fase = FaseEscolhaRamo
		return n, nil

	case RamoEscolhido:
		if e.Fase != FaseEscolhaRamo {
			return e, invalida(e.Fase, ev)
		}
		n := e.copia()
		n.Ramo = ev.Ramo
		switch ev.Ramo {
		case RamoNovaVenda:
			ultima := e.Anteriores[0]
			r := novoRascunho(e.NIF)
			r.ClientName = ultima.ClientName
			r.ClientEmail = ultima.ClientEmail
			r.ClientPhone = ultima.ClientPhone
			n.Rascunho = r
			n.Fase = FaseFormulario
		case RamoMudancaCasa, RamoRefid:
			n.Fase = FaseSelecaoMorada
		default:
			return e, fmt.Errorf("%w: ramo %q", ErrValorInvalido, ev.Ramo)
		}
		return n, nil

	case ReferenciaSelecionada:
		selecionavel := e.Fase == FaseSelecaoMorada ||
			(e.Fase == FaseFormulario && (e.Ramo == RamoMudancaCasa || e.Ramo == RamoRefid))
		if !selecionavel {
			return e, invalida(e.Fase, ev)
		}
		ref, ok := e.anterior(ev.VendaID)
		if !ok {
			return e, ErrReferenciaDesconhecida
		}
		n := e.copia()
		n.ReferenciaID = ref.ID
		n.Rascunho, n.Avisos = popularDeReferencia(e.NIF, ref, e.Ramo)
		original := ref.Morada
		n.MoradaOriginal = &original
		n.Operadoras = nil
		n.Erro = ""
		n.Fase = FaseFormulario
		return n, nil

	case RefidIniciado:
		if e.Fase != FaseNIF {
			return e, invalida(e.Fase, ev)
		}
		ref := ev.Venda
		r, _ := popularDeReferencia(ref.ClientNIF, ref, RamoRefid)
		if r.Categoria != models.CategoriaPaineisSolares {
			r.TipoVenda = models.TipoRefid
		}
		original := ref.Morada
		return Estado{
			Fase:           FaseFormulario,
			NIF:            ref.ClientNIF,
			Ramo:           RamoRefid,
			ReferenciaID:   ref.ID,
			Rascunho:       r,
			MoradaOriginal: &original,
		}, nil

	case CampoAlterado:
		switch e.Fase {
		case FaseFormulario, FaseConfirmacaoMorada, FaseFalhada:
		default:
			return e, invalida(e.Fase, ev)
		}
		n, err := alterarCampo(e, ev.Campo, ev.Valor)
		if err != nil {
			return e, err
		}
		n.Fase = FaseFormulario
		n.Erro = ""
		return n, nil

	case CatalogoCarregado:
		if ev.PartnerID != e.Rascunho.PartnerID {
			// resposta de um parceiro entretanto substituído
			return e, nil
		}
		n := e.copia()
		n.Operadoras = ev.Operadoras
		n.Rascunho = limparOperadoraIncompativel(n)
		return n, nil

	case SubmissaoPedida:
		if e.Fase != FaseFormulario && e.Fase != FaseFalhada {
			return e, invalida(e.Fase, ev)
		}
		n := e.copia()
		if err := Validar(e.Rascunho); err != nil {
			n.Fase = FaseFormulario
			n.Erro = err.Error()
			return n, err
		}
		n.Erro = ""
		if n.Rascunho.TipoVenda == models.TipoRefid && n.MoradaAlterada() {
			n.Fase = FaseConfirmacaoMorada
			return n, nil
		}
		n.Fase = FaseSubmissao
		return n, nil

	case MoradaResolvida:
		if e.Fase != FaseConfirmacaoMorada {
			return e, invalida(e.Fase, ev)
		}
		n := e.copia()
		switch ev.Resolucao {
		case ResolucaoManterRefid:
			n.Fase = FaseSubmissao
		case ResolucaoMudancaCasa:
			n.Rascunho.TipoVenda = models.TipoMudancaCasa
			n.Fase = FaseSubmissao
		case ResolucaoCancelar:
			n.Fase = FaseFormulario
		default:
			return e, fmt.Errorf("%w: resolução %q", ErrValorInvalido, ev.Resolucao)
		}
		return n, nil

	case SubmissaoConcluida:
		if e.Fase != FaseSubmissao {
			return e, invalida(e.Fase, ev)
		}
		n := e.copia()
		n.Fase = FaseConcluida
		n.VendaID = ev.VendaID
		return n, nil

	case SubmissaoFalhada:
		if e.Fase != FaseSubmissao {
			return e, invalida(e.Fase, ev)
		}
		n := e.copia()
		n.Fase = FaseFalhada
		n.Erro = ev.Mensagem
		return n, nil
	}
	return e, fmt.Errorf("%w: evento %T", ErrTransicaoInvalida, ev)
}

func (e Estado) anterior(id string) (VendaAnterior, bool) {
	for _, a := range e.Anteriores {
		if a.ID == id {
			return a, true
		}
	}
	return VendaAnterior{}, false
}

// copia devolve um Estado cujas fatias e ponteiros podem ser alterados sem afetar e.
func (e Estado) copia() Estado {
	n := e
	n.Rascunho = e.Rascunho.clone()
	if e.MoradaOriginal != nil {
		m := *e.MoradaOriginal
		n.MoradaOriginal = &m
	}
	n.Avisos = append([]string(nil), e.Avisos...)
	return n
}

// popularDeReferencia preenche um rascunho novo a partir da venda de referência.
// Parte sempre de um rascunho vazio para que selecionar a mesma referência
// duas vezes produza o mesmo formulário.
func popularDeReferencia(nif string, ref VendaAnterior, ramo Ramo) (Rascunho, []string) {
	r := novoRascunho(nif).comCategoria(ref.Category)
	r.ClientName = ref.ClientName
	r.ClientEmail = ref.ClientEmail
	r.ClientPhone = ref.ClientPhone
	r.PartnerID = ref.PartnerID
	r.OperatorID = ref.OperatorID
	if ref.LoyaltyMonths > 0 {
		r.LoyaltyMonths = strconv.Itoa(ref.LoyaltyMonths)
	}
	if r.Energia != nil {
		r.Energia.Tipo = ref.EnergyType
		r.Energia.CPE = ref.CPE
		r.Energia.Potencia = ref.Potencia
		r.Energia.CUI = ref.CUI
		r.Energia.Escalao = ref.Escalao
	}
	if ramo != RamoMudancaCasa {
		r.Morada = ref.Morada
	}
	if ref.SellerID != "" && ref.SellerActive {
		r.SellerID = ref.SellerID
	}

	var avisos []string
	tipo := ramo.tipoVenda()
	if ref.permite(tipo) {
		if ref.Category != models.CategoriaPaineisSolares {
			r.TipoVenda = tipo
		}
	} else if ref.OperatorID != "" {
		avisos = append(avisos, fmt.Sprintf("A operadora %s não permite vendas do tipo %s", ref.OperatorName, ramo.etiqueta()))
	}
	return r, avisos
}

func limparOperadoraIncompativel(e Estado) Rascunho {
	r := e.Rascunho
	if r.OperatorID != "" && !operadora.Contem(e.OperadorasDisponiveis(), r.OperatorID) {
		r.OperatorID = ""
	}
	return r
}

func alterarCampo(e Estado, campo, valor string) (Estado, error) {
	n := e.copia()
	r := &n.Rascunho
	aplicavel := func(ok bool) error {
		if !ok {
			return fmt.Errorf("%w: %s", ErrCampoNaoAplicavel, campo)
		}
		return nil
	}

	switch campo {
	case "client_name":
		r.ClientName = valor
	case "client_email":
		r.ClientEmail = valor
	case "client_phone":
		r.ClientPhone = valor
	case "client_nif":
		r.ClientNIF = strings.TrimSpace(valor)
	case "street_address":
		r.Morada.Rua = valor
	case "postal_code":
		r.Morada.CodigoPostal = strings.TrimSpace(valor)
	case "city":
		r.Morada.Localidade = valor
	case "notes":
		r.Notas = valor
	case "loyalty_months":
		r.LoyaltyMonths = strings.TrimSpace(valor)
	case "seller_id":
		if valor == "" {
			valor = SemVendedor
		}
		r.SellerID = valor

	case "category":
		c := models.Categoria(valor)
		if c != "" && !c.Valida() {
			return e, fmt.Errorf("%w: categoria %q", ErrValorInvalido, valor)
		}
		*r = r.comCategoria(c)
		*r = limparOperadoraIncompativel(n)
	case "sale_type":
		t := models.TipoVenda(valor)
		if t != "" && !t.Valido() {
			return e, fmt.Errorf("%w: tipo de venda %q", ErrValorInvalido, valor)
		}
		if t != "" {
			if err := aplicavel(r.Categoria == models.CategoriaEnergia || r.Categoria == models.CategoriaTelecomunicacoes); err != nil {
				return e, err
			}
		}
		r.TipoVenda = t

	case "partner_id":
		if valor != r.PartnerID {
			r.PartnerID = valor
			r.OperatorID = ""
			n.Operadoras = nil
		}
	case "operator_id":
		if valor != "" && !operadora.Contem(n.OperadorasDisponiveis(), valor) {
			return e, ErrOperadoraIncompativel
		}
		r.OperatorID = valor

	case "energy_type":
		if err := aplicavel(r.Energia != nil); err != nil {
			return e, err
		}
		t := models.TipoEnergia(valor)
		if t != "" && !t.Valido() {
			return e, fmt.Errorf("%w: tipo de energia %q", ErrValorInvalido, valor)
		}
		r.Energia.Tipo = t
		*r = limparOperadoraIncompativel(n)
	case "cpe", "potencia", "cui", "escalao":
		if err := aplicavel(r.Energia != nil); err != nil {
			return e, err
		}
		switch campo {
		case "cpe":
			r.Energia.CPE = valor
		case "potencia":
			r.Energia.Potencia = valor
		case "cui":
			r.Energia.CUI = valor
		case "escalao":
			r.Energia.Escalao = valor
		}

	case "contract_value":
		if err := aplicavel(r.Telecom != nil); err != nil {
			return e, err
		}
		r.Telecom.ValorContrato = strings.TrimSpace(valor)
	case "services_tv", "services_net", "services_lr":
		if err := aplicavel(r.Telecom != nil); err != nil {
			return e, err
		}
		b, err := strconv.ParseBool(valor)
		if err != nil {
			return e, fmt.Errorf("%w: %s=%q", ErrValorInvalido, campo, valor)
		}
		switch campo {
		case "services_tv":
			r.Telecom.TV = b
		case "services_net":
			r.Telecom.Net = b
		case "services_lr":
			r.Telecom.LR = b
		}
	case "services_moveis_count":
		if err := aplicavel(r.Telecom != nil); err != nil {
			return e, err
		}
		qtd, err := strconv.Atoi(strings.TrimSpace(valor))
		if err != nil {
			qtd = 0
		}
		r.Telecom.Moveis = limitarMoveis(qtd)

	default:
		return e, fmt.Errorf("%w: %s", ErrCampoDesconhecido, campo)
	}
	return n, nil
}
