package venda

import (
	"context"
	"errors"
	"fmt"

	"github.com/Leiritrix/api-vendas/internal/operadora"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrConsulta indica falha ao consultar a base de dados; o utilizador pode repetir a ação.
var ErrConsulta = errors.New("erro ao consultar dados")

var ErrVendaNaoEncontrada = errors.New("venda não encontrada")

// CatalogoOperadoras fornece as operadoras ativas de um parceiro.
type CatalogoOperadoras interface {
	ListarAtivasPorParceiro(db *gorm.DB, parceiroID string) ([]operadora.Operadora, error)
}

// Intake executa as consultas e gravações entre as transições do fluxo de
// criação de venda. Cada método recebe o estado atual e devolve o seguinte,
// mesmo quando devolve erro.
type Intake struct {
	DB         *gorm.DB
	Repository Repository
	Catalogo   CatalogoOperadoras
	Gateway    *Gateway
	Logger     *zap.Logger
}

func NewIntake(db *gorm.DB, gw *Gateway, logger *zap.Logger) *Intake {
	return &Intake{
		DB:         db,
		Repository: NewRepository(),
		Catalogo:   operadora.NewRepository(),
		Gateway:    gw,
		Logger:     logger,
	}
}

// Iniciar devolve o estado inicial (pedido de NIF).
func (in *Intake) Iniciar() Estado {
	return Estado{Fase: FaseNIF}
}

// VerificarNIF valida o NIF e só depois pesquisa as vendas anteriores.
func (in *Intake) VerificarNIF(ctx context.Context, e Estado, nif string) (Estado, error) {
	if e.Fase != FaseNIF {
		return e, invalida(e.Fase, NIFConsultado{})
	}
	if err := validarNIFConsulta(nif); err != nil {
		return e, err
	}
	vendas, err := in.Repository.BuscarPorNIF(dbutil.ComContexto(in.DB, ctx), nif)
	if err != nil {
		in.Logger.Error("erro ao verificar NIF", zap.Error(err))
		return e, fmt.Errorf("%w: verificar NIF: %v", ErrConsulta, err)
	}
	anteriores := make([]VendaAnterior, 0, len(vendas))
	for _, v := range vendas {
		anteriores = append(anteriores, AnteriorDe(v))
	}
	return Transicao(e, NIFConsultado{NIF: nif, Anteriores: anteriores})
}

// EscolherRamo aplica a escolha do utilizador. Em mudança de casa e refid,
// havendo uma só venda anterior, esta é selecionada de imediato.
func (in *Intake) EscolherRamo(ctx context.Context, e Estado, ramo Ramo) (Estado, error) {
	n, err := Transicao(e, RamoEscolhido{Ramo: ramo})
	if err != nil {
		return e, err
	}
	if n.Fase == FaseSelecaoMorada && len(n.Anteriores) == 1 {
		return in.SelecionarReferencia(ctx, n, n.Anteriores[0].ID)
	}
	return in.carregarCatalogo(ctx, n)
}

// SelecionarReferencia cancela de imediato os alertas de fidelização da venda
// escolhida, antes de qualquer submissão, e preenche o formulário a partir dela.
// Repetir a seleção volta a cancelar os alertas.
func (in *Intake) SelecionarReferencia(ctx context.Context, e Estado, vendaID string) (Estado, error) {
	n, err := Transicao(e, ReferenciaSelecionada{VendaID: vendaID})
	if err != nil {
		return e, err
	}
	if err := in.Repository.CancelarAlertasFidelizacao(dbutil.ComContexto(in.DB, ctx), vendaID); err != nil {
		in.Logger.Error("erro ao cancelar alertas de fidelização", zap.String("venda_id", vendaID), zap.Error(err))
		return e, novoErroPersistencia(err)
	}
	in.Logger.Info("alertas de fidelização cancelados", zap.String("venda_id", vendaID), zap.String("ramo", string(n.Ramo)))
	return in.carregarCatalogo(ctx, n)
}

// IniciarRefid abre uma renovação a partir de uma venda existente.
func (in *Intake) IniciarRefid(ctx context.Context, vendaID string) (Estado, error) {
	e := in.Iniciar()
	v, err := in.Repository.BuscarPorID(dbutil.ComContexto(in.DB, ctx), vendaID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return e, ErrVendaNaoEncontrada
		}
		in.Logger.Error("erro ao carregar venda original", zap.String("venda_id", vendaID), zap.Error(err))
		return e, fmt.Errorf("%w: carregar venda original: %v", ErrConsulta, err)
	}
	n, err := Transicao(e, RefidIniciado{Venda: AnteriorDe(*v)})
	if err != nil {
		return e, err
	}
	return in.carregarCatalogo(ctx, n)
}

// Editar altera um campo do formulário; mudar de parceiro recarrega o catálogo.
func (in *Intake) Editar(ctx context.Context, e Estado, campo, valor string) (Estado, error) {
	n, err := Transicao(e, CampoAlterado{Campo: campo, Valor: valor})
	if err != nil {
		return e, err
	}
	if campo == "partner_id" && n.Rascunho.PartnerID != e.Rascunho.PartnerID {
		return in.carregarCatalogo(ctx, n)
	}
	return n, nil
}

// Submeter valida o formulário e grava a venda, salvo quando a morada de uma
// renovação foi alterada: nesse caso pede confirmação antes de gravar.
func (in *Intake) Submeter(ctx context.Context, e Estado) (Estado, error) {
	n, err := Transicao(e, SubmissaoPedida{})
	if err != nil {
		return n, err
	}
	if n.Fase != FaseSubmissao {
		return n, nil
	}
	return in.gravar(ctx, n)
}

// ResolverMorada aplica a resposta à confirmação de morada e, se for o caso, grava.
func (in *Intake) ResolverMorada(ctx context.Context, e Estado, r Resolucao) (Estado, error) {
	n, err := Transicao(e, MoradaResolvida{Resolucao: r})
	if err != nil {
		return e, err
	}
	if n.Fase != FaseSubmissao {
		return n, nil
	}
	return in.gravar(ctx, n)
}

func (in *Intake) gravar(ctx context.Context, e Estado) (Estado, error) {
	v, err := in.Gateway.Submeter(ctx, e.Rascunho)
	if err != nil {
		n, _ := Transicao(e, SubmissaoFalhada{Mensagem: err.Error()})
		return n, err
	}
	return Transicao(e, SubmissaoConcluida{VendaID: v.ID})
}

func (in *Intake) carregarCatalogo(ctx context.Context, e Estado) (Estado, error) {
	parceiroID := e.Rascunho.PartnerID
	if parceiroID == "" {
		return e, nil
	}
	ops, err := in.Catalogo.ListarAtivasPorParceiro(dbutil.ComContexto(in.DB, ctx), parceiroID)
	if err != nil {
		in.Logger.Error("erro ao carregar operadoras", zap.String("parceiro_id", parceiroID), zap.Error(err))
		return e, fmt.Errorf("%w: carregar operadoras: %v", ErrConsulta, err)
	}
	return Transicao(e, CatalogoCarregado{PartnerID: parceiroID, Operadoras: ops})
}
