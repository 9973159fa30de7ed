package venda

import (
	"testing"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func aplicar(t *testing.T, e Estado, evs ...Evento) Estado {
	t.Helper()
	var err error
	for _, ev := range evs {
		e, err = Transicao(e, ev)
		require.NoError(t, err, "%T", ev)
	}
	return e
}

func anteriores() []VendaAnterior {
	recente := vendaAnteriorLisboa("v-2", "123456789", agoraTeste.AddDate(0, -1, 0))
	recente.ClientName = "Maria S. Silva"
	recente.StreetAddress = "Rua B"
	recente.Vendedor = &utilizador.Utilizador{ID: "vend-1", Active: true}
	recente.SellerID = str("vend-1")

	antiga := vendaAnteriorLisboa("v-1", "123456789", agoraTeste.AddDate(-2, 0, 0))
	antiga.Vendedor = &utilizador.Utilizador{ID: "vend-2", Active: false}
	antiga.SellerID = str("vend-2")
	return []VendaAnterior{AnteriorDe(recente), AnteriorDe(antiga)}
}

func TestTransicao_SemVendasAnteriores(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF}, NIFConsultado{NIF: "123456789"})

	assert.Equal(t, FaseFormulario, e.Fase)
	assert.Equal(t, novoRascunho("123456789"), e.Rascunho)
	assert.Nil(t, e.MoradaOriginal)
}

func TestTransicao_ComVendasMostraEscolhaDeRamo(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF}, NIFConsultado{NIF: "123456789", Anteriores: anteriores()})

	assert.Equal(t, FaseEscolhaRamo, e.Fase)
	assert.Empty(t, e.Rascunho.ClientName)

	_, err := Transicao(e, CampoAlterado{Campo: "client_name", Valor: "x"})
	assert.ErrorIs(t, err, ErrTransicaoInvalida)
}

func TestTransicao_NovaVenda(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoNovaVenda},
	)

	assert.Equal(t, FaseFormulario, e.Fase)
	r := e.Rascunho
	assert.Equal(t, "Maria S. Silva", r.ClientName)
	assert.Equal(t, "maria@exemplo.pt", r.ClientEmail)
	assert.Equal(t, "+351912345678", r.ClientPhone)
	assert.Equal(t, Morada{}, r.Morada)
	assert.Empty(t, r.Categoria)
	assert.Empty(t, r.PartnerID)
	assert.Empty(t, r.OperatorID)
	assert.Equal(t, SemVendedor, r.SellerID)
	assert.Nil(t, e.MoradaOriginal)
}

func TestTransicao_MudancaCasa(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoMudancaCasa},
	)
	require.Equal(t, FaseSelecaoMorada, e.Fase)

	e = aplicar(t, e, ReferenciaSelecionada{VendaID: "v-1"})
	r := e.Rascunho
	assert.Equal(t, FaseFormulario, e.Fase)
	assert.Equal(t, Morada{}, r.Morada)
	require.NotNil(t, e.MoradaOriginal)
	assert.Equal(t, Morada{Rua: "Rua A", CodigoPostal: "1000-100", Localidade: "Lisboa"}, *e.MoradaOriginal)
	assert.Equal(t, models.TipoMudancaCasa, r.TipoVenda)
	assert.Equal(t, models.CategoriaEnergia, r.Categoria)
	assert.Equal(t, parceiroA, r.PartnerID)
	assert.Equal(t, operadoraEl, r.OperatorID)
	assert.Equal(t, "24", r.LoyaltyMonths)
	require.NotNil(t, r.Energia)
	assert.Equal(t, models.EnergiaEletricidade, r.Energia.Tipo)
	assert.Equal(t, "PT0002000012345678XY", r.Energia.CPE)
	assert.Nil(t, r.Telecom)
	// vendedor inativo não é copiado
	assert.Equal(t, SemVendedor, r.SellerID)
	assert.Empty(t, e.Avisos)
}

func TestTransicao_MudancaCasaOperadoraNaoPermite(t *testing.T) {
	ant := anteriores()
	ant[0].AllowedSaleTypes = []models.TipoVenda{models.TipoNovaInstalacao}

	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: ant},
		RamoEscolhido{Ramo: RamoMudancaCasa},
		ReferenciaSelecionada{VendaID: "v-2"},
	)

	assert.Empty(t, e.Rascunho.TipoVenda)
	require.Len(t, e.Avisos, 1)
	assert.Equal(t, "A operadora Luz SA não permite vendas do tipo Mudança de Casa", e.Avisos[0])
	assert.Equal(t, "vend-1", e.Rascunho.SellerID)
}

func TestTransicao_Refid(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoRefid},
		ReferenciaSelecionada{VendaID: "v-2"},
	)

	want := Morada{Rua: "Rua B", CodigoPostal: "1000-100", Localidade: "Lisboa"}
	assert.Equal(t, want, e.Rascunho.Morada)
	require.NotNil(t, e.MoradaOriginal)
	assert.Equal(t, want, *e.MoradaOriginal)
	assert.Equal(t, models.TipoRefid, e.Rascunho.TipoVenda)
}

func TestTransicao_SelecionarReferenciaDuasVezes(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoRefid},
		ReferenciaSelecionada{VendaID: "v-2"},
	)
	primeira := e

	e = aplicar(t, e,
		CampoAlterado{Campo: "notes", Valor: "ligar de manhã"},
		ReferenciaSelecionada{VendaID: "v-2"},
	)
	assert.Equal(t, primeira.Rascunho, e.Rascunho)
	assert.Equal(t, primeira.MoradaOriginal, e.MoradaOriginal)
	assert.Equal(t, primeira.Avisos, e.Avisos)

	e = aplicar(t, e, ReferenciaSelecionada{VendaID: "v-2"})
	assert.Equal(t, primeira.Rascunho, e.Rascunho)
}

func TestTransicao_ReferenciaDesconhecida(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoRefid},
	)
	_, err := Transicao(e, ReferenciaSelecionada{VendaID: "outra"})
	assert.ErrorIs(t, err, ErrReferenciaDesconhecida)
}

func TestTransicao_NaoAlteraEstadoAnterior(t *testing.T) {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()},
		RamoEscolhido{Ramo: RamoRefid},
		ReferenciaSelecionada{VendaID: "v-2"},
	)
	antes := e.Rascunho.Energia.CPE

	n := aplicar(t, e, CampoAlterado{Campo: "cpe", Valor: "PT9999"}, CampoAlterado{Campo: "city", Valor: "Porto"})
	assert.Equal(t, "PT9999", n.Rascunho.Energia.CPE)
	assert.Equal(t, antes, e.Rascunho.Energia.CPE)
	assert.Equal(t, "Lisboa", e.Rascunho.Morada.Localidade)
	assert.Equal(t, "Lisboa", e.MoradaOriginal.Localidade)
}

func formularioComCatalogo(t *testing.T) Estado {
	e := aplicar(t, Estado{Fase: FaseNIF}, NIFConsultado{NIF: "123456789"},
		CampoAlterado{Campo: "partner_id", Valor: parceiroA},
	)
	return aplicar(t, e, CatalogoCarregado{PartnerID: parceiroA, Operadoras: catalogoTeste()[parceiroA]})
}

func ids(e Estado) []string {
	var out []string
	for _, o := range e.OperadorasDisponiveis() {
		out = append(out, o.ID)
	}
	return out
}

func TestTransicao_FiltroDeOperadoras(t *testing.T) {
	e := formularioComCatalogo(t)
	assert.Empty(t, ids(e))

	e = aplicar(t, e, CampoAlterado{Campo: "category", Valor: "energia"})
	assert.Empty(t, ids(e), "energia sem tipo de energia")

	e = aplicar(t, e, CampoAlterado{Campo: "energy_type", Valor: "dual"})
	assert.Equal(t, []string{operadoraDl}, ids(e))

	e = aplicar(t, e, CampoAlterado{Campo: "energy_type", Valor: "gas"})
	assert.ElementsMatch(t, []string{operadoraGs, operadoraDl}, ids(e))

	e = aplicar(t, e, CampoAlterado{Campo: "energy_type", Valor: "eletricidade"})
	assert.ElementsMatch(t, []string{operadoraEl, operadoraDl}, ids(e))

	e = aplicar(t, e, CampoAlterado{Campo: "category", Valor: "telecomunicacoes"})
	assert.Equal(t, []string{operadoraTl}, ids(e))
}

func TestTransicao_OperadoraIncompativelLimpa(t *testing.T) {
	e := aplicar(t, formularioComCatalogo(t),
		CampoAlterado{Campo: "category", Valor: "energia"},
		CampoAlterado{Campo: "energy_type", Valor: "gas"},
		CampoAlterado{Campo: "operator_id", Valor: operadoraGs},
	)
	require.Equal(t, operadoraGs, e.Rascunho.OperatorID)

	e = aplicar(t, e, CampoAlterado{Campo: "energy_type", Valor: "dual"})
	assert.Empty(t, e.Rascunho.OperatorID)

	e = aplicar(t, e, CampoAlterado{Campo: "operator_id", Valor: operadoraDl},
		CampoAlterado{Campo: "energy_type", Valor: "eletricidade"})
	assert.Equal(t, operadoraDl, e.Rascunho.OperatorID)

	_, err := Transicao(e, CampoAlterado{Campo: "operator_id", Valor: operadoraTl})
	assert.ErrorIs(t, err, ErrOperadoraIncompativel)
}

func TestTransicao_MudarParceiroLimpaOperadora(t *testing.T) {
	e := aplicar(t, formularioComCatalogo(t),
		CampoAlterado{Campo: "category", Valor: "telecomunicacoes"},
		CampoAlterado{Campo: "operator_id", Valor: operadoraTl},
		CampoAlterado{Campo: "partner_id", Valor: "parceiro-b"},
	)
	assert.Empty(t, e.Rascunho.OperatorID)
	assert.Nil(t, e.Operadoras)

	// catálogo atrasado do parceiro anterior é ignorado
	e = aplicar(t, e, CatalogoCarregado{PartnerID: parceiroA, Operadoras: catalogoTeste()[parceiroA]})
	assert.Nil(t, e.Operadoras)
}

func TestTransicao_VariantesPorCategoria(t *testing.T) {
	e := aplicar(t, formularioComCatalogo(t),
		CampoAlterado{Campo: "category", Valor: "energia"},
		CampoAlterado{Campo: "energy_type", Valor: "gas"},
	)
	assert.NotNil(t, e.Rascunho.Energia)
	assert.Nil(t, e.Rascunho.Telecom)

	_, err := Transicao(e, CampoAlterado{Campo: "services_tv", Valor: "true"})
	assert.ErrorIs(t, err, ErrCampoNaoAplicavel)

	e = aplicar(t, e, CampoAlterado{Campo: "category", Valor: "telecomunicacoes"})
	assert.Nil(t, e.Rascunho.Energia)
	assert.NotNil(t, e.Rascunho.Telecom)

	e = aplicar(t, e, CampoAlterado{Campo: "sale_type", Valor: "refid"},
		CampoAlterado{Campo: "category", Valor: "paineis_solares"})
	assert.Nil(t, e.Rascunho.Energia)
	assert.Nil(t, e.Rascunho.Telecom)
	assert.Empty(t, e.Rascunho.TipoVenda)

	_, err = Transicao(e, CampoAlterado{Campo: "sale_type", Valor: "refid"})
	assert.ErrorIs(t, err, ErrCampoNaoAplicavel)
	_, err = Transicao(e, CampoAlterado{Campo: "energy_type", Valor: "gas"})
	assert.ErrorIs(t, err, ErrCampoNaoAplicavel)
	_, err = Transicao(e, CampoAlterado{Campo: "category", Valor: "agua"})
	assert.ErrorIs(t, err, ErrValorInvalido)
	_, err = Transicao(e, CampoAlterado{Campo: "cor", Valor: "azul"})
	assert.ErrorIs(t, err, ErrCampoDesconhecido)
}

func TestTransicao_MoveisLimitados(t *testing.T) {
	e := aplicar(t, formularioComCatalogo(t), CampoAlterado{Campo: "category", Valor: "telecomunicacoes"})

	casos := map[string]int{"7": 5, "-3": 0, "3": 3, "abc": 0, "5": 5}
	for entrada, esperado := range casos {
		n := aplicar(t, e, CampoAlterado{Campo: "services_moveis_count", Valor: entrada})
		assert.Equal(t, esperado, n.Rascunho.Telecom.Moveis, entrada)
	}
}

func TestTransicao_SubmissaoComErroDeValidacao(t *testing.T) {
	e := formularioComCatalogo(t)
	n, err := Transicao(e, SubmissaoPedida{})

	var ev *ErroValidacao
	require.ErrorAs(t, err, &ev)
	assert.Equal(t, FaseFormulario, n.Fase)
	assert.Equal(t, msgObrigatorios, n.Erro)
}

func refidPronto(t *testing.T) Estado {
	e := aplicar(t, Estado{Fase: FaseNIF},
		NIFConsultado{NIF: "123456789", Anteriores: anteriores()[1:]},
		RamoEscolhido{Ramo: RamoRefid},
		ReferenciaSelecionada{VendaID: "v-1"},
	)
	return aplicar(t, e, CatalogoCarregado{PartnerID: parceiroA, Operadoras: catalogoTeste()[parceiroA]})
}

func TestTransicao_RefidMesmaMoradaSubmeteDireto(t *testing.T) {
	e := aplicar(t, refidPronto(t), SubmissaoPedida{})
	assert.Equal(t, FaseSubmissao, e.Fase)
}

func TestTransicao_RefidMoradaAlteradaPedeConfirmacao(t *testing.T) {
	e := aplicar(t, refidPronto(t), CampoAlterado{Campo: "city", Valor: "Porto"}, SubmissaoPedida{})
	require.Equal(t, FaseConfirmacaoMorada, e.Fase)

	_, err := Transicao(e, SubmissaoConcluida{VendaID: "x"})
	assert.ErrorIs(t, err, ErrTransicaoInvalida)

	manter := aplicar(t, e, MoradaResolvida{Resolucao: ResolucaoManterRefid})
	assert.Equal(t, FaseSubmissao, manter.Fase)
	assert.Equal(t, models.TipoRefid, manter.Rascunho.TipoVenda)

	mc := aplicar(t, e, MoradaResolvida{Resolucao: ResolucaoMudancaCasa})
	assert.Equal(t, FaseSubmissao, mc.Fase)
	assert.Equal(t, models.TipoMudancaCasa, mc.Rascunho.TipoVenda)

	cancelar := aplicar(t, e, MoradaResolvida{Resolucao: ResolucaoCancelar})
	assert.Equal(t, FaseFormulario, cancelar.Fase)

	editar := aplicar(t, e, CampoAlterado{Campo: "city", Valor: "Lisboa"})
	assert.Equal(t, FaseFormulario, editar.Fase)
	assert.Equal(t, FaseSubmissao, aplicar(t, editar, SubmissaoPedida{}).Fase)
}

func TestTransicao_FalhaPermiteNovaTentativa(t *testing.T) {
	e := aplicar(t, refidPronto(t), SubmissaoPedida{}, SubmissaoFalhada{Mensagem: "duplicate key"})
	assert.Equal(t, FaseFalhada, e.Fase)
	assert.Equal(t, "duplicate key", e.Erro)

	e = aplicar(t, e, SubmissaoPedida{})
	assert.Equal(t, FaseSubmissao, e.Fase)
	e = aplicar(t, e, SubmissaoConcluida{VendaID: "nova"})
	assert.Equal(t, FaseConcluida, e.Fase)
	assert.Equal(t, "nova", e.VendaID)
}

func TestTransicao_RefidIniciado(t *testing.T) {
	v := vendaAnteriorLisboa("v-9", "987654321", agoraTeste.AddDate(-1, 0, 0))
	v.Operadora.AllowedSaleTypes = []models.TipoVenda{models.TipoNovaInstalacao}

	e := aplicar(t, Estado{Fase: FaseNIF}, RefidIniciado{Venda: AnteriorDe(v)})
	assert.Equal(t, FaseFormulario, e.Fase)
	assert.Equal(t, "987654321", e.NIF)
	assert.Equal(t, "987654321", e.Rascunho.ClientNIF)
	assert.Equal(t, models.TipoRefid, e.Rascunho.TipoVenda)
	assert.Equal(t, v.Morada(), e.Rascunho.Morada)
	assert.Equal(t, v.Morada(), *e.MoradaOriginal)
}

func TestVenda_DiasAteFim(t *testing.T) {
	v := Venda{}
	assert.Nil(t, v.DiasAteFim(agoraTeste))

	fim := agoraTeste.Add(36 * time.Hour)
	v.LoyaltyEndDate = &fim
	assert.Equal(t, 2, *v.DiasAteFim(agoraTeste))

	passado := agoraTeste.AddDate(0, 0, -3)
	v.LoyaltyEndDate = &passado
	assert.Equal(t, 0, *v.DiasAteFim(agoraTeste))
}
