package venda

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/operadora"
	"gorm.io/gorm"
)

type vendasMemoria struct {
	itens       map[string]*Venda
	cancelados  []string
	falharCriar error
	falharNIF   error
}

func novasVendas(vs ...Venda) *vendasMemoria {
	m := &vendasMemoria{itens: map[string]*Venda{}}
	for i := range vs {
		v := vs[i]
		m.itens[v.ID] = &v
	}
	return m
}

func (m *vendasMemoria) Criar(_ *gorm.DB, v *Venda) error {
	if m.falharCriar != nil {
		return m.falharCriar
	}
	_ = v.BeforeCreate(nil)
	c := *v
	m.itens[v.ID] = &c
	return nil
}

func (m *vendasMemoria) BuscarPorID(_ *gorm.DB, id string) (*Venda, error) {
	v, ok := m.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	c := *v
	return &c, nil
}

func (m *vendasMemoria) BuscarPorNIF(_ *gorm.DB, nif string) ([]Venda, error) {
	if m.falharNIF != nil {
		return nil, m.falharNIF
	}
	return m.filtrar(Filtro{}, func(v Venda) bool { return v.ClientNIF == nif }), nil
}

func (m *vendasMemoria) Listar(_ *gorm.DB, f Filtro) ([]Venda, error) {
	return m.filtrar(f), nil
}

func (m *vendasMemoria) filtrar(f Filtro, extra ...func(Venda) bool) []Venda {
	var out []Venda
	for _, v := range m.itens {
		if f.SellerID != "" && (v.SellerID == nil || *v.SellerID != f.SellerID) {
			continue
		}
		if f.Status != "" && v.Status != f.Status {
			continue
		}
		if f.Category != "" && v.Category != f.Category {
			continue
		}
		if f.PartnerID != "" && v.PartnerID != f.PartnerID {
			continue
		}
		ok := true
		for _, x := range extra {
			ok = ok && x(*v)
		}
		if ok {
			out = append(out, *v)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (m *vendasMemoria) Atualizar(_ *gorm.DB, v *Venda) error {
	c := *v
	m.itens[v.ID] = &c
	return nil
}

func (m *vendasMemoria) Deletar(_ *gorm.DB, id string) error {
	if _, ok := m.itens[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.itens, id)
	return nil
}

func (m *vendasMemoria) CancelarAlertasFidelizacao(_ *gorm.DB, id string) error {
	v, ok := m.itens[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	v.LoyaltyMonths = 0
	v.LoyaltyEndDate = nil
	m.cancelados = append(m.cancelados, id)
	return nil
}

type catalogoMemoria map[string][]operadora.Operadora

func (c catalogoMemoria) ListarAtivasPorParceiro(_ *gorm.DB, parceiroID string) ([]operadora.Operadora, error) {
	return c[parceiroID], nil
}

type notificadorMemoria struct {
	eventos []string
	falhar  error
}

func (n *notificadorMemoria) Notificar(_ context.Context, v Venda, evento string) error {
	n.eventos = append(n.eventos, evento+":"+v.ID)
	return n.falhar
}

type sessoesMemoria struct {
	mu    sync.Mutex
	itens map[string]Estado
}

func (s *sessoesMemoria) Guardar(_ context.Context, id string, e Estado) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.itens[id] = e
	return nil
}

func (s *sessoesMemoria) Carregar(_ context.Context, id string) (Estado, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.itens[id]
	if !ok {
		return Estado{}, ErrSessaoNaoEncontrada
	}
	return e, nil
}

func (s *sessoesMemoria) Remover(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.itens, id)
	return nil
}

// Dados de teste partilhados.

var agoraTeste = time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)

const (
	parceiroA   = "parceiro-a"
	operadoraEl = "op-eletricidade"
	operadoraGs = "op-gas"
	operadoraTl = "op-telecom"
	operadoraDl = "op-dual"
)

func str(s string) *string { return &s }

func catalogoTeste() catalogoMemoria {
	todos := []models.TipoVenda{models.TipoNovaInstalacao, models.TipoRefid, models.TipoMudancaCasa}
	return catalogoMemoria{
		parceiroA: {
			{ID: operadoraEl, PartnerID: parceiroA, Name: "Luz SA", Active: true,
				Categories: []models.Etiqueta{models.EtiquetaEletricidade}, AllowedSaleTypes: todos},
			{ID: operadoraGs, PartnerID: parceiroA, Name: "Gás SA", Active: true,
				Categories: []models.Etiqueta{models.EtiquetaGas}, AllowedSaleTypes: []models.TipoVenda{models.TipoNovaInstalacao}},
			{ID: operadoraTl, PartnerID: parceiroA, Name: "Tele SA", Active: true,
				Categories: []models.Etiqueta{models.EtiquetaTelecomunicacoes}, AllowedSaleTypes: todos},
			{ID: operadoraDl, PartnerID: parceiroA, Name: "Dual SA", Active: true,
				Categories: []models.Etiqueta{models.EtiquetaEletricidade, models.EtiquetaGas}, AllowedSaleTypes: todos},
		},
	}
}

// vendaAnteriorLisboa é uma venda de eletricidade em "Rua A, 1000-100, Lisboa".
func vendaAnteriorLisboa(id, nif string, criada time.Time) Venda {
	cat := catalogoTeste()
	op := cat[parceiroA][0]
	tipo := models.EnergiaEletricidade
	fim := criada.AddDate(0, 24, 0)
	return Venda{
		ID:             id,
		ClientName:     "Maria Silva",
		ClientEmail:    str("maria@exemplo.pt"),
		ClientPhone:    str("+351912345678"),
		ClientNIF:      nif,
		StreetAddress:  "Rua A",
		PostalCode:     "1000-100",
		City:           "Lisboa",
		Category:       models.CategoriaEnergia,
		EnergyType:     &tipo,
		CPE:            str("PT0002000012345678XY"),
		Potencia:       str("6.9"),
		PartnerID:      parceiroA,
		OperatorID:     op.ID,
		Operadora:      &op,
		LoyaltyMonths:  24,
		LoyaltyEndDate: &fim,
		Status:         models.StatusAtivo,
		CreatedAt:      criada,
	}
}
