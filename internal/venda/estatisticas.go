package venda

import (
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/models"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Estatisticas resume as vendas por estado e categoria. As comissões só
// contam vendas de operadoras com comissões visíveis ao back office.
type Estatisticas struct {
	Total                   int                        `json:"total"`
	Active                  int                        `json:"active"`
	Pending                 int                        `json:"pending"`
	Negotiating             int                        `json:"negotiating"`
	Lost                    int                        `json:"lost"`
	Cancelled               int                        `json:"cancelled"`
	TotalValue              decimal.Decimal            `json:"totalValue"`
	TotalCommissionsSeller  decimal.Decimal            `json:"totalCommissionsSeller"`
	TotalCommissionsPartner decimal.Decimal            `json:"totalCommissionsPartner"`
	ByCategory              map[models.Categoria]int   `json:"byCategory"`
	ByStatus                map[models.StatusVenda]int `json:"byStatus"`
}

func CalcularEstatisticas(vendas []Venda) Estatisticas {
	s := Estatisticas{
		TotalValue:              decimal.Zero,
		TotalCommissionsSeller:  decimal.Zero,
		TotalCommissionsPartner: decimal.Zero,
		ByCategory: map[models.Categoria]int{
			models.CategoriaEnergia:          0,
			models.CategoriaTelecomunicacoes: 0,
			models.CategoriaPaineisSolares:   0,
		},
		ByStatus: map[models.StatusVenda]int{
			models.StatusEmNegociacao: 0,
			models.StatusPendente:     0,
			models.StatusAtivo:        0,
			models.StatusPerdido:      0,
			models.StatusAnulado:      0,
		},
	}
	for _, v := range vendas {
		s.Total++
		if _, ok := s.ByCategory[v.Category]; ok {
			s.ByCategory[v.Category]++
		}
		if _, ok := s.ByStatus[v.Status]; ok {
			s.ByStatus[v.Status]++
		}
		s.TotalValue = s.TotalValue.Add(v.ContractValue)
		if v.Operadora != nil && v.Operadora.CommissionVisibleToBO {
			if v.CommissionSeller != nil {
				s.TotalCommissionsSeller = s.TotalCommissionsSeller.Add(*v.CommissionSeller)
			}
			if v.CommissionPartner != nil {
				s.TotalCommissionsPartner = s.TotalCommissionsPartner.Add(*v.CommissionPartner)
			}
		}
	}
	s.Active = s.ByStatus[models.StatusAtivo]
	s.Pending = s.ByStatus[models.StatusPendente]
	s.Negotiating = s.ByStatus[models.StatusEmNegociacao]
	s.Lost = s.ByStatus[models.StatusPerdido]
	s.Cancelled = s.ByStatus[models.StatusAnulado]
	return s
}

// GET /vendas/estatisticas
func (h *Handler) Estatisticas(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(dbutil.ComContexto(h.DB, r.Context()), filtroDoPedido(r))
	if err != nil {
		h.Logger.Error("erro ao calcular estatísticas", zap.Error(err))
		http.Error(w, "Erro ao carregar estatísticas", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, CalcularEstatisticas(list))
}
