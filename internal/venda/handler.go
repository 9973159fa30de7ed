package venda

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/Leiritrix/api-vendas/internal/auth"
	"github.com/Leiritrix/api-vendas/internal/models"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
type Handler struct {
	DB          *gorm.DB
	Repository  Repository
	Notificador Notificador
	Logger      *zap.Logger
	Agora       func() time.Time
	validate    *validator.Validate
}

func NewHandler(db *gorm.DB, n Notificador, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Repository:  NewRepository(),
		Notificador: n,
		Logger:      logger,
		Agora:       time.Now,
		validate:    validator.New(),
	}
}

// filtroDoPedido lê os filtros da query; um vendedor só vê as suas vendas.
func filtroDoPedido(r *http.Request) Filtro {
	q := r.URL.Query()
	f := Filtro{
		SellerID:  q.Get("seller_id"),
		Status:    models.StatusVenda(q.Get("status")),
		Category:  models.Categoria(q.Get("category")),
		PartnerID: q.Get("partner_id"),
	}
	if papel, _ := auth.PapelDoContexto(r.Context()); papel == models.PapelVendedor {
		f.SellerID, _ = auth.UtilizadorDoContexto(r.Context())
	}
	return f
}

// GET /vendas?status=&category=&partner_id=&seller_id=
func (h *Handler) ListarVendas(w http.ResponseWriter, r *http.Request) {
	list, err := h.Repository.Listar(dbutil.ComContexto(h.DB, r.Context()), filtroDoPedido(r))
	if err != nil {
		h.Logger.Error("erro ao listar vendas", zap.Error(err))
		http.Error(w, "Erro ao carregar vendas", http.StatusInternalServerError)
		return
	}
	agora := h.Agora()
	out := make([]vendaResposta, 0, len(list))
	for _, v := range list {
		out = append(out, novaVendaResposta(v, agora))
	}
	writeJSON(w, http.StatusOK, out)
}

// GET /vendas/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	v, err := h.Repository.BuscarPorID(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, novaVendaResposta(*v, h.Agora()))
}

// PUT /vendas/{id}
func (h *Handler) AtualizarVenda(w http.ResponseWriter, r *http.Request) {
	var req atualizarVendaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Prazo de fidelização inválido", http.StatusBadRequest)
		return
	}
	if req.Status != nil && !req.Status.Valido() {
		http.Error(w, "Estado inválido", http.StatusBadRequest)
		return
	}

	db := dbutil.ComContexto(h.DB, r.Context())
	v, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	statusAnterior := v.Status
	aplicarAlteracoes(v, req)

	if err := h.Repository.Atualizar(db, v); err != nil {
		h.Logger.Error("erro ao atualizar venda", zap.String("venda_id", v.ID), zap.Error(err))
		http.Error(w, novoErroPersistencia(err).Error(), http.StatusInternalServerError)
		return
	}

	if v.Status != statusAnterior && h.Notificador != nil {
		if err := h.Notificador.Notificar(r.Context(), *v, EventoEstadoAlterado); err != nil {
			h.Logger.Warn("falha ao notificar alteração de estado", zap.String("venda_id", v.ID), zap.Error(err))
		}
	}
	writeJSON(w, http.StatusOK, novaVendaResposta(*v, h.Agora()))
}

func aplicarAlteracoes(v *Venda, req atualizarVendaRequest) {
	if req.Status != nil {
		v.Status = *req.Status
	}
	if req.SellerID != nil {
		v.SellerID = opcional(*req.SellerID)
		if v.SellerID != nil && *v.SellerID == SemVendedor {
			v.SellerID = nil
		}
		v.Vendedor = nil
	}
	if req.Notes != nil {
		v.Notes = opcional(*req.Notes)
	}
	if req.ContractValue != nil && !req.ContractValue.IsNegative() {
		v.ContractValue = req.ContractValue.Round(2)
	}
	if req.LoyaltyMonths != nil {
		v.LoyaltyMonths = *req.LoyaltyMonths
		v.LoyaltyEndDate = nil
		if v.LoyaltyMonths > 0 {
			fim := v.CreatedAt.AddDate(0, v.LoyaltyMonths, 0)
			v.LoyaltyEndDate = &fim
		}
	}
	if req.CommissionSeller != nil {
		v.CommissionSeller = req.CommissionSeller
	}
	if req.CommissionPartner != nil {
		v.CommissionPartner = req.CommissionPartner
	}
}

// DELETE /vendas/{id}
func (h *Handler) DeletarVenda(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Deletar(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"]); err != nil {
		h.responderErroBusca(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) responderErroBusca(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Venda não encontrada", http.StatusNotFound)
		return
	}
	h.Logger.Error("erro ao carregar venda", zap.Error(err))
	http.Error(w, "Erro ao carregar venda", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
