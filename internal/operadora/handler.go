package operadora

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/models"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *zap.Logger
	validate   *validator.Validate
}

func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{
		DB:         db,
		Repository: NewRepository(),
		Logger:     logger,
		validate:   validator.New(),
	}
}

// GET /operadoras?parceiro={id}&inativas=true
func (h *Handler) ListarOperadoras(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Repository.Listar(dbutil.ComContexto(h.DB, r.Context()), q.Get("parceiro"), q.Get("inativas") == "true")
	if err != nil {
		h.Logger.Error("erro ao listar operadoras", zap.Error(err))
		http.Error(w, "Erro ao carregar operadoras", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, naoNulo(list))
}

// GET /parceiros/{id}/catalogo?category=energia&energy_type=dual
// Operadoras ativas do parceiro compatíveis com a categoria/tipo de energia.
func (h *Handler) Catalogo(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	list, err := h.Repository.ListarAtivasPorParceiro(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.Logger.Error("erro ao carregar catálogo", zap.Error(err))
		http.Error(w, "Erro ao carregar operadoras", http.StatusInternalServerError)
		return
	}
	filtradas := Filtrar(list, models.Categoria(q.Get("category")), models.TipoEnergia(q.Get("energy_type")))
	writeJSON(w, http.StatusOK, filtradas)
}

// GET /operadoras/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	db := dbutil.ComContexto(h.DB, r.Context())
	o, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	if r.URL.Query().Get("vendas") != "true" {
		writeJSON(w, http.StatusOK, o)
		return
	}
	n, err := h.Repository.ContarVendas(db, o.ID)
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, OperadoraComVendas{Operadora: *o, SalesCount: n})
}

// POST /operadoras
func (h *Handler) CriarOperadora(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	o := Operadora{
		PartnerID:             req.PartnerID,
		Name:                  req.Name,
		Categories:            req.Categories,
		AllowedSaleTypes:      req.AllowedSaleTypes,
		CommissionVisibleToBO: req.CommissionVisibleToBO,
		Active:                true,
	}
	if err := h.Repository.Salvar(dbutil.ComContexto(h.DB, r.Context()), &o); err != nil {
		h.Logger.Error("erro ao criar operadora", zap.Error(err))
		http.Error(w, "Erro ao guardar operadora", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, o)
}

// PUT /operadoras/{id}
func (h *Handler) AtualizarOperadora(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decodificar(w, r)
	if !ok {
		return
	}
	db := dbutil.ComContexto(h.DB, r.Context())
	o, err := h.Repository.BuscarPorID(db, mux.Vars(r)["id"])
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	o.PartnerID = req.PartnerID
	o.Name = req.Name
	o.Categories = req.Categories
	o.AllowedSaleTypes = req.AllowedSaleTypes
	o.CommissionVisibleToBO = req.CommissionVisibleToBO
	if err := h.Repository.Atualizar(db, o); err != nil {
		h.Logger.Error("erro ao atualizar operadora", zap.Error(err))
		http.Error(w, "Erro ao guardar operadora", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// PATCH /operadoras/{id}/ativa
func (h *Handler) DefinirAtiva(w http.ResponseWriter, r *http.Request) {
	var req ativaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	o, err := h.Repository.DefinirAtiva(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"], req.Active)
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, o)
}

// DELETE /operadoras/{id}
func (h *Handler) DeletarOperadora(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Deletar(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"]); err != nil {
		h.Logger.Error("erro ao eliminar operadora", zap.Error(err))
		http.Error(w, "Erro ao eliminar operadora", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) decodificar(w http.ResponseWriter, r *http.Request) (operadoraRequest, bool) {
	var req operadoraRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return req, false
	}
	if err := h.validate.Struct(req); err != nil {
		var ve validator.ValidationErrors
		msg := "Dados da operadora inválidos"
		if errors.As(err, &ve) && len(ve) > 0 {
			switch ve[0].Field() {
			case "Name":
				msg = "Nome da operadora é obrigatório"
			case "PartnerID":
				msg = "Parceiro é obrigatório"
			case "Categories":
				msg = "Selecione pelo menos uma categoria"
			}
		}
		http.Error(w, msg, http.StatusBadRequest)
		return req, false
	}
	for _, c := range req.Categories {
		if !c.Valida() {
			http.Error(w, "Categoria desconhecida: "+string(c), http.StatusBadRequest)
			return req, false
		}
	}
	for _, t := range req.AllowedSaleTypes {
		if !t.Valido() {
			http.Error(w, "Tipo de venda desconhecido: "+string(t), http.StatusBadRequest)
			return req, false
		}
	}
	return req, true
}

func (h *Handler) responderErroBusca(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Operadora não encontrada", http.StatusNotFound)
		return
	}
	h.Logger.Error("erro ao aceder a operadora", zap.Error(err))
	http.Error(w, "Erro ao carregar operadoras", http.StatusInternalServerError)
}

func naoNulo(list []Operadora) []Operadora {
	if list == nil {
		return []Operadora{}
	}
	return list
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
