package parceiro

import (
	"encoding/json"
	"errors"
	"net/http"

	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/go-playground/validator/v10"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Handler encapsula DB e repository
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

// GET /parceiros?inativos=true
func (h *Handler) ListarParceiros(w http.ResponseWriter, r *http.Request) {
	incluirInativos := r.URL.Query().Get("inativos") == "true"
	list, err := h.Repository.ListarTodos(dbutil.ComContexto(h.DB, r.Context()), incluirInativos)
	if err != nil {
		h.Logger.Error("erro ao listar parceiros", zap.Error(err))
		http.Error(w, "Erro ao carregar parceiros", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Parceiro{}
	}
	writeJSON(w, http.StatusOK, list)
}

// GET /parceiros/{id}
func (h *Handler) BuscarPorID(w http.ResponseWriter, r *http.Request) {
	p, err := h.Repository.BuscarPorID(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"])
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// POST /parceiros
func (h *Handler) CriarParceiro(w http.ResponseWriter, r *http.Request) {
	var req criarParceiroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Nome é obrigatório", http.StatusBadRequest)
		return
	}

	p := Parceiro{
		Name:          req.Name,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Active:        true,
	}
	if err := h.Repository.Salvar(dbutil.ComContexto(h.DB, r.Context()), &p); err != nil {
		h.Logger.Error("erro ao criar parceiro", zap.Error(err))
		http.Error(w, "Erro ao guardar parceiro", http.StatusInternalServerError)
		return
	}
	writeJSON(w, http.StatusCreated, p)
}

// PUT /parceiros/{id}
func (h *Handler) AtualizarParceiro(w http.ResponseWriter, r *http.Request) {
	var req criarParceiroRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if err := h.validate.Struct(req); err != nil {
		http.Error(w, "Nome é obrigatório", http.StatusBadRequest)
		return
	}

	p, err := h.Repository.Atualizar(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"], &Parceiro{
		Name:          req.Name,
		Email:         req.Email,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
	})
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// PATCH /parceiros/{id}/ativo
func (h *Handler) DefinirAtivo(w http.ResponseWriter, r *http.Request) {
	var req ativoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	p, err := h.Repository.DefinirAtivo(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"], req.Active)
	if err != nil {
		h.responderErroBusca(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

// DELETE /parceiros/{id}
func (h *Handler) DeletarParceiro(w http.ResponseWriter, r *http.Request) {
	if err := h.Repository.Deletar(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"]); err != nil {
		h.Logger.Error("erro ao eliminar parceiro", zap.Error(err))
		http.Error(w, "Erro ao eliminar parceiro", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) responderErroBusca(w http.ResponseWriter, err error) {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Parceiro não encontrado", http.StatusNotFound)
		return
	}
	h.Logger.Error("erro ao aceder a parceiro", zap.Error(err))
	http.Error(w, "Erro ao guardar parceiro", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
