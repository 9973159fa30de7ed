package utilizador

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/models"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

type Handler struct {
	Provisionador *Provisionador
	Logger        *zap.Logger
}

func NewHandler(p *Provisionador, logger *zap.Logger) *Handler {
	return &Handler{Provisionador: p, Logger: logger}
}

// POST /admin/utilizadores
func (h *Handler) CriarUtilizador(w http.ResponseWriter, r *http.Request) {
	var pedido PedidoCriacao
	if err := json.NewDecoder(r.Body).Decode(&pedido); err != nil {
		writeErro(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	u, err := h.Provisionador.Criar(r.Context(), pedido)
	if err != nil {
		h.responderErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, respostaCriacao{User: u})
}

// POST /admin/utilizadores/{id}/senha
func (h *Handler) RedefinirSenha(w http.ResponseWriter, r *http.Request) {
	senha, err := h.Provisionador.RedefinirSenha(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		h.responderErro(w, err)
		return
	}
	writeJSON(w, http.StatusOK, respostaSenhaTemporaria{TemporaryPassword: senha})
}

// GET /utilizadores?role=vendedor
func (h *Handler) ListarPorPapel(w http.ResponseWriter, r *http.Request) {
	papel := models.Papel(r.URL.Query().Get("role"))
	if papel == "" {
		papel = models.PapelVendedor
	}
	list, err := h.Provisionador.Repository.ListarPorPapeis(dbutil.ComContexto(h.Provisionador.DB, r.Context()), papel)
	if err != nil {
		h.Logger.Error("erro ao listar utilizadores", zap.Error(err))
		writeErro(w, http.StatusInternalServerError, "Erro ao carregar utilizadores")
		return
	}
	if list == nil {
		list = []Utilizador{}
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *Handler) responderErro(w http.ResponseWriter, err error) {
	var pe *ErroProvisionamento
	if errors.As(err, &pe) {
		if pe.Status >= http.StatusInternalServerError {
			h.Logger.Error("erro de provisionamento", zap.Error(err))
		}
		writeErro(w, pe.Status, pe.Error())
		return
	}
	h.Logger.Error("erro inesperado", zap.Error(err))
	writeErro(w, http.StatusInternalServerError, err.Error())
}

// writeErro segue o formato {"error": "..."} usado pelos clientes de administração.
func writeErro(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
