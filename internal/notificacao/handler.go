package notificacao

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/auth"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Handler struct {
	DB         *gorm.DB
	Repository Repository
	Logger     *zap.Logger
}

func NewHandler(db *gorm.DB, logger *zap.Logger) *Handler {
	return &Handler{DB: db, Repository: NewRepository(), Logger: logger}
}

// GET /notificacoes?unread=true
func (h *Handler) ListarMinhas(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UtilizadorDoContexto(r.Context())
	if !ok || userID == "" {
		http.Error(w, "Não autenticado", http.StatusUnauthorized)
		return
	}
	soNaoLidas := r.URL.Query().Get("unread") == "true"
	list, err := h.Repository.ListarPorUtilizador(dbutil.ComContexto(h.DB, r.Context()), userID, soNaoLidas)
	if err != nil {
		h.Logger.Error("erro ao listar notificações", zap.String("user_id", userID), zap.Error(err))
		http.Error(w, "Erro ao buscar notificações", http.StatusInternalServerError)
		return
	}
	if list == nil {
		list = []Notificacao{}
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(list)
}

// POST /notificacoes/{id}/lida
func (h *Handler) MarcarLida(w http.ResponseWriter, r *http.Request) {
	userID, ok := auth.UtilizadorDoContexto(r.Context())
	if !ok || userID == "" {
		http.Error(w, "Não autenticado", http.StatusUnauthorized)
		return
	}
	err := h.Repository.MarcarLida(dbutil.ComContexto(h.DB, r.Context()), mux.Vars(r)["id"], userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		http.Error(w, "Notificação não encontrada", http.StatusNotFound)
		return
	}
	if err != nil {
		h.Logger.Error("erro ao marcar notificação", zap.Error(err))
		http.Error(w, "Erro ao atualizar notificação", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
