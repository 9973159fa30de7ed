package auth

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/utilizador"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token              string                 `json:"token"`
	User               *utilizador.Utilizador `json:"user"`
	MustChangePassword bool                   `json:"must_change_password"`
}

type alterarSenhaRequest struct {
	Password string `json:"password"`
}

type Handler struct {
	DB          *gorm.DB
	Identidades *Identidades
	Perfis      utilizador.Repository
	Emissor     *Emissor
	Logger      *zap.Logger
}

func NewHandler(db *gorm.DB, emissor *Emissor, logger *zap.Logger) *Handler {
	return &Handler{
		DB:          db,
		Identidades: NewIdentidades(db),
		Perfis:      utilizador.NewRepository(),
		Emissor:     emissor,
		Logger:      logger,
	}
}

// POST /auth/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "JSON inválido", http.StatusBadRequest)
		return
	}
	if req.Email == "" || req.Password == "" {
		http.Error(w, "Email e password são obrigatórios", http.StatusBadRequest)
		return
	}

	ident, err := h.Identidades.Autenticar(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) || errors.Is(err, ErrCredenciaisInvalidas) {
			http.Error(w, ErrCredenciaisInvalidas.Error(), http.StatusUnauthorized)
			return
		}
		h.Logger.Error("erro ao autenticar", zap.Error(err))
		http.Error(w, "Erro ao autenticar", http.StatusInternalServerError)
		return
	}

	perfil, err := h.Perfis.BuscarPorID(dbutil.ComContexto(h.DB, r.Context()), ident.ID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			http.Error(w, "Perfil não encontrado", http.StatusForbidden)
			return
		}
		h.Logger.Error("erro ao carregar perfil", zap.String("utilizador_id", ident.ID), zap.Error(err))
		http.Error(w, "Erro ao autenticar", http.StatusInternalServerError)
		return
	}
	if !perfil.Active {
		http.Error(w, "Utilizador inativo", http.StatusForbidden)
		return
	}

	token, err := h.Emissor.GerarToken(perfil.ID, perfil.Role)
	if err != nil {
		h.Logger.Error("erro ao gerar token", zap.Error(err))
		http.Error(w, "Erro ao gerar token", http.StatusInternalServerError)
		return
	}
	h.Logger.Info("login", zap.String("utilizador_id", perfil.ID))
	writeJSON(w, http.StatusOK, loginResponse{Token: token, User: perfil, MustChangePassword: perfil.MustChangePassword})
}

// POST /auth/senha (autenticado)
func (h *Handler) AlterarSenha(w http.ResponseWriter, r *http.Request) {
	id, ok := UtilizadorDoContexto(r.Context())
	if !ok {
		http.Error(w, "Token ausente", http.StatusUnauthorized)
		return
	}
	var req alterarSenhaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Password) < 8 {
		http.Error(w, "A password deve ter pelo menos 8 caracteres", http.StatusBadRequest)
		return
	}
	if err := h.Identidades.DefinirSenha(r.Context(), id, req.Password); err != nil {
		h.Logger.Error("erro ao alterar senha", zap.String("utilizador_id", id), zap.Error(err))
		http.Error(w, "Erro ao alterar password", http.StatusInternalServerError)
		return
	}
	if err := h.Perfis.DefinirMudarSenha(dbutil.ComContexto(h.DB, r.Context()), id, false); err != nil {
		h.Logger.Error("erro ao atualizar perfil", zap.String("utilizador_id", id), zap.Error(err))
		http.Error(w, "Erro ao alterar password", http.StatusInternalServerError)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
