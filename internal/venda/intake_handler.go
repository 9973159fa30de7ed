package venda

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// IntakeHandler expõe o fluxo de criação de venda. O estado de cada sessão
// fica no SessaoStore entre pedidos.
type IntakeHandler struct {
	Intake  *Intake
	Sessoes SessaoStore
	Logger  *zap.Logger
}

func NewIntakeHandler(in *Intake, sessoes SessaoStore, logger *zap.Logger) *IntakeHandler {
	return &IntakeHandler{Intake: in, Sessoes: sessoes, Logger: logger}
}

// Registar associa as rotas do fluxo ao router.
func (h *IntakeHandler) Registar(r *mux.Router) {
	r.HandleFunc("/vendas/intake", h.Iniciar).Methods("POST")
	r.HandleFunc("/vendas/intake/{id}", h.Obter).Methods("GET")
	r.HandleFunc("/vendas/intake/{id}", h.Descartar).Methods("DELETE")
	r.HandleFunc("/vendas/intake/{id}/nif", h.VerificarNIF).Methods("POST")
	r.HandleFunc("/vendas/intake/{id}/ramo", h.EscolherRamo).Methods("POST")
	r.HandleFunc("/vendas/intake/{id}/referencia", h.SelecionarReferencia).Methods("POST")
	r.HandleFunc("/vendas/intake/{id}/campos", h.Editar).Methods("PATCH")
	r.HandleFunc("/vendas/intake/{id}/submeter", h.Submeter).Methods("POST")
	r.HandleFunc("/vendas/intake/{id}/morada", h.ResolverMorada).Methods("POST")
}

// POST /vendas/intake {"refid_from": "<venda>"}
func (h *IntakeHandler) Iniciar(w http.ResponseWriter, r *http.Request) {
	var req iniciarRequest
	if r.ContentLength != 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
	}
	id := uuid.NewString()
	e := h.Intake.Iniciar()
	var err error
	if req.RefidFrom != "" {
		e, err = h.Intake.IniciarRefid(r.Context(), req.RefidFrom)
		if err != nil {
			h.responderErro(w, err)
			return
		}
	}
	h.guardarEResponder(w, r, id, e, nil, http.StatusCreated)
}

// GET /vendas/intake/{id}
func (h *IntakeHandler) Obter(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	e, ok := h.carregar(w, r, id)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, resposta(id, e))
}

// DELETE /vendas/intake/{id}
func (h *IntakeHandler) Descartar(w http.ResponseWriter, r *http.Request) {
	if err := h.Sessoes.Remover(r.Context(), mux.Vars(r)["id"]); err != nil {
		h.responderErro(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// POST /vendas/intake/{id}/nif {"nif": "123456789"}
func (h *IntakeHandler) VerificarNIF(w http.ResponseWriter, r *http.Request) {
	var req nifRequest
	h.aplicar(w, r, &req, func(e Estado) (Estado, error) {
		return h.Intake.VerificarNIF(r.Context(), e, strings.TrimSpace(req.NIF))
	})
}

// POST /vendas/intake/{id}/ramo {"branch": "refid"}
func (h *IntakeHandler) EscolherRamo(w http.ResponseWriter, r *http.Request) {
	var req ramoRequest
	h.aplicar(w, r, &req, func(e Estado) (Estado, error) {
		return h.Intake.EscolherRamo(r.Context(), e, req.Ramo)
	})
}

// POST /vendas/intake/{id}/referencia {"sale_id": "..."}
func (h *IntakeHandler) SelecionarReferencia(w http.ResponseWriter, r *http.Request) {
	var req referenciaRequest
	h.aplicar(w, r, &req, func(e Estado) (Estado, error) {
		return h.Intake.SelecionarReferencia(r.Context(), e, req.VendaID)
	})
}

// PATCH /vendas/intake/{id}/campos {"field": "city", "value": "Porto"}
func (h *IntakeHandler) Editar(w http.ResponseWriter, r *http.Request) {
	var req campoRequest
	h.aplicar(w, r, &req, func(e Estado) (Estado, error) {
		return h.Intake.Editar(r.Context(), e, req.Campo, req.valor())
	})
}

// POST /vendas/intake/{id}/submeter
func (h *IntakeHandler) Submeter(w http.ResponseWriter, r *http.Request) {
	h.aplicar(w, r, nil, func(e Estado) (Estado, error) {
		return h.Intake.Submeter(r.Context(), e)
	})
}

// POST /vendas/intake/{id}/morada {"resolution": "mudanca_casa"}
func (h *IntakeHandler) ResolverMorada(w http.ResponseWriter, r *http.Request) {
	var req resolucaoRequest
	h.aplicar(w, r, &req, func(e Estado) (Estado, error) {
		return h.Intake.ResolverMorada(r.Context(), e, req.Resolucao)
	})
}

// campoRequest aceita qualquer valor JSON; os valores não textuais
// (booleanos, números) são passados pela sua representação literal.
type campoRequest struct {
	Campo string          `json:"field"`
	Valor json.RawMessage `json:"value"`
}

func (c campoRequest) valor() string {
	var s string
	if err := json.Unmarshal(c.Valor, &s); err == nil {
		return s
	}
	raw := strings.TrimSpace(string(c.Valor))
	if raw == "null" {
		return ""
	}
	return raw
}

// aplicar carrega a sessão, descodifica o corpo (se req não for nil), aplica
// op e guarda o estado resultante, mesmo quando op devolve erro.
func (h *IntakeHandler) aplicar(w http.ResponseWriter, r *http.Request, req any, op func(Estado) (Estado, error)) {
	id := mux.Vars(r)["id"]
	if req != nil {
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, "JSON inválido", http.StatusBadRequest)
			return
		}
	}
	e, ok := h.carregar(w, r, id)
	if !ok {
		return
	}
	n, err := op(e)
	h.guardarEResponder(w, r, id, n, err, http.StatusOK)
}

func (h *IntakeHandler) carregar(w http.ResponseWriter, r *http.Request, id string) (Estado, bool) {
	e, err := h.Sessoes.Carregar(r.Context(), id)
	if err != nil {
		h.responderErro(w, err)
		return Estado{}, false
	}
	return e, true
}

func (h *IntakeHandler) guardarEResponder(w http.ResponseWriter, r *http.Request, id string, e Estado, opErr error, status int) {
	if err := h.Sessoes.Guardar(r.Context(), id, e); err != nil {
		h.Logger.Error("erro ao guardar sessão", zap.String("sessao_id", id), zap.Error(err))
		http.Error(w, "Erro ao guardar sessão", http.StatusInternalServerError)
		return
	}
	if opErr != nil {
		h.responderErro(w, opErr)
		return
	}
	writeJSON(w, status, resposta(id, e))
}

func resposta(id string, e Estado) intakeResposta {
	return intakeResposta{ID: id, Estado: e, OperadorasDisponiveis: e.OperadorasDisponiveis(), Erro: e.Erro}
}

func (h *IntakeHandler) responderErro(w http.ResponseWriter, err error) {
	var ev *ErroValidacao
	var ep *ErroPersistencia
	switch {
	case errors.As(err, &ev):
		writeJSON(w, http.StatusUnprocessableEntity, ev)
	case errors.As(err, &ep):
		http.Error(w, ep.Mensagem, http.StatusInternalServerError)
	case errors.Is(err, ErrSessaoNaoEncontrada), errors.Is(err, ErrVendaNaoEncontrada):
		http.Error(w, err.Error(), http.StatusNotFound)
	case errors.Is(err, ErrTransicaoInvalida):
		http.Error(w, err.Error(), http.StatusConflict)
	case errors.Is(err, ErrCampoDesconhecido), errors.Is(err, ErrCampoNaoAplicavel),
		errors.Is(err, ErrValorInvalido), errors.Is(err, ErrReferenciaDesconhecida),
		errors.Is(err, ErrOperadoraIncompativel):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, ErrConsulta):
		http.Error(w, "Erro ao consultar dados, tente novamente", http.StatusBadGateway)
	default:
		h.Logger.Error("erro inesperado no fluxo de venda", zap.Error(err))
		http.Error(w, "Erro interno", http.StatusInternalServerError)
	}
}
