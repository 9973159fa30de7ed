package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"
)

type identidadesMemoria struct {
	itens map[string]*Identidade
}

func (m *identidadesMemoria) Criar(_ *gorm.DB, i *Identidade) error {
	_ = i.BeforeCreate(nil)
	m.itens[i.ID] = i
	return nil
}

func (m *identidadesMemoria) BuscarPorEmail(_ *gorm.DB, email string) (*Identidade, error) {
	for _, i := range m.itens {
		if strings.EqualFold(i.Email, email) {
			return i, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *identidadesMemoria) BuscarPorID(_ *gorm.DB, id string) (*Identidade, error) {
	i, ok := m.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return i, nil
}

func (m *identidadesMemoria) Remover(_ *gorm.DB, id string) error {
	delete(m.itens, id)
	return nil
}

func (m *identidadesMemoria) AtualizarHash(_ *gorm.DB, id, hash string) error {
	m.itens[id].PasswordHash = hash
	return nil
}

type perfisMemoria struct {
	itens map[string]*utilizador.Utilizador
}

func (m *perfisMemoria) Criar(_ *gorm.DB, u *utilizador.Utilizador) error {
	m.itens[u.ID] = u
	return nil
}

func (m *perfisMemoria) BuscarPorID(_ *gorm.DB, id string) (*utilizador.Utilizador, error) {
	u, ok := m.itens[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (m *perfisMemoria) ListarPorPapeis(_ *gorm.DB, _ ...models.Papel) ([]utilizador.Utilizador, error) {
	return nil, nil
}

func (m *perfisMemoria) DefinirMudarSenha(_ *gorm.DB, id string, mudar bool) error {
	m.itens[id].MustChangePassword = mudar
	return nil
}

func novoHandler(t *testing.T) (*Handler, *perfisMemoria) {
	perfis := &perfisMemoria{itens: map[string]*utilizador.Utilizador{}}
	return &Handler{
		Identidades: &Identidades{Repository: &identidadesMemoria{itens: map[string]*Identidade{}}},
		Perfis:      perfis,
		Emissor:     NewEmissor("segredo-de-teste", time.Hour),
		Logger:      zaptest.NewLogger(t),
	}, perfis
}

func login(h *Handler, email, senha string) *httptest.ResponseRecorder {
	body, _ := json.Marshal(loginRequest{Email: email, Password: senha})
	rec := httptest.NewRecorder()
	h.Login(rec, httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body)))
	return rec
}

func TestIdentidades_EmailDuplicado(t *testing.T) {
	h, _ := novoHandler(t)
	ctx := context.Background()

	_, err := h.Identidades.CriarIdentidade(ctx, "ana@exemplo.pt", "segredo123")
	require.NoError(t, err)
	_, err = h.Identidades.CriarIdentidade(ctx, "ANA@exemplo.pt", "outra")
	assert.ErrorIs(t, err, ErrEmailRegistado)
}

func TestLogin(t *testing.T) {
	h, perfis := novoHandler(t)
	id, err := h.Identidades.CriarIdentidade(context.Background(), "ana@exemplo.pt", "segredo123")
	require.NoError(t, err)
	perfis.itens[id] = &utilizador.Utilizador{ID: id, Email: "ana@exemplo.pt", Role: models.PapelBackoffice, Active: true, MustChangePassword: true}

	rec := login(h, "ana@exemplo.pt", "segredo123")
	require.Equal(t, http.StatusOK, rec.Code)

	var resp loginResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.MustChangePassword)
	c, err := h.Emissor.ValidarToken(resp.Token)
	require.NoError(t, err)
	assert.Equal(t, id, c.UserID)
	assert.Equal(t, models.PapelBackoffice, c.Role)

	assert.Equal(t, http.StatusUnauthorized, login(h, "ana@exemplo.pt", "errada").Code)
	assert.Equal(t, http.StatusUnauthorized, login(h, "ninguem@exemplo.pt", "segredo123").Code)
	assert.Equal(t, http.StatusBadRequest, login(h, "", "").Code)
}

func TestLogin_UtilizadorInativo(t *testing.T) {
	h, perfis := novoHandler(t)
	id, err := h.Identidades.CriarIdentidade(context.Background(), "rui@exemplo.pt", "segredo123")
	require.NoError(t, err)
	perfis.itens[id] = &utilizador.Utilizador{ID: id, Role: models.PapelVendedor, Active: false}

	assert.Equal(t, http.StatusForbidden, login(h, "rui@exemplo.pt", "segredo123").Code)
}

func TestAlterarSenha(t *testing.T) {
	h, perfis := novoHandler(t)
	id, err := h.Identidades.CriarIdentidade(context.Background(), "ana@exemplo.pt", "temporaria")
	require.NoError(t, err)
	perfis.itens[id] = &utilizador.Utilizador{ID: id, Role: models.PapelVendedor, Active: true, MustChangePassword: true}

	tok, _ := h.Emissor.GerarToken(id, models.PapelVendedor)
	req := httptest.NewRequest(http.MethodPost, "/auth/senha", bytes.NewBufferString(`{"password":"nova-senha-forte"}`))
	req.Header.Set("Authorization", "Bearer "+tok)
	rec := httptest.NewRecorder()
	h.Emissor.MiddlewareAutenticacao(http.HandlerFunc(h.AlterarSenha)).ServeHTTP(rec, req)
	require.Equal(t, http.StatusNoContent, rec.Code)

	assert.False(t, perfis.itens[id].MustChangePassword)
	assert.Equal(t, http.StatusOK, login(h, "ana@exemplo.pt", "nova-senha-forte").Code)
}
