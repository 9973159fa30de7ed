package notificacao

import (
	"context"
	"errors"
	"sync"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	"github.com/Leiritrix/api-vendas/internal/venda"
	"gorm.io/gorm"
)

type notificacoesMemoria struct {
	mu    sync.Mutex
	itens []Notificacao
	falha error
}

func (m *notificacoesMemoria) CriarVarias(_ *gorm.DB, ns []Notificacao) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.falha != nil {
		return m.falha
	}
	m.itens = append(m.itens, ns...)
	return nil
}

func (m *notificacoesMemoria) ListarPorUtilizador(_ *gorm.DB, userID string, soNaoLidas bool) ([]Notificacao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []Notificacao
	for _, n := range m.itens {
		if n.UserID == userID && (!soNaoLidas || !n.Read) {
			out = append(out, n)
		}
	}
	return out, nil
}

func (m *notificacoesMemoria) MarcarLida(_ *gorm.DB, id, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := range m.itens {
		if m.itens[i].ID == id && m.itens[i].UserID == userID {
			m.itens[i].Read = true
			return nil
		}
	}
	return gorm.ErrRecordNotFound
}

type utilizadoresMemoria struct {
	lista []utilizador.Utilizador
	falha error
}

func (u *utilizadoresMemoria) Criar(*gorm.DB, *utilizador.Utilizador) error { return nil }

func (u *utilizadoresMemoria) BuscarPorID(_ *gorm.DB, id string) (*utilizador.Utilizador, error) {
	for i := range u.lista {
		if u.lista[i].ID == id {
			return &u.lista[i], nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (u *utilizadoresMemoria) ListarPorPapeis(_ *gorm.DB, papeis ...models.Papel) ([]utilizador.Utilizador, error) {
	if u.falha != nil {
		return nil, u.falha
	}
	var out []utilizador.Utilizador
	for _, x := range u.lista {
		for _, p := range papeis {
			if x.Role == p && x.Active {
				out = append(out, x)
			}
		}
	}
	return out, nil
}

func (u *utilizadoresMemoria) DefinirMudarSenha(*gorm.DB, string, bool) error { return nil }

type notificadorFixo struct {
	chamadas int
	err      error
}

func (n *notificadorFixo) Notificar(context.Context, venda.Venda, string) error {
	n.chamadas++
	return n.err
}

var errFalhaTeste = errors.New("falha")

func vendaTeste() venda.Venda {
	vendedor := "u-vend"
	return venda.Venda{
		ID:         "v-1",
		ClientName: "Maria Silva",
		ClientNIF:  "123456789",
		Category:   models.CategoriaEnergia,
		Status:     models.StatusEmNegociacao,
		PartnerID:  "p-1",
		OperatorID: "o-1",
		SellerID:   &vendedor,
	}
}
