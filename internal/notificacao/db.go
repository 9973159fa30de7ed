package notificacao

import (
	"context"
	"fmt"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/utilizador"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/Leiritrix/api-vendas/internal/venda"
	"gorm.io/gorm"
)

// NotificadorDB grava uma notificação por destinatário: administradores,
// back office e o vendedor da venda (sem repetições).
type NotificadorDB struct {
	DB           *gorm.DB
	Repository   Repository
	Utilizadores utilizador.Repository
}

func NewNotificadorDB(db *gorm.DB) *NotificadorDB {
	return &NotificadorDB{DB: db, Repository: NewRepository(), Utilizadores: utilizador.NewRepository()}
}

func (n *NotificadorDB) Notificar(ctx context.Context, v venda.Venda, evento string) error {
	db := dbutil.ComContexto(n.DB, ctx)
	staff, err := n.Utilizadores.ListarPorPapeis(db, models.PapelAdmin, models.PapelBackoffice)
	if err != nil {
		return fmt.Errorf("listar destinatários: %w", err)
	}

	destinatarios := make([]string, 0, len(staff)+1)
	vistos := make(map[string]bool, len(staff)+1)
	add := func(id string) {
		if id == "" || vistos[id] {
			return
		}
		vistos[id] = true
		destinatarios = append(destinatarios, id)
	}
	for _, u := range staff {
		add(u.ID)
	}
	if v.SellerID != nil {
		add(*v.SellerID)
	}

	msg := Mensagem(v, evento)
	ns := make([]Notificacao, 0, len(destinatarios))
	for _, id := range destinatarios {
		ns = append(ns, Notificacao{UserID: id, SaleID: v.ID, EventType: evento, Message: msg})
	}
	if err := n.Repository.CriarVarias(db, ns); err != nil {
		return fmt.Errorf("gravar notificações: %w", err)
	}
	return nil
}
