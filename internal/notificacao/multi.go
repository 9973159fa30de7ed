package notificacao

import (
	"context"
	"errors"

	"github.com/Leiritrix/api-vendas/internal/venda"
)

// Multi entrega o evento a todos os notificadores, mesmo que algum falhe,
// e devolve os erros agregados.
type Multi []venda.Notificador

func (m Multi) Notificar(ctx context.Context, v venda.Venda, evento string) error {
	var errs []error
	for _, n := range m {
		if n == nil {
			continue
		}
		if err := n.Notificar(ctx, v, evento); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

var (
	_ venda.Notificador = Multi(nil)
	_ venda.Notificador = (*NotificadorDB)(nil)
	_ venda.Notificador = (*Webhook)(nil)
	_ venda.Notificador = (*Publicador)(nil)
)
