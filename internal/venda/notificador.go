package venda

import (
	"context"
	"errors"
)

// Tipos de evento enviados ao Notificador.
const (
	EventoVendaCriada    = "sale_created"
	EventoEstadoAlterado = "sale_status_changed"
)

// Notificador recebe os eventos de venda. As falhas são registadas por quem
// chama e nunca alteram o resultado da operação que as originou.
type Notificador interface {
	Notificar(ctx context.Context, v Venda, evento string) error
}

// SessaoStore guarda o estado das sessões de criação de venda entre pedidos.
type SessaoStore interface {
	Guardar(ctx context.Context, id string, e Estado) error
	Carregar(ctx context.Context, id string) (Estado, error)
	Remover(ctx context.Context, id string) error
}

var ErrSessaoNaoEncontrada = errors.New("sessão não encontrada ou expirada")
