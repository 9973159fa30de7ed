package notificacao

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/Leiritrix/api-vendas/internal/venda"
	"github.com/redis/go-redis/v9"
)

const CanalPadrao = "vendas:eventos"

// Publicador publica os eventos de venda num canal Redis (PUBLISH).
type Publicador struct {
	Client *redis.Client
	Canal  string
	Agora  func() time.Time
}

func NewPublicador(client *redis.Client, canal string) *Publicador {
	if canal == "" {
		canal = CanalPadrao
	}
	return &Publicador{Client: client, Canal: canal, Agora: time.Now}
}

func (p *Publicador) Notificar(ctx context.Context, v venda.Venda, evento string) error {
	data, err := json.Marshal(novoEvento(v, evento, p.Agora()))
	if err != nil {
		return fmt.Errorf("serializar evento: %w", err)
	}
	if err := p.Client.Publish(ctx, p.Canal, data).Err(); err != nil {
		return fmt.Errorf("publicar evento em %s: %w", p.Canal, err)
	}
	return nil
}
