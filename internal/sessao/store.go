package sessao

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Leiritrix/api-vendas/internal/venda"
	"github.com/redis/go-redis/v9"
)

const prefixo = "intake:"

// TTLPadrao aplica-se quando a configuração não indica outro valor.
const TTLPadrao = 2 * time.Hour

// Store guarda o estado de cada sessão de registo de venda como JSON no Redis.
// Cada gravação renova o prazo de expiração.
type Store struct {
	Client *redis.Client
	TTL    time.Duration
}

func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = TTLPadrao
	}
	return &Store{Client: client, TTL: ttl}
}

func chave(id string) string { return prefixo + id }

func (s *Store) Guardar(ctx context.Context, id string, e venda.Estado) error {
	data, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("serializar sessão %s: %w", id, err)
	}
	if err := s.Client.Set(ctx, chave(id), data, s.TTL).Err(); err != nil {
		return fmt.Errorf("guardar sessão %s: %w", id, err)
	}
	return nil
}

func (s *Store) Carregar(ctx context.Context, id string) (venda.Estado, error) {
	data, err := s.Client.Get(ctx, chave(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return venda.Estado{}, venda.ErrSessaoNaoEncontrada
	}
	if err != nil {
		return venda.Estado{}, fmt.Errorf("carregar sessão %s: %w", id, err)
	}
	var e venda.Estado
	if err := json.Unmarshal(data, &e); err != nil {
		return venda.Estado{}, fmt.Errorf("ler sessão %s: %w", id, err)
	}
	return e, nil
}

// Remover é idempotente: apagar uma sessão inexistente não é erro.
func (s *Store) Remover(ctx context.Context, id string) error {
	if err := s.Client.Del(ctx, chave(id)).Err(); err != nil {
		return fmt.Errorf("remover sessão %s: %w", id, err)
	}
	return nil
}

var _ venda.SessaoStore = (*Store)(nil)
