package notificacao

import (
	"context"
	"fmt"
	"time"

	"github.com/Leiritrix/api-vendas/internal/venda"
	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"
)

// Webhook envia cada evento de venda por POST para um endereço externo.
// Não há novas tentativas: uma falha é devolvida e registada por quem chama.
type Webhook struct {
	client *resty.Client
	url    string
	logger *zap.Logger
	Agora  func() time.Time
}

func NewWebhook(url string, timeout time.Duration, logger *zap.Logger) *Webhook {
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Content-Type", "application/json").
		SetHeader("Accept", "application/json")
	return &Webhook{client: client, url: url, logger: logger, Agora: time.Now}
}

func (w *Webhook) Notificar(ctx context.Context, v venda.Venda, evento string) error {
	resp, err := w.client.R().
		SetContext(ctx).
		SetBody(novoEvento(v, evento, w.Agora())).
		Post(w.url)
	if err != nil {
		return fmt.Errorf("enviar webhook: %w", err)
	}
	if resp.IsError() {
		return fmt.Errorf("webhook respondeu %d", resp.StatusCode())
	}
	w.logger.Debug("webhook enviado",
		zap.String("evento", evento),
		zap.String("venda_id", v.ID),
		zap.Int("status_code", resp.StatusCode()),
	)
	return nil
}
