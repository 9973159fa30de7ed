package notificacao

import (
	"time"

	"github.com/Leiritrix/api-vendas/internal/venda"
)

// Evento é o corpo enviado pelo webhook e publicado no Redis.
type Evento struct {
	Tipo       string    `json:"event"`
	VendaID    string    `json:"sale_id"`
	ClientName string    `json:"client_name"`
	ClientNIF  string    `json:"client_nif"`
	Category   string    `json:"category"`
	Status     string    `json:"status"`
	PartnerID  string    `json:"partner_id"`
	OperatorID string    `json:"operator_id"`
	SellerID   *string   `json:"seller_id"`
	Mensagem   string    `json:"message"`
	Em         time.Time `json:"at"`
}

func novoEvento(v venda.Venda, tipo string, em time.Time) Evento {
	return Evento{
		Tipo:       tipo,
		VendaID:    v.ID,
		ClientName: v.ClientName,
		ClientNIF:  v.ClientNIF,
		Category:   string(v.Category),
		Status:     string(v.Status),
		PartnerID:  v.PartnerID,
		OperatorID: v.OperatorID,
		SellerID:   v.SellerID,
		Mensagem:   Mensagem(v, tipo),
		Em:         em,
	}
}
