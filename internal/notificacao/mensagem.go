package notificacao

import (
	"fmt"

	"github.com/Leiritrix/api-vendas/internal/venda"
)

var nomesStatus = map[string]string{
	"em_negociacao": "Em negociação",
	"pendente":      "Pendente",
	"ativo":         "Ativo",
	"perdido":       "Perdido",
	"anulado":       "Anulado",
}

// Mensagem devolve o texto apresentado ao utilizador para um evento de venda.
func Mensagem(v venda.Venda, evento string) string {
	switch evento {
	case venda.EventoVendaCriada:
		return fmt.Sprintf("Nova venda registada: %s (%s)", v.ClientName, v.Category)
	case venda.EventoEstadoAlterado:
		status, ok := nomesStatus[string(v.Status)]
		if !ok {
			status = string(v.Status)
		}
		return fmt.Sprintf("A venda de %s passou para o estado %s", v.ClientName, status)
	default:
		return fmt.Sprintf("Atualização na venda de %s", v.ClientName)
	}
}
