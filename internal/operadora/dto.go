package operadora

import "github.com/Leiritrix/api-vendas/internal/models"

type operadoraRequest struct {
	Name                  string             `json:"name" validate:"required"`
	PartnerID             string             `json:"partner_id" validate:"required"`
	Categories            []models.Etiqueta  `json:"categories" validate:"min=1"`
	AllowedSaleTypes      []models.TipoVenda `json:"allowed_sale_types"`
	CommissionVisibleToBO bool               `json:"commission_visible_to_bo"`
}

type ativaRequest struct {
	Active bool `json:"active"`
}
