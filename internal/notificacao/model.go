package notificacao

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Notificacao é um aviso dirigido a um utilizador sobre uma venda.
type Notificacao struct {
	ID        string    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID    string    `gorm:"type:uuid;not null;index" json:"user_id"`
	SaleID    string    `gorm:"type:uuid;not null;index" json:"sale_id"`
	EventType string    `gorm:"size:50;not null" json:"event_type"`
	Message   string    `gorm:"type:text;not null" json:"message"`
	Read      bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt time.Time `gorm:"index" json:"created_at"`
}

func (Notificacao) TableName() string { return "notifications" }

func (n *Notificacao) BeforeCreate(*gorm.DB) error {
	if n.ID == "" {
		n.ID = uuid.NewString()
	}
	return nil
}
