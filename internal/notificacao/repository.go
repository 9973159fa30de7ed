package notificacao

import "gorm.io/gorm"

type Repository interface {
	CriarVarias(db *gorm.DB, ns []Notificacao) error
	ListarPorUtilizador(db *gorm.DB, userID string, soNaoLidas bool) ([]Notificacao, error)
	MarcarLida(db *gorm.DB, id, userID string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) CriarVarias(db *gorm.DB, ns []Notificacao) error {
	if len(ns) == 0 {
		return nil
	}
	return db.Create(&ns).Error
}

func (r *repositoryImpl) ListarPorUtilizador(db *gorm.DB, userID string, soNaoLidas bool) ([]Notificacao, error) {
	var list []Notificacao
	q := db.Where("user_id = ?", userID)
	if soNaoLidas {
		q = q.Where("read = ?", false)
	}
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarcarLida só altera notificações do próprio utilizador.
func (r *repositoryImpl) MarcarLida(db *gorm.DB, id, userID string) error {
	res := db.Model(&Notificacao{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("read", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
