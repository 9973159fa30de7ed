package venda

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Criar(db *gorm.DB, v *Venda) error
	BuscarPorID(db *gorm.DB, id string) (*Venda, error)
	BuscarPorNIF(db *gorm.DB, nif string) ([]Venda, error)
	Listar(db *gorm.DB, f Filtro) ([]Venda, error)
	Atualizar(db *gorm.DB, v *Venda) error
	Deletar(db *gorm.DB, id string) error
	CancelarAlertasFidelizacao(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func comAssociacoes(db *gorm.DB) *gorm.DB {
	return db.Preload("Operadora").Preload("Vendedor").Preload("Parceiro")
}

func (r *repositoryImpl) Criar(db *gorm.DB, v *Venda) error {
	return db.Omit(clause.Associations).Create(v).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Venda, error) {
	var v Venda
	if err := comAssociacoes(db).First(&v, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &v, nil
}

// BuscarPorNIF devolve as vendas do cliente, mais recentes primeiro.
func (r *repositoryImpl) BuscarPorNIF(db *gorm.DB, nif string) ([]Venda, error) {
	var list []Venda
	err := comAssociacoes(db).
		Where("client_nif = ?", nif).
		Order("created_at DESC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Listar(db *gorm.DB, f Filtro) ([]Venda, error) {
	q := comAssociacoes(db)
	if f.SellerID != "" {
		q = q.Where("seller_id = ?", f.SellerID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Category != "" {
		q = q.Where("category = ?", f.Category)
	}
	if f.PartnerID != "" {
		q = q.Where("partner_id = ?", f.PartnerID)
	}
	var list []Venda
	err := q.Order("created_at DESC").Find(&list).Error
	return list, err
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, v *Venda) error {
	return db.Omit(clause.Associations).Save(v).Error
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id string) error {
	res := db.Delete(&Venda{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// CancelarAlertasFidelizacao anula a fidelização da venda (meses e data de fim),
// o que retira a venda dos alertas de renovação.
func (r *repositoryImpl) CancelarAlertasFidelizacao(db *gorm.DB, id string) error {
	res := db.Model(&Venda{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{"loyalty_months": 0, "loyalty_end_date": nil})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
