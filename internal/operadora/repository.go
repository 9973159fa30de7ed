package operadora

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, o *Operadora) error
	Listar(db *gorm.DB, parceiroID string, incluirInativas bool) ([]Operadora, error)
	ListarAtivasPorParceiro(db *gorm.DB, parceiroID string) ([]Operadora, error)
	BuscarPorID(db *gorm.DB, id string) (*Operadora, error)
	Atualizar(db *gorm.DB, o *Operadora) error
	DefinirAtiva(db *gorm.DB, id string, ativa bool) (*Operadora, error)
	Deletar(db *gorm.DB, id string) error
	ContarVendas(db *gorm.DB, id string) (int64, error)
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, o *Operadora) error {
	return db.Create(o).Error
}

func (r *repositoryImpl) Listar(db *gorm.DB, parceiroID string, incluirInativas bool) ([]Operadora, error) {
	var list []Operadora
	q := db.Order("name ASC")
	if parceiroID != "" {
		q = q.Where("partner_id = ?", parceiroID)
	}
	if !incluirInativas {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) ListarAtivasPorParceiro(db *gorm.DB, parceiroID string) ([]Operadora, error) {
	return r.Listar(db, parceiroID, false)
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Operadora, error) {
	var o Operadora
	if err := db.First(&o, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &o, nil
}

func (r *repositoryImpl) Atualizar(db *gorm.DB, o *Operadora) error {
	return db.Save(o).Error
}

func (r *repositoryImpl) DefinirAtiva(db *gorm.DB, id string, ativa bool) (*Operadora, error) {
	if err := db.Model(&Operadora{}).Where("id = ?", id).Update("active", ativa).Error; err != nil {
		return nil, err
	}
	return r.BuscarPorID(db, id)
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id string) error {
	return db.Delete(&Operadora{}, "id = ?", id).Error
}

func (r *repositoryImpl) ContarVendas(db *gorm.DB, id string) (int64, error) {
	var n int64
	err := db.Table("sales").Where("operator_id = ?", id).Count(&n).Error
	return n, err
}
