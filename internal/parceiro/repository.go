package parceiro

import (
	"gorm.io/gorm"
)

type Repository interface {
	Salvar(db *gorm.DB, p *Parceiro) error
	ListarTodos(db *gorm.DB, incluirInativos bool) ([]Parceiro, error)
	BuscarPorID(db *gorm.DB, id string) (*Parceiro, error)
	Atualizar(db *gorm.DB, id string, novosDados *Parceiro) (*Parceiro, error)
	DefinirAtivo(db *gorm.DB, id string, ativo bool) (*Parceiro, error)
	Deletar(db *gorm.DB, id string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Salvar(db *gorm.DB, p *Parceiro) error {
	return db.Create(p).Error
}

func (r *repositoryImpl) ListarTodos(db *gorm.DB, incluirInativos bool) ([]Parceiro, error) {
	var list []Parceiro
	q := db.Order("name ASC")
	if !incluirInativos {
		q = q.Where("active = ?", true)
	}
	err := q.Find(&list).Error
	return list, err
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Parceiro, error) {
	var p Parceiro
	if err := db.First(&p, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// Atualizar altera apenas os dados de contacto; o estado ativo tem rota própria.
func (r *repositoryImpl) Atualizar(db *gorm.DB, id string, novosDados *Parceiro) (*Parceiro, error) {
	existente, err := r.BuscarPorID(db, id)
	if err != nil {
		return nil, err
	}
	existente.Name = novosDados.Name
	existente.Email = novosDados.Email
	existente.ContactPerson = novosDados.ContactPerson
	existente.Phone = novosDados.Phone
	if err := db.Save(existente).Error; err != nil {
		return nil, err
	}
	return existente, nil
}

func (r *repositoryImpl) DefinirAtivo(db *gorm.DB, id string, ativo bool) (*Parceiro, error) {
	if err := db.Model(&Parceiro{}).Where("id = ?", id).Update("active", ativo).Error; err != nil {
		return nil, err
	}
	return r.BuscarPorID(db, id)
}

func (r *repositoryImpl) Deletar(db *gorm.DB, id string) error {
	return db.Delete(&Parceiro{}, "id = ?", id).Error
}
