package utilizador

import (
	"github.com/Leiritrix/api-vendas/internal/models"
	"gorm.io/gorm"
)

type Repository interface {
	Criar(db *gorm.DB, u *Utilizador) error
	BuscarPorID(db *gorm.DB, id string) (*Utilizador, error)
	ListarPorPapeis(db *gorm.DB, papeis ...models.Papel) ([]Utilizador, error)
	DefinirMudarSenha(db *gorm.DB, id string, mudar bool) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, u *Utilizador) error {
	return db.Create(u).Error
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Utilizador, error) {
	var u Utilizador
	if err := db.First(&u, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

// ListarPorPapeis devolve os utilizadores ativos com algum dos papéis indicados.
func (r *repositoryImpl) ListarPorPapeis(db *gorm.DB, papeis ...models.Papel) ([]Utilizador, error) {
	var list []Utilizador
	err := db.Where("role IN ?", papeis).
		Where("active = ?", true).
		Order("name ASC").
		Find(&list).Error
	return list, err
}

func (r *repositoryImpl) DefinirMudarSenha(db *gorm.DB, id string, mudar bool) error {
	return db.Model(&Utilizador{}).Where("id = ?", id).Update("must_change_password", mudar).Error
}
