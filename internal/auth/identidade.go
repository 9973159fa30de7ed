package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/Leiritrix/api-vendas/internal/utils"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Identidade guarda as credenciais; o perfil vive em users com o mesmo ID.
type Identidade struct {
	ID           string    `gorm:"type:uuid;primaryKey" json:"id"`
	Email        string    `gorm:"size:255;not null;uniqueIndex" json:"email"`
	PasswordHash string    `gorm:"size:255;not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func (Identidade) TableName() string { return "auth_identities" }

func (i *Identidade) BeforeCreate(*gorm.DB) error {
	if i.ID == "" {
		i.ID = uuid.NewString()
	}
	return nil
}

var ErrEmailRegistado = errors.New("Já existe um utilizador registado com este email")

type Repository interface {
	Criar(db *gorm.DB, i *Identidade) error
	BuscarPorEmail(db *gorm.DB, email string) (*Identidade, error)
	BuscarPorID(db *gorm.DB, id string) (*Identidade, error)
	Remover(db *gorm.DB, id string) error
	AtualizarHash(db *gorm.DB, id, hash string) error
}

type repositoryImpl struct{}

func NewRepository() Repository {
	return &repositoryImpl{}
}

func (r *repositoryImpl) Criar(db *gorm.DB, i *Identidade) error {
	return db.Create(i).Error
}

func (r *repositoryImpl) BuscarPorEmail(db *gorm.DB, email string) (*Identidade, error) {
	var i Identidade
	if err := db.Where("LOWER(email) = ?", strings.ToLower(email)).First(&i).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *repositoryImpl) BuscarPorID(db *gorm.DB, id string) (*Identidade, error) {
	var i Identidade
	if err := db.First(&i, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &i, nil
}

func (r *repositoryImpl) Remover(db *gorm.DB, id string) error {
	return db.Delete(&Identidade{}, "id = ?", id).Error
}

func (r *repositoryImpl) AtualizarHash(db *gorm.DB, id, hash string) error {
	return db.Model(&Identidade{}).Where("id = ?", id).Update("password_hash", hash).Error
}

// Identidades expõe o repositório com a assinatura usada pelo provisionamento.
type Identidades struct {
	DB         *gorm.DB
	Repository Repository
}

func NewIdentidades(db *gorm.DB) *Identidades {
	return &Identidades{DB: db, Repository: NewRepository()}
}

func (s *Identidades) CriarIdentidade(ctx context.Context, email, senha string) (string, error) {
	db := dbutil.ComContexto(s.DB, ctx)
	email = strings.TrimSpace(email)
	if _, err := s.Repository.BuscarPorEmail(db, email); err == nil {
		return "", ErrEmailRegistado
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return "", err
	}
	hash, err := utils.HashSenha(senha)
	if err != nil {
		return "", fmt.Errorf("hash da senha: %w", err)
	}
	i := Identidade{Email: email, PasswordHash: hash}
	if err := s.Repository.Criar(db, &i); err != nil {
		return "", err
	}
	return i.ID, nil
}

func (s *Identidades) RemoverIdentidade(ctx context.Context, id string) error {
	return s.Repository.Remover(dbutil.ComContexto(s.DB, ctx), id)
}

func (s *Identidades) DefinirSenha(ctx context.Context, id, senha string) error {
	hash, err := utils.HashSenha(senha)
	if err != nil {
		return fmt.Errorf("hash da senha: %w", err)
	}
	return s.Repository.AtualizarHash(dbutil.ComContexto(s.DB, ctx), id, hash)
}

// Autenticar devolve a identidade quando email e senha coincidem.
func (s *Identidades) Autenticar(ctx context.Context, email, senha string) (*Identidade, error) {
	i, err := s.Repository.BuscarPorEmail(dbutil.ComContexto(s.DB, ctx), strings.TrimSpace(email))
	if err != nil {
		return nil, err
	}
	if !utils.VerificarSenha(i.PasswordHash, senha) {
		return nil, ErrCredenciaisInvalidas
	}
	return i, nil
}

var ErrCredenciaisInvalidas = errors.New("Email ou password inválidos")
