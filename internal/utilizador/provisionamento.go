package utilizador

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/Leiritrix/api-vendas/internal/utils"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Identidades cria e remove credenciais de autenticação.
type Identidades interface {
	CriarIdentidade(ctx context.Context, email, senha string) (string, error)
	RemoverIdentidade(ctx context.Context, id string) error
	DefinirSenha(ctx context.Context, id, senha string) error
}

// ErroProvisionamento transporta o código HTTP a devolver ao cliente.
type ErroProvisionamento struct {
	Status int
	Err    error
}

func (e *ErroProvisionamento) Error() string { return e.Err.Error() }
func (e *ErroProvisionamento) Unwrap() error { return e.Err }

var ErrCredenciaisObrigatorias = errors.New("Email e password são obrigatórios")

// Provisionador cria a identidade e o perfil em conjunto. Se o perfil falhar
// a identidade já criada é removida antes de devolver o erro original.
type Provisionador struct {
	DB          *gorm.DB
	Repository  Repository
	Identidades Identidades
	Logger      *zap.Logger
	validate    *validator.Validate
}

func NewProvisionador(db *gorm.DB, identidades Identidades, logger *zap.Logger) *Provisionador {
	return &Provisionador{
		DB:          db,
		Repository:  NewRepository(),
		Identidades: identidades,
		Logger:      logger,
		validate:    validator.New(),
	}
}

func (p *Provisionador) Criar(ctx context.Context, pedido PedidoCriacao) (*Utilizador, error) {
	if err := p.validate.Struct(pedido); err != nil {
		return nil, &ErroProvisionamento{Status: http.StatusBadRequest, Err: ErrCredenciaisObrigatorias}
	}
	papel := pedido.UserData.Role
	if papel == "" {
		papel = models.PapelVendedor
	}
	if !papel.Valido() {
		return nil, &ErroProvisionamento{Status: http.StatusBadRequest, Err: fmt.Errorf("papel desconhecido: %s", papel)}
	}

	id, err := p.Identidades.CriarIdentidade(ctx, pedido.Email, pedido.Password)
	if err != nil {
		return nil, &ErroProvisionamento{Status: http.StatusBadRequest, Err: err}
	}

	email := pedido.UserData.Email
	if email == "" {
		email = pedido.Email
	}
	u := Utilizador{
		ID:                   id,
		Email:                email,
		Name:                 pedido.UserData.Name,
		Role:                 papel,
		Active:               true,
		MustChangePassword:   pedido.UserData.MustChangePassword == nil || *pedido.UserData.MustChangePassword,
		CommissionPercentage: pedido.UserData.CommissionPercentage,
		CommissionThreshold:  pedido.UserData.CommissionThreshold,
	}

	if err := p.Repository.Criar(dbutil.ComContexto(p.DB, ctx), &u); err != nil {
		if rbErr := p.Identidades.RemoverIdentidade(ctx, id); rbErr != nil {
			p.Logger.Error("falha ao reverter identidade", zap.String("identidade_id", id), zap.Error(rbErr))
		}
		return nil, &ErroProvisionamento{Status: http.StatusBadRequest, Err: err}
	}

	p.Logger.Info("utilizador criado", zap.String("utilizador_id", u.ID), zap.String("role", string(u.Role)))
	return &u, nil
}

// RedefinirSenha gera uma senha temporária e obriga a sua alteração no próximo acesso.
func (p *Provisionador) RedefinirSenha(ctx context.Context, id string) (string, error) {
	db := dbutil.ComContexto(p.DB, ctx)
	if _, err := p.Repository.BuscarPorID(db, id); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", &ErroProvisionamento{Status: http.StatusNotFound, Err: errors.New("utilizador não encontrado")}
		}
		return "", &ErroProvisionamento{Status: http.StatusInternalServerError, Err: err}
	}
	senha, err := utils.GerarSenhaTemporaria()
	if err != nil {
		return "", &ErroProvisionamento{Status: http.StatusInternalServerError, Err: err}
	}
	if err := p.Identidades.DefinirSenha(ctx, id, senha); err != nil {
		return "", &ErroProvisionamento{Status: http.StatusInternalServerError, Err: err}
	}
	if err := p.Repository.DefinirMudarSenha(db, id, true); err != nil {
		return "", &ErroProvisionamento{Status: http.StatusInternalServerError, Err: err}
	}
	return senha, nil
}
