package venda

import (
	"context"
	"strconv"
	"strings"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	dbutil "github.com/Leiritrix/api-vendas/internal/utils/db"
	"github.com/shopspring/decimal"
	"github.com/ttacon/libphonenumber"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// regiaoTelefone é a região usada para interpretar números sem indicativo.
const regiaoTelefone = "PT"

// ErroPersistencia indica que o registo não foi gravado; Mensagem vem da base
// de dados e é mostrada ao utilizador tal como está.
type ErroPersistencia struct {
	Mensagem string
	Err      error
}

func (e *ErroPersistencia) Error() string { return e.Mensagem }
func (e *ErroPersistencia) Unwrap() error { return e.Err }

func novoErroPersistencia(err error) *ErroPersistencia {
	msg := err.Error()
	if msg == "" {
		msg = "Erro ao guardar venda"
	}
	return &ErroPersistencia{Mensagem: msg, Err: err}
}

// Gateway grava vendas novas e dispara a notificação de criação.
type Gateway struct {
	DB          *gorm.DB
	Repository  Repository
	Notificador Notificador
	Logger      *zap.Logger
	Agora       func() time.Time
}

func NewGateway(db *gorm.DB, n Notificador, logger *zap.Logger) *Gateway {
	return &Gateway{
		DB:          db,
		Repository:  NewRepository(),
		Notificador: n,
		Logger:      logger,
		Agora:       time.Now,
	}
}

// Submeter valida, normaliza e grava o rascunho.
func (g *Gateway) Submeter(ctx context.Context, r Rascunho) (*Venda, error) {
	if err := Validar(r); err != nil {
		return nil, err
	}
	v := Normalizar(r, g.Agora())

	if err := g.Repository.Criar(dbutil.ComContexto(g.DB, ctx), &v); err != nil {
		g.Logger.Error("erro ao gravar venda", zap.String("nif", v.ClientNIF), zap.Error(err))
		return nil, novoErroPersistencia(err)
	}
	g.Logger.Info("venda criada",
		zap.String("venda_id", v.ID),
		zap.String("categoria", string(v.Category)),
		zap.String("parceiro_id", v.PartnerID),
	)

	if g.Notificador != nil {
		if err := g.Notificador.Notificar(ctx, v, EventoVendaCriada); err != nil {
			g.Logger.Warn("falha ao notificar criação de venda", zap.String("venda_id", v.ID), zap.Error(err))
		}
	}
	return &v, nil
}

// Normalizar converte o rascunho no registo a gravar.
func Normalizar(r Rascunho, agora time.Time) Venda {
	v := Venda{
		ClientName:    strings.TrimSpace(r.ClientName),
		ClientEmail:   opcional(r.ClientEmail),
		ClientPhone:   telefone(r.ClientPhone),
		ClientNIF:     r.ClientNIF,
		StreetAddress: strings.TrimSpace(r.Morada.Rua),
		PostalCode:    r.Morada.CodigoPostal,
		City:          strings.TrimSpace(r.Morada.Localidade),
		Category:      r.Categoria,
		PartnerID:     r.PartnerID,
		OperatorID:    r.OperatorID,
		ContractValue: decimal.Zero,
		LoyaltyMonths: inteiro(r.LoyaltyMonths),
		Status:        models.StatusEmNegociacao,
		Notes:         opcional(r.Notas),
		CreatedAt:     agora,
	}
	if r.SellerID != SemVendedor {
		v.SellerID = opcional(r.SellerID)
	}
	if r.TipoVenda != "" && r.Categoria != models.CategoriaPaineisSolares {
		t := r.TipoVenda
		v.SaleType = &t
	}
	if v.LoyaltyMonths > 0 {
		fim := agora.AddDate(0, v.LoyaltyMonths, 0)
		v.LoyaltyEndDate = &fim
	}
	if e := r.Energia; e != nil {
		if e.Tipo != "" {
			t := e.Tipo
			v.EnergyType = &t
		}
		if e.Tipo.TemEletricidade() {
			v.CPE = opcional(e.CPE)
			v.Potencia = opcional(e.Potencia)
		}
		if e.Tipo.TemGas() {
			v.CUI = opcional(e.CUI)
			v.Escalao = opcional(e.Escalao)
		}
	}
	if t := r.Telecom; t != nil {
		v.ContractValue = valor(t.ValorContrato)
		if r.TemServicos() {
			v.ServicesTV = t.TV
			v.ServicesNet = t.Net
			v.ServicesLR = t.LR
			v.ServicesMoveisCount = limitarMoveis(t.Moveis)
		}
	}
	return v
}

func opcional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}

// inteiro devolve 0 quando s não é um número não negativo.
func inteiro(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0
	}
	return n
}

// valor aceita vírgula decimal; devolve 0 quando s não é um valor não negativo.
func valor(s string) decimal.Decimal {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.Zero
	}
	return d.Round(2)
}

// telefone formata em E.164 os números portugueses válidos; os restantes
// são gravados como foram escritos.
func telefone(s string) *string {
	p := opcional(s)
	if p == nil {
		return nil
	}
	num, err := libphonenumber.Parse(*p, regiaoTelefone)
	if err != nil || !libphonenumber.IsValidNumber(num) {
		return p
	}
	f := libphonenumber.Format(num, libphonenumber.E164)
	return &f
}
