package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/Leiritrix/api-vendas/internal/models"
	"github.com/golang-jwt/jwt/v5"
)

// Claims do token de acesso
type Claims struct {
	UserID string       `json:"user_id"`
	Role   models.Papel `json:"role"`
	jwt.RegisteredClaims
}

// Validade por omissão do token de acesso
const AccessTTL = 24 * time.Hour

var ErrTokenInvalido = errors.New("token inválido ou expirado")

// Emissor assina e valida tokens HS256 com um segredo partilhado.
type Emissor struct {
	Segredo  []byte
	Validade time.Duration
	Agora    func() time.Time
}

func NewEmissor(segredo string, validade time.Duration) *Emissor {
	if validade <= 0 {
		validade = AccessTTL
	}
	return &Emissor{Segredo: []byte(segredo), Validade: validade, Agora: time.Now}
}

// GerarToken gera um JWT para o utilizador com o papel indicado
func (e *Emissor) GerarToken(userID string, papel models.Papel) (string, error) {
	if len(e.Segredo) == 0 {
		return "", errors.New("JWT_SECRET não definida")
	}
	now := e.Agora()
	claims := &Claims{
		UserID: userID,
		Role:   papel,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ExpiresAt: jwt.NewNumericDate(now.Add(e.Validade)),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now.Add(-1 * time.Minute)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(e.Segredo)
}

// ValidarToken valida assinatura e expiração e devolve as claims
func (e *Emissor) ValidarToken(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(e.Agora),
		jwt.WithExpirationRequired(),
	)
	token, err := parser.ParseWithClaims(tokenStr, &Claims{}, func(*jwt.Token) (interface{}, error) {
		return e.Segredo, nil
	})
	if err != nil || !token.Valid {
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalido, err)
	}
	claims, ok := token.Claims.(*Claims)
	if !ok || claims.UserID == "" {
		return nil, fmt.Errorf("%w: claims inválidas", ErrTokenInvalido)
	}
	return claims, nil
}
