package auth

import (
	"context"
	"net/http"
	"strings"

	"github.com/Leiritrix/api-vendas/internal/models"
)

type ctxKey string

const (
	CtxUserID ctxKey = "utilizadorID"
	CtxRole   ctxKey = "role"
)

func (e *Emissor) MiddlewareAutenticacao(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			next.ServeHTTP(w, r)
			return
		}
		h := r.Header.Get("Authorization")
		if h == "" || !strings.HasPrefix(h, "Bearer ") {
			http.Error(w, "Token ausente", http.StatusUnauthorized)
			return
		}
		claims, err := e.ValidarToken(strings.TrimPrefix(h, "Bearer "))
		if err != nil {
			http.Error(w, "Token inválido", http.StatusUnauthorized)
			return
		}
		ctx := context.WithValue(r.Context(), CtxUserID, claims.UserID)
		ctx = context.WithValue(ctx, CtxRole, claims.Role)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if papel, _ := PapelDoContexto(r.Context()); papel != models.PapelAdmin {
			http.Error(w, "Acesso reservado a administradores", http.StatusForbidden)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func UtilizadorDoContexto(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(CtxUserID).(string)
	return id, ok && id != ""
}

func PapelDoContexto(ctx context.Context) (models.Papel, bool) {
	p, ok := ctx.Value(CtxRole).(models.Papel)
	return p, ok
}
