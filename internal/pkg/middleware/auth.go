package middleware

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"goclinic/internal/domain"
	"goclinic/internal/pkg/guard"
	"goclinic/internal/pkg/token"
)

// ContextKey é o tipo da chave usada para armazenar as claims do usuário no
// contexto. Usamos um tipo próprio para garantir que a chave seja única e
// não haja conflito com chaves string de outros pacotes.
type ContextKey int

const (
	UserClaimsKey ContextKey = iota
)

// UserClaims representa os dados do usuário extraídos do token JWT,
// anexados ao contexto da requisição.
type UserClaims struct {
	Email string
	Role  domain.Role
	Name  string
}

// TokenService define o contrato de validação necessário para o middleware.
type TokenService interface {
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// NewAuthMiddleware cria o middleware que valida o JWT, aplica o guard de
// acesso e anexa as claims ao contexto da requisição.
//
// Propriedade de ocultação de informação: token ausente, token malformado,
// assinatura/expiração inválida e papel insuficiente produzem TODOS a mesma
// resposta 401, indistinguível para o chamador.
func NewAuthMiddleware(tokenSvc TokenService) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {

			// 1. Extrair o Token do Header Authorization: Bearer <token>
			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				writeAuthError(w)
				return
			}
			tokenString := strings.TrimPrefix(authHeader, "Bearer ")

			// 2. Validar o Token (falha fechada: qualquer erro vira 401)
			claims, err := tokenSvc.ValidateToken(tokenString)
			if err != nil {
				writeAuthError(w)
				return
			}

			// 3. Guard de acesso: papel x família de recurso
			if !guard.Authorize(claims.Role, r.URL.Path) {
				writeAuthError(w)
				return
			}

			// 4. Anexar Claims ao Contexto
			userClaims := UserClaims{
				Email: claims.Email,
				Role:  claims.Role,
				Name:  claims.Name,
			}
			ctx := context.WithValue(r.Context(), UserClaimsKey, userClaims)

			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// GetUserClaimsFromContext é uma função utilitária para extrair as claims no handler.
func GetUserClaimsFromContext(ctx context.Context) (UserClaims, bool) {
	claims, ok := ctx.Value(UserClaimsKey).(UserClaims)
	return claims, ok
}

// writeAuthError envia a resposta única de erro de autenticação.
// A mensagem nunca diz se o problema foi o token ou a permissão.
func writeAuthError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnauthorized)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"code":     http.StatusUnauthorized,
		"category": "AUTHENTICATION_ERROR",
		"message":  "Erro de autenticação: token inválido ou permissões insuficientes.",
	})
}
