package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goclinic/internal/domain"
	"goclinic/internal/pkg/middleware"
	"goclinic/internal/pkg/token"
)

const testSecret = "chave-secreta-de-teste"

// buildHandler monta o middleware de autenticação na frente de um handler
// que grava as claims recebidas para inspeção.
func buildHandler(t *testing.T, capture *middleware.UserClaims) http.Handler {
	t.Helper()
	tokenSvc := token.NewService(testSecret, time.Hour)
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if claims, ok := middleware.GetUserClaimsFromContext(r.Context()); ok && capture != nil {
			*capture = claims
		}
		w.WriteHeader(http.StatusOK)
	})
	return middleware.NewAuthMiddleware(tokenSvc)(next)
}

func validToken(t *testing.T, role domain.Role) string {
	t.Helper()
	svc := token.NewService(testSecret, time.Hour)
	tokenString, err := svc.GenerateToken("recepcao@clinica.com", role, "Ana")
	assert.NoError(t, err)
	return tokenString
}

// TestAuthMiddleware_Success testa a passagem de um token válido e a
// presença das claims no contexto do handler.
func TestAuthMiddleware_Success(t *testing.T) {
	var captured middleware.UserClaims
	handler := buildHandler(t, &captured)

	req := httptest.NewRequest(http.MethodGet, "/v1/schedules", nil)
	req.Header.Set("Authorization", "Bearer "+validToken(t, domain.RoleAdmin))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "recepcao@clinica.com", captured.Email)
	assert.Equal(t, domain.RoleAdmin, captured.Role)
}

// TestAuthMiddleware_UniformRejection testa a propriedade de ocultação de
// informação: token ausente, malformado, assinatura inválida e papel
// insuficiente produzem TODOS a mesma resposta 401 com o mesmo corpo.
func TestAuthMiddleware_UniformRejection(t *testing.T) {
	handler := buildHandler(t, nil)

	otherIssuer := token.NewService("outra-chave", time.Hour)
	forged, err := otherIssuer.GenerateToken("intruso@clinica.com", domain.RoleOwner, "Intruso")
	assert.NoError(t, err)

	cases := map[string]func(r *http.Request){
		"sem header":            func(r *http.Request) {},
		"sem prefixo Bearer":    func(r *http.Request) { r.Header.Set("Authorization", validToken(t, domain.RoleOwner)) },
		"token malformado":      func(r *http.Request) { r.Header.Set("Authorization", "Bearer abc") },
		"assinatura inválida":   func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+forged) },
		"papel insuficiente":    func(r *http.Request) { r.Header.Set("Authorization", "Bearer "+validToken(t, domain.RoleAdmin)) },
	}

	var bodies []string
	for name, prepare := range cases {
		req := httptest.NewRequest(http.MethodGet, "/v1/users", nil)
		prepare(req)
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code, name)
		bodies = append(bodies, rec.Body.String())
	}

	// Todos os corpos de recusa devem ser idênticos entre si
	for i := 1; i < len(bodies); i++ {
		assert.Equal(t, bodies[0], bodies[i])
	}
}

// TestAuthMiddleware_RoleGateOnUsersFamily testa que SUPERADMIN passa em
// /v1/users enquanto ADMIN é barrado, e que ambos passam nas demais rotas.
func TestAuthMiddleware_RoleGateOnUsersFamily(t *testing.T) {
	handler := buildHandler(t, nil)

	cases := []struct {
		role     domain.Role
		path     string
		expected int
	}{
		{domain.RoleAdmin, "/v1/users", http.StatusUnauthorized},
		{domain.RoleSuperAdmin, "/v1/users", http.StatusOK},
		{domain.RoleOwner, "/v1/users", http.StatusOK},
		{domain.RoleAdmin, "/v1/schedules", http.StatusOK},
		{domain.RoleAdmin, "/v1/customers", http.StatusOK},
	}

	for _, tc := range cases {
		req := httptest.NewRequest(http.MethodGet, tc.path, nil)
		req.Header.Set("Authorization", "Bearer "+validToken(t, tc.role))
		rec := httptest.NewRecorder()

		handler.ServeHTTP(rec, req)

		assert.Equal(t, tc.expected, rec.Code, "%s %s", tc.role, tc.path)
	}
}
