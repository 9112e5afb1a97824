package token_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"goclinic/internal/domain"
	"goclinic/internal/pkg/token"
)

const testSecret = "chave-secreta-de-teste"

// TestGenerateAndValidateToken testa o ciclo completo: gerar e validar.
func TestGenerateAndValidateToken(t *testing.T) {
	svc := token.NewService(testSecret, time.Hour)

	tokenString, err := svc.GenerateToken("recepcao@clinica.com", domain.RoleAdmin, "Ana Recepção")
	assert.NoError(t, err)
	assert.NotEmpty(t, tokenString)

	claims, err := svc.ValidateToken(tokenString)
	assert.NoError(t, err)
	assert.Equal(t, "recepcao@clinica.com", claims.Email)
	assert.Equal(t, domain.RoleAdmin, claims.Role)
	assert.Equal(t, "Ana Recepção", claims.Name)
	assert.Equal(t, "GoClinic-API", claims.Issuer)
}

// TestValidateToken_Fail_Expired testa que um token expirado é recusado
// com o erro único de token inválido.
func TestValidateToken_Fail_Expired(t *testing.T) {
	svc := token.NewService(testSecret, -time.Minute) // Já nasce expirado

	tokenString, err := svc.GenerateToken("recepcao@clinica.com", domain.RoleAdmin, "Ana")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

// TestValidateToken_Fail_WrongSecret testa que assinatura com outra chave é recusada.
func TestValidateToken_Fail_WrongSecret(t *testing.T) {
	issuer := token.NewService(testSecret, time.Hour)
	verifier := token.NewService("outra-chave", time.Hour)

	tokenString, err := issuer.GenerateToken("recepcao@clinica.com", domain.RoleAdmin, "Ana")
	assert.NoError(t, err)

	_, err = verifier.ValidateToken(tokenString)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}

// TestValidateToken_Fail_Malformed testa entradas que não são JWTs.
func TestValidateToken_Fail_Malformed(t *testing.T) {
	svc := token.NewService(testSecret, time.Hour)

	for _, bad := range []string{"", "abc", "a.b.c", "Bearer xyz"} {
		_, err := svc.ValidateToken(bad)
		assert.ErrorIs(t, err, token.ErrInvalidToken, bad)
	}
}

// TestValidateToken_Fail_UnknownRole testa que um token bem assinado mas com
// papel fora do conjunto fechado é recusado (falha fechada).
func TestValidateToken_Fail_UnknownRole(t *testing.T) {
	svc := token.NewService(testSecret, time.Hour)

	tokenString, err := svc.GenerateToken("recepcao@clinica.com", domain.Role("ROOT"), "Ana")
	assert.NoError(t, err)

	_, err = svc.ValidateToken(tokenString)
	assert.ErrorIs(t, err, token.ErrInvalidToken)
}
