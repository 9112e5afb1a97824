package guard_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"goclinic/internal/domain"
	"goclinic/internal/pkg/guard"
)

// TestAuthorize_UsersFamilyRequiresSuperAdmin testa que a administração de
// contas exige SUPERADMIN ou acima.
func TestAuthorize_UsersFamilyRequiresSuperAdmin(t *testing.T) {
	assert.False(t, guard.Authorize(domain.RoleAdmin, "/v1/users"))
	assert.True(t, guard.Authorize(domain.RoleSuperAdmin, "/v1/users"))
	assert.True(t, guard.Authorize(domain.RoleOwner, "/v1/users"))
}

// TestAuthorize_ItemPathBelongsToSameFamily testa que o caminho de item
// ("/v1/users/<id>") segue a mesma política da coleção.
func TestAuthorize_ItemPathBelongsToSameFamily(t *testing.T) {
	assert.False(t, guard.Authorize(domain.RoleAdmin, "/v1/users/a3c2f9d0"))
	assert.True(t, guard.Authorize(domain.RoleSuperAdmin, "/v1/users/a3c2f9d0"))
}

// TestAuthorize_DefaultFamiliesAllowAnyValidRole testa que famílias sem
// entrada na tabela liberam qualquer papel autenticado válido.
func TestAuthorize_DefaultFamiliesAllowAnyValidRole(t *testing.T) {
	paths := []string{
		"/v1/schedules",
		"/v1/schedules/a3c2f9d0",
		"/v1/professionals",
		"/v1/customers",
		"/v1/payments",
	}

	for _, path := range paths {
		assert.True(t, guard.Authorize(domain.RoleAdmin, path), path)
		assert.True(t, guard.Authorize(domain.RoleSuperAdmin, path), path)
		assert.True(t, guard.Authorize(domain.RoleOwner, path), path)
	}
}

// TestAuthorize_UnknownRoleFailsClosed testa que papéis fora do conjunto
// fechado são negados em qualquer caminho.
func TestAuthorize_UnknownRoleFailsClosed(t *testing.T) {
	assert.False(t, guard.Authorize(domain.Role(""), "/v1/schedules"))
	assert.False(t, guard.Authorize(domain.Role("ROOT"), "/v1/schedules"))
	assert.False(t, guard.Authorize(domain.Role("admin"), "/v1/schedules")) // case-sensitive
	assert.False(t, guard.Authorize(domain.Role("ROOT"), "/v1/users"))
}

// TestAuthorize_PathWithoutVersionPrefix testa que o prefixo /v1 é opcional
// na extração da família de recurso.
func TestAuthorize_PathWithoutVersionPrefix(t *testing.T) {
	assert.False(t, guard.Authorize(domain.RoleAdmin, "/users"))
	assert.True(t, guard.Authorize(domain.RoleAdmin, "/schedules"))
}
