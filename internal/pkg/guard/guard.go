package guard

import (
	"strings"

	"goclinic/internal/domain"
)

// O guard é o ponto terminal de política de acesso: decide, por requisição,
// se o papel extraído do token pode seguir para o recurso pedido. É uma
// função pura de (papel, caminho) — nenhum estado entre requisições.
//
// A política é uma tabela explícita {família de recurso -> papel mínimo},
// não uma matriz geral de permissões. Hoje existe um único recorte: a
// administração de contas da equipe (/users) exige SUPERADMIN ou acima;
// toda outra família é liberada para qualquer papel autenticado.

// minimumRoles mapeia o prefixo da família de recurso para o papel mínimo
// exigido. Famílias ausentes usam defaultMinimum. Adicionar uma família ou
// papel novo é uma mudança de uma linha, verificada em tempo de compilação.
var minimumRoles = map[string]domain.Role{
	"/users": domain.RoleSuperAdmin,
}

// defaultMinimum é o papel mínimo para famílias sem entrada na tabela:
// qualquer papel autenticado válido.
const defaultMinimum = domain.RoleAdmin

// Authorize decide se o papel pode acessar o caminho solicitado.
// Papéis fora do conjunto fechado falham fechado (negado).
func Authorize(role domain.Role, path string) bool {
	if !role.IsValid() {
		return false
	}

	min := defaultMinimum
	if m, ok := minimumRoles[resourceFamily(path)]; ok {
		min = m
	}

	return role.AtLeast(min)
}

// resourceFamily extrai a família de recurso do caminho da requisição.
// "/v1/users/123" e "/users" pertencem ambos à família "/users".
func resourceFamily(path string) string {
	path = strings.TrimPrefix(path, "/v1")
	if path == "" || path[0] != '/' {
		return "/"
	}

	rest := path[1:]
	if idx := strings.IndexByte(rest, '/'); idx >= 0 {
		rest = rest[:idx]
	}
	return "/" + rest
}
