package domain

import (
	"context"
	"time"
)

// User representa uma conta da equipe da clínica (recepção/administração).
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Oculta o hash da senha no JSON de resposta
	Role         Role      `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Role é o papel da conta no sistema. Conjunto fechado e ordenado:
// OWNER > SUPERADMIN > ADMIN.
type Role string

const (
	RoleOwner      Role = "OWNER"
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
)

// Authority devolve o nível de autoridade do papel. Papéis desconhecidos
// recebem nível 0 (abaixo de qualquer papel válido), ou seja, falham fechado
// em qualquer comparação de permissão.
func (r Role) Authority() int {
	switch r {
	case RoleOwner:
		return 3
	case RoleSuperAdmin:
		return 2
	case RoleAdmin:
		return 1
	default:
		return 0
	}
}

// IsValid informa se o papel pertence ao conjunto fechado.
func (r Role) IsValid() bool {
	return r.Authority() > 0
}

// AtLeast informa se o papel tem autoridade igual ou superior à mínima exigida.
func (r Role) AtLeast(min Role) bool {
	return r.IsValid() && r.Authority() >= min.Authority()
}

// UserInput representa o payload de entrada para criação/atualização de conta.
// A senha chega em texto puro e vira hash na camada de serviço.
type UserInput struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     Role   `json:"role"`
}

// Credentials é o payload do login.
type Credentials struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthData é a resposta do login: token + dados de exibição do usuário.
type AuthData struct {
	AccessToken string `json:"accessToken"`
	Email       string `json:"email"`
	Role        Role   `json:"role"`
	Name        string `json:"name"`
}

// UserRepository define o contrato de persistência para a entidade User.
type UserRepository interface {
	FindAll(ctx context.Context) ([]User, error)
	FindByID(ctx context.Context, id string) (User, error)
	FindByEmail(ctx context.Context, email string) (User, error)
	Save(ctx context.Context, user User) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id string) error
}

// UserService define o contrato de lógica de negócio para contas da equipe.
type UserService interface {
	GetUsers(ctx context.Context) ([]User, error)
	GetUserByID(ctx context.Context, id string) (User, error)
	CreateUser(ctx context.Context, input UserInput) (User, error)
	UpdateUser(ctx context.Context, input UserInput) (User, error)
	DeleteUser(ctx context.Context, id string) error
}

// AuthService define o contrato de autenticação.
type AuthService interface {
	Authenticate(ctx context.Context, email, password string) (AuthData, error)
}
