package userservice

import (
	"context"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// bcryptCost é o custo do hash de senha.
const bcryptCost = 10

// UserRepository define o contrato que o Serviço de Usuários espera da Persistência.
type UserRepository interface {
	FindAll(ctx context.Context) ([]domain.User, error)
	FindByID(ctx context.Context, id string) (domain.User, error)
	FindByEmail(ctx context.Context, email string) (domain.User, error)
	Save(ctx context.Context, user domain.User) (domain.User, error)
	Update(ctx context.Context, user domain.User) (domain.User, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a interface domain.UserService.
//
// O invariante do dono mora aqui, não nos handlers: a conta cujo e-mail é
// igual ao OWNER_EMAIL configurado nunca pode ser excluída nem ter o papel
// alterado, não importa quem pede.
type Service struct {
	repo       UserRepository
	ownerEmail string
	logger     logger.Logger
}

// NewService cria uma nova instância do Serviço de Usuários.
func NewService(repo UserRepository, ownerEmail string, logger logger.Logger) *Service {
	return &Service{repo: repo, ownerEmail: ownerEmail, logger: logger}
}

// GetUsers lista todas as contas da equipe.
func (s *Service) GetUsers(ctx context.Context) ([]domain.User, error) {
	users, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar usuários no repositório.", err)
		return nil, err
	}
	return users, nil
}

// GetUserByID busca uma conta pelo ID.
func (s *Service) GetUserByID(ctx context.Context, id string) (domain.User, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreateUser cria uma nova conta com a senha em hash.
func (s *Service) CreateUser(ctx context.Context, input domain.UserInput) (domain.User, error) {
	s.logger.Debug("Iniciando criação de usuário no serviço.", map[string]interface{}{"email": input.Email})

	if err := validateUserInput(input, true); err != nil {
		return domain.User{}, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
	if err != nil {
		return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
	}

	user := domain.User{
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: string(hash),
		Role:         input.Role,
	}

	created, err := s.repo.Save(ctx, user)
	if err != nil {
		s.logger.Error("Falha ao criar usuário no repositório.", err)
		return domain.User{}, err
	}

	s.logger.Info("Usuário criado com sucesso.", map[string]interface{}{"id": created.ID, "email": created.Email})
	return created, nil
}

// UpdateUser atualiza uma conta. Senha vazia mantém o hash atual.
// Invariante do dono: o papel da conta do dono não pode mudar.
func (s *Service) UpdateUser(ctx context.Context, input domain.UserInput) (domain.User, error) {
	s.logger.Debug("Iniciando atualização de usuário no serviço.", map[string]interface{}{"id": input.ID})

	if _, err := uuid.Parse(input.ID); err != nil {
		return domain.User{}, apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}
	if err := validateUserInput(input, false); err != nil {
		return domain.User{}, err
	}

	if input.Email == s.ownerEmail && input.Role != domain.RoleOwner {
		s.logger.Warn("Tentativa de rebaixar a conta do dono bloqueada.", map[string]interface{}{"email": input.Email})
		return domain.User{}, apperror.NewValidationError("Não é possível alterar os dados do dono do sistema.")
	}

	current, err := s.repo.FindByID(ctx, input.ID)
	if err != nil {
		return domain.User{}, err
	}

	passwordHash := current.PasswordHash
	if input.Password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcryptCost)
		if err != nil {
			return domain.User{}, apperror.NewInternalError("Falha ao gerar hash da senha.", err)
		}
		passwordHash = string(hash)
	}

	user := domain.User{
		ID:           input.ID,
		Name:         input.Name,
		Email:        input.Email,
		PasswordHash: passwordHash,
		Role:         input.Role,
	}

	updated, err := s.repo.Update(ctx, user)
	if err != nil {
		s.logger.Error("Falha ao atualizar usuário no repositório.", err)
		return domain.User{}, err
	}

	s.logger.Info("Usuário atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteUser remove uma conta. Invariante do dono: a conta do dono nunca
// pode ser excluída.
func (s *Service) DeleteUser(ctx context.Context, id string) error {
	s.logger.Debug("Iniciando exclusão de usuário no serviço.", map[string]interface{}{"id": id})

	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do usuário deve ser um UUID válido.")
	}

	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return err
	}

	if user.Email == s.ownerEmail {
		s.logger.Warn("Tentativa de excluir a conta do dono bloqueada.", map[string]interface{}{"id": id})
		return apperror.NewValidationError("Não é possível excluir o dono do sistema.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar usuário no repositório.", err)
		return err
	}

	s.logger.Info("Usuário deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// validateUserInput aplica as validações básicas do payload de conta.
func validateUserInput(input domain.UserInput, requirePassword bool) error {
	if strings.TrimSpace(input.Name) == "" {
		return apperror.NewValidationError("O nome do usuário não pode ser vazio.")
	}
	if strings.TrimSpace(input.Email) == "" || !strings.Contains(input.Email, "@") {
		return apperror.NewValidationError("O e-mail do usuário é inválido.")
	}
	if requirePassword && input.Password == "" {
		return apperror.NewValidationError("A senha é obrigatória.")
	}
	if !input.Role.IsValid() {
		return apperror.NewValidationError("O papel do usuário deve ser OWNER, SUPERADMIN ou ADMIN.")
	}
	return nil
}
