package authservice

import (
	"context"
	"errors"

	"golang.org/x/crypto/bcrypt"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
	"goclinic/internal/pkg/token"
)

// UserRepository é o contrato mínimo que a autenticação precisa da persistência.
type UserRepository interface {
	FindByEmail(ctx context.Context, email string) (domain.User, error)
}

// TokenService é o contrato da camada de token (internal/pkg/token).
type TokenService interface {
	GenerateToken(email string, role domain.Role, name string) (string, error)
	ValidateToken(tokenString string) (*token.CustomClaims, error)
}

// Service implementa a interface domain.AuthService.
type Service struct {
	userRepo UserRepository
	tokenSvc TokenService
	logger   logger.Logger
}

// NewService cria uma nova instância do serviço de autenticação.
func NewService(userRepo UserRepository, tokenSvc TokenService, logger logger.Logger) *Service {
	return &Service{
		userRepo: userRepo,
		tokenSvc: tokenSvc,
		logger:   logger,
	}
}

// Authenticate verifica e-mail e senha e emite o token de acesso.
// E-mail desconhecido e senha incorreta produzem o MESMO erro: a resposta
// não dá dica de qual dos dois falhou.
func (s *Service) Authenticate(ctx context.Context, email, password string) (domain.AuthData, error) {
	if email == "" || password == "" {
		return domain.AuthData{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	user, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		var notFoundErr *apperror.NotFoundError
		if errors.As(err, &notFoundErr) {
			s.logger.Info("Tentativa de login com e-mail desconhecido.", map[string]interface{}{"email": email})
			return domain.AuthData{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
		}
		return domain.AuthData{}, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		s.logger.Info("Tentativa de login com senha incorreta.", map[string]interface{}{"email": email})
		return domain.AuthData{}, apperror.NewUnauthorizedError("Credenciais inválidas.")
	}

	accessToken, err := s.tokenSvc.GenerateToken(user.Email, user.Role, user.Name)
	if err != nil {
		return domain.AuthData{}, apperror.NewInternalError("Falha ao gerar token de autenticação.", err)
	}

	s.logger.Info("Login realizado com sucesso.", map[string]interface{}{"email": user.Email, "role": user.Role})
	return domain.AuthData{
		AccessToken: accessToken,
		Email:       user.Email,
		Role:        user.Role,
		Name:        user.Name,
	}, nil
}
