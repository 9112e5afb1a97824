package professionalservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// ProfessionalRepository define o contrato que o Serviço espera da Persistência.
type ProfessionalRepository interface {
	FindAll(ctx context.Context) ([]domain.Professional, error)
	FindByID(ctx context.Context, id string) (domain.Professional, error)
	Save(ctx context.Context, professional domain.Professional) (domain.Professional, error)
	Update(ctx context.Context, professional domain.Professional) (domain.Professional, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a interface domain.ProfessionalService.
type Service struct {
	repo   ProfessionalRepository
	logger logger.Logger
}

// NewService cria uma nova instância do Serviço de Profissionais.
func NewService(repo ProfessionalRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetProfessionals lista todos os profissionais.
func (s *Service) GetProfessionals(ctx context.Context) ([]domain.Professional, error) {
	professionals, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar profissionais no repositório.", err)
		return nil, err
	}
	return professionals, nil
}

// GetProfessionalByID busca um profissional pelo ID.
func (s *Service) GetProfessionalByID(ctx context.Context, id string) (domain.Professional, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Professional{}, apperror.NewValidationError("O ID do profissional deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreateProfessional cria um novo profissional após validações.
func (s *Service) CreateProfessional(ctx context.Context, professional domain.Professional) (domain.Professional, error) {
	s.logger.Debug("Iniciando criação de profissional no serviço.", map[string]interface{}{"name": professional.Name})

	if err := validateProfessional(professional); err != nil {
		return domain.Professional{}, err
	}

	created, err := s.repo.Save(ctx, professional)
	if err != nil {
		s.logger.Error("Falha ao criar profissional no repositório.", err)
		return domain.Professional{}, err
	}

	s.logger.Info("Profissional criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdateProfessional atualiza um profissional existente.
func (s *Service) UpdateProfessional(ctx context.Context, professional domain.Professional) (domain.Professional, error) {
	if _, err := uuid.Parse(professional.ID); err != nil {
		return domain.Professional{}, apperror.NewValidationError("O ID do profissional deve ser um UUID válido.")
	}
	if err := validateProfessional(professional); err != nil {
		return domain.Professional{}, err
	}

	updated, err := s.repo.Update(ctx, professional)
	if err != nil {
		s.logger.Error("Falha ao atualizar profissional no repositório.", err)
		return domain.Professional{}, err
	}

	s.logger.Info("Profissional atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteProfessional remove um profissional.
func (s *Service) DeleteProfessional(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do profissional deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar profissional no repositório.", err)
		return err
	}

	s.logger.Info("Profissional deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// validateProfessional aplica as validações básicas de um profissional.
func validateProfessional(professional domain.Professional) error {
	if strings.TrimSpace(professional.Name) == "" {
		return apperror.NewValidationError("O nome do profissional não pode ser vazio.")
	}
	if strings.TrimSpace(professional.Registration) == "" {
		return apperror.NewValidationError("O registro profissional é obrigatório.")
	}
	return nil
}
