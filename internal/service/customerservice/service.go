package customerservice

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// CustomerRepository define o contrato que o Serviço espera da Persistência.
type CustomerRepository interface {
	FindAll(ctx context.Context) ([]domain.Customer, error)
	FindByID(ctx context.Context, id string) (domain.Customer, error)
	Save(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Update(ctx context.Context, customer domain.Customer) (domain.Customer, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a interface domain.CustomerService.
type Service struct {
	repo   CustomerRepository
	logger logger.Logger
}

// NewService cria uma nova instância do Serviço de Clientes.
func NewService(repo CustomerRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetCustomers lista todos os clientes.
func (s *Service) GetCustomers(ctx context.Context) ([]domain.Customer, error) {
	customers, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar clientes no repositório.", err)
		return nil, err
	}
	return customers, nil
}

// GetCustomerByID busca um cliente pelo ID.
func (s *Service) GetCustomerByID(ctx context.Context, id string) (domain.Customer, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Customer{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreateCustomer cria um novo cliente após validações.
func (s *Service) CreateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	s.logger.Debug("Iniciando criação de cliente no serviço.", map[string]interface{}{"name": customer.Name})

	if err := validateCustomer(customer); err != nil {
		return domain.Customer{}, err
	}

	created, err := s.repo.Save(ctx, customer)
	if err != nil {
		s.logger.Error("Falha ao criar cliente no repositório.", err)
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdateCustomer atualiza um cliente existente.
func (s *Service) UpdateCustomer(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	if _, err := uuid.Parse(customer.ID); err != nil {
		return domain.Customer{}, apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	if err := validateCustomer(customer); err != nil {
		return domain.Customer{}, err
	}

	updated, err := s.repo.Update(ctx, customer)
	if err != nil {
		s.logger.Error("Falha ao atualizar cliente no repositório.", err)
		return domain.Customer{}, err
	}

	s.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteCustomer remove um cliente.
func (s *Service) DeleteCustomer(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar cliente no repositório.", err)
		return err
	}

	s.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// validateCustomer aplica as validações básicas de um cliente.
func validateCustomer(customer domain.Customer) error {
	if strings.TrimSpace(customer.Name) == "" {
		return apperror.NewValidationError("O nome do cliente não pode ser vazio.")
	}
	if strings.TrimSpace(customer.Phone) == "" {
		return apperror.NewValidationError("O telefone do cliente é obrigatório.")
	}
	return nil
}
