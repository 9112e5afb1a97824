package paymentservice

import (
	"context"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// PaymentRepository define o contrato que o Serviço espera da Persistência.
type PaymentRepository interface {
	FindAll(ctx context.Context) ([]domain.Payment, error)
	FindByID(ctx context.Context, id string) (domain.Payment, error)
	Save(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	Update(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	Delete(ctx context.Context, id string) error
}

// Service implementa a interface domain.PaymentService.
// Pagamentos são escrituração pura: CRUD sem regra de disponibilidade.
type Service struct {
	repo   PaymentRepository
	logger logger.Logger
}

// NewService cria uma nova instância do Serviço de Pagamentos.
func NewService(repo PaymentRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// GetPayments lista todos os pagamentos.
func (s *Service) GetPayments(ctx context.Context) ([]domain.Payment, error) {
	payments, err := s.repo.FindAll(ctx)
	if err != nil {
		s.logger.Error("Falha ao listar pagamentos no repositório.", err)
		return nil, err
	}
	return payments, nil
}

// GetPaymentByID busca um pagamento pelo ID.
func (s *Service) GetPaymentByID(ctx context.Context, id string) (domain.Payment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return domain.Payment{}, apperror.NewValidationError("O ID do pagamento deve ser um UUID válido.")
	}
	return s.repo.FindByID(ctx, id)
}

// CreatePayment registra um novo pagamento.
func (s *Service) CreatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if err := validatePayment(payment); err != nil {
		return domain.Payment{}, err
	}

	created, err := s.repo.Save(ctx, payment)
	if err != nil {
		s.logger.Error("Falha ao criar pagamento no repositório.", err)
		return domain.Payment{}, err
	}

	s.logger.Info("Pagamento registrado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdatePayment atualiza um pagamento existente.
func (s *Service) UpdatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	if _, err := uuid.Parse(payment.ID); err != nil {
		return domain.Payment{}, apperror.NewValidationError("O ID do pagamento deve ser um UUID válido.")
	}
	if err := validatePayment(payment); err != nil {
		return domain.Payment{}, err
	}

	updated, err := s.repo.Update(ctx, payment)
	if err != nil {
		s.logger.Error("Falha ao atualizar pagamento no repositório.", err)
		return domain.Payment{}, err
	}

	s.logger.Info("Pagamento atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeletePayment remove um pagamento.
func (s *Service) DeletePayment(ctx context.Context, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do pagamento deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar pagamento no repositório.", err)
		return err
	}

	s.logger.Info("Pagamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// validatePayment aplica as validações básicas de um pagamento.
func validatePayment(payment domain.Payment) error {
	if payment.Amount <= 0 {
		return apperror.NewValidationError("O valor do pagamento deve ser positivo.")
	}
	switch payment.Method {
	case domain.PaymentCash, domain.PaymentCard, domain.PaymentPix:
	default:
		return apperror.NewValidationError("A forma de pagamento deve ser CASH, CARD ou PIX.")
	}
	if payment.Date.IsZero() {
		return apperror.NewValidationError("A data do pagamento é obrigatória.")
	}
	if _, err := uuid.Parse(payment.ScheduleID); err != nil {
		return apperror.NewValidationError("O ID do agendamento deve ser um UUID válido.")
	}
	return nil
}
