package scheduleservice

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// ScheduleRepository define o contrato que o Serviço de Agendamentos espera
// da camada de Persistência.
type ScheduleRepository interface {
	FindByProfessional(ctx context.Context, professionalID string) ([]domain.Schedule, error)
	FindByProfessionalAndPeriod(ctx context.Context, professionalID string, start, end time.Time) ([]domain.Schedule, error)
	Save(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	Update(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	Delete(ctx context.Context, id string) error
}

// Service é a estrutura que implementa a interface domain.ScheduleService.
// Ela orquestra a checagem de disponibilidade antes de qualquer escrita.
type Service struct {
	repo   ScheduleRepository
	logger logger.Logger
}

// NewService cria e retorna uma nova instância do Serviço de Agendamentos.
func NewService(repo ScheduleRepository, logger logger.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// IsAvailable decide se o intervalo [start, end) pode ser reservado para o
// profissional. excludeID retira um agendamento do conjunto de conflitos
// (o próprio registro durante uma edição); string vazia não exclui nada.
//
// Dois intervalos conflitam sob a semântica fechada-aberta:
//
//	conflita(a, b) := a.start < b.end && b.start < a.end
//
// Intervalos encostados (fim de um == início do outro) NÃO conflitam:
// agendamentos de costas um para o outro são permitidos.
//
// A função é um predicado somente-leitura: nenhuma mutação acontece aqui.
func (s *Service) IsAvailable(ctx context.Context, professionalID string, start, end time.Time, excludeID string) (bool, error) {
	if !start.Before(end) {
		// Intervalo degenerado é erro de entrada, nunca um "indisponível" silencioso.
		return false, apperror.NewValidationError("O horário inicial deve ser anterior ao horário final.")
	}

	schedules, err := s.repo.FindByProfessional(ctx, professionalID)
	if err != nil {
		s.logger.Error("Falha ao buscar agendamentos para checagem de disponibilidade.", err)
		return false, err
	}

	for _, existing := range schedules {
		if existing.ID == excludeID {
			continue
		}
		if start.Before(existing.EndTime) && existing.StartTime.Before(end) {
			s.logger.Debug("Conflito de horário detectado.", map[string]interface{}{
				"professional_id": professionalID,
				"conflicts_with":  existing.ID,
			})
			return false, nil
		}
	}

	return true, nil
}

// CreateSchedule valida, checa disponibilidade e persiste um novo agendamento.
//
// A checagem de disponibilidade é um pré-teste otimista: entre a leitura e a
// escrita outra requisição pode reservar o mesmo horário. O constraint de
// exclusão no DB é o guardião final, e a violação chega aqui como o mesmo
// UnavailableError que o pré-teste teria produzido.
func (s *Service) CreateSchedule(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	s.logger.Debug("Iniciando criação de agendamento no serviço.", map[string]interface{}{
		"professional_id": schedule.ProfessionalID,
		"start_time":      schedule.StartTime,
		"end_time":        schedule.EndTime,
	})

	if err := s.validateSchedule(schedule); err != nil {
		s.logger.Warn("Falha na validação do agendamento.", map[string]interface{}{"error": err.Error()})
		return domain.Schedule{}, err
	}

	available, err := s.IsAvailable(ctx, schedule.ProfessionalID, schedule.StartTime, schedule.EndTime, "")
	if err != nil {
		return domain.Schedule{}, err
	}
	if !available {
		return domain.Schedule{}, apperror.NewUnavailableError("O horário solicitado já está ocupado para este profissional.")
	}

	created, err := s.repo.Save(ctx, schedule)
	if err != nil {
		s.logger.Error("Falha ao criar agendamento no repositório.", err)
		return domain.Schedule{}, err
	}

	s.logger.Info("Agendamento criado com sucesso.", map[string]interface{}{"id": created.ID})
	return created, nil
}

// UpdateSchedule revalida a disponibilidade excluindo o próprio registro
// (auto-exclusão: sem ela, toda edição conflitaria consigo mesma) e persiste.
func (s *Service) UpdateSchedule(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	s.logger.Debug("Iniciando atualização de agendamento no serviço.", map[string]interface{}{"id": schedule.ID})

	if _, err := uuid.Parse(schedule.ID); err != nil {
		return domain.Schedule{}, apperror.NewValidationError("O ID do agendamento deve ser um UUID válido.")
	}
	if err := s.validateSchedule(schedule); err != nil {
		s.logger.Warn("Falha na validação do agendamento para atualização.", map[string]interface{}{"error": err.Error()})
		return domain.Schedule{}, err
	}

	available, err := s.IsAvailable(ctx, schedule.ProfessionalID, schedule.StartTime, schedule.EndTime, schedule.ID)
	if err != nil {
		return domain.Schedule{}, err
	}
	if !available {
		return domain.Schedule{}, apperror.NewUnavailableError("O horário solicitado já está ocupado para este profissional.")
	}

	updated, err := s.repo.Update(ctx, schedule)
	if err != nil {
		s.logger.Error("Falha ao atualizar agendamento no repositório.", err)
		return domain.Schedule{}, err
	}

	s.logger.Info("Agendamento atualizado com sucesso.", map[string]interface{}{"id": updated.ID})
	return updated, nil
}

// DeleteSchedule remove um agendamento. Incondicional: liberar horário
// não exige checagem de disponibilidade.
func (s *Service) DeleteSchedule(ctx context.Context, id string) error {
	s.logger.Debug("Iniciando exclusão de agendamento no serviço.", map[string]interface{}{"id": id})

	if _, err := uuid.Parse(id); err != nil {
		return apperror.NewValidationError("O ID do agendamento deve ser um UUID válido.")
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		s.logger.Error("Falha ao deletar agendamento no repositório.", err)
		return err
	}

	s.logger.Info("Agendamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// GetSchedulesByProfessionalAndDate lista a agenda do profissional no dia
// informado (janela [dia, dia+24h), formato "2006-01-02").
func (s *Service) GetSchedulesByProfessionalAndDate(ctx context.Context, professionalID string, day string) ([]domain.Schedule, error) {
	if _, err := uuid.Parse(professionalID); err != nil {
		return nil, apperror.NewValidationError("O ID do profissional deve ser um UUID válido.")
	}

	date, err := time.Parse("2006-01-02", day)
	if err != nil {
		return nil, apperror.NewValidationError("A data deve estar no formato AAAA-MM-DD.")
	}
	nextDate := date.AddDate(0, 0, 1)

	schedules, err := s.repo.FindByProfessionalAndPeriod(ctx, professionalID, date, nextDate)
	if err != nil {
		s.logger.Error("Falha ao listar agendamentos do dia.", err)
		return nil, err
	}

	s.logger.Debug("Listagem diária concluída.", map[string]interface{}{
		"professional_id": professionalID,
		"day":             day,
		"total":           len(schedules),
	})
	return schedules, nil
}

// validateSchedule aplica as validações de negócio de um agendamento.
func (s *Service) validateSchedule(schedule domain.Schedule) error {
	if strings.TrimSpace(schedule.Title) == "" {
		return apperror.NewValidationError("O título do agendamento não pode ser vazio.")
	}
	if schedule.Price < 0 {
		return apperror.NewValidationError("O preço do agendamento não pode ser negativo.")
	}
	if _, err := uuid.Parse(schedule.ProfessionalID); err != nil {
		return apperror.NewValidationError("O ID do profissional deve ser um UUID válido.")
	}
	if _, err := uuid.Parse(schedule.CustomerID); err != nil {
		return apperror.NewValidationError("O ID do cliente deve ser um UUID válido.")
	}
	if schedule.StartTime.IsZero() || schedule.EndTime.IsZero() {
		return apperror.NewValidationError("Os horários inicial e final são obrigatórios.")
	}
	if !schedule.StartTime.Before(schedule.EndTime) {
		return apperror.NewValidationError("O horário inicial deve ser anterior ao horário final.")
	}
	return nil
}
