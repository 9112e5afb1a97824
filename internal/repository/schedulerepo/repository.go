package schedulerepo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/cache"
	"goclinic/internal/pkg/logger"
)

// Códigos SQLSTATE do PostgreSQL relevantes para agendamentos.
const (
	// exclusionViolation (23P01) é disparado pelo constraint de exclusão
	// schedules_no_overlap quando dois intervalos do mesmo profissional se
	// sobrepõem. É o guardião autoritativo contra double-booking: a checagem
	// de disponibilidade do serviço é apenas um pré-teste otimista.
	exclusionViolation = "23P01"
	// foreignKeyViolation (23503): profissional/cliente inexistente.
	foreignKeyViolation = "23503"
)

// chave de cache da listagem diária por profissional.
const dayListCacheKey = "schedules:%s:%s"

// ScheduleRepository implementa a interface domain.ScheduleRepository.
type ScheduleRepository struct {
	DB        *sql.DB
	Cache     cache.Client
	DBTimeout time.Duration
	CacheTTL  time.Duration
	logger    logger.Logger
}

// NewScheduleRepository cria uma nova instância do repositório de agendamentos.
func NewScheduleRepository(db *sql.DB, cacheClient cache.Client, dbTimeout, cacheTTL time.Duration, logger logger.Logger) *ScheduleRepository {
	return &ScheduleRepository{
		DB:        db,
		Cache:     cacheClient,
		DBTimeout: dbTimeout,
		CacheTTL:  cacheTTL,
		logger:    logger,
	}
}

const scheduleColumns = `id, title, description, price, start_time, end_time, professional_id, customer_id, created_at, updated_at`

// scanSchedule mapeia uma linha do DB para a struct Schedule.
func scanSchedule(row interface{ Scan(...interface{}) error }) (domain.Schedule, error) {
	var s domain.Schedule
	var description sql.NullString
	err := row.Scan(
		&s.ID, &s.Title, &description, &s.Price,
		&s.StartTime, &s.EndTime, &s.ProfessionalID, &s.CustomerID,
		&s.CreatedAt, &s.UpdatedAt,
	)
	if err != nil {
		return domain.Schedule{}, err
	}
	s.Description = description.String
	return s, nil
}

// FindByProfessional busca todos os agendamentos de um profissional.
// É o oráculo de leitura do motor de disponibilidade: sempre vai direto ao
// DB, nunca ao cache, porque a decisão de conflito não pode ler dado velho.
func (r *ScheduleRepository) FindByProfessional(ctx context.Context, professionalID string) ([]domain.Schedule, error) {
	r.logger.Debug("Iniciando FindByProfessional no repositório.", map[string]interface{}{"professional_id": professionalID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `
        SELECT ` + scheduleColumns + `
        FROM schedules
        WHERE professional_id = $1
        ORDER BY start_time`

	rows, err := r.DB.QueryContext(ctxTimeout, query, professionalID)
	if err != nil {
		r.logger.Error("Falha ao executar FindByProfessional query.", err)
		return nil, apperror.NewDBError("Falha ao buscar agendamentos do profissional", err)
	}
	defer rows.Close()

	schedules, err := collectSchedules(rows)
	if err != nil {
		r.logger.Error("Falha ao mapear agendamentos em FindByProfessional.", err)
		return nil, apperror.NewDBError("Falha ao mapear agendamentos do DB", err)
	}

	r.logger.Debug("FindByProfessional concluído.", map[string]interface{}{"professional_id": professionalID, "total": len(schedules)})
	return schedules, nil
}

// FindByProfessionalAndPeriod busca os agendamentos de um profissional dentro
// de uma janela [start, end). Usa a estratégia Cache-Aside: a listagem do dia
// é a consulta mais frequente da agenda da recepção.
func (r *ScheduleRepository) FindByProfessionalAndPeriod(ctx context.Context, professionalID string, start, end time.Time) ([]domain.Schedule, error) {
	r.logger.Debug("Iniciando FindByProfessionalAndPeriod no repositório.", map[string]interface{}{
		"professional_id": professionalID,
		"start":           start,
		"end":             end,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	// --- Cache-Aside (READ) ---
	key := fmt.Sprintf(dayListCacheKey, professionalID, start.UTC().Format(time.RFC3339))
	if cached, err := r.Cache.Get(ctxTimeout, key); err == nil {
		var schedules []domain.Schedule
		if json.Unmarshal([]byte(cached), &schedules) == nil {
			r.logger.Debug("Cache HIT na listagem de agendamentos.", map[string]interface{}{"key": key})
			return schedules, nil
		}
	}

	query := `
        SELECT ` + scheduleColumns + `
        FROM schedules
        WHERE professional_id = $1
          AND start_time >= $2
          AND end_time <= $3
        ORDER BY start_time`

	rows, err := r.DB.QueryContext(ctxTimeout, query, professionalID, start, end)
	if err != nil {
		r.logger.Error("Falha ao executar FindByProfessionalAndPeriod query.", err)
		return nil, apperror.NewDBError("Falha ao buscar agendamentos do período", err)
	}
	defer rows.Close()

	schedules, err := collectSchedules(rows)
	if err != nil {
		r.logger.Error("Falha ao mapear agendamentos em FindByProfessionalAndPeriod.", err)
		return nil, apperror.NewDBError("Falha ao mapear agendamentos do DB", err)
	}

	// --- Cache-Aside (WRITE) ---
	if data, err := json.Marshal(schedules); err == nil {
		if err := r.Cache.Set(ctxTimeout, key, string(data), r.CacheTTL); err != nil {
			r.logger.Warn("Falha ao popular cache da listagem de agendamentos.", map[string]interface{}{"key": key, "error": err.Error()})
		}
	}

	r.logger.Debug("FindByProfessionalAndPeriod concluído.", map[string]interface{}{"professional_id": professionalID, "total": len(schedules)})
	return schedules, nil
}

// Save insere um novo agendamento no banco de dados.
func (r *ScheduleRepository) Save(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	r.logger.Debug("Iniciando Save de agendamento no repositório.", map[string]interface{}{
		"professional_id": schedule.ProfessionalID,
		"start_time":      schedule.StartTime,
	})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	if schedule.ID == "" {
		schedule.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	schedule.CreatedAt = now
	schedule.UpdatedAt = now

	query := `
        INSERT INTO schedules (` + scheduleColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		schedule.ID, schedule.Title, nullable(schedule.Description), schedule.Price,
		schedule.StartTime, schedule.EndTime, schedule.ProfessionalID, schedule.CustomerID,
		schedule.CreatedAt, schedule.UpdatedAt,
	)
	if err != nil {
		return domain.Schedule{}, r.translateWriteError(err, "Falha ao criar agendamento")
	}

	r.invalidateDayCache(ctxTimeout, schedule)
	r.logger.Info("Agendamento criado com sucesso.", map[string]interface{}{"id": schedule.ID, "professional_id": schedule.ProfessionalID})
	return schedule, nil
}

// Update atualiza um agendamento existente.
func (r *ScheduleRepository) Update(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error) {
	r.logger.Debug("Iniciando Update de agendamento no repositório.", map[string]interface{}{"id": schedule.ID})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	schedule.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE schedules
        SET title = $2, description = $3, price = $4, start_time = $5,
            end_time = $6, professional_id = $7, customer_id = $8, updated_at = $9
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		schedule.ID, schedule.Title, nullable(schedule.Description), schedule.Price,
		schedule.StartTime, schedule.EndTime, schedule.ProfessionalID, schedule.CustomerID,
		schedule.UpdatedAt,
	).Scan(&schedule.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Agendamento não encontrado para atualização.", map[string]interface{}{"id": schedule.ID})
		return domain.Schedule{}, apperror.NewNotFoundError(fmt.Sprintf("Agendamento com ID %s não encontrado.", schedule.ID))
	}
	if err != nil {
		return domain.Schedule{}, r.translateWriteError(err, "Falha ao atualizar agendamento")
	}

	r.invalidateDayCache(ctxTimeout, schedule)
	r.logger.Info("Agendamento atualizado com sucesso.", map[string]interface{}{"id": schedule.ID})
	return schedule, nil
}

// Delete remove um agendamento. A exclusão é incondicional: liberar um
// horário nunca exige rechecagem de disponibilidade.
func (r *ScheduleRepository) Delete(ctx context.Context, id string) error {
	r.logger.Debug("Iniciando Delete de agendamento no repositório.", map[string]interface{}{"id": id})

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `DELETE FROM schedules WHERE id = $1`

	result, err := r.DB.ExecContext(ctxTimeout, query, id)
	if err != nil {
		r.logger.Error("Falha ao deletar agendamento no DB.", err)
		return apperror.NewDBError("Falha ao deletar agendamento", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		r.logger.Error("Falha ao verificar linhas afetadas no delete.", err)
		return apperror.NewDBError("Falha ao deletar agendamento", err)
	}
	if affected == 0 {
		r.logger.Info("Agendamento não encontrado para exclusão.", map[string]interface{}{"id": id})
		return apperror.NewNotFoundError(fmt.Sprintf("Agendamento com ID %s não encontrado.", id))
	}

	r.logger.Info("Agendamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// translateWriteError converte erros do driver pq em erros de domínio.
// O 23P01 (exclusão de intervalo violada) vira UnavailableError: a corrida
// entre duas criações simultâneas termina aqui, com exatamente um vencedor.
func (r *ScheduleRepository) translateWriteError(err error, msg string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch string(pqErr.Code) {
		case exclusionViolation:
			r.logger.Info("Constraint de exclusão rejeitou o intervalo.", map[string]interface{}{"constraint": pqErr.Constraint})
			return apperror.NewUnavailableError("O horário solicitado já está ocupado para este profissional.")
		case foreignKeyViolation:
			return apperror.NewValidationError("Profissional ou cliente inexistente.")
		}
	}
	r.logger.Error(msg+" no DB.", err)
	return apperror.NewDBError(msg, err)
}

// invalidateDayCache remove a listagem diária cacheada afetada pela escrita.
func (r *ScheduleRepository) invalidateDayCache(ctx context.Context, schedule domain.Schedule) {
	day := schedule.StartTime.UTC().Truncate(24 * time.Hour)
	key := fmt.Sprintf(dayListCacheKey, schedule.ProfessionalID, day.Format(time.RFC3339))
	if err := r.Cache.Delete(ctx, key); err != nil {
		r.logger.Warn("Falha ao invalidar cache da listagem de agendamentos.", map[string]interface{}{"key": key, "error": err.Error()})
	}
}

// collectSchedules itera as linhas do resultado e monta o slice de agendamentos.
func collectSchedules(rows *sql.Rows) ([]domain.Schedule, error) {
	var schedules []domain.Schedule
	for rows.Next() {
		s, err := scanSchedule(rows)
		if err != nil {
			return nil, err
		}
		schedules = append(schedules, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return schedules, nil
}

// nullable converte string vazia em NULL para colunas opcionais.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
