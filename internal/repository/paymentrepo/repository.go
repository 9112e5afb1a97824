package paymentrepo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// foreignKeyViolation (23503): agendamento referenciado inexistente.
const foreignKeyViolation = "23503"

// PaymentRepository implementa a interface domain.PaymentRepository.
type PaymentRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewPaymentRepository cria uma nova instância do repositório de pagamentos.
func NewPaymentRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *PaymentRepository {
	return &PaymentRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const paymentColumns = `id, amount, method, date, schedule_id, created_at, updated_at`

// FindAll busca todos os pagamentos registrados.
func (r *PaymentRepository) FindAll(ctx context.Context) ([]domain.Payment, error) {
	r.logger.Debug("Iniciando FindAll de pagamentos no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payments ORDER BY date DESC`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de pagamentos.", err)
		return nil, apperror.NewDBError("Falha ao buscar pagamentos", err)
	}
	defer rows.Close()

	var payments []domain.Payment
	for rows.Next() {
		var p domain.Payment
		if err := rows.Scan(&p.ID, &p.Amount, &p.Method, &p.Date, &p.ScheduleID, &p.CreatedAt, &p.UpdatedAt); err != nil {
			r.logger.Error("Falha ao mapear pagamento em FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear pagamentos do DB", err)
		}
		payments = append(payments, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de pagamentos", err)
	}

	r.logger.Debug("FindAll de pagamentos concluído.", map[string]interface{}{"total": len(payments)})
	return payments, nil
}

// FindByID busca um pagamento pelo ID.
func (r *PaymentRepository) FindByID(ctx context.Context, id string) (domain.Payment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + paymentColumns + ` FROM payments WHERE id = $1`

	var p domain.Payment
	err := r.DB.QueryRowContext(ctxTimeout, query, id).Scan(
		&p.ID, &p.Amount, &p.Method, &p.Date, &p.ScheduleID, &p.CreatedAt, &p.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Pagamento não encontrado.", map[string]interface{}{"id": id})
		return domain.Payment{}, apperror.NewNotFoundError(fmt.Sprintf("Pagamento com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar pagamento no DB.", err)
		return domain.Payment{}, apperror.NewDBError("Falha ao buscar pagamento", err)
	}

	return p, nil
}

// Save insere um novo pagamento.
func (r *PaymentRepository) Save(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	payment.ID = uuid.NewString()
	now := time.Now().UTC()
	payment.CreatedAt = now
	payment.UpdatedAt = now

	query := `
        INSERT INTO payments (` + paymentColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		payment.ID, payment.Amount, payment.Method, payment.Date, payment.ScheduleID,
		payment.CreatedAt, payment.UpdatedAt,
	)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return domain.Payment{}, apperror.NewValidationError("Agendamento inexistente para o pagamento.")
		}
		r.logger.Error("Falha ao inserir pagamento no DB.", err)
		return domain.Payment{}, apperror.NewDBError("Falha ao criar pagamento", err)
	}

	r.logger.Info("Pagamento criado com sucesso.", map[string]interface{}{"id": payment.ID, "schedule_id": payment.ScheduleID})
	return payment, nil
}

// Update atualiza um pagamento existente.
func (r *PaymentRepository) Update(ctx context.Context, payment domain.Payment) (domain.Payment, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	payment.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE payments
        SET amount = $2, method = $3, date = $4, schedule_id = $5, updated_at = $6
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		payment.ID, payment.Amount, payment.Method, payment.Date, payment.ScheduleID, payment.UpdatedAt,
	).Scan(&payment.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Pagamento não encontrado para atualização.", map[string]interface{}{"id": payment.ID})
		return domain.Payment{}, apperror.NewNotFoundError(fmt.Sprintf("Pagamento com ID %s não encontrado.", payment.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar pagamento no DB.", err)
		return domain.Payment{}, apperror.NewDBError("Falha ao atualizar pagamento", err)
	}

	r.logger.Info("Pagamento atualizado com sucesso.", map[string]interface{}{"id": payment.ID})
	return payment, nil
}

// Delete remove um pagamento.
func (r *PaymentRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM payments WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Falha ao deletar pagamento no DB.", err)
		return apperror.NewDBError("Falha ao deletar pagamento", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao deletar pagamento", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Pagamento com ID %s não encontrado.", id))
	}

	r.logger.Info("Pagamento deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}
