package customerrepo

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

// foreignKeyViolation (23503): cliente com agendamentos não pode ser excluído.
const foreignKeyViolation = "23503"

// CustomerRepository implementa a interface domain.CustomerRepository.
type CustomerRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewCustomerRepository cria uma nova instância do repositório de clientes.
func NewCustomerRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *CustomerRepository {
	return &CustomerRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const customerColumns = `id, name, phone, email, description, birth_date, created_at, updated_at`

// scanCustomer mapeia uma linha do DB para a struct Customer.
func scanCustomer(row interface{ Scan(...interface{}) error }) (domain.Customer, error) {
	var c domain.Customer
	var email, description sql.NullString
	var birthDate sql.NullTime
	err := row.Scan(&c.ID, &c.Name, &c.Phone, &email, &description, &birthDate, &c.CreatedAt, &c.UpdatedAt)
	if err != nil {
		return domain.Customer{}, err
	}
	c.Email = email.String
	c.Description = description.String
	if birthDate.Valid {
		c.BirthDate = &birthDate.Time
	}
	return c, nil
}

// FindAll busca todos os clientes.
func (r *CustomerRepository) FindAll(ctx context.Context) ([]domain.Customer, error) {
	r.logger.Debug("Iniciando FindAll de clientes no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + customerColumns + ` FROM customers ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de clientes.", err)
		return nil, apperror.NewDBError("Falha ao buscar clientes", err)
	}
	defer rows.Close()

	var customers []domain.Customer
	for rows.Next() {
		c, err := scanCustomer(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear cliente em FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear clientes do DB", err)
		}
		customers = append(customers, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de clientes", err)
	}

	r.logger.Debug("FindAll de clientes concluído.", map[string]interface{}{"total": len(customers)})
	return customers, nil
}

// FindByID busca um cliente pelo ID.
func (r *CustomerRepository) FindByID(ctx context.Context, id string) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + customerColumns + ` FROM customers WHERE id = $1`

	c, err := scanCustomer(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Cliente não encontrado.", map[string]interface{}{"id": id})
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao buscar cliente", err)
	}

	return c, nil
}

// Save insere um novo cliente.
func (r *CustomerRepository) Save(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	customer.ID = uuid.NewString()
	now := time.Now().UTC()
	customer.CreatedAt = now
	customer.UpdatedAt = now

	query := `
        INSERT INTO customers (` + customerColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		customer.ID, customer.Name, customer.Phone,
		nullable(customer.Email), nullable(customer.Description), nullableTime(customer.BirthDate),
		customer.CreatedAt, customer.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao criar cliente", err)
	}

	r.logger.Info("Cliente criado com sucesso.", map[string]interface{}{"id": customer.ID, "name": customer.Name})
	return customer, nil
}

// Update atualiza um cliente existente.
func (r *CustomerRepository) Update(ctx context.Context, customer domain.Customer) (domain.Customer, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	customer.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE customers
        SET name = $2, phone = $3, email = $4, description = $5, birth_date = $6, updated_at = $7
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		customer.ID, customer.Name, customer.Phone,
		nullable(customer.Email), nullable(customer.Description), nullableTime(customer.BirthDate),
		customer.UpdatedAt,
	).Scan(&customer.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Cliente não encontrado para atualização.", map[string]interface{}{"id": customer.ID})
		return domain.Customer{}, apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", customer.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar cliente no DB.", err)
		return domain.Customer{}, apperror.NewDBError("Falha ao atualizar cliente", err)
	}

	r.logger.Info("Cliente atualizado com sucesso.", map[string]interface{}{"id": customer.ID})
	return customer, nil
}

// Delete remove um cliente.
func (r *CustomerRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM customers WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return apperror.NewConflictError("O cliente possui agendamentos e não pode ser excluído.")
		}
		r.logger.Error("Falha ao deletar cliente no DB.", err)
		return apperror.NewDBError("Falha ao deletar cliente", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao deletar cliente", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Cliente com ID %s não encontrado.", id))
	}

	r.logger.Info("Cliente deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// nullable converte string vazia em NULL para colunas opcionais.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

// nullableTime converte ponteiro nulo em NULL para colunas de data opcionais.
func nullableTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
