package professionalrepo

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

// foreignKeyViolation (23503): profissional com agendamentos não pode ser excluído.
const foreignKeyViolation = "23503"

// ProfessionalRepository implementa a interface domain.ProfessionalRepository.
type ProfessionalRepository struct {
	DB        *sql.DB
	DBTimeout time.Duration
	logger    logger.Logger
}

// NewProfessionalRepository cria uma nova instância do repositório de profissionais.
func NewProfessionalRepository(db *sql.DB, dbTimeout time.Duration, logger logger.Logger) *ProfessionalRepository {
	return &ProfessionalRepository{
		DB:        db,
		DBTimeout: dbTimeout,
		logger:    logger,
	}
}

const professionalColumns = `id, name, registration, phone, email, created_at, updated_at`

// scanProfessional mapeia uma linha do DB para a struct Professional.
func scanProfessional(row interface{ Scan(...interface{}) error }) (domain.Professional, error) {
	var p domain.Professional
	var phone, email sql.NullString
	err := row.Scan(&p.ID, &p.Name, &p.Registration, &phone, &email, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Professional{}, err
	}
	p.Phone = phone.String
	p.Email = email.String
	return p, nil
}

// FindAll busca todos os profissionais.
func (r *ProfessionalRepository) FindAll(ctx context.Context) ([]domain.Professional, error) {
	r.logger.Debug("Iniciando FindAll de profissionais no repositório.", nil)

	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + professionalColumns + ` FROM professionals ORDER BY name`

	rows, err := r.DB.QueryContext(ctxTimeout, query)
	if err != nil {
		r.logger.Error("Falha ao executar FindAll de profissionais.", err)
		return nil, apperror.NewDBError("Falha ao buscar profissionais", err)
	}
	defer rows.Close()

	var professionals []domain.Professional
	for rows.Next() {
		p, err := scanProfessional(rows)
		if err != nil {
			r.logger.Error("Falha ao mapear profissional em FindAll.", err)
			return nil, apperror.NewDBError("Falha ao mapear profissionais do DB", err)
		}
		professionals = append(professionals, p)
	}
	if err := rows.Err(); err != nil {
		return nil, apperror.NewDBError("Erro após iteração de profissionais", err)
	}

	r.logger.Debug("FindAll de profissionais concluído.", map[string]interface{}{"total": len(professionals)})
	return professionals, nil
}

// FindByID busca um profissional pelo ID.
func (r *ProfessionalRepository) FindByID(ctx context.Context, id string) (domain.Professional, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	query := `SELECT ` + professionalColumns + ` FROM professionals WHERE id = $1`

	p, err := scanProfessional(r.DB.QueryRowContext(ctxTimeout, query, id))
	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Profissional não encontrado.", map[string]interface{}{"id": id})
		return domain.Professional{}, apperror.NewNotFoundError(fmt.Sprintf("Profissional com ID %s não encontrado.", id))
	}
	if err != nil {
		r.logger.Error("Falha ao buscar profissional no DB.", err)
		return domain.Professional{}, apperror.NewDBError("Falha ao buscar profissional", err)
	}

	return p, nil
}

// Save insere um novo profissional.
func (r *ProfessionalRepository) Save(ctx context.Context, professional domain.Professional) (domain.Professional, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	professional.ID = uuid.NewString()
	now := time.Now().UTC()
	professional.CreatedAt = now
	professional.UpdatedAt = now

	query := `
        INSERT INTO professionals (` + professionalColumns + `)
        VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := r.DB.ExecContext(ctxTimeout, query,
		professional.ID, professional.Name, professional.Registration,
		nullable(professional.Phone), nullable(professional.Email),
		professional.CreatedAt, professional.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Falha ao inserir profissional no DB.", err)
		return domain.Professional{}, apperror.NewDBError("Falha ao criar profissional", err)
	}

	r.logger.Info("Profissional criado com sucesso.", map[string]interface{}{"id": professional.ID, "name": professional.Name})
	return professional, nil
}

// Update atualiza um profissional existente.
func (r *ProfessionalRepository) Update(ctx context.Context, professional domain.Professional) (domain.Professional, error) {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	professional.UpdatedAt = time.Now().UTC()

	query := `
        UPDATE professionals
        SET name = $2, registration = $3, phone = $4, email = $5, updated_at = $6
        WHERE id = $1
        RETURNING created_at`

	err := r.DB.QueryRowContext(ctxTimeout, query,
		professional.ID, professional.Name, professional.Registration,
		nullable(professional.Phone), nullable(professional.Email), professional.UpdatedAt,
	).Scan(&professional.CreatedAt)

	if errors.Is(err, sql.ErrNoRows) {
		r.logger.Info("Profissional não encontrado para atualização.", map[string]interface{}{"id": professional.ID})
		return domain.Professional{}, apperror.NewNotFoundError(fmt.Sprintf("Profissional com ID %s não encontrado.", professional.ID))
	}
	if err != nil {
		r.logger.Error("Falha ao atualizar profissional no DB.", err)
		return domain.Professional{}, apperror.NewDBError("Falha ao atualizar profissional", err)
	}

	r.logger.Info("Profissional atualizado com sucesso.", map[string]interface{}{"id": professional.ID})
	return professional, nil
}

// Delete remove um profissional.
func (r *ProfessionalRepository) Delete(ctx context.Context, id string) error {
	ctxTimeout, cancel := context.WithTimeout(ctx, r.DBTimeout)
	defer cancel()

	result, err := r.DB.ExecContext(ctxTimeout, `DELETE FROM professionals WHERE id = $1`, id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && string(pqErr.Code) == foreignKeyViolation {
			return apperror.NewConflictError("O profissional possui agendamentos e não pode ser excluído.")
		}
		r.logger.Error("Falha ao deletar profissional no DB.", err)
		return apperror.NewDBError("Falha ao deletar profissional", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return apperror.NewDBError("Falha ao deletar profissional", err)
	}
	if affected == 0 {
		return apperror.NewNotFoundError(fmt.Sprintf("Profissional com ID %s não encontrado.", id))
	}

	r.logger.Info("Profissional deletado com sucesso.", map[string]interface{}{"id": id})
	return nil
}

// nullable converte string vazia em NULL para colunas opcionais.
func nullable(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
