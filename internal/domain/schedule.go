package domain

import (
	"context"
	"time"
)

// Schedule representa um agendamento (consulta) de um profissional com um
// cliente. O intervalo ocupado é [StartTime, EndTime): o início pertence ao
// agendamento, o fim não. Invariante: StartTime < EndTime sempre.
type Schedule struct {
	ID             string    `json:"id"`
	Title          string    `json:"title"`
	Description    string    `json:"description,omitempty"`
	Price          float64   `json:"price"`
	StartTime      time.Time `json:"startTime"`
	EndTime        time.Time `json:"endTime"`
	ProfessionalID string    `json:"professionalId"`
	CustomerID     string    `json:"customerId"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// ScheduleRepository define o contrato de persistência para agendamentos.
// FindByProfessional é o oráculo de leitura do motor de disponibilidade.
type ScheduleRepository interface {
	FindByProfessional(ctx context.Context, professionalID string) ([]Schedule, error)
	FindByProfessionalAndPeriod(ctx context.Context, professionalID string, start, end time.Time) ([]Schedule, error)
	Save(ctx context.Context, schedule Schedule) (Schedule, error)
	Update(ctx context.Context, schedule Schedule) (Schedule, error)
	Delete(ctx context.Context, id string) error
}

// ScheduleService define o contrato de lógica de negócio para agendamentos.
type ScheduleService interface {
	GetSchedulesByProfessionalAndDate(ctx context.Context, professionalID string, day string) ([]Schedule, error)
	IsAvailable(ctx context.Context, professionalID string, start, end time.Time, excludeID string) (bool, error)
	CreateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	UpdateSchedule(ctx context.Context, schedule Schedule) (Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}
