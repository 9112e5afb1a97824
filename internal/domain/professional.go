package domain

import (
	"context"
	"time"
)

// Professional representa um profissional da clínica (quem atende).
// Registration é o número de registro profissional (ex: CRM, CRO).
type Professional struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Registration string    `json:"registration"`
	Phone        string    `json:"phone,omitempty"`
	Email        string    `json:"email,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// ProfessionalRepository define o contrato de persistência de profissionais.
type ProfessionalRepository interface {
	FindAll(ctx context.Context) ([]Professional, error)
	FindByID(ctx context.Context, id string) (Professional, error)
	Save(ctx context.Context, professional Professional) (Professional, error)
	Update(ctx context.Context, professional Professional) (Professional, error)
	Delete(ctx context.Context, id string) error
}

// ProfessionalService define o contrato de lógica de negócio de profissionais.
type ProfessionalService interface {
	GetProfessionals(ctx context.Context) ([]Professional, error)
	GetProfessionalByID(ctx context.Context, id string) (Professional, error)
	CreateProfessional(ctx context.Context, professional Professional) (Professional, error)
	UpdateProfessional(ctx context.Context, professional Professional) (Professional, error)
	DeleteProfessional(ctx context.Context, id string) error
}
