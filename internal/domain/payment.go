package domain

import (
	"context"
	"time"
)

// PaymentMethod é a forma de pagamento registrada.
type PaymentMethod string

const (
	PaymentCash PaymentMethod = "CASH"
	PaymentCard PaymentMethod = "CARD"
	PaymentPix  PaymentMethod = "PIX"
)

// Payment registra o pagamento de um agendamento. Escrituração pura:
// nenhuma integração com gateway, apenas o histórico financeiro da clínica.
type Payment struct {
	ID         string        `json:"id"`
	Amount     float64       `json:"amount"`
	Method     PaymentMethod `json:"method"`
	Date       time.Time     `json:"date"`
	ScheduleID string        `json:"scheduleId"`
	CreatedAt  time.Time     `json:"created_at"`
	UpdatedAt  time.Time     `json:"updated_at"`
}

// PaymentRepository define o contrato de persistência de pagamentos.
type PaymentRepository interface {
	FindAll(ctx context.Context) ([]Payment, error)
	FindByID(ctx context.Context, id string) (Payment, error)
	Save(ctx context.Context, payment Payment) (Payment, error)
	Update(ctx context.Context, payment Payment) (Payment, error)
	Delete(ctx context.Context, id string) error
}

// PaymentService define o contrato de lógica de negócio de pagamentos.
type PaymentService interface {
	GetPayments(ctx context.Context) ([]Payment, error)
	GetPaymentByID(ctx context.Context, id string) (Payment, error)
	CreatePayment(ctx context.Context, payment Payment) (Payment, error)
	UpdatePayment(ctx context.Context, payment Payment) (Payment, error)
	DeletePayment(ctx context.Context, id string) error
}
