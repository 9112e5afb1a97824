package payment

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// PaymentService define o contrato que o Handler espera da camada de Serviço.
type PaymentService interface {
	GetPayments(ctx context.Context) ([]domain.Payment, error)
	GetPaymentByID(ctx context.Context, id string) (domain.Payment, error)
	CreatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	UpdatePayment(ctx context.Context, payment domain.Payment) (domain.Payment, error)
	DeletePayment(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de pagamentos.
type Handler struct {
	Service PaymentService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc PaymentService, log logger.Logger) *Handler {
	return &Handler{
		Service: svc,
		Logger:  log,
	}
}

// handleServiceResponse processa erros de serviço e envia respostas padronizadas ao cliente.
func (h *Handler) handleServiceResponse(w http.ResponseWriter, r *http.Request, data interface{}, err error, successStatus int) {
	if err == nil {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(successStatus)
		if data != nil {
			if jsonErr := json.NewEncoder(w).Encode(data); jsonErr != nil {
				h.Logger.Error("Falha ao codificar JSON de resposta", jsonErr)
			}
		}
		return
	}

	status, category, message := apperror.MapToHTTPStatus(err)

	if status >= 500 {
		h.Logger.Error(fmt.Sprintf("Erro de Servidor: %s", category), err)
	} else {
		h.Logger.Debug(fmt.Sprintf("Requisição rejeitada com status %d. Categoria: %s", status, category), map[string]interface{}{"path": r.URL.Path})
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(domain.ErrorResponse{Code: status, Category: category, Message: message})
}

// CollectionHandler lida com GET (listagem) e POST (criação) em /v1/payments.
// @Summary Lista ou registra pagamentos
// @Tags payments
// @Accept json
// @Produce json
// @Success 200 {array} domain.Payment "Pagamentos"
// @Success 201 {object} domain.Payment "Pagamento registrado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /payments [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		payments, err := h.Service.GetPayments(r.Context())
		if err == nil && payments == nil {
			payments = []domain.Payment{}
		}
		h.handleServiceResponse(w, r, payments, err, http.StatusOK)
	case http.MethodPost:
		var payment domain.Payment
		if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		created, err := h.Service.CreatePayment(r.Context(), payment)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com GET, PUT e DELETE em /v1/payments/{id}.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/payments/")

	switch r.Method {
	case http.MethodGet:
		payment, err := h.Service.GetPaymentByID(r.Context(), id)
		h.handleServiceResponse(w, r, payment, err, http.StatusOK)
	case http.MethodPut:
		var payment domain.Payment
		if err := json.NewDecoder(r.Body).Decode(&payment); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		payment.ID = id
		updated, err := h.Service.UpdatePayment(r.Context(), payment)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)
	case http.MethodDelete:
		err := h.Service.DeletePayment(r.Context(), id)
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
