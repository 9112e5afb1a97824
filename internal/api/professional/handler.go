package professional

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

// ProfessionalService define o contrato que o Handler espera da camada de Serviço.
type ProfessionalService interface {
	GetProfessionals(ctx context.Context) ([]domain.Professional, error)
	GetProfessionalByID(ctx context.Context, id string) (domain.Professional, error)
	CreateProfessional(ctx context.Context, professional domain.Professional) (domain.Professional, error)
	UpdateProfessional(ctx context.Context, professional domain.Professional) (domain.Professional, error)
	DeleteProfessional(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de profissionais.
type Handler struct {
	Service ProfessionalService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ProfessionalService, log logger.Logger) *Handler {
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

// CollectionHandler lida com GET (listagem) e POST (criação) em /v1/professionals.
// @Summary Lista ou cria profissionais
// @Tags professionals
// @Accept json
// @Produce json
// @Success 200 {array} domain.Professional "Profissionais"
// @Success 201 {object} domain.Professional "Profissional criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Security ApiKeyAuth
// @Router /professionals [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		professionals, err := h.Service.GetProfessionals(r.Context())
		if err == nil && professionals == nil {
			professionals = []domain.Professional{}
		}
		h.handleServiceResponse(w, r, professionals, err, http.StatusOK)
	case http.MethodPost:
		var professional domain.Professional
		if err := json.NewDecoder(r.Body).Decode(&professional); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		created, err := h.Service.CreateProfessional(r.Context(), professional)
		h.handleServiceResponse(w, r, created, err, http.StatusCreated)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com GET, PUT e DELETE em /v1/professionals/{id}.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/professionals/")

	switch r.Method {
	case http.MethodGet:
		professional, err := h.Service.GetProfessionalByID(r.Context(), id)
		h.handleServiceResponse(w, r, professional, err, http.StatusOK)
	case http.MethodPut:
		var professional domain.Professional
		if err := json.NewDecoder(r.Body).Decode(&professional); err != nil {
			h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
			return
		}
		professional.ID = id
		updated, err := h.Service.UpdateProfessional(r.Context(), professional)
		h.handleServiceResponse(w, r, updated, err, http.StatusOK)
	case http.MethodDelete:
		err := h.Service.DeleteProfessional(r.Context(), id)
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}
