package schedule

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"goclinic/internal/domain"
	apperror "goclinic/internal/errors"
	"goclinic/internal/pkg/logger"
)

// ScheduleService define o contrato que o Handler espera da camada de Serviço.
type ScheduleService interface {
	GetSchedulesByProfessionalAndDate(ctx context.Context, professionalID string, day string) ([]domain.Schedule, error)
	CreateSchedule(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	UpdateSchedule(ctx context.Context, schedule domain.Schedule) (domain.Schedule, error)
	DeleteSchedule(ctx context.Context, id string) error
}

// Handler agrupa todos os métodos de Handler de agendamentos.
type Handler struct {
	Service ScheduleService
	Logger  logger.Logger
}

// NewHandler cria uma nova instância do Handler, injetando o Service e o Logger.
func NewHandler(svc ScheduleService, log logger.Logger) *Handler {
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

// scheduleRequest é o payload de criação/atualização de agendamento.
type scheduleRequest struct {
	Title          string  `json:"title"`
	Description    string  `json:"description"`
	Price          float64 `json:"price"`
	StartTime      string  `json:"startTime"`
	EndTime        string  `json:"endTime"`
	ProfessionalID string  `json:"professionalId"`
	CustomerID     string  `json:"customerId"`
}

// toDomain converte o payload em domain.Schedule, validando o formato das datas.
func (req scheduleRequest) toDomain(id string) (domain.Schedule, error) {
	start, err := time.Parse(time.RFC3339, req.StartTime)
	if err != nil {
		return domain.Schedule{}, apperror.NewValidationError("startTime deve estar no formato RFC3339.")
	}
	end, err := time.Parse(time.RFC3339, req.EndTime)
	if err != nil {
		return domain.Schedule{}, apperror.NewValidationError("endTime deve estar no formato RFC3339.")
	}

	return domain.Schedule{
		ID:             id,
		Title:          req.Title,
		Description:    req.Description,
		Price:          req.Price,
		StartTime:      start,
		EndTime:        end,
		ProfessionalID: req.ProfessionalID,
		CustomerID:     req.CustomerID,
	}, nil
}

// CollectionHandler lida com GET (listagem diária) e POST (criação) em /v1/schedules.
// @Summary Lista ou cria agendamentos
// @Description GET lista a agenda de um profissional em um dia; POST cria um agendamento após a checagem de disponibilidade.
// @Tags schedules
// @Accept json
// @Produce json
// @Param professionalId query string false "ID do profissional (GET)"
// @Param date query string false "Dia no formato AAAA-MM-DD (GET)"
// @Success 200 {array} domain.Schedule "Agendamentos do dia"
// @Success 201 {object} domain.Schedule "Agendamento criado"
// @Failure 400 {object} domain.ErrorResponse "Payload inválido"
// @Failure 409 {object} domain.ErrorResponse "Horário indisponível"
// @Security ApiKeyAuth
// @Router /schedules [get]
func (h *Handler) CollectionHandler(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.listByProfessionalAndDate(w, r)
	case http.MethodPost:
		h.create(w, r)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

// ItemHandler lida com PUT (atualização) e DELETE em /v1/schedules/{id}.
func (h *Handler) ItemHandler(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/schedules/")

	switch r.Method {
	case http.MethodPut:
		h.update(w, r, id)
	case http.MethodDelete:
		err := h.Service.DeleteSchedule(r.Context(), id)
		h.handleServiceResponse(w, r, nil, err, http.StatusNoContent)
	default:
		http.Error(w, "Método não permitido", http.StatusMethodNotAllowed)
	}
}

func (h *Handler) listByProfessionalAndDate(w http.ResponseWriter, r *http.Request) {
	professionalID := r.URL.Query().Get("professionalId")
	date := r.URL.Query().Get("date")

	if professionalID == "" || date == "" {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Os parâmetros professionalId e date são obrigatórios."), 0)
		return
	}

	schedules, err := h.Service.GetSchedulesByProfessionalAndDate(r.Context(), professionalID, date)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}
	if schedules == nil {
		schedules = []domain.Schedule{}
	}

	h.handleServiceResponse(w, r, schedules, nil, http.StatusOK)
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	schedule, err := req.toDomain("")
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	created, err := h.Service.CreateSchedule(r.Context(), schedule)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, created, nil, http.StatusCreated)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, id string) {
	var req scheduleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.handleServiceResponse(w, r, nil, apperror.NewValidationError("Payload inválido. Verifique o formato JSON."), 0)
		return
	}

	schedule, err := req.toDomain(id)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	updated, err := h.Service.UpdateSchedule(r.Context(), schedule)
	if err != nil {
		h.handleServiceResponse(w, r, nil, err, 0)
		return
	}

	h.handleServiceResponse(w, r, updated, nil, http.StatusOK)
}
